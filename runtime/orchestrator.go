package runtime

import (
	"class-detail/contract"
	"class-detail/domain"
	"class-detail/domain/catalog"
	"class-detail/errors"
	"class-detail/projection"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Phase int

const (
	Idle Phase = iota
	Classifying
	BulkFetching
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case Classifying:
		return "Classifying"
	case BulkFetching:
		return "BulkFetching"
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

func (p Phase) busy() bool {
	return p == Classifying || p == BulkFetching
}

// Orchestrator drives the refresh cycle of one class detail screen:
// classify the section content, fetch every category concurrently, then
// publish the merged state. Readers only ever see a complete state.
type Orchestrator struct {
	mu    sync.RWMutex
	phase Phase
	state *projection.ViewState // last Ready state, nil before the first one

	log       *slog.Logger
	validator *validator.Validate
	auth      contract.Authenticator
	client    contract.ContentClient
	catalog   *catalog.Catalog
	fetcher   *ContentFetcher
	notifier  contract.Notifier
	assets    contract.AssetCacher // optional
}

func NewOrchestrator(
	log *slog.Logger,
	auth contract.Authenticator,
	client contract.ContentClient,
	catalog *catalog.Catalog,
	fetcher *ContentFetcher,
	notifier contract.Notifier,
	assets contract.AssetCacher,
) *Orchestrator {
	return &Orchestrator{
		phase:     Idle,
		log:       log,
		validator: validator.New(),
		auth:      auth,
		client:    client,
		catalog:   catalog,
		fetcher:   fetcher,
		notifier:  notifier,
		assets:    assets,
	}
}

func (o *Orchestrator) Phase() Phase {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.phase
}

// Snapshot returns a copy of the last Ready state.
// The boolean is false when no refresh has completed yet.
func (o *Orchestrator) Snapshot() (projection.ViewState, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.state == nil {
		return projection.ViewState{}, false
	}
	return o.state.Clone(), true
}

// ShowMore expands a category of the current state.
// The flag does not survive the next refresh.
func (o *Orchestrator) ShowMore(category domain.Category) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == nil {
		return false
	}
	return o.state.ExpandRows(category)
}

// Refresh runs one full cycle for the section.
//
// A refresh while another one is classifying or fetching is rejected with
// errors.ErrBusy. Without a session it returns errors.ErrAuthRequired and does
// no network activity. A classification failure keeps the previous state and
// returns errors.ErrClassificationFailed; category failures only drop the
// category. A cancelled ctx leaves the previous state published and the phase
// Failed, without notification. Asset caching runs alongside and never
// affects the returned error.
func (o *Orchestrator) Refresh(ctx context.Context, summary domain.SectionSummary) error {
	if err := o.validator.Struct(summary); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidSection, err)
	}

	o.mu.Lock()
	if o.phase.busy() {
		o.mu.Unlock()
		return errors.ErrBusy
	}
	previous := o.phase
	o.phase = Classifying
	o.mu.Unlock()

	if !o.auth.EnsureAuthenticated(ctx) {
		o.setPhase(previous)
		o.log.Info("Refresh skipped, no authenticated session", "section", summary.SectionID)
		return errors.ErrAuthRequired
	}

	cycleID := uuid.New()
	log := o.log.With("cycle", cycleID.String(), "section", summary.SectionID)
	start := time.Now()

	var assets sync.WaitGroup
	if o.assets != nil {
		assets.Add(1)
		go func() {
			defer assets.Done()
			o.cacheAssets(ctx, log, summary)
		}()
	}
	defer assets.Wait()

	state, err := o.classify(ctx, summary)
	if err != nil {
		o.setPhase(Failed)
		log.Error("Classification failed", "error", err)
		o.notifier.PresentError(err.Error())
		return fmt.Errorf("%w: %v", errors.ErrClassificationFailed, err)
	}

	if err := ctx.Err(); err != nil {
		o.setPhase(Failed)
		log.Info("Refresh cancelled after classification")
		return err
	}

	o.setPhase(BulkFetching)
	if err := o.bulkFetch(ctx, log, summary.SectionID, state); err != nil {
		o.setPhase(Failed)
		log.Info("Refresh cancelled during bulk fetch")
		return err
	}

	o.mu.Lock()
	o.state = state
	o.phase = Ready
	o.mu.Unlock()

	log.Info("Refresh completed",
		"categories", len(state.Sections),
		"elapsed", time.Since(start))
	return nil
}

// classify lists the possible content and seeds a fresh state from it.
func (o *Orchestrator) classify(ctx context.Context, summary domain.SectionSummary) (*projection.ViewState, error) {
	descriptors, err := o.client.PossibleContent(ctx, summary.SectionID)
	if err != nil {
		return nil, err
	}

	categories, overrides := o.catalog.Resolve(descriptors)
	categories = lo.Without(categories, domain.Photo)

	return projection.NewViewState(summary, categories, overrides), nil
}

// bulkFetch waits for every category, then applies the results in a single
// writer: rows are set, empty and failed categories are dropped.
// When ctx ends during the fetch nothing is applied and ctx.Err() is returned.
func (o *Orchestrator) bulkFetch(ctx context.Context, log *slog.Logger, sectionID string, state *projection.ViewState) error {
	toFetch := lo.Without(state.Categories(), domain.Basic)
	if len(toFetch) == 0 {
		return nil
	}

	results := o.fetcher.FetchAll(ctx, toFetch, sectionID)
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, r := range results {
		switch {
		case r.Err != nil:
			state.Remove(r.Category)
			o.notifier.PresentError(r.Err.Error())
		case len(r.Rows) == 0:
			state.Remove(r.Category)
			log.Debug("Empty category dropped", "category", r.Category)
		default:
			state.SetRows(r.Category, r.Rows)
		}
	}
	return nil
}

func (o *Orchestrator) cacheAssets(ctx context.Context, log *slog.Logger, summary domain.SectionSummary) {
	var wg sync.WaitGroup
	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				log.Warn("Asset caching failed", "asset", name, "error", err)
				if ctx.Err() == nil {
					o.notifier.PresentError(err.Error())
				}
			}
		}()
	}

	if summary.PhotoURL != "" {
		run("profile", func() error {
			return o.assets.CacheProfilePhoto(ctx, summary.SectionID, summary.PhotoURL)
		})
	}
	run("syllabus", func() error {
		return o.assets.CacheSyllabus(ctx, summary.SectionID)
	})
	wg.Wait()
}

func (o *Orchestrator) setPhase(p Phase) {
	o.mu.Lock()
	o.phase = p
	o.mu.Unlock()
}
