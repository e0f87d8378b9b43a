package runtime

import (
	"class-detail/contract"
	"class-detail/domain"
	"class-detail/errors"
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// FetchResult is the outcome of one category fetch.
// Rows is empty and Err nil when the category simply has no content.
type FetchResult struct {
	Category domain.Category
	Rows     []domain.ContentRow
	Err      error
}

type ContentFetcher struct {
	log     *slog.Logger
	client  contract.ContentClient
	timeout time.Duration
}

// NewContentFetcher builds a fetcher; timeout bounds each category call, zero disables it.
func NewContentFetcher(log *slog.Logger, client contract.ContentClient, timeout time.Duration) *ContentFetcher {
	return &ContentFetcher{
		log:     log,
		client:  client,
		timeout: timeout,
	}
}

// FetchCategory performs one round trip and projects the items into rows.
func (f *ContentFetcher) FetchCategory(ctx context.Context, category domain.Category, sectionID string) ([]domain.ContentRow, error) {
	layout, ok := domain.LayoutOf(category)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a fetchable category", errors.ErrCategoryFetchFailed, category)
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	items, err := f.client.CategoryContent(ctx, category, sectionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrCategoryFetchFailed, category, err)
	}

	rows := make([]domain.ContentRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, layout.ToRow(item))
	}
	return rows, nil
}

// FetchAll runs one goroutine per category and returns once all of them are done.
// Results keep the order of categories. A failing category never cancels its
// siblings: every goroutine reports through its own slot and returns nil.
func (f *ContentFetcher) FetchAll(ctx context.Context, categories []domain.Category, sectionID string) []FetchResult {
	results := make([]FetchResult, len(categories))

	var g errgroup.Group
	for i, category := range categories {
		g.Go(func() error {
			start := time.Now()
			rows, err := f.FetchCategory(ctx, category, sectionID)
			results[i] = FetchResult{Category: category, Rows: rows, Err: err}

			if err != nil {
				f.log.Warn("Category fetch failed", "category", category, "section", sectionID, "error", err)
			} else {
				f.log.Debug("Category fetched", "category", category, "rows", len(rows), "elapsed", time.Since(start))
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
