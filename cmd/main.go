package main

import (
	"class-detail/auth"
	"class-detail/domain"
	"class-detail/domain/catalog"
	"class-detail/infrastructure/api"
	"class-detail/infrastructure/storage"
	"class-detail/internal"
	"class-detail/runtime"
	"class-detail/services"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or a calling script.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "classdetail terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run performs one refresh cycle of a section and renders the result.
// Deferred cleanups always execute before the exit code reaches main.
func run() (int, error) {
	open := flag.String("open", "", "Open the target of a row after the refresh, as Category:index (e.g. Download:0)")
	downloadDir := flag.String("downloads", "./downloads", "Directory where opened attachments are written")
	flag.Parse()

	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Static classification table, a broken one is a packaging defect
	cat, err := catalog.Default()
	if err != nil {
		return exitConfig, fmt.Errorf("category catalog: %w", err)
	}

	// 3. Cache
	cache, closeCache, err := openCache(config, log)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		log.Debug("Closing cache...", "driver", config.CacheDriver)
		_ = closeCache()
	}()

	// 4. Collaborators
	client, err := api.NewClient(log, config.APIBaseURL, config.RequestTimeout,
		api.WithSessionToken(config.SessionToken))
	if err != nil {
		return exitConfig, err
	}
	authenticator := auth.NewSessionAuthenticator(log, config.SessionToken)
	notifier := NewTerminalNotifier(os.Stderr)
	assets := services.NewAssetService(log, client, cache)
	fetcher := runtime.NewContentFetcher(log, client, config.CategoryFetchTimeout)
	orchestrator := runtime.NewOrchestrator(log, authenticator, client, cat, fetcher, notifier, assets)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary := domain.SectionSummary{
		SectionID:   config.SectionID,
		TeacherName: config.SectionTeacher,
		RoomNumber:  config.SectionRoom,
		PhotoURL:    config.SectionPhotoURL,
	}

	// 6. One refresh cycle
	if err := orchestrator.Refresh(ctx, summary); err != nil {
		return exitRuntime, fmt.Errorf("refresh failed: %w", err)
	}
	state, _ := orchestrator.Snapshot()
	Render(os.Stdout, state)

	if syllabus, err := assets.LoadSyllabus(summary.SectionID); err == nil {
		log.Info("Syllabus snapshot available offline", "entries", len(syllabus))
	}

	// 7. Optional row opening
	if *open == "" {
		return exitOK, nil
	}
	category, index, err := ParseRowRef(*open)
	if err != nil {
		return exitConfig, err
	}
	row, ok := state.Row(category, index)
	if !ok {
		return exitRuntime, fmt.Errorf("no row %s", *open)
	}

	opener := NewDiskOpener(*downloadDir, os.Stdout)
	attachments := services.NewAttachmentService(log, authenticator, client, cache, opener, notifier, config.DownloadsPerMinute)
	if err := attachments.Open(ctx, row); err != nil {
		return exitRuntime, err
	}

	return exitOK, nil
}

func openCache(config internal.Config, log *slog.Logger) (storage.IAssetRepository, func() error, error) {
	switch config.CacheDriver {
	case internal.CacheDriverSQLite:
		repo, err := storage.OpenSQLiteAssetRepository(config.SQLiteFilepath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite opening failed: %w", err)
		}
		return repo, repo.Close, nil
	case internal.CacheDriverBadger:
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return nil, nil, fmt.Errorf("database opening failed: %w", err)
		}
		return storage.NewAssetRepository(db, log), db.Close, nil
	default:
		return nil, nil, errors.New("unknown cache driver " + config.CacheDriver)
	}
}
