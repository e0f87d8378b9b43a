package main

import (
	"class-detail/infrastructure/storage"
	"class-detail/internal"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

type Config struct {
	CacheDriver    string `envconfig:"CACHE_DRIVER" default:"badger"`
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"./data/badger"`
	SQLiteFilepath string `envconfig:"SQLITE_FILEPATH" default:"./data/cache.db"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"WARN"`
	DebugPort      int    `envconfig:"DEBUG_PORT" default:"8081"`
}

func main() {
	code, err := run(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run lists or serves the cache content. The cache is closed before returning.
func run(args []string, out io.Writer) (int, error) {
	flags := flag.NewFlagSet("inspect", flag.ContinueOnError)
	prefix := flags.String("prefix", "", "Key prefix to list (e.g. attachment_)")
	serve := flags.Bool("serve", false, "Serve the inspector page instead of printing a table")
	if err := flags.Parse(args); err != nil {
		return exitConfig, err
	}

	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if cfg.CacheDriver != internal.CacheDriverBadger && cfg.CacheDriver != internal.CacheDriverSQLite {
		return exitConfig, fmt.Errorf("unknown cache driver %q", cfg.CacheDriver)
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	repo, closeRepo, err := openReadOnly(cfg, log)
	if err != nil {
		return exitRuntime, fmt.Errorf("error while opening the cache: %w", err)
	}
	defer closeRepo()

	if *serve {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := internal.StartDebugServer(log, repo, cfg.CacheDriver, cfg.DebugPort, "/inspect")
		_, _ = fmt.Fprintf(out, "Inspector started at http://localhost:%d/inspect\n", cfg.DebugPort)
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			return exitRuntime, err
		}
		return exitOK, nil
	}

	entries, err := repo.Entries()
	if err != nil {
		return exitRuntime, fmt.Errorf("listing entries: %w", err)
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Key", "Kind", "Section", "Mime", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, e := range entries {
		if !strings.HasPrefix(e.Key, *prefix) {
			continue
		}
		payload, err := repo.Get(e.Key)
		if err != nil {
			log.Warn("Error reading key", "key", e.Key, "error", err)
			continue
		}
		row := internal.MapEntry(e.Key, payload)
		table.Append([]string{row.Key, row.Kind, row.Section, row.Mime, row.Detail})
	}
	table.Render()
	_, _ = fmt.Fprintf(out, "%d cached assets\n", len(entries))
	return exitOK, nil
}

// openReadOnly never takes the lock of a running refresh.
func openReadOnly(cfg Config, log *slog.Logger) (storage.IAssetRepository, func(), error) {
	switch cfg.CacheDriver {
	case internal.CacheDriverSQLite:
		repo, err := storage.OpenSQLiteAssetRepository(cfg.SQLiteFilepath, log)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case internal.CacheDriverBadger:
		opts := badger.DefaultOptions(cfg.BadgerFilepath).
			WithReadOnly(true).
			WithBypassLockGuard(true).
			WithLoggingLevel(badger.WARNING)
		db, err := badger.Open(opts)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewAssetRepository(db, log), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.CacheDriver)
	}
}
