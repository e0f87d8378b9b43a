package storage

import (
	"class-detail/errors"
	"database/sql"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteAssetRepository is the pure-Go alternative to the Badger store,
// for hosts where a single database file is easier to ship around.
type SQLiteAssetRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenSQLiteAssetRepository opens (or creates) the asset table at path.
// ":memory:" gives a private in-memory database.
func OpenSQLiteAssetRepository(path string, log *slog.Logger) (*SQLiteAssetRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every connection to ":memory:" is its own database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS assets (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &SQLiteAssetRepository{db: db, log: log}, nil
}

func (s *SQLiteAssetRepository) Put(key string, payload []byte) error {
	if key == "" {
		return fmt.Errorf("empty cache key")
	}
	if payload == nil {
		payload = []byte{}
	}
	_, err := s.db.Exec(`
		INSERT INTO assets (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		key, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store asset %s: %w", key, err)
	}
	s.log.Debug("Asset stored", "key", key, "size", len(payload))
	return nil
}

func (s *SQLiteAssetRepository) Get(key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM assets WHERE key = ?`, key).Scan(&payload)
	if stdErrors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", errors.ErrCacheMiss, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", key, err)
	}
	return payload, nil
}

func (s *SQLiteAssetRepository) Entries() ([]AssetEntry, error) {
	rows, err := s.db.Query(`SELECT key, length(payload) FROM assets ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("error during asset scan: %w", err)
	}
	defer rows.Close()

	var entries []AssetEntry
	for rows.Next() {
		var e AssetEntry
		if err := rows.Scan(&e.Key, &e.Size); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteAssetRepository) Close() error {
	return s.db.Close()
}
