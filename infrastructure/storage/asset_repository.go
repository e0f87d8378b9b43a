package storage

import (
	"class-detail/errors"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const assetPrefix = "asset:"

// AssetEntry describes one cached payload without loading it.
type AssetEntry struct {
	Key  string
	Size int64
}

type IAssetRepository interface {
	Put(key string, payload []byte) error
	Get(key string) ([]byte, error)
	Entries() ([]AssetEntry, error)
}

// AssetRepository stores cached assets in BadgerDB.
// Keys are stored as "asset:{key}"; a Put always replaces the previous payload.
type AssetRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewAssetRepository(db *badger.DB, log *slog.Logger) *AssetRepository {
	return &AssetRepository{
		db:  db,
		log: log,
	}
}

func (a AssetRepository) Put(key string, payload []byte) error {
	if key == "" {
		return fmt.Errorf("empty cache key")
	}
	err := a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(assetPrefix+key), payload)
	})
	if err != nil {
		return fmt.Errorf("failed to store asset %s: %w", key, err)
	}
	a.log.Debug("Asset stored", "key", key, "size", len(payload))
	return nil
}

func (a AssetRepository) Get(key string) ([]byte, error) {
	var payload []byte
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(assetPrefix + key))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if stdErrors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", errors.ErrCacheMiss, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", key, err)
	}
	return payload, nil
}

// Entries lists every cached asset in key order using a key-only iteration.
func (a AssetRepository) Entries() ([]AssetEntry, error) {
	var entries []AssetEntry
	prefix := []byte(assetPrefix)

	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			entries = append(entries, AssetEntry{
				Key:  strings.TrimPrefix(string(item.Key()), assetPrefix),
				Size: item.ValueSize(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during asset scan: %w", err)
	}
	return entries, nil
}
