// Package catalog translates the opaque content ids of the school API into
// category names and resolves which categories a section exposes.
package catalog

import (
	"bytes"
	"class-detail/domain"
	"class-detail/errors"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed group_possible_content.json
var groupPossibleContent []byte

// Entry is one row of the static classification table.
type Entry struct {
	ContentID    int    `json:"ContentId"`
	CategoryName string `json:"Content"`
}

// Catalog is immutable once loaded.
type Catalog struct {
	byID map[int]domain.Category
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default parses the bundled table once per process.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(groupPossibleContent)
	})
	return defaultCatalog, defaultErr
}

// Load builds a Catalog from a JSON array of {ContentId, Content} pairs.
func Load(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.ErrResourceMissing
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrResourceMalformed, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty table", errors.ErrResourceMalformed)
	}

	byID := make(map[int]domain.Category, len(entries))
	for _, e := range entries {
		category := domain.Category(e.CategoryName)
		if !category.IsKnown() || category == domain.Basic {
			return nil, fmt.Errorf("%w: unknown category %q for content id %d",
				errors.ErrResourceMalformed, e.CategoryName, e.ContentID)
		}
		if _, dup := byID[e.ContentID]; dup {
			return nil, fmt.Errorf("%w: duplicate content id %d", errors.ErrResourceMalformed, e.ContentID)
		}
		byID[e.ContentID] = category
	}
	return &Catalog{byID: byID}, nil
}

func (c *Catalog) Lookup(contentID int) (domain.Category, bool) {
	category, ok := c.byID[contentID]
	return category, ok
}

func (c *Catalog) Len() int {
	return len(c.byID)
}
