package services

import (
	"class-detail/contract"
	"class-detail/domain"
	"class-detail/errors"
	"class-detail/infrastructure/storage"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
)

type IAssetService interface {
	contract.AssetCacher
	LoadSyllabus(sectionID string) ([]domain.SyllabusEntry, error)
	LoadProfilePhoto(sectionID string) ([]byte, string, error)
}

// AssetService keeps the offline copies of a section: its profile photo and
// a snapshot of its syllabus. Every fetch overwrites the previous copy.
type AssetService struct {
	log    *slog.Logger
	client contract.ContentClient
	cache  contract.Cache
}

func NewAssetService(log *slog.Logger, client contract.ContentClient, cache contract.Cache) *AssetService {
	return &AssetService{
		log:    log,
		client: client,
		cache:  cache,
	}
}

func (s *AssetService) CacheProfilePhoto(ctx context.Context, sectionID, photoURL string) error {
	payload, err := s.client.Download(ctx, photoURL)
	if err != nil {
		return fmt.Errorf("profile photo download: %w", err)
	}

	mime := mimetype.Detect(payload).String()
	if !strings.HasPrefix(mime, "image/") {
		return fmt.Errorf("%w: got %s", errors.ErrNotAnImage, mime)
	}

	if err := s.cache.Put(domain.ProfileKey(sectionID), payload); err != nil {
		return fmt.Errorf("profile photo cache: %w", err)
	}
	s.log.Debug("Profile photo cached", "section", sectionID, "mime", mime, "size", len(payload))
	return nil
}

func (s *AssetService) CacheSyllabus(ctx context.Context, sectionID string) error {
	items, err := s.client.Syllabus(ctx, sectionID)
	if err != nil {
		return fmt.Errorf("syllabus fetch: %w", err)
	}

	entries := lo.Map(items, func(item domain.ContentItem, _ int) domain.SyllabusEntry {
		return domain.ToSyllabusEntry(item)
	})
	data, err := storage.EncodeSyllabus(entries)
	if err != nil {
		return err
	}

	if err := s.cache.Put(domain.SyllabusKey(sectionID), data); err != nil {
		return fmt.Errorf("syllabus cache: %w", err)
	}
	s.log.Debug("Syllabus snapshot cached", "section", sectionID, "entries", len(entries))
	return nil
}

// LoadSyllabus returns the last cached snapshot, errors.ErrCacheMiss when none.
func (s *AssetService) LoadSyllabus(sectionID string) ([]domain.SyllabusEntry, error) {
	data, err := s.cache.Get(domain.SyllabusKey(sectionID))
	if err != nil {
		return nil, err
	}
	return storage.DecodeSyllabus(data)
}

// LoadProfilePhoto returns the cached photo and its detected MIME type.
func (s *AssetService) LoadProfilePhoto(sectionID string) ([]byte, string, error) {
	payload, err := s.cache.Get(domain.ProfileKey(sectionID))
	if err != nil {
		return nil, "", err
	}
	return payload, mimetype.Detect(payload).String(), nil
}
