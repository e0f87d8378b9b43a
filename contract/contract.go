//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"class-detail/domain"
	"context"
)

// Authenticator guards every network phase.
// False means "no session", which is not an error worth a dialog.
type Authenticator interface {
	EnsureAuthenticated(ctx context.Context) bool
}

// ContentClient talks to the remote school API.
type ContentClient interface {
	PossibleContent(ctx context.Context, sectionID string) ([]domain.ContentDescriptor, error)
	CategoryContent(ctx context.Context, category domain.Category, sectionID string) ([]domain.ContentItem, error)
	Syllabus(ctx context.Context, sectionID string) ([]domain.ContentItem, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Notifier shows fire-and-forget messages to the user.
type Notifier interface {
	PresentError(message string)
	PresentInfo(message string)
}

type CacheWriter interface {
	Put(key string, payload []byte) error
}

type CacheReader interface {
	// Get returns errors.ErrCacheMiss when nothing is stored under key.
	Get(key string) ([]byte, error)
}

type Cache interface {
	CacheWriter
	CacheReader
}

// AssetCacher persists the offline copies of a section.
type AssetCacher interface {
	CacheProfilePhoto(ctx context.Context, sectionID, photoURL string) error
	CacheSyllabus(ctx context.Context, sectionID string) error
}

// Opener hands content to whatever previews files or links.
type Opener interface {
	OpenURL(ctx context.Context, url string) error
	OpenFile(ctx context.Context, fileName string, payload []byte) error
}
