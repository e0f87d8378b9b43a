package runtime

import (
	"class-detail/domain"
	"class-detail/errors"
	"class-detail/mocks"
	"context"
	stdErrors "errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestContentFetcher_FetchCategory(t *testing.T) {
	tests := []struct {
		name     string
		category domain.Category
		items    []domain.ContentItem
		err      error
		wantRows int
		wantErr  error
	}{
		{
			name:     "Announcements projected into rows",
			category: domain.Announcement,
			items: []domain.ContentItem{
				{"Name": "Field trip", "Description": "Bring lunch"},
				{"Name": "Quiz", "Description": "Chapter 4"},
			},
			wantRows: 2,
		},
		{
			name:     "Empty category is not a failure",
			category: domain.Link,
			items:    []domain.ContentItem{},
			wantRows: 0,
		},
		{
			name:     "Transport failure",
			category: domain.Text,
			err:      stdErrors.New("connection reset"),
			wantErr:  errors.ErrCategoryFetchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			client := mocks.NewMockContentClient(ctrl)
			client.EXPECT().
				CategoryContent(gomock.Any(), tt.category, "8812").
				Return(tt.items, tt.err)

			fetcher := NewContentFetcher(discardLogger(), client, time.Second)
			rows, err := fetcher.FetchCategory(context.Background(), tt.category, "8812")

			if tt.wantErr != nil {
				req.ErrorIs(err, tt.wantErr)
				req.Contains(err.Error(), string(tt.category))
				return
			}
			req.NoError(err)
			req.Len(rows, tt.wantRows)
		})
	}
}

func TestContentFetcher_FetchCategory_UsesLayout(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	client := mocks.NewMockContentClient(ctrl)
	client.EXPECT().
		CategoryContent(gomock.Any(), domain.Download, "8812").
		Return([]domain.ContentItem{{
			"Description":     "Lab safety",
			"LongDescription": "Read before Monday",
			"FileName":        "safety.pdf",
		}}, nil)

	rows, err := NewContentFetcher(discardLogger(), client, 0).
		FetchCategory(context.Background(), domain.Download, "8812")

	req.NoError(err)
	req.Len(rows, 1)
	req.Equal("Lab safety", rows[0].Title)
	req.Equal("Read before Monday", rows[0].Body)
	req.NotNil(rows[0].AttachmentFileName)
	req.Equal("safety.pdf", *rows[0].AttachmentFileName)
}

func TestContentFetcher_FetchCategory_RejectsUnfetchable(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockContentClient(ctrl)

	fetcher := NewContentFetcher(discardLogger(), client, time.Second)
	for _, c := range []domain.Category{domain.Basic, domain.Photo} {
		_, err := fetcher.FetchCategory(context.Background(), c, "8812")
		require.ErrorIs(t, err, errors.ErrCategoryFetchFailed)
	}
}

func TestContentFetcher_FetchCategory_AppliesTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockContentClient(ctrl)
	client.EXPECT().
		CategoryContent(gomock.Any(), domain.Text, "8812").
		DoAndReturn(func(ctx context.Context, _ domain.Category, _ string) ([]domain.ContentItem, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	_, err := NewContentFetcher(discardLogger(), client, 20*time.Millisecond).
		FetchCategory(context.Background(), domain.Text, "8812")

	require.ErrorIs(t, err, errors.ErrCategoryFetchFailed)
}

func TestContentFetcher_FetchAll_PartialFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	client := mocks.NewMockContentClient(ctrl)

	client.EXPECT().
		CategoryContent(gomock.Any(), domain.Link, "8812").
		Return(nil, stdErrors.New("500"))
	client.EXPECT().
		CategoryContent(gomock.Any(), domain.Text, "8812").
		Return([]domain.ContentItem{{"Description": "Welcome", "LongText": "Hello class"}}, nil)
	client.EXPECT().
		CategoryContent(gomock.Any(), domain.Expectation, "8812").
		Return([]domain.ContentItem{}, nil)

	categories := []domain.Category{domain.Link, domain.Text, domain.Expectation}
	results := NewContentFetcher(discardLogger(), client, time.Second).
		FetchAll(context.Background(), categories, "8812")

	req.Len(results, 3)
	for i, c := range categories {
		req.Equal(c, results[i].Category)
	}
	req.ErrorIs(results[0].Err, errors.ErrCategoryFetchFailed)
	req.NoError(results[1].Err)
	req.Len(results[1].Rows, 1)
	req.NoError(results[2].Err)
	req.Empty(results[2].Rows)
}

func TestContentFetcher_FetchAll_RunsConcurrently(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	client := mocks.NewMockContentClient(ctrl)

	categories := []domain.Category{domain.Link, domain.Text, domain.Announcement, domain.Download}

	// Every call blocks until all of them have started.
	var started sync.WaitGroup
	started.Add(len(categories))
	release := make(chan struct{})
	go func() {
		started.Wait()
		close(release)
	}()

	client.EXPECT().
		CategoryContent(gomock.Any(), gomock.Any(), "8812").
		DoAndReturn(func(ctx context.Context, _ domain.Category, _ string) ([]domain.ContentItem, error) {
			started.Done()
			select {
			case <-release:
				return []domain.ContentItem{{"Name": "x", "Description": "y"}}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}).
		Times(len(categories))

	results := NewContentFetcher(discardLogger(), client, 2*time.Second).
		FetchAll(context.Background(), categories, "8812")

	for _, r := range results {
		req.NoError(r.Err, "category %s", r.Category)
	}
}

func TestContentFetcher_FetchAll_NoCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockContentClient(ctrl)

	results := NewContentFetcher(discardLogger(), client, time.Second).
		FetchAll(context.Background(), nil, "8812")

	require.Empty(t, results)
}
