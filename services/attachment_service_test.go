package services

import (
	"class-detail/domain"
	"class-detail/errors"
	"class-detail/mocks"
	"context"
	stdErrors "errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type attachmentMocks struct {
	auth     *mocks.MockAuthenticator
	client   *mocks.MockContentClient
	opener   *mocks.MockOpener
	notifier *mocks.MockNotifier
}

func newTestAttachmentService(t *testing.T) (*AttachmentService, attachmentMocks, *mocks.MockCache) {
	ctrl := gomock.NewController(t)
	m := attachmentMocks{
		auth:     mocks.NewMockAuthenticator(ctrl),
		client:   mocks.NewMockContentClient(ctrl),
		opener:   mocks.NewMockOpener(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
	}
	cache := mocks.NewMockCache(ctrl)
	svc := NewAttachmentService(discardLogger(), m.auth, m.client, cache, m.opener, m.notifier, 0)
	return svc, m, cache
}

func TestAttachmentService_OpenURL(t *testing.T) {
	svc, m, _ := newTestAttachmentService(t)
	row := domain.ContentRow{Title: "Khan Academy", URL: lo.ToPtr("https://www.khanacademy.org")}

	m.opener.EXPECT().OpenURL(gomock.Any(), "https://www.khanacademy.org").Return(nil)

	require.NoError(t, svc.Open(context.Background(), row))
}

func TestAttachmentService_NoAttachment(t *testing.T) {
	tests := []struct {
		name string
		row  domain.ContentRow
	}{
		{"Missing file name", domain.ContentRow{Title: "Notes"}},
		{"Empty file name", domain.ContentRow{Title: "Notes", AttachmentFileName: lo.ToPtr("")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, _ := newTestAttachmentService(t)
			m.notifier.EXPECT().PresentInfo("There is no attachment.")

			require.ErrorIs(t, svc.Open(context.Background(), tt.row), errors.ErrNoAttachment)
		})
	}
}

func TestAttachmentService_OpensCachedCopyWithoutNetwork(t *testing.T) {
	svc, m, cache := newTestAttachmentService(t)
	row := domain.ContentRow{Title: "Syllabus", AttachmentFileName: lo.ToPtr("syllabus.pdf")}

	cache.EXPECT().Get("attachment_syllabus.pdf").Return([]byte("%PDF-1.4"), nil)
	m.opener.EXPECT().OpenFile(gomock.Any(), "syllabus.pdf", []byte("%PDF-1.4")).Return(nil)

	require.NoError(t, svc.Open(context.Background(), row))
}

func TestAttachmentService_DownloadsThenCaches(t *testing.T) {
	tests := []struct {
		name    string
		row     domain.ContentRow
		wantURL string
	}{
		{
			name: "Direct download path",
			row: domain.ContentRow{
				AttachmentFileName:    lo.ToPtr("lab.docx"),
				AttachmentQueryString: lo.ToPtr("fid=1"),
				DirectDownloadURL:     lo.ToPtr("/ftpimages/lab.docx"),
			},
			wantURL: "/ftpimages/lab.docx",
		},
		{
			name: "Query string endpoint",
			row: domain.ContentRow{
				AttachmentFileName:    lo.ToPtr("lab.docx"),
				AttachmentQueryString: lo.ToPtr("fid=1&sid=8812"),
			},
			wantURL: "/app/utilities/FileDownload.ashx?fid=1&sid=8812",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, cache := newTestAttachmentService(t)
			payload := []byte("PK\x03\x04")

			cache.EXPECT().Get("attachment_lab.docx").Return(nil, errors.ErrCacheMiss)
			m.auth.EXPECT().EnsureAuthenticated(gomock.Any()).Return(true)
			m.client.EXPECT().Download(gomock.Any(), tt.wantURL).Return(payload, nil)
			cache.EXPECT().Put("attachment_lab.docx", payload).Return(nil)
			m.opener.EXPECT().OpenFile(gomock.Any(), "lab.docx", payload).Return(nil)

			require.NoError(t, svc.Open(context.Background(), tt.row))
		})
	}
}

func TestAttachmentService_DownloadFailureHintsConnectivity(t *testing.T) {
	req := require.New(t)
	svc, m, cache := newTestAttachmentService(t)
	row := domain.ContentRow{AttachmentFileName: lo.ToPtr("lab.docx"), AttachmentQueryString: lo.ToPtr("fid=1")}

	cache.EXPECT().Get(gomock.Any()).Return(nil, errors.ErrCacheMiss)
	m.auth.EXPECT().EnsureAuthenticated(gomock.Any()).Return(true)
	m.client.EXPECT().Download(gomock.Any(), gomock.Any()).Return(nil, stdErrors.New("request timed out"))
	m.notifier.EXPECT().PresentError("request timed out Please check your internet connection.")

	err := svc.Open(context.Background(), row)
	req.ErrorContains(err, "request timed out")
}

func TestAttachmentService_CacheWriteFailureStillOpens(t *testing.T) {
	svc, m, cache := newTestAttachmentService(t)
	row := domain.ContentRow{AttachmentFileName: lo.ToPtr("lab.docx"), AttachmentQueryString: lo.ToPtr("fid=1")}
	payload := []byte("PK\x03\x04")

	cache.EXPECT().Get("attachment_lab.docx").Return(nil, errors.ErrCacheMiss)
	m.auth.EXPECT().EnsureAuthenticated(gomock.Any()).Return(true)
	m.client.EXPECT().Download(gomock.Any(), gomock.Any()).Return(payload, nil)
	cache.EXPECT().Put("attachment_lab.docx", payload).Return(stdErrors.New("no space left on device"))
	m.notifier.EXPECT().PresentError("lab.docx could not be saved for offline use: no space left on device")
	m.opener.EXPECT().OpenFile(gomock.Any(), "lab.docx", payload).Return(nil)

	require.NoError(t, svc.Open(context.Background(), row))
}

func TestAttachmentService_RequiresSessionToDownload(t *testing.T) {
	svc, m, cache := newTestAttachmentService(t)
	row := domain.ContentRow{AttachmentFileName: lo.ToPtr("lab.docx"), AttachmentQueryString: lo.ToPtr("fid=1")}

	cache.EXPECT().Get(gomock.Any()).Return(nil, errors.ErrCacheMiss)
	m.auth.EXPECT().EnsureAuthenticated(gomock.Any()).Return(false)

	require.ErrorIs(t, svc.Open(context.Background(), row), errors.ErrAuthRequired)
}

func TestAttachmentService_RateLimitHonoursContext(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthenticator(ctrl)
	client := mocks.NewMockContentClient(ctrl)
	cache := mocks.NewMockCache(ctrl)
	opener := mocks.NewMockOpener(ctrl)
	svc := NewAttachmentService(discardLogger(), auth, client, cache, opener, mocks.NewMockNotifier(ctrl), 1)
	row := domain.ContentRow{AttachmentFileName: lo.ToPtr("lab.docx"), AttachmentQueryString: lo.ToPtr("fid=1")}

	cache.EXPECT().Get(gomock.Any()).Return(nil, errors.ErrCacheMiss).Times(2)
	auth.EXPECT().EnsureAuthenticated(gomock.Any()).Return(true).Times(2)
	client.EXPECT().Download(gomock.Any(), gomock.Any()).Return([]byte("x"), nil).Times(1)
	cache.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)
	opener.EXPECT().OpenFile(gomock.Any(), "lab.docx", []byte("x")).Return(nil)

	req.NoError(svc.Open(context.Background(), row))

	// The single token is spent: a cancelled caller gives up instead of waiting a minute.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.Error(svc.Open(ctx, row))
}
