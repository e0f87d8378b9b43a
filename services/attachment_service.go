package services

import (
	"class-detail/contract"
	"class-detail/domain"
	"class-detail/errors"
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
)

const (
	fileDownloadPath    = "/app/utilities/FileDownload.ashx?"
	noAttachmentMessage = "There is no attachment."
	connectivityHint    = " Please check your internet connection."
)

type IAttachmentService interface {
	Open(ctx context.Context, row domain.ContentRow) error
}

// AttachmentService opens what a row title points at: its link, or its
// attachment from the cache, downloading it first when needed.
type AttachmentService struct {
	log      *slog.Logger
	auth     contract.Authenticator
	client   contract.ContentClient
	cache    contract.Cache
	opener   contract.Opener
	notifier contract.Notifier
	limiter  *rate.Limiter
}

// NewAttachmentService allows perMinute downloads, without limit when perMinute <= 0.
func NewAttachmentService(
	log *slog.Logger,
	auth contract.Authenticator,
	client contract.ContentClient,
	cache contract.Cache,
	opener contract.Opener,
	notifier contract.Notifier,
	perMinute int,
) *AttachmentService {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), 1)
	}
	return &AttachmentService{
		log:      log,
		auth:     auth,
		client:   client,
		cache:    cache,
		opener:   opener,
		notifier: notifier,
		limiter:  limiter,
	}
}

func (s *AttachmentService) Open(ctx context.Context, row domain.ContentRow) error {
	if row.URL != nil && *row.URL != "" {
		return s.opener.OpenURL(ctx, *row.URL)
	}

	if row.AttachmentFileName == nil || *row.AttachmentFileName == "" {
		s.notifier.PresentInfo(noAttachmentMessage)
		return errors.ErrNoAttachment
	}
	fileName := *row.AttachmentFileName
	key := domain.AttachmentKey(fileName)

	payload, err := s.cache.Get(key)
	if err == nil {
		s.log.Debug("Opening cached attachment", "file", fileName)
		return s.opener.OpenFile(ctx, fileName, payload)
	}
	if !stdErrors.Is(err, errors.ErrCacheMiss) {
		s.log.Warn("Attachment cache unreadable, downloading again", "file", fileName, "error", err)
	}

	if !s.auth.EnsureAuthenticated(ctx) {
		return errors.ErrAuthRequired
	}

	downloadURL, ok := attachmentURL(row)
	if !ok {
		s.notifier.PresentInfo(noAttachmentMessage)
		return errors.ErrNoAttachment
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err = s.client.Download(ctx, downloadURL)
	if err != nil {
		s.log.Warn("Attachment download failed", "file", fileName, "error", err)
		s.notifier.PresentError(err.Error() + connectivityHint)
		return fmt.Errorf("attachment %s: %w", fileName, err)
	}

	if err := s.cache.Put(key, payload); err != nil {
		s.log.Warn("Attachment not cached", "file", fileName, "error", err)
		s.notifier.PresentError(fmt.Sprintf("%s could not be saved for offline use: %v", fileName, err))
	}
	return s.opener.OpenFile(ctx, fileName, payload)
}

// attachmentURL prefers the direct download path over the query string endpoint.
func attachmentURL(row domain.ContentRow) (string, bool) {
	if row.DirectDownloadURL != nil && *row.DirectDownloadURL != "" {
		return *row.DirectDownloadURL, true
	}
	if row.AttachmentQueryString != nil && *row.AttachmentQueryString != "" {
		return fileDownloadPath + *row.AttachmentQueryString, true
	}
	return "", false
}
