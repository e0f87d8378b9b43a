package errors

import "fmt"

var (
	ErrAuthRequired         = fmt.Errorf("authentication required")
	ErrClassificationFailed = fmt.Errorf("content classification failed")
	ErrCategoryFetchFailed  = fmt.Errorf("category fetch failed")
	ErrResourceMissing      = fmt.Errorf("resource file missing")
	ErrResourceMalformed    = fmt.Errorf("resource file has incorrect format")
	ErrBusy                 = fmt.Errorf("refresh already in progress")
	ErrCacheMiss            = fmt.Errorf("cache entry not found")
	ErrNoAttachment         = fmt.Errorf("there is no attachment")
	ErrNotAnImage           = fmt.Errorf("payload is not an image")
	ErrUnexpectedStatus     = fmt.Errorf("unexpected http status")
	ErrInvalidSection       = fmt.Errorf("invalid section summary")
)
