package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrDraftNotFound         = errors.New("purchase draft not found")
	ErrLineNotFound          = errors.New("line item not found")
	ErrInvalidPricingMode    = errors.New("invalid pricing mode")
	ErrDraftConflict         = errors.New("purchase draft was modified concurrently")
	ErrDraftIncomplete       = errors.New("purchase draft is not ready for submission")
	ErrUnsupportedExport     = errors.New("unsupported export format")
	ErrUploadFailed          = errors.New("file upload to storage failed")
	ErrInvalidStructuredData = errors.New("stored draft lines are malformed")
)
