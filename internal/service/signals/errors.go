package signals

import "errors"

// Sentinel errors for the signals service layer.
var (
	ErrEmptyContent  = errors.New("signals: content is empty")
	ErrUserRequired  = errors.New("signals: user id is required")
	ErrNoExtractor   = errors.New("signals: extraction is not configured")
	ErrBadExtraction = errors.New("signals: extraction is not valid JSON")
)
