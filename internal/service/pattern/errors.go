package pattern

import "errors"

// Sentinel errors for the pattern service layer.
var (
	ErrUserRequired = errors.New("pattern: user id is required")
	ErrCacheMiss    = errors.New("pattern: cache miss")
)
