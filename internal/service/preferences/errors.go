package preferences

import "errors"

var (
	ErrNotFound     = errors.New("mode preference not found")
	ErrUnknownMode  = errors.New("unknown companion mode")
	ErrUserRequired = errors.New("user id is required")
)
