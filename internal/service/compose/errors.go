package compose

import "errors"

var (
	ErrNoUserMessage     = errors.New("conversation has no user message")
	ErrSnapshotNotFound  = errors.New("conversation snapshot not found")
	ErrBadSummary        = errors.New("summary completion was not usable")
	ErrCompleterRequired = errors.New("completer is required")
)
