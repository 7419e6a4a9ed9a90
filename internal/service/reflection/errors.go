package reflection

import "errors"

var (
	ErrSessionRequired = errors.New("session is required")
	ErrNotFired        = errors.New("no reflection has fired in this session")
)
