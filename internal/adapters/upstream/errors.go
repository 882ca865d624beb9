package upstream

import "errors"

// Sentinel kinds for upstream fetch errors.
var (
	ErrUnavailable = errors.New("upstream unavailable")
	ErrNotFound    = errors.New("not found upstream")
	ErrBadPayload  = errors.New("malformed upstream payload")
)
