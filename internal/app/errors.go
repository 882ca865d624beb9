package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoSource = errors.New("no upstream source configured")
	ErrInternal = errors.New("internal computation failure")
)
