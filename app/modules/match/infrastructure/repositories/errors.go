package matchdb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
)
