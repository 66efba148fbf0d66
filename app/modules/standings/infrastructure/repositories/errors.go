package standingsdb

import "errors"

var (
	// ErrNotFound indicates no standings have been computed for the division.
	ErrNotFound = errors.New("not found")
)
