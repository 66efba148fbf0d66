package parsers

import "errors"

var (
	// ErrUnsupportedFile is returned for file types no parser handles.
	ErrUnsupportedFile = errors.New("unsupported scorecard file")

	// ErrInvalidScorecard is returned when the file cannot be read as a scorecard grid.
	ErrInvalidScorecard = errors.New("invalid scorecard")
)
