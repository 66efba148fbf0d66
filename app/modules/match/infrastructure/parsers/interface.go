package parsers

// Parser reads a match scorecard file.
type Parser interface {
	// Parse reads raw file bytes. fileName is only used in error messages.
	Parse(fileData []byte, fileName string) (*Scorecard, error)
}
