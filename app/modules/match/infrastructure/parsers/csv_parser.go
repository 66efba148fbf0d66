package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVParser reads scorecards exported as CSV.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(fileData []byte, fileName string) (*Scorecard, error) {
	reader := csv.NewReader(bytes.NewReader(fileData))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScorecard, fileName, err)
	}
	return parseGrid(rows, fileName)
}
