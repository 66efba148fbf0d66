package parsers

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXParser reads scorecards from the first sheet of a workbook.
type XLSXParser struct{}

func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

func (p *XLSXParser) Parse(fileData []byte, fileName string) (*Scorecard, error) {
	f, err := excelize.OpenReader(bytes.NewReader(fileData))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScorecard, fileName, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s contains no sheets", ErrInvalidScorecard, fileName)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return parseGrid(rows, fileName)
}
