package standingsservice

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var workbookHeader = []interface{}{
	"Pos", "+/-", "Team", "Seed", "Points", "Played", "Won", "Lost", "Halved",
	"Holes Won", "Holes Lost", "Hole Diff", "Strokes", "Stroke Diff",
}

// BuildStandingsWorkbook writes the table to a single-sheet XLSX file.
func BuildStandingsWorkbook(view StandingsView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := string(view.Division)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &workbookHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, st := range view.Standings {
		var strokes interface{}
		if st.TotalStrokes != nil {
			strokes = *st.TotalStrokes
		}
		row := []interface{}{
			st.Position, st.PositionChange, st.Name, st.Seed, float64(st.Points),
			st.MatchesPlayed, st.MatchesWon, st.MatchesLost, st.MatchesHalved,
			st.HolesWon, st.HolesLost, st.HoleDifferential(), strokes, st.StrokesDifferential,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
