package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
	standingsdomain "github.com/Black-And-White-Club/teamcup/app/modules/standings/domain"
)

// PointTableFile is the on-disk shape of the points configuration.
//
//	defaults:
//	  accrual: per-match
//	  three_way_tie: split
//	divisions:
//	  championship:
//	    accrual: per-session
//	    sessions:
//	      fri-am-fourball: {win: 5, tie: 2.5, loss: 0}
type PointTableFile struct {
	Defaults  DivisionPolicy                 `yaml:"defaults"`
	Divisions map[string]DivisionPointsEntry `yaml:"divisions"`
}

// DivisionPolicy holds the per-division modes.
type DivisionPolicy struct {
	Accrual     string `yaml:"accrual"`
	ThreeWayTie string `yaml:"three_way_tie"`
}

// DivisionPointsEntry is one division's table.
type DivisionPointsEntry struct {
	DivisionPolicy `yaml:",inline"`
	Sessions       map[string]PointsRowEntry `yaml:"sessions"`
}

// PointsRowEntry is one session row.
type PointsRowEntry struct {
	Win  float64 `yaml:"win"`
	Tie  float64 `yaml:"tie"`
	Loss float64 `yaml:"loss"`
}

// LoadPointTable reads and validates a point table. A missing or invalid
// row fails here so bad configuration never reaches a recompute.
func LoadPointTable(filename string) (standingsdomain.PointTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return standingsdomain.PointTable{}, fmt.Errorf("failed to read point table: %w", err)
	}
	return ParsePointTable(data)
}

// ParsePointTable decodes and validates point table YAML.
func ParsePointTable(data []byte) (standingsdomain.PointTable, error) {
	var file PointTableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return standingsdomain.PointTable{}, fmt.Errorf("failed to unmarshal point table: %w", err)
	}
	table, err := file.ToDomain()
	if err != nil {
		return standingsdomain.PointTable{}, err
	}
	if err := table.Validate(); err != nil {
		return standingsdomain.PointTable{}, fmt.Errorf("point table: %w", err)
	}
	return table, nil
}

// ToDomain converts the file shape into a domain table.
func (f PointTableFile) ToDomain() (standingsdomain.PointTable, error) {
	table := standingsdomain.PointTable{
		Divisions:          make(map[matchdomain.Division]standingsdomain.DivisionTable, len(f.Divisions)),
		DefaultAccrual:     standingsdomain.Accrual(f.Defaults.Accrual),
		DefaultThreeWayTie: standingsdomain.ThreeWayTieRule(f.Defaults.ThreeWayTie),
	}
	if table.DefaultAccrual == "" {
		table.DefaultAccrual = standingsdomain.AccrualPerMatch
	}
	if table.DefaultThreeWayTie == "" {
		table.DefaultThreeWayTie = standingsdomain.ThreeWayTieSplit
	}

	for name, entry := range f.Divisions {
		division, err := matchdomain.ParseDivision(name)
		if err != nil {
			return standingsdomain.PointTable{}, fmt.Errorf("point table: %w", err)
		}
		dt := standingsdomain.DivisionTable{
			Accrual:     standingsdomain.Accrual(entry.Accrual),
			ThreeWayTie: standingsdomain.ThreeWayTieRule(entry.ThreeWayTie),
			Sessions:    make(map[matchdomain.Session]standingsdomain.Row, len(entry.Sessions)),
		}
		if dt.Accrual == "" {
			dt.Accrual = table.DefaultAccrual
		}
		if dt.ThreeWayTie == "" {
			dt.ThreeWayTie = table.DefaultThreeWayTie
		}
		for key, row := range entry.Sessions {
			session, err := matchdomain.ParseSession(key)
			if err != nil {
				return standingsdomain.PointTable{}, fmt.Errorf("point table %s: %w", name, err)
			}
			dt.Sessions[session] = standingsdomain.Row{
				Win:  standingsdomain.Points(row.Win),
				Tie:  standingsdomain.Points(row.Tie),
				Loss: standingsdomain.Points(row.Loss),
			}
		}
		table.Divisions[division] = dt
	}
	return table, nil
}
