package parsers

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
)

// Scorecard is a hole-by-hole grid for one match.
//
// The expected layout has one column per hole:
//
//	Hole,1,2,3
//	Par,4,3,5
//	A,4,3,-
//	B,5,3,
//	A gross,5,4,
//	A hcp,1,1,
//	B1,5,4,
//
// Side rows hold net scores, "gross" rows hold strokes before handicap,
// "hcp" rows hold strokes received and numbered rows hold individual player
// scores. A blank cell or "-" means the score has not been entered.
type Scorecard struct {
	Holes []int
	Par   []int
	Sides []*SideCard
}

// SideCard collects every row that belongs to one side. Slices are indexed by
// column, parallel to Scorecard.Holes.
type SideCard struct {
	Side     matchdomain.Side
	Score    []*int
	Strokes  []*int
	Handicap []int
	Players  [][]*int
}

// SideCount is the number of sides the card has rows for, counted up to the
// highest side letter present.
func (c *Scorecard) SideCount() int {
	n := 0
	for _, s := range c.Sides {
		n = max(n, int(s.Side)+1)
	}
	return n
}

// ToHoles converts the card into domain holes for a match of the given number
// of sides. Rows for sides beyond that number are kept, which makes the
// affected holes malformed rather than silently dropping data.
func (c *Scorecard) ToHoles(sides int) []matchdomain.Hole {
	holes := make([]matchdomain.Hole, 0, len(c.Holes))
	for col, number := range c.Holes {
		h := matchdomain.Hole{
			Number:  number,
			Par:     c.Par[col],
			Entries: make([]*matchdomain.SideEntry, max(sides, 0)),
		}
		for _, sc := range c.Sides {
			e := sc.entry(col)
			if e == nil {
				continue
			}
			for int(sc.Side) >= len(h.Entries) {
				h.Entries = append(h.Entries, nil)
			}
			h.Entries[sc.Side] = e
		}
		h.Status = holeStatus(h.Entries)
		holes = append(holes, h)
	}
	return holes
}

func (sc *SideCard) entry(col int) *matchdomain.SideEntry {
	e := &matchdomain.SideEntry{
		Score:    sc.Score[col],
		Strokes:  sc.Strokes[col],
		Handicap: sc.Handicap[col],
	}
	entered := e.Score != nil || e.Strokes != nil
	for _, p := range sc.Players {
		e.Players = append(e.Players, p[col])
		if p[col] != nil {
			entered = true
		}
	}
	if !entered {
		return nil
	}
	return e
}

func holeStatus(entries []*matchdomain.SideEntry) matchdomain.HoleStatus {
	entered := 0
	for _, e := range entries {
		if _, ok := e.Net(); ok {
			entered++
		}
	}
	switch {
	case entered == 0:
		return matchdomain.HoleNotStarted
	case entered == len(entries):
		return matchdomain.HoleCompleted
	default:
		return matchdomain.HoleInProgress
	}
}

type rowKind int

const (
	rowScore rowKind = iota
	rowStrokes
	rowHandicap
	rowPlayer
)

// parseGrid turns raw rows from either file format into a Scorecard.
func parseGrid(rows [][]string, fileName string) (*Scorecard, error) {
	rows = slices.DeleteFunc(slices.Clone(rows), blankRow)
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s must contain a hole header and at least one side row", ErrInvalidScorecard, fileName)
	}

	header := rows[0]
	if !isHoleHeader(header[0]) {
		return nil, fmt.Errorf("%w: %s: first row must start with \"Hole\", got %q", ErrInvalidScorecard, fileName, header[0])
	}

	card := &Scorecard{}
	for _, cell := range header[1:] {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			break
		}
		n, err := strconv.Atoi(cell)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: hole header %q is not a number", ErrInvalidScorecard, fileName, cell)
		}
		card.Holes = append(card.Holes, n)
	}
	if len(card.Holes) == 0 {
		return nil, fmt.Errorf("%w: %s has no hole columns", ErrInvalidScorecard, fileName)
	}
	card.Par = make([]int, len(card.Holes))

	bySide := make(map[matchdomain.Side]*SideCard)
	for _, row := range rows[1:] {
		label := strings.TrimSpace(row[0])
		if label == "" {
			continue
		}
		cells, err := readCells(row[1:], len(card.Holes))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: row %q: %v", ErrInvalidScorecard, fileName, label, err)
		}

		if isParRow(label) {
			for i, v := range cells {
				if v != nil {
					card.Par[i] = *v
				}
			}
			continue
		}

		side, kind, err := parseLabel(label)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScorecard, fileName, err)
		}
		sc, ok := bySide[side]
		if !ok {
			sc = &SideCard{
				Side:     side,
				Score:    make([]*int, len(card.Holes)),
				Strokes:  make([]*int, len(card.Holes)),
				Handicap: make([]int, len(card.Holes)),
			}
			bySide[side] = sc
		}
		switch kind {
		case rowScore:
			sc.Score = cells
		case rowStrokes:
			sc.Strokes = cells
		case rowHandicap:
			for i, v := range cells {
				if v != nil {
					sc.Handicap[i] = *v
				}
			}
		case rowPlayer:
			sc.Players = append(sc.Players, cells)
		}
	}
	if len(bySide) == 0 {
		return nil, fmt.Errorf("%w: %s has no side rows", ErrInvalidScorecard, fileName)
	}

	for _, s := range []matchdomain.Side{matchdomain.SideA, matchdomain.SideB, matchdomain.SideC} {
		if sc, ok := bySide[s]; ok {
			card.Sides = append(card.Sides, sc)
		}
	}
	return card, nil
}

// parseLabel maps a row label such as "A", "Side B", "A gross", "C hcp" or "B2".
func parseLabel(label string) (matchdomain.Side, rowKind, error) {
	fields := strings.Fields(strings.ToLower(label))
	if len(fields) > 0 && fields[0] == "side" {
		fields = fields[1:]
	}
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, fmt.Errorf("unrecognised row label %q", label)
	}

	head := fields[0]
	side, err := matchdomain.ParseSide(head[:1])
	if err != nil {
		return 0, 0, fmt.Errorf("unrecognised row label %q", label)
	}

	if len(head) > 1 {
		if _, err := strconv.Atoi(head[1:]); err != nil || len(fields) > 1 {
			return 0, 0, fmt.Errorf("unrecognised row label %q", label)
		}
		return side, rowPlayer, nil
	}
	if len(fields) == 1 {
		return side, rowScore, nil
	}

	switch fields[1] {
	case "net", "score":
		return side, rowScore, nil
	case "gross", "strokes":
		return side, rowStrokes, nil
	case "hcp", "handicap", "shots":
		return side, rowHandicap, nil
	}
	return 0, 0, fmt.Errorf("unrecognised row label %q", label)
}

func readCells(cells []string, n int) ([]*int, error) {
	out := make([]*int, n)
	for i := 0; i < n && i < len(cells); i++ {
		v := strings.TrimSpace(cells[i])
		if v == "" || v == "-" {
			continue
		}
		score, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("column %d: %q is not a number", i+1, v)
		}
		out[i] = &score
	}
	return out, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isHoleHeader(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "hole", "holes", "#":
		return true
	}
	return false
}

func isParRow(cell string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(cell))
	return normalized == "PAR" || normalized == "PARS"
}
