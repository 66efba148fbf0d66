package standingsdomain

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
)

// SnapshotHash generates a deterministic hash of everything a division
// recompute reads. Equal hashes mean the stored standings are already current.
func SnapshotHash(division matchdomain.Division, teams []matchdomain.Team, records []MatchRecord, table DivisionTable) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "division:%s;accrual:%s;tie:%s;", division, table.Accrual, table.ThreeWayTie)
	for _, s := range matchdomain.Sessions() {
		row := table.Sessions[s]
		fmt.Fprintf(&sb, "row:%s:%v:%v:%v;", s, row.Win, row.Tie, row.Loss)
	}

	sortedTeams := slices.Clone(teams)
	slices.SortFunc(sortedTeams, func(a, b matchdomain.Team) int { return cmp.Compare(a.ID, b.ID) })
	for _, t := range sortedTeams {
		if t.Division != division {
			continue
		}
		fmt.Fprintf(&sb, "team:%s:%d:%s;", t.ID, t.Seed, t.Name)
	}

	sortedRecords := slices.Clone(records)
	slices.SortFunc(sortedRecords, func(a, b MatchRecord) int { return cmp.Compare(a.Match.ID, b.Match.ID) })
	for _, r := range sortedRecords {
		m := r.Match
		if m.Division != division {
			continue
		}
		fmt.Fprintf(&sb, "match:%s:%s:%s:%d:", m.ID, m.Session, m.Status, m.Length())
		if m.Sides != nil {
			fmt.Fprintf(&sb, "%T%v", m.Sides, m.Sides.Teams())
		}
		sb.WriteString(";")

		holes := slices.Clone(r.Holes)
		slices.SortStableFunc(holes, func(a, b matchdomain.Hole) int { return cmp.Compare(a.Number, b.Number) })
		for _, h := range holes {
			fmt.Fprintf(&sb, "h%d[", h.Number)
			for i, e := range h.Entries {
				fmt.Fprintf(&sb, "%d=%s,", i, entryKey(e))
			}
			sb.WriteString("]")
		}
		sb.WriteString(";")
	}

	hash := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(hash[:])
}

func entryKey(e *matchdomain.SideEntry) string {
	if e == nil {
		return "nil"
	}
	var sb strings.Builder
	sb.WriteString(intKey(e.Score))
	sb.WriteString("/")
	sb.WriteString(intKey(e.Strokes))
	fmt.Fprintf(&sb, "/%d/", e.Handicap)
	for _, p := range e.Players {
		sb.WriteString(intKey(p))
		sb.WriteString(".")
	}
	return sb.String()
}

func intKey(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
