package standingsdomain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
)

func perMatchTable() PointTable {
	return tableFor(div, uniformTable(AccrualPerMatch, ThreeWayTieSplit, Row{Win: 1, Tie: 0.5}))
}

func positions(rows []Standing) []matchdomain.TeamID {
	out := make([]matchdomain.TeamID, len(rows))
	for i, r := range rows {
		out[i] = r.Team
	}
	return out
}

func TestComputeStandings_InsufficientData(t *testing.T) {
	teams := []matchdomain.Team{team("hawks", div, 2), team("eagles", div, 1)}
	report, err := ComputeStandings(div, teams, nil, perMatchTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.InsufficientData {
		t.Fatalf("expected insufficient data")
	}
	if diff := cmp.Diff([]matchdomain.TeamID{"eagles", "hawks"}, positions(report.Standings)); diff != "" {
		t.Fatalf("empty table should be in seed order:\n%s", diff)
	}
}

func TestComputeStandings_RankingOrder(t *testing.T) {
	teams := []matchdomain.Team{
		team("eagles", div, 1),
		team("hawks", div, 2),
		team("owls", div, 3),
		team("ravens", div, 4),
	}
	records := []MatchRecord{
		// hawks and owls both win one match; hawks by more holes.
		twoWayRecord("m1", div, matchdomain.SessionFriAMFourball, "hawks", "eagles", winHoles(5, matchdomain.SideA, 2)),
		twoWayRecord("m2", div, matchdomain.SessionFriAMFourball, "owls", "ravens", winHoles(1, matchdomain.SideA, 2)),
	}

	report, err := ComputeStandings(div, teams, records, perMatchTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []matchdomain.TeamID{"hawks", "owls", "ravens", "eagles"}
	if diff := cmp.Diff(want, positions(report.Standings)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	top := report.Standings[0]
	if top.Position != 1 || top.Points != 1 || top.MatchesWon != 1 || top.HolesWon != 5 || top.HolesLost != 0 {
		t.Fatalf("unexpected top row %+v", top)
	}
	if top.StrokesDifferential != 5 {
		t.Fatalf("strokes differential = %d, want 5", top.StrokesDifferential)
	}
}

func TestComputeStandings_SeedBreaksFullTie(t *testing.T) {
	teams := []matchdomain.Team{team("eagles", div, 2), team("hawks", div, 1)}
	records := []MatchRecord{
		twoWayRecord("m1", div, matchdomain.SessionSunSingles, "eagles", "hawks", winHoles(0, matchdomain.SideA, 2)),
	}

	report, err := ComputeStandings(div, teams, records, perMatchTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]matchdomain.TeamID{"hawks", "eagles"}, positions(report.Standings)); diff != "" {
		t.Fatalf("seed should break the tie:\n%s", diff)
	}
	for _, s := range report.Standings {
		if s.MatchesHalved != 1 || s.Points != 0.5 {
			t.Fatalf("unexpected row %+v", s)
		}
	}
}

func TestComputeStandings_FewerStrokesBeforeSeed(t *testing.T) {
	teams := []matchdomain.Team{team("eagles", div, 1), team("hawks", div, 2)}
	holes := winHoles(0, matchdomain.SideA, 2)
	for i := range holes {
		holes[i].Entries[0].Strokes = matchdomain.Int(5)
		holes[i].Entries[1].Strokes = matchdomain.Int(4)
	}
	records := []MatchRecord{twoWayRecord("m1", div, matchdomain.SessionSunSingles, "eagles", "hawks", holes)}

	report, err := ComputeStandings(div, teams, records, perMatchTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Standings[0].Team != "hawks" {
		t.Fatalf("expected hawks first on strokes, got %v", positions(report.Standings))
	}
	if got := report.Standings[0].TotalStrokes; got == nil || *got != 72 {
		t.Fatalf("total strokes = %v, want 72", got)
	}
}

func TestComputeStandings_IsolatesBadTeamReferences(t *testing.T) {
	teams := []matchdomain.Team{
		team("eagles", div, 1),
		team("hawks", div, 2),
		team("owls", matchdomain.DivisionPremier, 1),
	}
	records := []MatchRecord{
		twoWayRecord("good", div, matchdomain.SessionFriAMFourball, "eagles", "hawks", winHoles(2, matchdomain.SideA, 2)),
		twoWayRecord("ghost", div, matchdomain.SessionFriAMFourball, "eagles", "phantoms", winHoles(2, matchdomain.SideB, 2)),
		twoWayRecord("cross", div, matchdomain.SessionFriAMFourball, "hawks", "owls", winHoles(2, matchdomain.SideB, 2)),
		twoWayRecord("self", div, matchdomain.SessionFriAMFourball, "hawks", "hawks", winHoles(2, matchdomain.SideB, 2)),
	}

	report, err := ComputeStandings(div, teams, records, perMatchTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Findings) != 3 {
		t.Fatalf("expected 3 findings, got %v", report.Findings)
	}
	for _, f := range report.Findings {
		if f.Kind != matchdomain.FindingInconsistentTeamRef || !errors.Is(f.Err, matchdomain.ErrInconsistentTeamReference) {
			t.Fatalf("unexpected finding %v", f)
		}
	}
	if len(report.Matches) != 1 || report.Matches[0].Match.ID != "good" {
		t.Fatalf("only the good match should be scored, got %d", len(report.Matches))
	}
	if report.Standings[0].Team != "eagles" || report.Standings[0].MatchesPlayed != 1 {
		t.Fatalf("unexpected standings %+v", report.Standings)
	}
}

func TestComputeStandings_PositionChange(t *testing.T) {
	teams := []matchdomain.Team{team("eagles", div, 1), team("hawks", div, 2)}
	records := []MatchRecord{
		twoWayRecord("fri-am", div, matchdomain.SessionFriAMFourball, "eagles", "hawks", winHoles(2, matchdomain.SideB, 2)),
		twoWayRecord("fri-pm-1", div, matchdomain.SessionFriPMFoursomes, "eagles", "hawks", winHoles(2, matchdomain.SideA, 2)),
		twoWayRecord("fri-pm-2", div, matchdomain.SessionFriPMFoursomes, "eagles", "hawks", winHoles(2, matchdomain.SideA, 2)),
	}

	report, err := ComputeStandings(div, teams, records, perMatchTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.LatestSession != matchdomain.SessionFriPMFoursomes {
		t.Fatalf("latest session = %q", report.LatestSession)
	}
	got := map[matchdomain.TeamID]int{}
	for _, s := range report.Standings {
		got[s.Team] = s.PositionChange
	}
	if diff := cmp.Diff(map[matchdomain.TeamID]int{"eagles": 1, "hawks": -1}, got); diff != "" {
		t.Fatalf("position change mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeStandings_MissingTableFailsFast(t *testing.T) {
	_, err := ComputeStandings(matchdomain.DivisionThird, nil, nil, perMatchTable())
	if !errors.Is(err, ErrUnknownPointsRow) {
		t.Fatalf("expected ErrUnknownPointsRow, got %v", err)
	}
}

// randomTournament builds a division with random results across all sessions.
func randomTournament(f *gofakeit.Faker) ([]matchdomain.Team, []MatchRecord) {
	ids := []string{"eagles", "hawks", "owls", "ravens", "kites", "swifts"}
	var teams []matchdomain.Team
	for i, id := range ids {
		teams = append(teams, team(id, div, i+1))
	}

	var records []MatchRecord
	for _, s := range matchdomain.Sessions() {
		for i := 0; i < 6; i++ {
			a := ids[f.IntRange(0, len(ids)-1)]
			b := ids[f.IntRange(0, len(ids)-1)]
			if a == b {
				continue
			}
			var holes []matchdomain.Hole
			played := f.IntRange(0, matchdomain.HolesPerMatch)
			for n := 1; n <= played; n++ {
				holes = append(holes, holeOf(n, f.IntRange(3, 6), f.IntRange(3, 6)))
			}
			records = append(records, twoWayRecord(fmt.Sprintf("%s-%d", s, i), div, s, a, b, holes))
		}
	}
	return teams, records
}

func TestComputeStandings_OrderIndependentAndRepeatable(t *testing.T) {
	for seed := 1; seed <= 20; seed++ {
		f := gofakeit.New(uint64(seed))
		teams, records := randomTournament(f)
		table := tableFor(div, uniformTable(AccrualPerSession, ThreeWayTieSplit, Row{Win: 5, Tie: 2.5}))

		first, err := ComputeStandings(div, teams, records, table)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}

		f.ShuffleAnySlice(records)
		f.ShuffleAnySlice(teams)
		second, err := ComputeStandings(div, teams, records, table)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}

		if diff := cmp.Diff(first.Standings, second.Standings); diff != "" {
			t.Fatalf("seed %d: standings depend on input order:\n%s", seed, diff)
		}
		if diff := cmp.Diff(first.Allocation, second.Allocation); diff != "" {
			t.Fatalf("seed %d: allocation depends on input order:\n%s", seed, diff)
		}
		for i, s := range first.Standings {
			if s.Position != i+1 {
				t.Fatalf("seed %d: position %d at index %d", seed, s.Position, i)
			}
		}
	}
}
