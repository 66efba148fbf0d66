package standingsdomain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	matchdomain "github.com/Black-And-White-Club/teamcup/app/modules/match/domain"
)

const div = matchdomain.DivisionChampionship

func TestAllocate_PerMatch(t *testing.T) {
	table := tableFor(div, uniformTable(AccrualPerMatch, ThreeWayTieSplit, Row{Win: 1, Tie: 0.5}))
	matches := score(
		twoWayRecord("m1", div, matchdomain.SessionFriAMFourball, "eagles", "hawks", winHoles(3, matchdomain.SideA, 2)),
		twoWayRecord("m2", div, matchdomain.SessionFriAMFourball, "eagles", "hawks", winHoles(0, matchdomain.SideA, 2)),
		twoWayRecord("m3", div, matchdomain.SessionFriPMFoursomes, "eagles", "hawks", winHoles(2, matchdomain.SideB, 2)),
	)

	alloc, err := Allocate(table, div, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := alloc.PointsFor("eagles"); got != 1.5 {
		t.Fatalf("eagles points = %v, want 1.5", got)
	}
	if got := alloc.PointsFor("hawks"); got != 1.5 {
		t.Fatalf("hawks points = %v, want 1.5", got)
	}
	if len(alloc.Awards) != 6 {
		t.Fatalf("expected 6 awards, got %d", len(alloc.Awards))
	}
}

func TestAllocate_PerSessionAwardsOncePerSession(t *testing.T) {
	table := tableFor(div, uniformTable(AccrualPerSession, ThreeWayTieSplit, Row{Win: 5, Tie: 2.5}))

	var records []MatchRecord
	for _, id := range []string{"m1", "m2", "m3", "m4"} {
		records = append(records, twoWayRecord(id, div, matchdomain.SessionSatAMFourball, "eagles", "hawks", winHoles(4, matchdomain.SideA, 2)))
	}

	alloc, err := Allocate(table, div, score(records...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := alloc.PointsFor("eagles"); got != 5 {
		t.Fatalf("eagles points = %v, want 5 for one session win", got)
	}
	if got := alloc.PointsFor("hawks"); got != 0 {
		t.Fatalf("hawks points = %v, want 0", got)
	}

	want := []SessionAward{
		{Team: "eagles", Session: matchdomain.SessionSatAMFourball, Wins: 4, Result: ResultTypeWin, Points: 5},
		{Team: "hawks", Session: matchdomain.SessionSatAMFourball, Losses: 4, Result: ResultTypeLoss, Points: 0},
	}
	if diff := cmp.Diff(want, alloc.Sessions); diff != "" {
		t.Fatalf("session awards mismatch (-want +got):\n%s", diff)
	}
}

func TestAllocate_PerSessionSplitRecordIsATie(t *testing.T) {
	table := tableFor(div, uniformTable(AccrualPerSession, ThreeWayTieSplit, Row{Win: 5, Tie: 2.5}))
	matches := score(
		twoWayRecord("m1", div, matchdomain.SessionSunSingles, "eagles", "hawks", winHoles(4, matchdomain.SideA, 2)),
		twoWayRecord("m2", div, matchdomain.SessionSunSingles, "eagles", "hawks", winHoles(4, matchdomain.SideB, 2)),
		twoWayRecord("m3", div, matchdomain.SessionSunSingles, "eagles", "hawks", winHoles(0, matchdomain.SideA, 2)),
	)

	alloc, err := Allocate(table, div, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alloc.PointsFor("eagles") != 2.5 || alloc.PointsFor("hawks") != 2.5 {
		t.Fatalf("expected 2.5 each, got eagles=%v hawks=%v", alloc.PointsFor("eagles"), alloc.PointsFor("hawks"))
	}
}

func TestAllocate_ThreeWayTieRules(t *testing.T) {
	allSquare := threeWayRecord("m1", div, matchdomain.SessionSunSingles, "eagles", "hawks", "owls", winHoles(0, matchdomain.SideA, 3))

	tests := []struct {
		name string
		rule ThreeWayTieRule
		want Points
	}{
		{name: "split", rule: ThreeWayTieSplit, want: Points(2) / 3},
		{name: "duplicate", rule: ThreeWayTieDuplicate, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := tableFor(div, uniformTable(AccrualPerMatch, tt.rule, Row{Win: 2, Tie: 1}))
			alloc, err := Allocate(table, div, score(allSquare))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, id := range []matchdomain.TeamID{"eagles", "hawks", "owls"} {
				if got := alloc.PointsFor(id); got != tt.want {
					t.Fatalf("%s points = %v, want %v", id, got, tt.want)
				}
			}
		})
	}
}

func TestAllocate_PerSessionThreeWayAllSquareFollowsTieRule(t *testing.T) {
	allSquare := threeWayRecord("m1", div, matchdomain.SessionSunSingles, "eagles", "hawks", "owls", winHoles(0, matchdomain.SideA, 3))

	tests := []struct {
		name string
		rule ThreeWayTieRule
		want Points
	}{
		{name: "split", rule: ThreeWayTieSplit, want: 1},
		{name: "duplicate", rule: ThreeWayTieDuplicate, want: 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Row{Win: 3, Tie: 1.5}
			perSession, err := Allocate(tableFor(div, uniformTable(AccrualPerSession, tt.rule, row)), div, score(allSquare))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			perMatch, err := Allocate(tableFor(div, uniformTable(AccrualPerMatch, tt.rule, row)), div, score(allSquare))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, id := range []matchdomain.TeamID{"eagles", "hawks", "owls"} {
				if got := perSession.PointsFor(id); got != tt.want {
					t.Fatalf("%s per-session points = %v, want %v", id, got, tt.want)
				}
				if got := perMatch.PointsFor(id); got != tt.want {
					t.Fatalf("%s per-match points = %v, want %v", id, got, tt.want)
				}
			}
		})
	}
}

func TestAllocate_PerSessionMixedTieIsARegularTie(t *testing.T) {
	table := tableFor(div, uniformTable(AccrualPerSession, ThreeWayTieSplit, Row{Win: 3, Tie: 1.5}))
	matches := score(
		threeWayRecord("m1", div, matchdomain.SessionSunSingles, "eagles", "hawks", "owls", winHoles(0, matchdomain.SideA, 3)),
		twoWayRecord("m2", div, matchdomain.SessionSunSingles, "eagles", "hawks", winHoles(0, matchdomain.SideA, 2)),
	)

	alloc, err := Allocate(table, div, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := alloc.PointsFor("eagles"); got != 1.5 {
		t.Fatalf("eagles points = %v, want 1.5", got)
	}
	if got := alloc.PointsFor("owls"); got != 1 {
		t.Fatalf("owls points = %v, want 1", got)
	}
}

func TestAllocate_ThreeWayTwoTiedOnTop(t *testing.T) {
	var holes []matchdomain.Hole
	for i := 1; i <= matchdomain.HolesPerMatch; i++ {
		switch {
		case i <= 2:
			holes = append(holes, holeOf(i, 3, 4, 4))
		case i <= 4:
			holes = append(holes, holeOf(i, 4, 3, 4))
		default:
			holes = append(holes, holeOf(i, 4, 4, 4))
		}
	}
	rec := threeWayRecord("m1", div, matchdomain.SessionSunSingles, "eagles", "hawks", "owls", holes)
	table := tableFor(div, uniformTable(AccrualPerMatch, ThreeWayTieSplit, Row{Win: 2, Tie: 1}))

	alloc, err := Allocate(table, div, score(rec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := map[matchdomain.TeamID]Points{}
	for _, id := range []matchdomain.TeamID{"eagles", "hawks", "owls"} {
		got[id] = alloc.PointsFor(id)
	}
	want := map[matchdomain.TeamID]Points{"eagles": 1, "hawks": 1, "owls": 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestAllocate_SkipsUnfinishedAndAwardsByes(t *testing.T) {
	table := tableFor(div, uniformTable(AccrualPerMatch, ThreeWayTieSplit, Row{Win: 1, Tie: 0.5}))
	live := twoWayRecord("m1", div, matchdomain.SessionFriAMFourball, "eagles", "hawks", winHoles(3, matchdomain.SideA, 2)[:3])
	bye := MatchRecord{Match: matchdomain.Match{ID: "m2", Division: div, Session: matchdomain.SessionFriAMFourball, Sides: matchdomain.Bye{A: "owls"}}}

	alloc, err := Allocate(table, div, score(live, bye))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alloc.PointsFor("eagles") != 0 {
		t.Fatalf("in-progress match must not award points")
	}
	if alloc.PointsFor("owls") != 1 {
		t.Fatalf("bye should award a win, got %v", alloc.PointsFor("owls"))
	}
}

func TestAllocate_UnknownRowFailsFast(t *testing.T) {
	dt := uniformTable(AccrualPerMatch, ThreeWayTieSplit, Row{Win: 1, Tie: 0.5})
	delete(dt.Sessions, matchdomain.SessionSatPMFoursomes)
	table := tableFor(div, dt)

	matches := score(twoWayRecord("m1", div, matchdomain.SessionSatPMFoursomes, "eagles", "hawks", winHoles(3, matchdomain.SideA, 2)))
	if _, err := Allocate(table, div, matches); !errors.Is(err, ErrUnknownPointsRow) {
		t.Fatalf("expected ErrUnknownPointsRow, got %v", err)
	}
	if _, err := Allocate(table, matchdomain.DivisionThird, nil); !errors.Is(err, ErrUnknownPointsRow) {
		t.Fatalf("expected ErrUnknownPointsRow for missing division, got %v", err)
	}
}
