package matchdomain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func scored(scores ...int) []*SideEntry {
	out := make([]*SideEntry, len(scores))
	for i, s := range scores {
		out[i] = &SideEntry{Score: Int(s)}
	}
	return out
}

func hole(n int, scores ...int) Hole {
	return Hole{Number: n, Par: 4, Status: HoleCompleted, Entries: scored(scores...)}
}

func TestNormalizeHole_TwoWay(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		kind   OutcomeKind
		winner Side
		tie    TieKind
	}{
		{name: "A lower", scores: []int{4, 5}, kind: OutcomeWon, winner: SideA},
		{name: "B lower", scores: []int{6, 3}, kind: OutcomeWon, winner: SideB},
		{name: "level", scores: []int{4, 4}, kind: OutcomeTied, tie: TieAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeHole(hole(1, tt.scores...), 2)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind != tt.kind || got.Tie != tt.tie {
				t.Fatalf("got kind=%s tie=%q, want kind=%s tie=%q", got.Kind, got.Tie, tt.kind, tt.tie)
			}
			if tt.kind == OutcomeWon && got.Winner != tt.winner {
				t.Fatalf("winner = %s, want %s", got.Winner, tt.winner)
			}
		})
	}
}

func TestNormalizeHole_ThreeWay(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		kind   OutcomeKind
		winner Side
		tie    TieKind
	}{
		{name: "outright low", scores: []int{3, 4, 5}, kind: OutcomeWon, winner: SideA},
		{name: "all three level", scores: []int{4, 4, 4}, kind: OutcomeTied, tie: TieAll},
		{name: "two tied for low", scores: []int{4, 4, 5}, kind: OutcomeTied, tie: TieForLow},
		{name: "two tied for low B and C", scores: []int{5, 4, 4}, kind: OutcomeTied, tie: TieForLow},
		{name: "winner with two tied behind", scores: []int{5, 3, 5}, kind: OutcomeWon, winner: SideB, tie: TieForSecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeHole(hole(7, tt.scores...), 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind != tt.kind || got.Tie != tt.tie {
				t.Fatalf("got kind=%s tie=%q, want kind=%s tie=%q", got.Kind, got.Tie, tt.kind, tt.tie)
			}
			if tt.kind == OutcomeWon && got.Winner != tt.winner {
				t.Fatalf("winner = %s, want %s", got.Winner, tt.winner)
			}
		})
	}
}

func TestNormalizeHole_Ranking(t *testing.T) {
	got, err := NormalizeHole(hole(2, 5, 4, 4), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Placing{
		{Side: SideB, Score: 4, Place: 1},
		{Side: SideC, Score: 4, Place: 1},
		{Side: SideA, Score: 5, Place: 3},
	}
	if diff := cmp.Diff(want, got.Ranking); diff != "" {
		t.Fatalf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeHole_Undecided(t *testing.T) {
	tests := []struct {
		name    string
		entries []*SideEntry
	}{
		{name: "nil entry", entries: []*SideEntry{{Score: Int(4)}, nil}},
		{name: "empty entry", entries: []*SideEntry{{}, {Score: Int(4)}}},
		{name: "players all blank", entries: []*SideEntry{{Score: Int(4)}, {Players: []*int{nil, nil}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeHole(Hole{Number: 3, Entries: tt.entries}, 2)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Decided() {
				t.Fatalf("expected undecided, got %s", got.Kind)
			}
			if got.Ranking != nil {
				t.Fatalf("undecided hole should not be ranked, got %v", got.Ranking)
			}
		})
	}
}

func TestNormalizeHole_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		hole  Hole
		sides int
	}{
		{name: "score for a third side in a two-way match", hole: hole(4, 4, 5, 3), sides: 2},
		{name: "missing side in a three-way match", hole: hole(4, 4, 5), sides: 3},
		{name: "hole zero", hole: hole(0, 4, 5), sides: 2},
		{name: "hole nineteen", hole: hole(19, 4, 5), sides: 2},
		{name: "four sides", hole: hole(1, 4, 5, 4, 4), sides: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeHole(tt.hole, tt.sides)
			if !errors.Is(err, ErrMalformedHole) {
				t.Fatalf("expected ErrMalformedHole, got %v", err)
			}
			var mhe *MalformedHoleError
			if !errors.As(err, &mhe) || mhe.Hole != tt.hole.Number {
				t.Fatalf("expected MalformedHoleError for hole %d, got %#v", tt.hole.Number, err)
			}
		})
	}
}

func TestSideEntry_Net(t *testing.T) {
	tests := []struct {
		name  string
		entry *SideEntry
		want  int
		ok    bool
	}{
		{name: "nil", entry: nil},
		{name: "score wins over strokes", entry: &SideEntry{Score: Int(3), Strokes: Int(5)}, want: 3, ok: true},
		{name: "strokes less handicap", entry: &SideEntry{Strokes: Int(5), Handicap: 1}, want: 4, ok: true},
		{name: "best ball", entry: &SideEntry{Players: []*int{nil, Int(5), Int(4)}}, want: 4, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.entry.Net()
			if ok != tt.ok || got != tt.want {
				t.Fatalf("Net() = %d, %v; want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDecideHole(t *testing.T) {
	if _, err := DecideHole(Hole{Number: 9, Entries: []*SideEntry{{Score: Int(4)}, {}}}, 2); !errors.Is(err, ErrIncompleteHole) {
		t.Fatalf("expected ErrIncompleteHole, got %v", err)
	}

	got, err := DecideHole(hole(9, 4, 5), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Won(SideA) {
		t.Fatalf("expected A to win hole 9, got %+v", got)
	}
}
