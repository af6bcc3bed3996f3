package tables

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/pkg/types"
)

func TestReplayInverseProperty(t *testing.T) {
	mt := derived(t)

	rapid.Check(t, func(t *rapid.T) {
		start := cube.PositionFromIndex(rapid.IntRange(0, cube.Size-1).Draw(t, "start"))
		idx := rapid.SliceOfN(rapid.IntRange(0, types.MoveCount-1), 0, 25).Draw(t, "moves")

		moves := make([]types.Move, len(idx))
		undo := make([]types.Move, len(idx))
		for i, n := range idx {
			moves[i] = types.MoveFromIndex(n)
			undo[len(idx)-1-i] = moves[i].Inverse()
		}

		end, err := mt.Replay(start, moves)
		if err != nil {
			t.Fatal(err)
		}
		if cube.Classify(end) != cube.Classify(start) {
			t.Fatalf("%v moved to %v, changing class", start, end)
		}
		back, err := mt.Replay(end, undo)
		if err != nil {
			t.Fatal(err)
		}
		if back != start {
			t.Fatalf("undo took %v to %v, want %v", end, back, start)
		}
	})
}

func TestReplayMatchesSimulatorProperty(t *testing.T) {
	mt := derived(t)

	rapid.Check(t, func(t *rapid.T) {
		idx := rapid.SliceOfN(rapid.IntRange(0, types.MoveCount-1), 1, 15).Draw(t, "moves")
		moves := make([]types.Move, len(idx))
		for i, n := range idx {
			moves[i] = types.MoveFromIndex(n)
		}

		c := cube.New()
		c.ApplyMoves(moves)
		for _, p := range cube.AllPositions() {
			want, _ := c.PositionOf(cube.PieceID(p.Index()))
			got, err := mt.Replay(p, moves)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Fatalf("piece from %v: table says %v, simulator says %v", p, got, want)
			}
		}
	})
}

func TestLiteralRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := cube.PositionFromIndex(rapid.IntRange(0, cube.Size-1).Draw(t, "a"))
		b := cube.PositionFromIndex(rapid.IntRange(0, cube.Size-1).Draw(t, "b"))

		from, to, err := ParsePair(PairLiteral(a, b))
		if err != nil {
			t.Fatal(err)
		}
		if from != a || to != b {
			t.Fatalf("got (%v, %v) want (%v, %v)", from, to, a, b)
		}
	})
}
