package notation

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/SeamusWaldron/gocube_tables/pkg/types"
)

func genMoves(t *rapid.T) []types.Move {
	idx := rapid.SliceOfN(rapid.IntRange(0, types.MoveCount-1), 0, 30).Draw(t, "moves")
	moves := make([]types.Move, len(idx))
	for i, n := range idx {
		moves[i] = types.MoveFromIndex(n)
	}
	return moves
}

func TestSequenceRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		moves := genMoves(t)

		spaced, err := ParseSequence(FormatSequence(moves))
		if err != nil {
			t.Fatalf("spaced: %v", err)
		}
		if FormatSequence(spaced) != FormatSequence(moves) {
			t.Fatalf("spaced round trip: got %q want %q", FormatSequence(spaced), FormatSequence(moves))
		}

		names := make([]string, len(moves))
		for i, m := range moves {
			names[i] = m.Notation()
		}
		joined, err := ParseSequence(strings.Join(names, ""))
		if err != nil {
			t.Fatalf("concatenated: %v", err)
		}
		if FormatSequence(joined) != FormatSequence(moves) {
			t.Fatalf("concatenated round trip: got %q want %q", FormatSequence(joined), FormatSequence(moves))
		}
	})
}
