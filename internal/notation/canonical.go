// Package notation provides move notation conversion utilities.
package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SeamusWaldron/gocube_tables/pkg/types"
)

// ErrInvalidMove is returned when a move name is not part of the move set.
var ErrInvalidMove = errors.New("invalid move notation")

// byName maps every notation string of the move set to its move.
var byName = func() map[string]types.Move {
	m := make(map[string]types.Move, types.MoveCount)
	for _, move := range types.AllMoves() {
		m[move.Notation()] = move
	}
	return m
}()

// ParseNotation parses a single move name such as R, R', R2 or N.
// Unlike the recorder's parser this is case sensitive: lower case letters are not moves.
func ParseNotation(s string) (types.Move, bool) {
	move, ok := byName[strings.TrimSpace(s)]
	return move, ok
}

// ParseSequence parses a move sequence. Tokens may be space separated ("R U' F2")
// or concatenated ("RU'F2"); concatenated input is split greedily, preferring
// two-character names.
func ParseSequence(s string) ([]types.Move, error) {
	var moves []types.Move
	for _, field := range strings.Fields(s) {
		parsed, err := splitConcatenated(field)
		if err != nil {
			return nil, err
		}
		moves = append(moves, parsed...)
	}
	return moves, nil
}

func splitConcatenated(s string) ([]types.Move, error) {
	var moves []types.Move
	for idx := 0; idx < len(s); {
		if idx+2 <= len(s) {
			if move, ok := byName[s[idx:idx+2]]; ok {
				moves = append(moves, move)
				idx += 2
				continue
			}
		}
		move, ok := byName[s[idx:idx+1]]
		if !ok {
			return nil, fmt.Errorf("%w: %q at index %d", ErrInvalidMove, s[idx:idx+1], idx)
		}
		moves = append(moves, move)
		idx++
	}
	return moves, nil
}

// FormatSequence formats a slice of moves as a space-separated string.
func FormatSequence(moves []types.Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}

// HasSameFaceRepeat reports whether two consecutive moves share a face designator.
func HasSameFaceRepeat(moves []types.Move) bool {
	for i := 1; i < len(moves); i++ {
		if moves[i].SameFace(moves[i-1]) {
			return true
		}
	}
	return false
}

// Cancellations returns the indexes i at which moves[i] undoes moves[i-1].
func Cancellations(moves []types.Move) []int {
	var out []int
	for i := 1; i < len(moves); i++ {
		if moves[i].IsCancellation(moves[i-1]) {
			out = append(out, i)
		}
	}
	return out
}
