// Package tables derives and searches the position graph of the cube: the
// movement table (what each move does to each cell), the per-class distance
// tables and the per-class path tables.
package tables

import (
	"fmt"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/pkg/types"
)

// Permutation maps a from-position index to the to-position index of one move.
type Permutation [cube.Size]uint8

// Apply returns where the permutation sends a position.
func (p Permutation) Apply(pos cube.Position) cube.Position {
	return cube.PositionFromIndex(int(p[pos.Index()]))
}

// IsIdentity reports whether every position maps to itself.
func (p Permutation) IsIdentity() bool {
	for i, to := range p {
		if int(to) != i {
			return false
		}
	}
	return true
}

// Compose returns the permutation "p, then q".
func (p Permutation) Compose(q Permutation) Permutation {
	var out Permutation
	for i := range p {
		out[i] = q[p[i]]
	}
	return out
}

// DerivePermutation measures the positional effect of one move. The reference
// configuration is never modified: each piece's id is recorded, the move is
// applied once to a copy, and the piece is looked up again.
func DerivePermutation(ref *cube.Cube, m types.Move) Permutation {
	c := ref.Clone()

	var ids [cube.Size]cube.PieceID
	for _, p := range cube.AllPositions() {
		ids[p.Index()] = c.PieceAt(p)
	}

	c.ApplyMove(m)

	var perm Permutation
	for from, id := range ids {
		to, _ := c.PositionOf(id)
		perm[from] = uint8(to.Index())
	}
	return perm
}

// MovementTable holds one permutation per move of the fixed move set, in move-set order.
type MovementTable struct {
	moves []types.Move
	perms []Permutation
}

// DeriveMovementTable derives every move's permutation from the reference configuration.
func DeriveMovementTable(ref *cube.Cube) *MovementTable {
	moves := types.AllMoves()
	perms := make([]Permutation, len(moves))
	for i, m := range moves {
		perms[i] = DerivePermutation(ref, m)
	}
	return &MovementTable{moves: moves, perms: perms}
}

// NewMovementTable builds a table from explicit permutations and validates it.
func NewMovementTable(moves []types.Move, perms []Permutation) (*MovementTable, error) {
	t := &MovementTable{
		moves: append([]types.Move(nil), moves...),
		perms: append([]Permutation(nil), perms...),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Moves returns the moves of the table in order.
func (t *MovementTable) Moves() []types.Move {
	return append([]types.Move(nil), t.moves...)
}

// Permutation returns the permutation of the i-th move.
func (t *MovementTable) Permutation(i int) Permutation {
	return t.perms[i]
}

// Lookup returns where a move sends a position.
func (t *MovementTable) Lookup(m types.Move, p cube.Position) (cube.Position, bool) {
	for i, candidate := range t.moves {
		if candidate == m {
			return t.perms[i].Apply(p), true
		}
	}
	return cube.Position{}, false
}

// Replay follows a move sequence from a position.
func (t *MovementTable) Replay(from cube.Position, moves []types.Move) (cube.Position, error) {
	cur := from
	for _, m := range moves {
		next, ok := t.Lookup(m, cur)
		if !ok {
			return cur, fmt.Errorf("%w: %s", ErrUnknownMove, m)
		}
		cur = next
	}
	return cur, nil
}

// Equal reports whether both tables hold the same moves and permutations.
func (t *MovementTable) Equal(o *MovementTable) bool {
	if len(t.moves) != len(o.moves) {
		return false
	}
	for i := range t.moves {
		if t.moves[i] != o.moves[i] || t.perms[i] != o.perms[i] {
			return false
		}
	}
	return true
}

// Validate checks that the table covers the fixed move set in order and that
// every move is a bijection on the 27 positions that keeps each class on itself.
func (t *MovementTable) Validate() error {
	want := types.AllMoves()
	if len(t.moves) != len(want) || len(t.perms) != len(want) {
		return fmt.Errorf("%w: %d moves, want %d", ErrMovementTableIncomplete, len(t.moves), len(want))
	}

	for i, m := range want {
		if t.moves[i] != m {
			return fmt.Errorf("%w: move %d is %s, want %s", ErrMovementTableIncomplete, i, t.moves[i], m)
		}
		if err := validatePermutation(t.perms[i]); err != nil {
			return fmt.Errorf("move %s: %w", m, err)
		}
	}
	return nil
}

func validatePermutation(p Permutation) error {
	var seen [cube.Size]bool
	for from, to := range p {
		if int(to) >= cube.Size {
			return fmt.Errorf("%w: position %d maps outside the cube", ErrNotPermutation, from)
		}
		if seen[to] {
			return fmt.Errorf("%w: position %d reached twice", ErrNotPermutation, to)
		}
		seen[to] = true

		fromClass := cube.Classify(cube.PositionFromIndex(from))
		toClass := cube.Classify(cube.PositionFromIndex(int(to)))
		if fromClass != toClass {
			return fmt.Errorf("%w: %s position %v maps to %s position %v", ErrNotPermutation,
				fromClass, cube.PositionFromIndex(from), toClass, cube.PositionFromIndex(int(to)))
		}
	}
	return nil
}
