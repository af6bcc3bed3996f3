// Package cube provides a positional 3x3x3 cube model: 27 cells, each holding
// a piece identity. Orientation is not modelled.
package cube

import (
	"fmt"
	"sort"
	"strings"
)

// Face represents a turnable cube face.
type Face int

const (
	U Face = 0 // Up, layer j == 0
	D Face = 1 // Down, layer j == 2
	F Face = 2 // Front, layer i == 0
	B Face = 3 // Back, layer i == 2
	R Face = 4 // Right, layer k == 2
	L Face = 5 // Left, layer k == 0
)

func (f Face) String() string {
	switch f {
	case U:
		return "U"
	case D:
		return "D"
	case F:
		return "F"
	case B:
		return "B"
	case R:
		return "R"
	case L:
		return "L"
	default:
		return "?"
	}
}

// Size is the number of cells, including the hidden core.
const Size = 27

// Position is a cell coordinate. I runs front to back, J top to bottom and
// K left to right; each axis is in [0, 2].
type Position struct {
	I, J, K int
}

// PositionFromIndex is the inverse of Position.Index.
func PositionFromIndex(idx int) Position {
	return Position{I: idx / 9, J: (idx / 3) % 3, K: idx % 3}
}

// Index returns the linear cell index 9*I + 3*J + K.
func (p Position) Index() int {
	return 9*p.I + 3*p.J + p.K
}

// Valid reports whether every coordinate is in range.
func (p Position) Valid() bool {
	return inRange(p.I) && inRange(p.J) && inRange(p.K)
}

func inRange(v int) bool { return v >= 0 && v <= 2 }

// Less orders positions lexicographically by (I, J, K).
func (p Position) Less(o Position) bool {
	return p.Index() < o.Index()
}

// String renders the position as a tuple literal, e.g. "(0, 1, 2)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.I, p.J, p.K)
}

// Class is the move-invariant piece class of a position.
type Class int

const (
	ClassNone   Class = iota // Centers and the core
	ClassEdge                // Exactly one coordinate is 1
	ClassCorner              // No coordinate is 1
)

func (c Class) String() string {
	switch c {
	case ClassEdge:
		return "edge"
	case ClassCorner:
		return "corner"
	default:
		return "none"
	}
}

// ParseClass parses "edge" or "corner".
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "edge", "edges":
		return ClassEdge, nil
	case "corner", "corners":
		return ClassCorner, nil
	default:
		return ClassNone, fmt.Errorf("unknown piece class: %q (use edge or corner)", s)
	}
}

// Classify returns the piece class of a position.
func Classify(p Position) Class {
	middles := 0
	for _, v := range []int{p.I, p.J, p.K} {
		if v == 1 {
			middles++
		}
	}
	switch middles {
	case 0:
		return ClassCorner
	case 1:
		return ClassEdge
	default:
		return ClassNone
	}
}

// AllPositions returns the 27 positions in ascending order.
func AllPositions() []Position {
	out := make([]Position, Size)
	for i := range out {
		out[i] = PositionFromIndex(i)
	}
	return out
}

// PositionsOf returns the positions of a class in ascending order.
func PositionsOf(class Class) []Position {
	var out []Position
	for _, p := range AllPositions() {
		if Classify(p) == class {
			out = append(out, p)
		}
	}
	return out
}

// PieceID identifies a piece. It is the index of the cell the piece occupies
// in the solved configuration.
type PieceID int

// Cube is a positional cube configuration.
type Cube struct {
	// Pieces[position index] = piece occupying that cell
	Pieces [Size]PieceID
}

// New creates a solved cube.
func New() *Cube {
	c := &Cube{}
	for i := 0; i < Size; i++ {
		c.Pieces[i] = PieceID(i)
	}
	return c
}

// Clone creates a copy of the cube.
func (c *Cube) Clone() *Cube {
	clone := *c
	return &clone
}

// IsSolved returns true if every piece is in its home cell.
func (c *Cube) IsSolved() bool {
	for i, id := range c.Pieces {
		if id != PieceID(i) {
			return false
		}
	}
	return true
}

// PieceAt returns the piece currently at a position.
func (c *Cube) PieceAt(p Position) PieceID {
	return c.Pieces[p.Index()]
}

// PositionOf returns the current position of a piece, or false if the id is unknown.
func (c *Cube) PositionOf(id PieceID) (Position, bool) {
	for i, cur := range c.Pieces {
		if cur == id {
			return PositionFromIndex(i), true
		}
	}
	return Position{}, false
}

// EdgePositions returns the 12 edge positions, sorted.
func (c *Cube) EdgePositions() []Position {
	return PositionsOf(ClassEdge)
}

// CornerPositions returns the 8 corner positions, sorted.
func (c *Cube) CornerPositions() []Position {
	return PositionsOf(ClassCorner)
}

// EdgeIDs returns the ids of the edge pieces, sorted.
func (c *Cube) EdgeIDs() []PieceID {
	return idsOf(ClassEdge)
}

// CornerIDs returns the ids of the corner pieces, sorted.
func (c *Cube) CornerIDs() []PieceID {
	return idsOf(ClassCorner)
}

func idsOf(class Class) []PieceID {
	var ids []PieceID
	for _, p := range PositionsOf(class) {
		ids = append(ids, PieceID(p.Index()))
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}

// Move applies a face turn.
// turn: 1 = CW, -1 = CCW, 2 = 180 degrees, 0 = no-op
func (c *Cube) Move(face Face, turn int) {
	switch turn {
	case 1: // CW
		c.quarterTurn(face)
	case -1: // CCW
		c.quarterTurn(face)
		c.quarterTurn(face)
		c.quarterTurn(face)
	case 2: // 180
		c.quarterTurn(face)
		c.quarterTurn(face)
	}
}

// quarterTurn turns one layer 90 degrees clockwise, as seen looking at that face.
func (c *Cube) quarterTurn(face Face) {
	next := c.Pieces
	for idx := 0; idx < Size; idx++ {
		p := PositionFromIndex(idx)
		if !inLayer(face, p) {
			continue
		}
		next[clockwise(face, p).Index()] = c.Pieces[idx]
	}
	c.Pieces = next
}

// inLayer reports whether a position turns with the given face.
func inLayer(face Face, p Position) bool {
	switch face {
	case F:
		return p.I == 0
	case B:
		return p.I == 2
	case U:
		return p.J == 0
	case D:
		return p.J == 2
	case L:
		return p.K == 0
	case R:
		return p.K == 2
	default:
		return false
	}
}

// clockwise returns where a cell of the face layer goes under a clockwise quarter turn.
func clockwise(face Face, p Position) Position {
	switch face {
	case F:
		return Position{I: p.I, J: p.K, K: 2 - p.J}
	case B:
		return Position{I: p.I, J: 2 - p.K, K: p.J}
	case U:
		return Position{I: 2 - p.K, J: p.J, K: p.I}
	case D:
		return Position{I: p.K, J: p.J, K: 2 - p.I}
	case L:
		return Position{I: p.J, J: 2 - p.I, K: p.K}
	case R:
		return Position{I: 2 - p.J, J: p.I, K: p.K}
	default:
		return p
	}
}

// String returns the three layers, front to back, as grids of piece ids.
func (c *Cube) String() string {
	var b strings.Builder
	names := []string{"front", "middle", "back"}
	for i := 0; i < 3; i++ {
		b.WriteString(names[i] + ":\n")
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				fmt.Fprintf(&b, "%3d", c.Pieces[9*i+3*j+k])
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
