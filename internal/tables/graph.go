package tables

import (
	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/pkg/types"
)

// Edge is one labelled edge of the position graph.
type Edge struct {
	Move      types.Move
	MoveIndex int
	To        cube.Position
}

// PositionGraph is a read-only view of a movement table as a directed graph
// over the 27 positions, one edge per (position, move).
type PositionGraph struct {
	moves       []types.Move
	names       []string
	designators []byte
	next        [cube.Size][]uint8 // next[from][moveIndex] = to
}

// NewPositionGraph indexes a validated movement table.
func NewPositionGraph(mt *MovementTable) *PositionGraph {
	moves := mt.Moves()
	g := &PositionGraph{
		moves:       moves,
		names:       make([]string, len(moves)),
		designators: make([]byte, len(moves)),
	}
	for i, m := range moves {
		g.names[i] = m.Notation()
		g.designators[i] = m.Designator()
	}
	for from := 0; from < cube.Size; from++ {
		g.next[from] = make([]uint8, len(moves))
		for i := range moves {
			g.next[from][i] = mt.Permutation(i)[from]
		}
	}
	return g
}

// MoveCount returns the number of edge labels.
func (g *PositionGraph) MoveCount() int {
	return len(g.moves)
}

// Move returns the label of the i-th move.
func (g *PositionGraph) Move(i int) types.Move {
	return g.moves[i]
}

// Next returns the position reached from p by the i-th move.
func (g *PositionGraph) Next(p cube.Position, moveIndex int) cube.Position {
	return cube.PositionFromIndex(g.nextIndex(p.Index(), moveIndex))
}

// Neighbors returns every (move, position) pair one step from p, in move order.
// Moves that fix p are included as self-loops.
func (g *PositionGraph) Neighbors(p cube.Position) []Edge {
	edges := make([]Edge, len(g.moves))
	for i, m := range g.moves {
		edges[i] = Edge{Move: m, MoveIndex: i, To: g.Next(p, i)}
	}
	return edges
}

func (g *PositionGraph) nextIndex(from, moveIndex int) int {
	return int(g.next[from][moveIndex])
}
