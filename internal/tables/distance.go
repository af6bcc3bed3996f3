package tables

import (
	"github.com/SeamusWaldron/gocube_tables/internal/cube"
)

// Unreachable marks a pair the search never connected. With the full move
// set it never occurs; seeing it means the movement table is broken.
const Unreachable = -1

// DistanceTable holds shortest move counts between every ordered pair of one class.
type DistanceTable struct {
	class     cube.Class
	positions []cube.Position
	dist      [cube.Size][cube.Size]int
	known     [cube.Size][cube.Size]bool
}

func newDistanceTable(class cube.Class) *DistanceTable {
	return &DistanceTable{
		class:     class,
		positions: cube.PositionsOf(class),
	}
}

// Class returns the piece class of the table.
func (t *DistanceTable) Class() cube.Class {
	return t.class
}

// Positions returns the positions of the class in table order.
func (t *DistanceTable) Positions() []cube.Position {
	return append([]cube.Position(nil), t.positions...)
}

// Get returns the distance between two positions, false if the pair is not in the table.
func (t *DistanceTable) Get(from, to cube.Position) (int, bool) {
	if !t.known[from.Index()][to.Index()] {
		return 0, false
	}
	return t.dist[from.Index()][to.Index()], true
}

// Len returns the number of recorded pairs.
func (t *DistanceTable) Len() int {
	n := 0
	for _, a := range t.positions {
		for _, b := range t.positions {
			if t.known[a.Index()][b.Index()] {
				n++
			}
		}
	}
	return n
}

// Max returns the largest recorded distance.
func (t *DistanceTable) Max() int {
	longest := 0
	for _, a := range t.positions {
		for _, b := range t.positions {
			if d, ok := t.Get(a, b); ok && d > longest {
				longest = d
			}
		}
	}
	return longest
}

func (t *DistanceTable) set(from, to cube.Position, d int) {
	t.dist[from.Index()][to.Index()] = d
	t.known[from.Index()][to.Index()] = true
}

// BuildDistanceTable computes all-pairs shortest distances for one class by
// breadth-first search over the position graph.
func BuildDistanceTable(g *PositionGraph, class cube.Class) *DistanceTable {
	t := newDistanceTable(class)

	for _, from := range t.positions {
		for _, to := range t.positions {
			switch {
			case from == to:
				t.set(from, to, 0)
			case t.known[to.Index()][from.Index()]:
				// every move's inverse is in the move set, so distance is symmetric
				t.set(from, to, t.dist[to.Index()][from.Index()])
			default:
				t.set(from, to, shortestDistance(g, class, from, to))
			}
		}
	}
	return t
}

// shortestDistance runs one BFS from `from`, stopping when `to` is dequeued.
func shortestDistance(g *PositionGraph, class cube.Class, from, to cube.Position) int {
	type queued struct {
		pos  int
		dist int
	}

	var visited [cube.Size]bool
	target := to.Index()
	queue := []queued{{pos: from.Index(), dist: 0}}
	visited[from.Index()] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.pos == target {
			return cur.dist
		}

		for m := 0; m < g.MoveCount(); m++ {
			next := g.nextIndex(cur.pos, m)
			if visited[next] || cube.Classify(cube.PositionFromIndex(next)) != class {
				continue
			}
			visited[next] = true
			queue = append(queue, queued{pos: next, dist: cur.dist + 1})
		}
	}
	return Unreachable
}
