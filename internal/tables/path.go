package tables

import (
	"sort"
	"strings"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
)

// DefaultMaxDepth is the longest sequence length the path search explores.
const DefaultMaxDepth = 20

// PathOptions configures path enumeration.
type PathOptions struct {
	MaxDepth int // Number of search levels per pair
	// MaxSequencesPerLength caps the sequences recorded for one pair and length.
	// Zero records all of them.
	MaxSequencesPerLength int
}

// DefaultPathOptions returns the standard enumeration settings.
func DefaultPathOptions() *PathOptions {
	return &PathOptions{
		MaxDepth:              DefaultMaxDepth,
		MaxSequencesPerLength: 0,
	}
}

type pairKey struct {
	from, to uint8
}

// PathTable holds, for every ordered pair of one class, the admissible move
// sequences connecting them grouped by exact length. Sequences are
// space-separated move names in discovery order.
type PathTable struct {
	class     cube.Class
	positions []cube.Position
	entries   map[pairKey]map[int][]string
}

func newPathTable(class cube.Class) *PathTable {
	return &PathTable{
		class:     class,
		positions: cube.PositionsOf(class),
		entries:   make(map[pairKey]map[int][]string),
	}
}

// Class returns the piece class of the table.
func (t *PathTable) Class() cube.Class {
	return t.class
}

// Positions returns the positions of the class in table order.
func (t *PathTable) Positions() []cube.Position {
	return append([]cube.Position(nil), t.positions...)
}

// Lengths returns the sequence lengths recorded for a pair, ascending.
func (t *PathTable) Lengths(from, to cube.Position) []int {
	entry := t.entries[key(from, to)]
	lengths := make([]int, 0, len(entry))
	for l := range entry {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)
	return lengths
}

// Sequences returns the sequences of exactly `length` moves from one position
// to another. The slice must not be modified.
func (t *PathTable) Sequences(from, to cube.Position, length int) []string {
	return t.entries[key(from, to)][length]
}

// Count returns the number of recorded sequences for a pair over all lengths.
func (t *PathTable) Count(from, to cube.Position) int {
	n := 0
	for _, seqs := range t.entries[key(from, to)] {
		n += len(seqs)
	}
	return n
}

// Total returns the number of recorded sequences in the whole table.
func (t *PathTable) Total() int {
	n := 0
	for _, entry := range t.entries {
		for _, seqs := range entry {
			n += len(seqs)
		}
	}
	return n
}

func (t *PathTable) add(from, to, length int, seq string) {
	k := pairKey{from: uint8(from), to: uint8(to)}
	entry := t.entries[k]
	if entry == nil {
		entry = make(map[int][]string)
		t.entries[k] = entry
	}
	entry[length] = append(entry[length], seq)
}

func (t *PathTable) size(from, to, length int) int {
	return len(t.entries[pairKey{from: uint8(from), to: uint8(to)}][length])
}

func key(from, to cube.Position) pairKey {
	return pairKey{from: uint8(from.Index()), to: uint8(to.Index())}
}

// noMove marks the root of a search tree.
const noMove = 0xff

// pathNode is one partial sequence. Sequences are rebuilt from parent links
// when recorded, so a level only stores fixed-size nodes.
type pathNode struct {
	parent  int32
	move    uint8
	pos     uint8
	visited uint32 // bit i set = position i already on this path
}

type pathBuilder struct {
	g     *PositionGraph
	opts  PathOptions
	table *PathTable
	nodes []pathNode
}

// BuildPathTable enumerates admissible move sequences between every ordered
// pair of one class, up to opts.MaxDepth moves.
//
// A move may not follow a move of the same face. A path never revisits a
// position it already passed through; for distinct endpoints the source
// counts as visited, for loops it does not, so sequences that come back to
// the source are found. All paths of one length are extended before any
// longer one, and a match never stops the search.
func BuildPathTable(g *PositionGraph, class cube.Class, opts *PathOptions) *PathTable {
	if opts == nil {
		opts = DefaultPathOptions()
	}
	b := &pathBuilder{
		g:     g,
		opts:  *opts,
		table: newPathTable(class),
	}

	member := uint32(0)
	for _, p := range b.table.positions {
		member |= 1 << uint(p.Index())
	}

	for _, src := range b.table.positions {
		s := src.Index()

		// The search tree for (s, t) does not depend on t when t != s, so one
		// tree serves every distinct target.
		b.search(s, 1<<uint(s), func(to int) bool {
			return to != s && member&(1<<uint(to)) != 0
		}, false)

		b.table.add(s, s, 0, "")
		b.search(s, 0, func(to int) bool { return to == s }, true)
	}
	return b.table
}

// search runs the level-synchronized enumeration from src. When stopOnRecord
// is set a recorded path is not extended further; used for loops, where the
// source is visited after the first return and nothing more can match.
func (b *pathBuilder) search(src int, visited uint32, record func(to int) bool, stopOnRecord bool) {
	b.nodes = append(b.nodes[:0], pathNode{parent: -1, move: noMove, pos: uint8(src), visited: visited})
	current := []int32{0}
	var next []int32

	for depth := 1; depth <= b.opts.MaxDepth && len(current) > 0; depth++ {
		next = next[:0]
		for _, idx := range current {
			node := b.nodes[idx]
			for m := 0; m < b.g.MoveCount(); m++ {
				if node.move != noMove && b.g.designators[m] == b.g.designators[node.move] {
					continue
				}
				to := b.g.nextIndex(int(node.pos), m)
				if node.visited&(1<<uint(to)) != 0 {
					continue
				}

				b.nodes = append(b.nodes, pathNode{
					parent:  idx,
					move:    uint8(m),
					pos:     uint8(to),
					visited: node.visited | 1<<uint(to),
				})
				child := int32(len(b.nodes) - 1)

				if record(to) {
					if b.opts.MaxSequencesPerLength == 0 || b.table.size(src, to, depth) < b.opts.MaxSequencesPerLength {
						b.table.add(src, to, depth, b.sequence(child, depth))
					}
					if stopOnRecord {
						continue
					}
				}
				next = append(next, child)
			}
		}
		current, next = next, current
	}
}

// sequence rebuilds the move names leading to a node.
func (b *pathBuilder) sequence(idx int32, length int) string {
	names := make([]string, length)
	for i := length - 1; i >= 0; i-- {
		node := b.nodes[idx]
		names[i] = b.g.names[node.move]
		idx = node.parent
	}
	return strings.Join(names, " ")
}
