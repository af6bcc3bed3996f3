package tables

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/internal/notation"
	"github.com/SeamusWaldron/gocube_tables/pkg/types"
)

// The on-disk layout is one JSON object per table, with tuple literals as keys:
//
//	movement: {"L": {"(0, 0, 0)": "(0, 2, 0)", ...}, ...}
//	distance: {"((0, 0, 1), (0, 1, 0))": 1, ...}
//	path:     {"((0, 0, 1), (0, 1, 0))": {"1": ["F'"], "3": [...]}, ...}
//
// Writers emit keys in table order (moves in move-set order, positions
// ascending) so repeated runs produce identical bytes.

// jsonWriter writes compact JSON with ", " and ": " separators.
type jsonWriter struct {
	w   *bufio.Writer
	err error
}

func newJSONWriter(w io.Writer) *jsonWriter {
	return &jsonWriter{w: bufio.NewWriterSize(w, 1<<16)}
}

func (jw *jsonWriter) raw(s string) {
	if jw.err == nil {
		_, jw.err = jw.w.WriteString(s)
	}
}

func (jw *jsonWriter) str(s string) {
	if jw.err != nil {
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		jw.err = err
		return
	}
	_, jw.err = jw.w.Write(data)
}

func (jw *jsonWriter) sep(first bool) {
	if !first {
		jw.raw(", ")
	}
}

func (jw *jsonWriter) flush() error {
	if jw.err != nil {
		return jw.err
	}
	return jw.w.Flush()
}

// WriteMovementTable encodes a movement table.
func WriteMovementTable(w io.Writer, t *MovementTable) error {
	jw := newJSONWriter(w)
	jw.raw("{")
	for i, m := range t.moves {
		jw.sep(i == 0)
		jw.str(m.Notation())
		jw.raw(": {")
		for idx, from := range cube.AllPositions() {
			jw.sep(idx == 0)
			jw.str(PositionLiteral(from))
			jw.raw(": ")
			jw.str(PositionLiteral(t.perms[i].Apply(from)))
		}
		jw.raw("}")
	}
	jw.raw("}\n")
	return jw.flush()
}

// ReadMovementTable decodes and validates a movement table. Any missing move or
// position is an error.
func ReadMovementTable(r io.Reader) (*MovementTable, error) {
	var raw map[string]map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode movement table: %w", err)
	}

	for name := range raw {
		if _, ok := notation.ParseNotation(name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMove, name)
		}
	}

	moves := types.AllMoves()
	perms := make([]Permutation, len(moves))
	for i, m := range moves {
		entries, ok := raw[m.Notation()]
		if !ok {
			return nil, fmt.Errorf("%w: move %s missing", ErrMovementTableIncomplete, m)
		}

		var filled [cube.Size]bool
		for fromLit, toLit := range entries {
			from, err := ParsePosition(fromLit)
			if err != nil {
				return nil, fmt.Errorf("move %s: %w", m, err)
			}
			to, err := ParsePosition(toLit)
			if err != nil {
				return nil, fmt.Errorf("move %s: %w", m, err)
			}
			perms[i][from.Index()] = uint8(to.Index())
			filled[from.Index()] = true
		}
		for idx, ok := range filled {
			if !ok {
				return nil, fmt.Errorf("%w: move %s has no entry for %v",
					ErrMovementTableIncomplete, m, cube.PositionFromIndex(idx))
			}
		}
	}

	return NewMovementTable(moves, perms)
}

// WriteDistanceTable encodes a distance table.
func WriteDistanceTable(w io.Writer, t *DistanceTable) error {
	jw := newJSONWriter(w)
	jw.raw("{")
	first := true
	for _, from := range t.positions {
		for _, to := range t.positions {
			d, ok := t.Get(from, to)
			if !ok {
				continue
			}
			jw.sep(first)
			first = false
			jw.str(PairLiteral(from, to))
			jw.raw(": " + strconv.Itoa(d))
		}
	}
	jw.raw("}\n")
	return jw.flush()
}

// ReadDistanceTable decodes a distance table. The class is taken from the keys.
func ReadDistanceTable(r io.Reader) (*DistanceTable, error) {
	var raw map[string]int
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode distance table: %w", err)
	}

	class, err := classOfKeys(raw)
	if err != nil {
		return nil, err
	}

	t := newDistanceTable(class)
	for lit, d := range raw {
		from, to, err := ParsePair(lit)
		if err != nil {
			return nil, err
		}
		if d < Unreachable {
			return nil, fmt.Errorf("%w: distance %d for %s", ErrInvalidEntry, d, lit)
		}
		t.set(from, to, d)
	}
	if want := len(t.positions) * len(t.positions); t.Len() != want {
		return nil, fmt.Errorf("%w: %s distance table has %d of %d pairs", ErrInvalidEntry, class, t.Len(), want)
	}
	return t, nil
}

// WritePathTable encodes a path table.
func WritePathTable(w io.Writer, t *PathTable) error {
	jw := newJSONWriter(w)
	jw.raw("{")
	first := true
	for _, from := range t.positions {
		for _, to := range t.positions {
			lengths := t.Lengths(from, to)
			if len(lengths) == 0 {
				continue
			}
			jw.sep(first)
			first = false
			jw.str(PairLiteral(from, to))
			jw.raw(": {")
			for i, l := range lengths {
				jw.sep(i == 0)
				jw.str(strconv.Itoa(l))
				jw.raw(": [")
				for j, seq := range t.Sequences(from, to, l) {
					jw.sep(j == 0)
					jw.str(seq)
				}
				jw.raw("]")
			}
			jw.raw("}")
		}
	}
	jw.raw("}\n")
	return jw.flush()
}

// ReadPathTable decodes a path table. The class is taken from the keys.
func ReadPathTable(r io.Reader) (*PathTable, error) {
	var raw map[string]map[string][]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode path table: %w", err)
	}

	class, err := classOfKeys(raw)
	if err != nil {
		return nil, err
	}

	t := newPathTable(class)
	for lit, byLength := range raw {
		from, to, err := ParsePair(lit)
		if err != nil {
			return nil, err
		}
		for lengthKey, seqs := range byLength {
			l, err := strconv.Atoi(lengthKey)
			if err != nil || l < 0 {
				return nil, fmt.Errorf("%w: length %q for %s", ErrInvalidEntry, lengthKey, lit)
			}
			for _, seq := range seqs {
				if err := checkSequence(seq, l); err != nil {
					return nil, fmt.Errorf("%w: %s length %d: %v", ErrInvalidEntry, lit, l, err)
				}
				t.add(from.Index(), to.Index(), l, seq)
			}
		}
	}
	return t, nil
}

// checkSequence rejects a sequence that is not exactly length admissible moves.
func checkSequence(seq string, length int) error {
	moves, err := notation.ParseSequence(seq)
	if err != nil {
		return err
	}
	if len(moves) != length {
		return fmt.Errorf("%q has %d moves", seq, len(moves))
	}
	if notation.HasSameFaceRepeat(moves) {
		return fmt.Errorf("%q repeats a face", seq)
	}
	return nil
}

// classOfKeys checks that every pair key names two positions of one class.
func classOfKeys[V any](raw map[string]V) (cube.Class, error) {
	class := cube.ClassNone
	for lit := range raw {
		from, to, err := ParsePair(lit)
		if err != nil {
			return cube.ClassNone, err
		}
		for _, p := range []cube.Position{from, to} {
			c := cube.Classify(p)
			if c == cube.ClassNone || (class != cube.ClassNone && c != class) {
				return cube.ClassNone, fmt.Errorf("%w: %s", ErrMixedClasses, lit)
			}
			class = c
		}
	}
	if class == cube.ClassNone {
		return cube.ClassNone, fmt.Errorf("%w: empty table", ErrInvalidEntry)
	}
	return class, nil
}
