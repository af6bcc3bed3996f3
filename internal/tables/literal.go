package tables

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
)

// Table keys are tuple literals: a position is "(i, j, k)" and a pair is
// "((i, j, k), (i, j, k))". Existing tables on disk use exactly this spelling.

// PositionLiteral formats a position key.
func PositionLiteral(p cube.Position) string {
	return p.String()
}

// PairLiteral formats a (from, to) key.
func PairLiteral(from, to cube.Position) string {
	return "(" + from.String() + ", " + to.String() + ")"
}

// ParsePosition parses a position literal such as "(0, 1, 2)".
func ParsePosition(s string) (cube.Position, error) {
	inner, ok := unwrap(s)
	if !ok {
		return cube.Position{}, fmt.Errorf("%w: %q", ErrInvalidLiteral, s)
	}

	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return cube.Position{}, fmt.Errorf("%w: %q has %d components", ErrInvalidLiteral, s, len(parts))
	}

	var coords [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return cube.Position{}, fmt.Errorf("%w: %q: %v", ErrInvalidLiteral, s, err)
		}
		coords[i] = v
	}

	p := cube.Position{I: coords[0], J: coords[1], K: coords[2]}
	if !p.Valid() {
		return cube.Position{}, fmt.Errorf("%w: %q out of range", ErrInvalidLiteral, s)
	}
	return p, nil
}

// ParsePair parses a pair literal such as "((0, 0, 1), (0, 1, 0))".
func ParsePair(s string) (from, to cube.Position, err error) {
	inner, ok := unwrap(s)
	if !ok {
		return from, to, fmt.Errorf("%w: %q", ErrInvalidLiteral, s)
	}

	end := strings.IndexByte(inner, ')')
	if end < 0 {
		return from, to, fmt.Errorf("%w: %q", ErrInvalidLiteral, s)
	}
	if from, err = ParsePosition(inner[:end+1]); err != nil {
		return from, to, err
	}

	rest := strings.TrimSpace(inner[end+1:])
	if !strings.HasPrefix(rest, ",") {
		return from, to, fmt.Errorf("%w: %q", ErrInvalidLiteral, s)
	}
	if to, err = ParsePosition(rest[1:]); err != nil {
		return from, to, err
	}
	return from, to, nil
}

// unwrap strips one pair of enclosing parentheses.
func unwrap(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", false
	}
	return s[1 : len(s)-1], true
}
