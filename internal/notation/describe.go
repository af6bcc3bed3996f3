package notation

import (
	"strings"

	"github.com/SeamusWaldron/gocube_tables/pkg/types"
)

var faceNames = map[types.Face]string{
	types.FaceL: "left",
	types.FaceR: "right",
	types.FaceF: "front",
	types.FaceB: "back",
	types.FaceU: "top",
	types.FaceD: "bottom",
}

// Describe spells a move out in words, e.g. "right face clockwise".
// Directions are as seen looking straight at the turned face.
func Describe(m types.Move) string {
	if m.IsIdentity() {
		return "no turn"
	}
	name, ok := faceNames[m.Face]
	if !ok {
		return m.Notation()
	}

	switch m.Turn {
	case types.TurnCW:
		return name + " face clockwise"
	case types.TurnCCW:
		return name + " face anti-clockwise"
	case types.Turn180:
		return name + " face half turn"
	}
	return m.Notation()
}

// DescribeSequence describes each move, comma separated.
func DescribeSequence(moves []types.Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = Describe(m)
	}
	return strings.Join(parts, ", ")
}
