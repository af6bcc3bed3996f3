package cube

import (
	"github.com/SeamusWaldron/gocube_tables/internal/notation"
	"github.com/SeamusWaldron/gocube_tables/pkg/types"
)

// ApplyMove applies a types.Move to the cube. The identity move changes nothing.
func (c *Cube) ApplyMove(m types.Move) {
	if m.IsIdentity() {
		return
	}
	c.Move(typesFaceToFace(m.Face), int(m.Turn))
}

// ApplyMoves applies a sequence of moves to the cube.
func (c *Cube) ApplyMoves(moves []types.Move) {
	for _, m := range moves {
		c.ApplyMove(m)
	}
}

// ApplyNotation parses and applies a move sequence such as "R U' F2".
// Nothing is applied if any token is invalid.
func (c *Cube) ApplyNotation(s string) error {
	moves, err := notation.ParseSequence(s)
	if err != nil {
		return err
	}
	c.ApplyMoves(moves)
	return nil
}

// typesFaceToFace converts types.Face to cube.Face.
func typesFaceToFace(f types.Face) Face {
	switch f {
	case types.FaceU:
		return U
	case types.FaceD:
		return D
	case types.FaceF:
		return F
	case types.FaceB:
		return B
	case types.FaceR:
		return R
	case types.FaceL:
		return L
	default:
		return U
	}
}
