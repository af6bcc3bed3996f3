// Package types contains shared type definitions for the cube table tools.
package types

// Face represents a cube face in standard notation.
type Face string

const (
	FaceL Face = "L" // Left
	FaceR Face = "R" // Right
	FaceF Face = "F" // Front
	FaceB Face = "B" // Back
	FaceU Face = "U" // Up
	FaceD Face = "D" // Down
	FaceN Face = "N" // No-op, the identity move
)

// Turn represents the direction and magnitude of a face turn.
type Turn int

const (
	TurnNone Turn = 0  // Identity
	TurnCW   Turn = 1  // Clockwise quarter turn
	TurnCCW  Turn = -1 // Counter-clockwise quarter turn
	Turn180  Turn = 2  // 180 degree turn (half turn)
)

// Move represents a single atomic move: a face and a turn.
type Move struct {
	Face Face `json:"face"`
	Turn Turn `json:"turn"`
}

// Identity is the no-op move. It permutes nothing.
var Identity = Move{Face: FaceN, Turn: TurnNone}

// allMoves is the fixed move set in table order: half-turn metric per face, then identity.
var allMoves = []Move{
	{FaceL, TurnCW}, {FaceL, Turn180}, {FaceL, TurnCCW},
	{FaceR, TurnCW}, {FaceR, Turn180}, {FaceR, TurnCCW},
	{FaceF, TurnCW}, {FaceF, Turn180}, {FaceF, TurnCCW},
	{FaceB, TurnCW}, {FaceB, Turn180}, {FaceB, TurnCCW},
	{FaceU, TurnCW}, {FaceU, Turn180}, {FaceU, TurnCCW},
	{FaceD, TurnCW}, {FaceD, Turn180}, {FaceD, TurnCCW},
	Identity,
}

// MoveCount is the size of the fixed move set.
const MoveCount = 19

// AllMoves returns the fixed move set in its stable order.
// The returned slice is a copy.
func AllMoves() []Move {
	out := make([]Move, len(allMoves))
	copy(out, allMoves)
	return out
}

// Notation returns the standard cube notation string for this move.
// Examples: R, R', R2, U, U', U2, N
func (m Move) Notation() string {
	suffix := ""
	switch m.Turn {
	case TurnCCW:
		suffix = "'"
	case Turn180:
		suffix = "2"
	}
	return string(m.Face) + suffix
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// Designator returns the leading face symbol of the move name.
// Two moves with the same designator turn the same face.
func (m Move) Designator() byte {
	return m.Notation()[0]
}

// IsIdentity reports whether the move is the no-op move.
func (m Move) IsIdentity() bool {
	return m.Face == FaceN
}

// Inverse returns the inverse of this move.
func (m Move) Inverse() Move {
	inv := m
	switch m.Turn {
	case TurnCW:
		inv.Turn = TurnCCW
	case TurnCCW:
		inv.Turn = TurnCW
	// Turn180 and TurnNone are their own inverse
	}
	return inv
}

// SameFace returns true if both moves turn the same face.
func (m Move) SameFace(other Move) bool {
	return m.Designator() == other.Designator()
}

// IsCancellation returns true if the other move cancels this move.
func (m Move) IsCancellation(other Move) bool {
	if m.Face != other.Face || m.IsIdentity() {
		return false
	}
	return m.Turn == -other.Turn ||
		(m.Turn == Turn180 && other.Turn == Turn180)
}

// Index returns the position of the move in AllMoves, or -1 if it is not part of the set.
func (m Move) Index() int {
	for i, candidate := range allMoves {
		if candidate == m {
			return i
		}
	}
	return -1
}

// MoveFromIndex returns the move at position i of AllMoves.
func MoveFromIndex(i int) Move {
	return allMoves[i]
}
