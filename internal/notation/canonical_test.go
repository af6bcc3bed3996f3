package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/gocube_tables/pkg/types"
)

func TestParseNotation(t *testing.T) {
	m, ok := ParseNotation("R'")
	require.True(t, ok)
	assert.Equal(t, types.Move{Face: types.FaceR, Turn: types.TurnCCW}, m)

	m, ok = ParseNotation(" N ")
	require.True(t, ok)
	assert.True(t, m.IsIdentity())

	_, ok = ParseNotation("r")
	assert.False(t, ok)
}

func TestParseSequenceSpaced(t *testing.T) {
	moves, err := ParseSequence("R U' F2 N")
	require.NoError(t, err)
	assert.Equal(t, "R U' F2 N", FormatSequence(moves))
}

func TestParseSequenceConcatenated(t *testing.T) {
	moves, err := ParseSequence("RU'F2L")
	require.NoError(t, err)
	assert.Equal(t, "R U' F2 L", FormatSequence(moves))
}

func TestParseSequenceInvalid(t *testing.T) {
	_, err := ParseSequence("R X")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMove)
	assert.Contains(t, err.Error(), `"X"`)
}

func TestParseSequenceEmpty(t *testing.T) {
	moves, err := ParseSequence("   ")
	require.NoError(t, err)
	assert.Empty(t, moves)
	assert.Equal(t, "", FormatSequence(moves))
}

func TestHasSameFaceRepeat(t *testing.T) {
	moves, err := ParseSequence("R U R2")
	require.NoError(t, err)
	assert.False(t, HasSameFaceRepeat(moves))

	moves, err = ParseSequence("R R2 U")
	require.NoError(t, err)
	assert.True(t, HasSameFaceRepeat(moves))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "right face clockwise", Describe(types.Move{Face: types.FaceR, Turn: types.TurnCW}))
	assert.Equal(t, "top face anti-clockwise", Describe(types.Move{Face: types.FaceU, Turn: types.TurnCCW}))
	assert.Equal(t, "no turn", Describe(types.Identity))

	moves, err := ParseSequence("F2 D")
	require.NoError(t, err)
	assert.Equal(t, "front face half turn, bottom face clockwise", DescribeSequence(moves))
}

func TestCancellations(t *testing.T) {
	moves, err := ParseSequence("R R' U2 U2 F F N N")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, Cancellations(moves))

	moves, err = ParseSequence("R U R' U'")
	require.NoError(t, err)
	assert.Empty(t, Cancellations(moves))
}
