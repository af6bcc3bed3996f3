package tables

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
)

func TestLiterals(t *testing.T) {
	p := cube.Position{I: 0, J: 1, K: 2}
	assert.Equal(t, "(0, 1, 2)", PositionLiteral(p))
	assert.Equal(t, "((0, 1, 2), (2, 1, 0))", PairLiteral(p, cube.Position{I: 2, J: 1, K: 0}))

	got, err := ParsePosition(" (0,1, 2) ")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	from, to, err := ParsePair("((0, 0, 1), (2, 2, 1))")
	require.NoError(t, err)
	assert.Equal(t, cube.Position{I: 0, J: 0, K: 1}, from)
	assert.Equal(t, cube.Position{I: 2, J: 2, K: 1}, to)
}

func TestLiteralRoundTrip(t *testing.T) {
	for _, a := range cube.AllPositions() {
		got, err := ParsePosition(PositionLiteral(a))
		require.NoError(t, err)
		assert.Equal(t, a, got)

		b := cube.PositionFromIndex(cube.Size - 1 - a.Index())
		from, to, err := ParsePair(PairLiteral(a, b))
		require.NoError(t, err)
		assert.Equal(t, a, from)
		assert.Equal(t, b, to)
	}
}

func TestParseLiteralErrors(t *testing.T) {
	for _, s := range []string{"", "0, 1, 2", "(0, 1)", "(0, 1, 2, 3)", "(0, 1, x)", "(0, 3, 1)", "((0, 1, 2))"} {
		_, err := ParsePosition(s)
		assert.ErrorIs(t, err, ErrInvalidLiteral, "ParsePosition(%q)", s)
	}
	for _, s := range []string{"(0, 1, 2)", "((0, 1, 2) (0, 1, 2))", "((0, 1, 2), (0, 1))", "(0, 1, 2), (0, 1, 2)"} {
		_, _, err := ParsePair(s)
		assert.ErrorIs(t, err, ErrInvalidLiteral, "ParsePair(%q)", s)
	}
}

func TestMovementTableRoundTrip(t *testing.T) {
	mt := derived(t)

	var buf bytes.Buffer
	require.NoError(t, WriteMovementTable(&buf, mt))
	assert.True(t, strings.HasPrefix(buf.String(), `{"L": {"(0, 0, 0)": "(0, 2, 0)", `))

	got, err := ReadMovementTable(&buf)
	require.NoError(t, err)
	assert.True(t, mt.Equal(got))
}

func TestReadMovementTableMissingPosition(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMovementTable(&buf, derived(t)))

	var raw map[string]map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	delete(raw["R2"], "(1, 1, 1)")
	data, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = ReadMovementTable(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMovementTableIncomplete)
	assert.Contains(t, err.Error(), "R2")
}

func TestReadMovementTableMissingMove(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMovementTable(&buf, derived(t)))

	var raw map[string]map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	delete(raw, "N")
	data, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = ReadMovementTable(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMovementTableIncomplete)
}

func TestReadMovementTableUnknownMove(t *testing.T) {
	_, err := ReadMovementTable(strings.NewReader(`{"M": {}}`))
	assert.ErrorIs(t, err, ErrUnknownMove)
}

func TestReadMovementTableMalformed(t *testing.T) {
	_, err := ReadMovementTable(strings.NewReader(`{"L": `))
	assert.Error(t, err)
}

func TestDistanceTableRoundTrip(t *testing.T) {
	dt := BuildDistanceTable(graph(t), cube.ClassCorner)

	var buf bytes.Buffer
	require.NoError(t, WriteDistanceTable(&buf, dt))
	assert.True(t, strings.HasPrefix(buf.String(), `{"((0, 0, 0), (0, 0, 0))": 0, "((0, 0, 0), (0, 0, 2))": 1`))

	got, err := ReadDistanceTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, cube.ClassCorner, got.Class())
	assert.Equal(t, dt.Len(), got.Len())
	for _, a := range dt.Positions() {
		for _, b := range dt.Positions() {
			want, _ := dt.Get(a, b)
			d, ok := got.Get(a, b)
			require.True(t, ok)
			assert.Equal(t, want, d)
		}
	}
}

func TestReadDistanceTableMixedClasses(t *testing.T) {
	_, err := ReadDistanceTable(strings.NewReader(`{"((0, 0, 0), (0, 0, 1))": 1}`))
	assert.ErrorIs(t, err, ErrMixedClasses)
}

func TestPathTableRoundTrip(t *testing.T) {
	pt := BuildPathTable(graph(t), cube.ClassEdge, &PathOptions{MaxDepth: 3})

	var buf bytes.Buffer
	require.NoError(t, WritePathTable(&buf, pt))
	assert.Contains(t, buf.String(), `"((0, 0, 1), (0, 1, 2))": {"1": ["F"], "2": [`)

	got, err := ReadPathTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, cube.ClassEdge, got.Class())
	assert.Equal(t, pt.Total(), got.Total())
	for _, a := range pt.Positions() {
		for _, b := range pt.Positions() {
			require.Equal(t, pt.Lengths(a, b), got.Lengths(a, b))
			for _, l := range pt.Lengths(a, b) {
				assert.Equal(t, pt.Sequences(a, b, l), got.Sequences(a, b, l))
			}
		}
	}
}

func TestReadPathTableBadLength(t *testing.T) {
	_, err := ReadPathTable(strings.NewReader(`{"((0, 0, 1), (0, 1, 2))": {"one": ["F"]}}`))
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestReadDistanceTableTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDistanceTable(&buf, BuildDistanceTable(graph(t), cube.ClassCorner)))

	var raw map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	delete(raw, "((0, 0, 0), (0, 0, 2))")
	data, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = ReadDistanceTable(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidEntry)
	assert.Contains(t, err.Error(), "63 of 64")

	_, err = ReadDistanceTable(strings.NewReader(`{"((0, 0, 0), (2, 2, 2))": 2}`))
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestReadPathTableRejectsBadSequences(t *testing.T) {
	for _, doc := range []string{
		`{"((0, 0, 1), (0, 1, 2))": {"5": ["F"]}}`,
		`{"((0, 0, 1), (0, 1, 2))": {"1": ["F U"]}}`,
		`{"((0, 0, 1), (0, 1, 2))": {"2": ["F F2"]}}`,
		`{"((0, 0, 1), (0, 1, 2))": {"1": ["X"]}}`,
		`{"((0, 0, 1), (0, 0, 1))": {"0": ["F"]}}`,
	} {
		_, err := ReadPathTable(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrInvalidEntry, doc)
	}

	got, err := ReadPathTable(strings.NewReader(`{"((0, 0, 1), (0, 0, 1))": {"0": [""]}, "((0, 0, 1), (0, 1, 2))": {"1": ["F"]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{""}, got.Sequences(cube.Position{I: 0, J: 0, K: 1}, cube.Position{I: 0, J: 0, K: 1}, 0))
}
