package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/gocube_tables/internal/config"
	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/internal/generator"
	"github.com/SeamusWaldron/gocube_tables/internal/storage"
	"github.com/SeamusWaldron/gocube_tables/internal/tables"
)

func TestParsePositionArg(t *testing.T) {
	want := cube.Position{I: 0, J: 1, K: 2}
	for _, s := range []string{"(0, 1, 2)", "0,1,2", "0, 1, 2", "012", " 012 "} {
		got, err := parsePositionArg(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}
	for _, s := range []string{"", "0,1", "013", "a,b,c", "0123"} {
		_, err := parsePositionArg(s)
		assert.Error(t, err, s)
	}
}

func TestClassPath(t *testing.T) {
	saved := cfg
	defer func() { cfg = saved }()

	cfg = config.DefaultConfig()
	cfg.OutputDir = "out"
	assert.Equal(t, filepath.Join("out", "edge_distance_table.json"), classPath(cube.ClassEdge, generator.KindDistance))
	assert.Equal(t, filepath.Join("out", "corner_path_table.json"), classPath(cube.ClassCorner, generator.KindPath))

	cfg.Compress = true
	assert.Equal(t, filepath.Join("out", "movement_table.json.xz"), movementPath())
}

func TestCheckClass(t *testing.T) {
	assert.NoError(t, checkClass(cube.ClassEdge, cube.Position{I: 0, J: 0, K: 1}))
	assert.Error(t, checkClass(cube.ClassEdge, cube.Position{I: 0, J: 0, K: 0}))
	assert.Error(t, checkClass(cube.ClassCorner, cube.Position{I: 1, J: 1, K: 1}))
}

func testGraph() *tables.PositionGraph {
	return tables.NewPositionGraph(tables.DeriveMovementTable(cube.New()))
}

func TestDistanceMatrixPlain(t *testing.T) {
	saved := styled
	styled = false
	defer func() { styled = saved }()

	dt := tables.BuildDistanceTable(testGraph(), cube.ClassCorner)
	lines := strings.Split(strings.TrimRight(distanceMatrix(dt), "\n"), "\n")

	require.Len(t, lines, 9)
	assert.Equal(t, strings.Repeat(" ", 13)+"   0   1   2   3   4   5   6   7", lines[0])
	// the corner opposite the origin is the last in table order
	assert.True(t, strings.HasPrefix(lines[1], " 0 (0, 0, 0)    0   1"), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], "   2"), lines[1])
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseModelNavigation(t *testing.T) {
	g := testGraph()
	pt := tables.BuildPathTable(g, cube.ClassCorner, &tables.PathOptions{MaxDepth: 3})
	dt := tables.BuildDistanceTable(g, cube.ClassCorner)
	m := newBrowseModel(pt, dt)

	// starts on the origin loop, whose first length is the empty sequence
	assert.Equal(t, 0, m.from)
	assert.Equal(t, 0, m.to)
	assert.Equal(t, []string{""}, m.sequences())
	assert.Contains(t, m.View(), "(stay)")

	m.Update(key("]"))
	assert.Equal(t, 1, m.lengthIdx)
	assert.Equal(t, pt.Sequences(m.positions[0], m.positions[0], 1), m.sequences())

	m.Update(key("down"))
	assert.Equal(t, 1, m.to)
	assert.Equal(t, 0, m.lengthIdx, "changing the pair resets the length")

	m.Update(key("left"))
	assert.Equal(t, len(m.positions)-1, m.from, "source selection wraps")

	m.Update(key("["))
	assert.Equal(t, 0, m.lengthIdx)

	view := m.View()
	assert.Contains(t, view, tables.PositionLiteral(m.positions[m.from]))
	assert.Contains(t, view, "distance")

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestBrowseModelPaging(t *testing.T) {
	pt := tables.BuildPathTable(testGraph(), cube.ClassCorner, nil)
	m := newBrowseModel(pt, nil)

	// pick the longest list for the first pair
	best := 0
	for i, l := range m.lengths() {
		if len(pt.Sequences(m.positions[0], m.positions[0], l)) > len(pt.Sequences(m.positions[0], m.positions[0], m.lengths()[best])) {
			best = i
		}
	}
	m.lengthIdx = best
	total := len(m.sequences())
	require.Greater(t, total, browsePageSize)

	m.Update(key("d"))
	assert.Equal(t, browsePageSize, m.offset)
	m.Update(key("u"))
	m.Update(key("u"))
	assert.Equal(t, 0, m.offset)
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "3", formatDistance(3, true))
	assert.Equal(t, "0", formatDistance(0, true))
	assert.Equal(t, "unreachable", formatDistance(tables.Unreachable, true))
	assert.Equal(t, "-", formatDistance(0, false), "a missing pair is not distance 0")
}

func openTestCatalog(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLatestOutput(t *testing.T) {
	runs := storage.NewRunRepository(openTestCatalog(t))
	fallback := "edge_distance_table.json"

	assert.Equal(t, fallback, latestOutput(runs, generator.KindDistance, "edge", fallback))

	kept := filepath.Join(t.TempDir(), "edge_distance_v1.json")
	require.NoError(t, os.WriteFile(kept, []byte("{}"), 0644))
	id, err := runs.Start(generator.KindDistance, "edge", kept, 0)
	require.NoError(t, err)
	require.NoError(t, runs.Complete(id, 144, 2))
	assert.Equal(t, kept, latestOutput(runs, generator.KindDistance, "edge", fallback))
	assert.Equal(t, "corner.json", latestOutput(runs, generator.KindDistance, "corner", "corner.json"))

	// a newer run whose file was removed is skipped
	id, err = runs.Start(generator.KindDistance, "edge", filepath.Join(t.TempDir(), "gone.json"), 0)
	require.NoError(t, err)
	require.NoError(t, runs.Complete(id, 144, 2))
	assert.Equal(t, fallback, latestOutput(runs, generator.KindDistance, "edge", fallback))
}

func TestPairSummary(t *testing.T) {
	saved := styled
	styled = false
	defer func() { styled = saved }()

	db := openTestCatalog(t)
	runs := storage.NewRunRepository(db)
	g := testGraph()
	origin, far := cube.Position{I: 0, J: 0, K: 0}, cube.Position{I: 2, J: 2, K: 2}

	id, err := runs.Start(generator.KindDistance, "corner", "corner_distance_table.json", 0)
	require.NoError(t, err)
	require.NoError(t, storage.NewDistanceRepository(db).SaveTable(id, tables.BuildDistanceTable(g, cube.ClassCorner)))
	run, err := runs.Get(id)
	require.NoError(t, err)

	out, err := pairSummary(db, run, origin, far)
	require.NoError(t, err)
	assert.Equal(t, "(0, 0, 0) → (2, 2, 2): 2\n", out)

	pt := tables.BuildPathTable(g, cube.ClassCorner, &tables.PathOptions{MaxDepth: 3})
	id, err = runs.Start(generator.KindPath, "corner", "corner_path_table.json", 3)
	require.NoError(t, err)
	require.NoError(t, storage.NewPathCountRepository(db).SaveTable(id, pt))
	run, err = runs.Get(id)
	require.NoError(t, err)

	out, err = pairSummary(db, run, origin, far)
	require.NoError(t, err)
	want := "(0, 0, 0) → (2, 2, 2)\n"
	for _, l := range pt.Lengths(origin, far) {
		want += fmt.Sprintf("  %3d  %d\n", l, len(pt.Sequences(origin, far, l)))
	}
	assert.Equal(t, want, out)

	id, err = runs.Start(generator.KindMovement, "", "movement_table.json", 0)
	require.NoError(t, err)
	run, err = runs.Get(id)
	require.NoError(t, err)
	_, err = pairSummary(db, run, origin, far)
	assert.Error(t, err)
}
