package generator

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/internal/storage"
	"github.com/SeamusWaldron/gocube_tables/internal/tablefile"
	"github.com/SeamusWaldron/gocube_tables/internal/tables"
)

func newTestGenerator(t *testing.T) (*Generator, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts := DefaultOptions()
	opts.Path.MaxDepth = 4
	opts.Logger = logger
	return New(opts), hook
}

func writeMovement(t *testing.T, g *Generator, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "movement_table.json")
	_, err := g.GenerateMovementTable(context.Background(), path)
	require.NoError(t, err)
	return path
}

func TestValidateOutputPath(t *testing.T) {
	ok := []struct {
		class cube.Class
		kind  string
		path  string
	}{
		{cube.ClassEdge, KindDistance, "out/edge_distance_table.json"},
		{cube.ClassCorner, KindPath, "Corner_PATH.json.xz"},
		{cube.ClassEdge, KindPath, "/tmp/x/edge-path"},
	}
	for _, tc := range ok {
		assert.NoError(t, ValidateOutputPath(tc.class, tc.kind, tc.path), tc.path)
	}

	bad := []struct {
		class cube.Class
		kind  string
		path  string
	}{
		{cube.ClassEdge, KindDistance, "corner_distance_table.json"},
		{cube.ClassEdge, KindDistance, "edge_path_table.json"},
		{cube.ClassCorner, KindPath, "corner/table.json"},
		{cube.ClassNone, KindPath, "none_path.json"},
	}
	for _, tc := range bad {
		assert.ErrorIs(t, ValidateOutputPath(tc.class, tc.kind, tc.path), ErrNamingConvention, tc.path)
	}
}

func TestGenerateMovementTable(t *testing.T) {
	g, hook := newTestGenerator(t)
	path := filepath.Join(t.TempDir(), "movement_table.json")

	res, err := g.GenerateMovementTable(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, KindMovement, res.Kind)
	assert.Equal(t, int64(19*27), res.Entries)
	assert.Positive(t, res.Bytes)

	mt, err := LoadMovementTable(path)
	require.NoError(t, err)
	assert.True(t, tables.DeriveMovementTable(cube.New()).Equal(mt))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "table written", hook.LastEntry().Message)
}

func TestNamingCheckedBeforeLoading(t *testing.T) {
	g, _ := newTestGenerator(t)
	dir := t.TempDir()
	missing := filepath.Join(dir, "no_movement_table.json")

	_, err := g.GenerateDistanceTable(context.Background(), cube.ClassEdge, missing, filepath.Join(dir, "distances.json"))
	assert.ErrorIs(t, err, ErrNamingConvention)

	_, err = g.GeneratePathTable(context.Background(), cube.ClassCorner, missing, filepath.Join(dir, "edge_path_table.json"))
	assert.ErrorIs(t, err, ErrNamingConvention)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMissingMovementTableFailsFast(t *testing.T) {
	g, _ := newTestGenerator(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "edge_distance_table.json")

	_, err := g.GenerateDistanceTable(context.Background(), cube.ClassEdge, filepath.Join(dir, "movement_table.json"), out)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, out)
}

func TestIncompleteMovementTableFailsFast(t *testing.T) {
	g, _ := newTestGenerator(t)
	dir := t.TempDir()
	movement := filepath.Join(dir, "movement_table.json")
	require.NoError(t, os.WriteFile(movement, []byte(`{"L": {"(0, 0, 0)": "(0, 2, 0)"}}`), 0644))
	out := filepath.Join(dir, "corner_path_table.json")

	_, err := g.GeneratePathTable(context.Background(), cube.ClassCorner, movement, out)
	assert.ErrorIs(t, err, tables.ErrMovementTableIncomplete)
	assert.NoFileExists(t, out)
}

func TestGenerateDistanceAndPathTables(t *testing.T) {
	g, _ := newTestGenerator(t)
	dir := t.TempDir()
	movement := writeMovement(t, g, dir)

	distOut := filepath.Join(dir, "corner_distance_table.json")
	res, err := g.GenerateDistanceTable(context.Background(), cube.ClassCorner, movement, distOut)
	require.NoError(t, err)
	assert.Equal(t, int64(64), res.Entries)

	var dt *tables.DistanceTable
	require.NoError(t, tablefile.Read(distOut, func(r io.Reader) error {
		var err error
		dt, err = tables.ReadDistanceTable(r)
		return err
	}))
	assert.Equal(t, 2, dt.Max())

	pathOut := filepath.Join(dir, "edge_path_table.json.xz")
	res, err = g.GeneratePathTable(context.Background(), cube.ClassEdge, movement, pathOut)
	require.NoError(t, err)

	var pt *tables.PathTable
	require.NoError(t, tablefile.Read(pathOut, func(r io.Reader) error {
		var err error
		pt, err = tables.ReadPathTable(r)
		return err
	}))
	assert.Equal(t, int64(pt.Total()), res.Entries)
	for _, l := range pt.Lengths(cube.Position{I: 0, J: 0, K: 1}, cube.Position{I: 0, J: 1, K: 2}) {
		assert.LessOrEqual(t, l, 4)
	}
}

func TestCancelledContext(t *testing.T) {
	g, _ := newTestGenerator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GenerateMovementTable(ctx, filepath.Join(t.TempDir(), "movement_table.json"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateAllRecordsRuns(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		name := "sequential"
		if parallel {
			name = "parallel"
		}
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			db, err := storage.Open(filepath.Join(dir, "runs.db"))
			require.NoError(t, err)
			defer db.Close()

			g, _ := newTestGenerator(t)
			g.opts.Runs = storage.NewRunRepository(db)
			g.opts.Distances = storage.NewDistanceRepository(db)
			g.opts.Paths = storage.NewPathCountRepository(db)

			plan := Plan{
				Movement:       filepath.Join(dir, "movement_table.json"),
				EdgeDistance:   filepath.Join(dir, "edge_distance_table.json"),
				CornerDistance: filepath.Join(dir, "corner_distance_table.json"),
				EdgePath:       filepath.Join(dir, "edge_path_table.json"),
				CornerPath:     filepath.Join(dir, "corner_path_table.json.xz"),
				Parallel:       parallel,
			}
			results, err := g.GenerateAll(context.Background(), plan)
			require.NoError(t, err)
			require.Len(t, results, 5)

			wantPaths := []string{plan.Movement, plan.EdgeDistance, plan.CornerDistance, plan.EdgePath, plan.CornerPath}
			for i, res := range results {
				assert.Equal(t, wantPaths[i], res.Path)
				assert.FileExists(t, res.Path)
				assert.NotEmpty(t, res.RunID)
			}

			runs, err := storage.NewRunRepository(db).List(0)
			require.NoError(t, err)
			require.Len(t, runs, 5)
			for _, run := range runs {
				assert.Equal(t, storage.StatusCompleted, run.Status)
			}

			hist, err := storage.NewDistanceRepository(db).Histogram(results[1].RunID)
			require.NoError(t, err)
			assert.Equal(t, map[int]int{0: 12, 1: 72, 2: 60}, hist)

			counts, err := storage.NewPathCountRepository(db).ForPair(results[4].RunID, cube.Position{}, cube.Position{})
			require.NoError(t, err)
			require.NotEmpty(t, counts)
			assert.Equal(t, 0, counts[0].Length)
		})
	}
}

func TestGenerateAllValidatesPlanFirst(t *testing.T) {
	g, _ := newTestGenerator(t)
	dir := t.TempDir()
	plan := Plan{
		Movement:       filepath.Join(dir, "movement_table.json"),
		EdgeDistance:   filepath.Join(dir, "edge_distance_table.json"),
		CornerDistance: filepath.Join(dir, "corner_distance_table.json"),
		EdgePath:       filepath.Join(dir, "edge_paths.json"),
		CornerPath:     filepath.Join(dir, "corner_table.json"),
	}

	_, err := g.GenerateAll(context.Background(), plan)
	require.True(t, errors.Is(err, ErrNamingConvention))
	assert.NoFileExists(t, plan.Movement)
}

type failingRecorder struct {
	started, failed int
}

func (f *failingRecorder) Start(kind, class, outputPath string, maxDepth int) (string, error) {
	f.started++
	return "run-1", nil
}

func (f *failingRecorder) Complete(runID string, entries, bytes int64) error {
	return errors.New("catalog unavailable")
}

func (f *failingRecorder) Fail(runID string, cause error) error {
	f.failed++
	return nil
}

func TestCatalogErrorsDoNotFailGeneration(t *testing.T) {
	g, hook := newTestGenerator(t)
	rec := &failingRecorder{}
	g.opts.Runs = rec

	res, err := g.GenerateMovementTable(context.Background(), filepath.Join(t.TempDir(), "movement_table.json"))
	require.NoError(t, err)
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, 1, rec.started)
	assert.Zero(t, rec.failed)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
