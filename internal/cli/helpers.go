package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/internal/generator"
	"github.com/SeamusWaldron/gocube_tables/internal/storage"
	"github.com/SeamusWaldron/gocube_tables/internal/tablefile"
	"github.com/SeamusWaldron/gocube_tables/internal/tables"
)

// parsePositionArg accepts "(0, 1, 2)", "0,1,2" or "012".
func parsePositionArg(s string) (cube.Position, error) {
	s = strings.TrimSpace(s)
	if len(s) == 3 && !strings.ContainsAny(s, ",() ") {
		s = strings.Join(strings.Split(s, ""), ",")
	}
	if !strings.HasPrefix(s, "(") {
		s = "(" + s + ")"
	}
	p, err := tables.ParsePosition(s)
	if err != nil {
		return cube.Position{}, fmt.Errorf("invalid position %q (use i,j,k with each in 0-2)", s)
	}
	return p, nil
}

// classPath picks the configured file for a class table.
func classPath(class cube.Class, kind string) string {
	var name string
	switch {
	case class == cube.ClassEdge && kind == generator.KindDistance:
		name = cfg.Files.EdgeDistance
	case class == cube.ClassCorner && kind == generator.KindDistance:
		name = cfg.Files.CornerDistance
	case class == cube.ClassEdge && kind == generator.KindPath:
		name = cfg.Files.EdgePath
	default:
		name = cfg.Files.CornerPath
	}
	return cfg.Resolve(name)
}

func movementPath() string {
	return cfg.Resolve(cfg.Files.Movement)
}

// tablePath picks the file a read-only command loads: the explicit flag,
// else the output of the latest completed run in the catalog, else the
// configured name.
func tablePath(explicit, kind string, class cube.Class) string {
	if explicit != "" {
		return explicit
	}
	fallback := movementPath()
	catalogClass := ""
	if kind != generator.KindMovement {
		fallback = classPath(class, kind)
		catalogClass = class.String()
	}
	if !cfg.Record {
		return fallback
	}

	db, err := openCatalog()
	if err != nil {
		logger.WithError(err).Debug("catalog unavailable, using configured table path")
		return fallback
	}
	defer db.Close()
	return latestOutput(storage.NewRunRepository(db), kind, catalogClass, fallback)
}

// latestOutput returns the output of the newest completed run when that
// file still exists.
func latestOutput(runs *storage.RunRepository, kind, class, fallback string) string {
	run, err := runs.Latest(kind, class)
	if err != nil {
		return fallback
	}
	if _, err := os.Stat(run.OutputPath); err != nil {
		logger.WithField("path", run.OutputPath).Debug("latest run output is gone")
		return fallback
	}
	return run.OutputPath
}

func loadDistanceTable(path string) (*tables.DistanceTable, error) {
	var dt *tables.DistanceTable
	err := tablefile.Read(path, func(r io.Reader) error {
		var err error
		dt, err = tables.ReadDistanceTable(r)
		return err
	})
	return dt, err
}

func loadPathTable(path string) (*tables.PathTable, error) {
	var pt *tables.PathTable
	err := tablefile.Read(path, func(r io.Reader) error {
		var err error
		pt, err = tables.ReadPathTable(r)
		return err
	})
	return pt, err
}

// checkClass ensures a loaded table holds the requested positions.
func checkClass(class cube.Class, positions ...cube.Position) error {
	for _, p := range positions {
		if got := cube.Classify(p); got != class {
			return fmt.Errorf("%s is a %s position, table holds %s positions", tables.PositionLiteral(p), got, class)
		}
	}
	return nil
}
