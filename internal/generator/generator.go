// Package generator builds the movement, distance and path tables and writes
// them to disk.
//
// Every entry point validates its inputs (output naming, the movement table
// it depends on) before doing any search, and writes its table in one piece
// so a failed run leaves any previous file untouched.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/internal/tablefile"
	"github.com/SeamusWaldron/gocube_tables/internal/tables"
)

// ErrNamingConvention is returned when an output file name does not carry
// the class and table kind it will hold.
var ErrNamingConvention = errors.New("output file name does not match table")

// Table kinds, as used in file names and the run catalog.
const (
	KindMovement = "movement"
	KindDistance = "distance"
	KindPath     = "path"
)

// RunRecorder catalogs generation runs.
type RunRecorder interface {
	Start(kind, class, outputPath string, maxDepth int) (string, error)
	Complete(runID string, entries, bytes int64) error
	Fail(runID string, cause error) error
}

// DistanceRecorder stores the rows of a generated distance table.
type DistanceRecorder interface {
	SaveTable(runID string, t *tables.DistanceTable) error
}

// PathRecorder stores the summary of a generated path table.
type PathRecorder interface {
	SaveTable(runID string, t *tables.PathTable) error
}

// Options configures a Generator.
type Options struct {
	Path   tables.PathOptions
	Logger *logrus.Logger

	// Optional run catalog. Recording failures are logged, never returned.
	Runs      RunRecorder
	Distances DistanceRecorder
	Paths     PathRecorder
}

// DefaultOptions returns options with the default path search and no catalog.
func DefaultOptions() Options {
	return Options{Path: *tables.DefaultPathOptions()}
}

// Result describes one written table.
type Result struct {
	RunID   string
	Kind    string
	Class   cube.Class
	Path    string
	Entries int64
	Bytes   int64
	Elapsed time.Duration
}

// Generator produces table files.
type Generator struct {
	opts Options
	log  *logrus.Logger
}

// New creates a generator.
func New(opts Options) *Generator {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.Path.MaxDepth <= 0 {
		opts.Path.MaxDepth = tables.DefaultMaxDepth
	}
	return &Generator{opts: opts, log: opts.Logger}
}

// ValidateOutputPath checks that the file name of path mentions both the
// class ("edge" or "corner") and the kind ("distance" or "path"), ignoring
// case.
func ValidateOutputPath(class cube.Class, kind, path string) error {
	if class != cube.ClassEdge && class != cube.ClassCorner {
		return fmt.Errorf("%w: unsupported class %s", ErrNamingConvention, class)
	}
	name := strings.ToLower(filepath.Base(path))
	if !strings.Contains(name, class.String()) || !strings.Contains(name, kind) {
		return fmt.Errorf("%w: %q must contain %q and %q", ErrNamingConvention, filepath.Base(path), class, kind)
	}
	return nil
}

// LoadMovementTable reads and validates a movement table file.
func LoadMovementTable(path string) (*tables.MovementTable, error) {
	var mt *tables.MovementTable
	err := tablefile.Read(path, func(r io.Reader) error {
		var err error
		mt, err = tables.ReadMovementTable(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load movement table: %w", err)
	}
	return mt, nil
}

// GenerateMovementTable derives the movement table from a solved cube and
// writes it to out.
func (g *Generator) GenerateMovementTable(ctx context.Context, out string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Kind: KindMovement, Path: out}
	err := g.run(res, 0, func() (int64, error) {
		mt := tables.DeriveMovementTable(cube.New())
		if err := mt.Validate(); err != nil {
			return 0, fmt.Errorf("derived movement table is invalid: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		n, err := tablefile.Write(out, func(w io.Writer) error {
			return tables.WriteMovementTable(w, mt)
		})
		if err != nil {
			return 0, fmt.Errorf("failed to write movement table: %w", err)
		}
		res.Bytes = n
		return int64(len(mt.Moves()) * cube.Size), nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GenerateDistanceTable computes all-pairs shortest distances for one class
// from the movement table at movementPath and writes them to out.
func (g *Generator) GenerateDistanceTable(ctx context.Context, class cube.Class, movementPath, out string) (*Result, error) {
	if err := ValidateOutputPath(class, KindDistance, out); err != nil {
		return nil, err
	}
	mt, err := LoadMovementTable(movementPath)
	if err != nil {
		return nil, err
	}
	return g.generateDistance(ctx, class, tables.NewPositionGraph(mt), out)
}

func (g *Generator) generateDistance(ctx context.Context, class cube.Class, pg *tables.PositionGraph, out string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Kind: KindDistance, Class: class, Path: out}
	err := g.run(res, 0, func() (int64, error) {
		dt := tables.BuildDistanceTable(pg, class)
		g.log.WithFields(logrus.Fields{
			"class": class.String(),
			"pairs": dt.Len(),
			"max":   dt.Max(),
		}).Debug("distance table built")
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		n, err := tablefile.Write(out, func(w io.Writer) error {
			return tables.WriteDistanceTable(w, dt)
		})
		if err != nil {
			return 0, fmt.Errorf("failed to write distance table: %w", err)
		}
		res.Bytes = n

		if g.opts.Distances != nil && res.RunID != "" {
			if err := g.opts.Distances.SaveTable(res.RunID, dt); err != nil {
				g.log.WithError(err).Warn("failed to record distance rows")
			}
		}
		return int64(dt.Len()), nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GeneratePathTable enumerates move sequences for every pair of one class
// from the movement table at movementPath and writes them to out.
func (g *Generator) GeneratePathTable(ctx context.Context, class cube.Class, movementPath, out string) (*Result, error) {
	if err := ValidateOutputPath(class, KindPath, out); err != nil {
		return nil, err
	}
	mt, err := LoadMovementTable(movementPath)
	if err != nil {
		return nil, err
	}
	return g.generatePath(ctx, class, tables.NewPositionGraph(mt), out)
}

func (g *Generator) generatePath(ctx context.Context, class cube.Class, pg *tables.PositionGraph, out string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := g.opts.Path
	res := &Result{Kind: KindPath, Class: class, Path: out}
	err := g.run(res, opts.MaxDepth, func() (int64, error) {
		pt := tables.BuildPathTable(pg, class, &opts)
		g.log.WithFields(logrus.Fields{
			"class":     class.String(),
			"max_depth": opts.MaxDepth,
			"sequences": pt.Total(),
		}).Debug("path table built")
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		n, err := tablefile.Write(out, func(w io.Writer) error {
			return tables.WritePathTable(w, pt)
		})
		if err != nil {
			return 0, fmt.Errorf("failed to write path table: %w", err)
		}
		res.Bytes = n

		if g.opts.Paths != nil && res.RunID != "" {
			if err := g.opts.Paths.SaveTable(res.RunID, pt); err != nil {
				g.log.WithError(err).Warn("failed to record path counts")
			}
		}
		return int64(pt.Total()), nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// run times build, records the run in the catalog and logs the outcome.
func (g *Generator) run(res *Result, maxDepth int, build func() (int64, error)) error {
	log := g.log.WithFields(logrus.Fields{"kind": res.Kind, "path": res.Path})
	if res.Kind != KindMovement {
		log = log.WithField("class", res.Class.String())
	}

	if g.opts.Runs != nil {
		class := ""
		if res.Kind != KindMovement {
			class = res.Class.String()
		}
		id, err := g.opts.Runs.Start(res.Kind, class, res.Path, maxDepth)
		if err != nil {
			log.WithError(err).Warn("failed to record run start")
		} else {
			res.RunID = id
			log = log.WithField("run", id)
		}
	}

	log.Info("generating table")
	start := time.Now()
	entries, err := build()
	res.Elapsed = time.Since(start)

	if err != nil {
		log.WithError(err).Error("table generation failed")
		if g.opts.Runs != nil && res.RunID != "" {
			if ferr := g.opts.Runs.Fail(res.RunID, err); ferr != nil {
				log.WithError(ferr).Warn("failed to record run failure")
			}
		}
		return err
	}

	res.Entries = entries
	log.WithFields(logrus.Fields{
		"entries": entries,
		"bytes":   res.Bytes,
		"elapsed": res.Elapsed.Round(time.Millisecond).String(),
	}).Info("table written")

	if g.opts.Runs != nil && res.RunID != "" {
		if err := g.opts.Runs.Complete(res.RunID, entries, res.Bytes); err != nil {
			log.WithError(err).Warn("failed to record run completion")
		}
	}
	return nil
}
