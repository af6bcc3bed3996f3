package generator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/internal/tables"
)

// Plan names every output of a full generation.
type Plan struct {
	Movement       string
	EdgeDistance   string
	CornerDistance string
	EdgePath       string
	CornerPath     string

	// Parallel builds the four class tables concurrently once the movement
	// table is written.
	Parallel bool
}

// Validate checks the naming of every class table before anything runs.
func (p Plan) Validate() error {
	for _, t := range p.targets() {
		if err := ValidateOutputPath(t.class, t.kind, t.path); err != nil {
			return err
		}
	}
	return nil
}

type target struct {
	class cube.Class
	kind  string
	path  string
}

func (p Plan) targets() []target {
	return []target{
		{cube.ClassEdge, KindDistance, p.EdgeDistance},
		{cube.ClassCorner, KindDistance, p.CornerDistance},
		{cube.ClassEdge, KindPath, p.EdgePath},
		{cube.ClassCorner, KindPath, p.CornerPath},
	}
}

// GenerateAll writes the movement table, then the distance and path tables
// of both classes built from the file just written. Results come back in
// plan order: movement, edge distance, corner distance, edge path, corner
// path.
func (g *Generator) GenerateAll(ctx context.Context, plan Plan) ([]*Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	movement, err := g.GenerateMovementTable(ctx, plan.Movement)
	if err != nil {
		return nil, err
	}

	// Reload what was written so the class tables come from the file on disk.
	mt, err := LoadMovementTable(plan.Movement)
	if err != nil {
		return nil, err
	}
	pg := tables.NewPositionGraph(mt)

	targets := plan.targets()
	results := make([]*Result, len(targets))
	build := func(ctx context.Context, i int) error {
		t := targets[i]
		var (
			res *Result
			err error
		)
		switch t.kind {
		case KindDistance:
			res, err = g.generateDistance(ctx, t.class, pg, t.path)
		default:
			res, err = g.generatePath(ctx, t.class, pg, t.path)
		}
		if err != nil {
			return fmt.Errorf("failed to generate %s %s table: %w", t.class, t.kind, err)
		}
		results[i] = res
		return nil
	}

	if plan.Parallel {
		g.log.WithFields(logrus.Fields{"tables": len(targets)}).Debug("building class tables in parallel")
		eg, egCtx := errgroup.WithContext(ctx)
		for i := range targets {
			eg.Go(func() error {
				return build(egCtx, i)
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range targets {
			if err := build(ctx, i); err != nil {
				return nil, err
			}
		}
	}

	return append([]*Result{movement}, results...), nil
}
