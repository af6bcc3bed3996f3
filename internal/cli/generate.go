package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/internal/generator"
	"github.com/SeamusWaldron/gocube_tables/internal/storage"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate table files",
	Long: `Generate the movement, distance and path tables.

Distance and path tables are built from an existing movement table file, so
generate that first (or use "generate all"). Output names must mention the
class and the table kind, e.g. edge_distance_table.json.`,
}

var generateMovementCmd = &cobra.Command{
	Use:   "movement",
	Short: "Derive the movement table from a solved cube",
	Args:  cobra.NoArgs,
	RunE:  runGenerateMovement,
}

var generateDistanceCmd = &cobra.Command{
	Use:   "distance <edge|corner>",
	Short: "Compute shortest distances between positions of one class",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerateDistance,
}

var generatePathCmd = &cobra.Command{
	Use:   "path <edge|corner>",
	Short: "Enumerate move sequences between positions of one class",
	Args:  cobra.ExactArgs(1),
	RunE:  runGeneratePath,
}

var generateAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Generate every table",
	Args:  cobra.NoArgs,
	RunE:  runGenerateAll,
}

var (
	genOut      string
	genMovement string
	genOutDir   string
	genMaxDepth int
	genCap      int
	genCompress bool
	genParallel bool
	genNoRecord bool
)

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.AddCommand(generateMovementCmd)
	generateCmd.AddCommand(generateDistanceCmd)
	generateCmd.AddCommand(generatePathCmd)
	generateCmd.AddCommand(generateAllCmd)

	flags := generateCmd.PersistentFlags()
	flags.StringVar(&genOutDir, "out-dir", "", "Output directory (default from config)")
	flags.IntVar(&genMaxDepth, "max-depth", 0, "Longest path sequence to search (default from config)")
	flags.IntVar(&genCap, "cap", -1, "Max sequences kept per pair and length, 0 for all (default from config)")
	flags.BoolVar(&genCompress, "compress", false, "Write xz-compressed tables")
	flags.BoolVar(&genNoRecord, "no-record", false, "Do not record the run in the catalog")

	for _, c := range []*cobra.Command{generateMovementCmd, generateDistanceCmd, generatePathCmd} {
		c.Flags().StringVarP(&genOut, "out", "o", "", "Output file (default from config)")
	}
	for _, c := range []*cobra.Command{generateDistanceCmd, generatePathCmd} {
		c.Flags().StringVarP(&genMovement, "movement", "m", "", "Movement table file (default from config)")
	}
	generateAllCmd.Flags().BoolVarP(&genParallel, "parallel", "p", false, "Build the class tables concurrently")
}

// applyGenerateFlags folds command-line overrides into the loaded config.
func applyGenerateFlags() error {
	if genOutDir != "" {
		cfg.OutputDir = genOutDir
	}
	if genMaxDepth != 0 {
		cfg.MaxDepth = genMaxDepth
	}
	if genCap >= 0 {
		cfg.MaxSequencesPerLength = genCap
	}
	if genCompress {
		cfg.Compress = true
	}
	if genParallel {
		cfg.Parallel = true
	}
	if genNoRecord {
		cfg.Record = false
	}
	return cfg.Validate()
}

// newGenerator builds a generator from the config, wired to the run catalog
// when recording is on. The returned func closes the catalog.
func newGenerator() (*generator.Generator, func(), error) {
	if err := applyGenerateFlags(); err != nil {
		return nil, nil, err
	}

	opts := generator.DefaultOptions()
	opts.Path.MaxDepth = cfg.MaxDepth
	opts.Path.MaxSequencesPerLength = cfg.MaxSequencesPerLength
	opts.Logger = logger

	closer := func() {}
	if cfg.Record {
		db, err := openCatalog()
		if err != nil {
			return nil, nil, err
		}
		opts.Runs = storage.NewRunRepository(db)
		opts.Distances = storage.NewDistanceRepository(db)
		opts.Paths = storage.NewPathCountRepository(db)
		closer = func() { db.Close() }
	}

	return generator.New(opts), closer, nil
}

// signalContext cancels on interrupt so a long path search can stop between
// stages without leaving a partial file.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runGenerateMovement(cmd *cobra.Command, args []string) error {
	gen, closeCatalog, err := newGenerator()
	if err != nil {
		return err
	}
	defer closeCatalog()

	out := genOut
	if out == "" {
		out = movementPath()
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := gen.GenerateMovementTable(ctx, out)
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func runGenerateDistance(cmd *cobra.Command, args []string) error {
	return runGenerateClass(args[0], generator.KindDistance)
}

func runGeneratePath(cmd *cobra.Command, args []string) error {
	return runGenerateClass(args[0], generator.KindPath)
}

func runGenerateClass(classArg, kind string) error {
	class, err := cube.ParseClass(classArg)
	if err != nil {
		return err
	}

	gen, closeCatalog, err := newGenerator()
	if err != nil {
		return err
	}
	defer closeCatalog()

	out := genOut
	if out == "" {
		out = classPath(class, kind)
	}
	movement := genMovement
	if movement == "" {
		movement = movementPath()
	}

	ctx, cancel := signalContext()
	defer cancel()

	var res *generator.Result
	if kind == generator.KindDistance {
		res, err = gen.GenerateDistanceTable(ctx, class, movement, out)
	} else {
		res, err = gen.GeneratePathTable(ctx, class, movement, out)
	}
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}

func runGenerateAll(cmd *cobra.Command, args []string) error {
	gen, closeCatalog, err := newGenerator()
	if err != nil {
		return err
	}
	defer closeCatalog()

	plan := generator.Plan{
		Movement:       movementPath(),
		EdgeDistance:   classPath(cube.ClassEdge, generator.KindDistance),
		CornerDistance: classPath(cube.ClassCorner, generator.KindDistance),
		EdgePath:       classPath(cube.ClassEdge, generator.KindPath),
		CornerPath:     classPath(cube.ClassCorner, generator.KindPath),
		Parallel:       cfg.Parallel,
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := gen.GenerateAll(ctx, plan)
	if err != nil {
		return err
	}

	var total uint64
	for _, res := range results {
		printResult(res)
		total += uint64(res.Bytes)
	}
	fmt.Println()
	fmt.Printf("%d tables, %s in %s\n", len(results), humanize.Bytes(total), time.Since(start).Round(time.Millisecond))
	return nil
}

func printResult(res *generator.Result) {
	name := res.Kind
	if res.Kind != generator.KindMovement {
		name = res.Class.String() + " " + res.Kind
	}
	fmt.Printf("%s %-16s %s entries, %s in %s\n",
		render(moveStyle, "✓"),
		name,
		humanize.Comma(res.Entries),
		humanize.Bytes(uint64(res.Bytes)),
		res.Elapsed.Round(time.Millisecond))
	fmt.Printf("  %s\n", render(statusStyle, res.Path))
	if res.RunID != "" {
		fmt.Printf("  %s\n", render(statusStyle, "run "+res.RunID))
	}
}
