package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/internal/generator"
	"github.com/SeamusWaldron/gocube_tables/internal/storage"
	"github.com/SeamusWaldron/gocube_tables/internal/tables"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded table generations",
	Args:  cobra.NoArgs,
	RunE:  runListRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its table summary",
	Long: `Show one run with its table summary. With --from and --to, show the
stored distance or the sequence counts per length for that pair instead.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRun,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Remove a run from the catalog (the table file is kept)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteRun,
}

var (
	runsLimit int
	runsFrom  string
	runsTo    string
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to show, 0 for all")
	runsShowCmd.Flags().StringVar(&runsFrom, "from", "", "Source position of a pair, e.g. 0,0,1")
	runsShowCmd.Flags().StringVar(&runsTo, "to", "", "Target position of a pair")
}

func runListRuns(cmd *cobra.Command, args []string) error {
	db, err := openCatalog()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := storage.NewRunRepository(db).List(runsLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet. Generate a table first with: cubetables generate all")
		return nil
	}

	fmt.Printf("%-36s  %-9s  %-6s  %-9s  %10s  %9s  %s\n", "RUN", "KIND", "CLASS", "STATUS", "ENTRIES", "SIZE", "STARTED")
	for _, r := range runs {
		class := r.Class
		if class == "" {
			class = "-"
		}
		entries, size := "-", "-"
		if r.Entries != nil {
			entries = humanize.Comma(*r.Entries)
		}
		if r.Bytes != nil {
			size = humanize.Bytes(uint64(*r.Bytes))
		}
		fmt.Printf("%-36s  %-9s  %-6s  %-9s  %10s  %9s  %s\n",
			r.RunID, r.Kind, class, statusLabel(r.Status), entries, size, humanize.Time(r.StartedAt))
	}
	return nil
}

func statusLabel(status string) string {
	label := fmt.Sprintf("%-9s", status)
	switch status {
	case storage.StatusCompleted:
		return render(moveStyle, label)
	case storage.StatusFailed:
		return render(errorStyle, label)
	default:
		return render(statusStyle, label)
	}
}

func runShowRun(cmd *cobra.Command, args []string) error {
	db, err := openCatalog()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := storage.NewRunRepository(db).Get(args[0])
	if err != nil {
		return err
	}

	fmt.Println(render(titleStyle, "Run "+run.RunID))
	fmt.Printf("Kind:     %s\n", run.Kind)
	if run.Class != "" {
		fmt.Printf("Class:    %s\n", run.Class)
	}
	fmt.Printf("Output:   %s\n", run.OutputPath)
	fmt.Printf("Status:   %s\n", statusLabel(run.Status))
	fmt.Printf("Started:  %s (%s)\n", run.StartedAt.Local().Format(time.RFC3339), humanize.Time(run.StartedAt))
	if run.DurationMs != nil {
		fmt.Printf("Duration: %s\n", (time.Duration(*run.DurationMs) * time.Millisecond).String())
	}
	if run.MaxDepth != nil {
		fmt.Printf("Depth:    %d\n", *run.MaxDepth)
	}
	if run.Entries != nil {
		fmt.Printf("Entries:  %s\n", humanize.Comma(*run.Entries))
	}
	if run.Bytes != nil {
		fmt.Printf("Size:     %s\n", humanize.Bytes(uint64(*run.Bytes)))
	}
	if run.Error != nil {
		fmt.Printf("Error:    %s\n", render(errorStyle, *run.Error))
	}

	if runsFrom != "" || runsTo != "" {
		from, err := parsePositionArg(runsFrom)
		if err != nil {
			return err
		}
		to, err := parsePositionArg(runsTo)
		if err != nil {
			return err
		}
		summary, err := pairSummary(db, run, from, to)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Print(summary)
		return nil
	}

	switch run.Kind {
	case generator.KindDistance:
		hist, err := storage.NewDistanceRepository(db).Histogram(run.RunID)
		if err != nil {
			return err
		}
		printCounts("Pairs by distance", hist)
	case generator.KindPath:
		totals, err := storage.NewPathCountRepository(db).TotalsByLength(run.RunID)
		if err != nil {
			return err
		}
		printCounts("Sequences by length", totals)
	}
	return nil
}

// pairSummary reports what a run stored for one pair.
func pairSummary(db *storage.DB, run *storage.Run, from, to cube.Position) (string, error) {
	var b strings.Builder
	pair := fmt.Sprintf("%s → %s", render(positionStyle, tables.PositionLiteral(from)),
		render(positionStyle, tables.PositionLiteral(to)))

	switch run.Kind {
	case generator.KindDistance:
		d, err := storage.NewDistanceRepository(db).Get(run.RunID, from, to)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s: %s\n", pair, formatDistance(d, true))
	case generator.KindPath:
		counts, err := storage.NewPathCountRepository(db).ForPair(run.RunID, from, to)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s\n", pair)
		if len(counts) == 0 {
			fmt.Fprintf(&b, "  %s\n", render(statusStyle, "no sequences recorded"))
		}
		for _, c := range counts {
			fmt.Fprintf(&b, "  %3d  %s\n", c.Length, humanize.Comma(int64(c.Sequences)))
		}
	default:
		return "", fmt.Errorf("%s runs have no per-pair data", run.Kind)
	}
	return b.String(), nil
}

func printCounts[N int | int64](title string, counts map[int]N) {
	if len(counts) == 0 {
		return
	}
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	fmt.Println()
	fmt.Println(render(titleStyle, title))
	for _, k := range keys {
		fmt.Printf("  %3d  %s\n", k, humanize.Comma(int64(counts[k])))
	}
}

func runDeleteRun(cmd *cobra.Command, args []string) error {
	db, err := openCatalog()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.NewRunRepository(db).Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s\n", args[0])
	return nil
}
