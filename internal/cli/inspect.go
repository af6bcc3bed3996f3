package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/internal/generator"
	"github.com/SeamusWaldron/gocube_tables/internal/notation"
	"github.com/SeamusWaldron/gocube_tables/internal/tables"
	"github.com/SeamusWaldron/gocube_tables/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the contents of table files",
}

var inspectMovementCmd = &cobra.Command{
	Use:   "movement [move]",
	Short: "Show where each move sends every cell",
	Long: `Show the movement table. With a move name, only that move is listed;
with --trace, a move sequence is replayed from --from.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspectMovement,
}

var inspectDistanceCmd = &cobra.Command{
	Use:   "distance <edge|corner> [from] [to]",
	Short: "Show a distance matrix, or the distance for one pair",
	Args:  cobra.RangeArgs(1, 3),
	RunE:  runInspectDistance,
}

var inspectPathCmd = &cobra.Command{
	Use:   "path <edge|corner> <from> <to>",
	Short: "Show the move sequences between two positions",
	Args:  cobra.ExactArgs(3),
	RunE:  runInspectPath,
}

var (
	inspectFile   string
	inspectLimit  int
	inspectLength int
	inspectTrace  string
	inspectFrom   string
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.AddCommand(inspectMovementCmd)
	inspectCmd.AddCommand(inspectDistanceCmd)
	inspectCmd.AddCommand(inspectPathCmd)

	inspectCmd.PersistentFlags().StringVarP(&inspectFile, "file", "f", "", "Table file (default: latest recorded run, then config)")
	inspectMovementCmd.Flags().StringVar(&inspectTrace, "trace", "", "Move sequence to replay, e.g. \"R U R' U'\"")
	inspectMovementCmd.Flags().StringVar(&inspectFrom, "from", "0,0,1", "Start position for --trace")
	inspectPathCmd.Flags().IntVarP(&inspectLimit, "limit", "n", 10, "Sequences shown per length, 0 for all")
	inspectPathCmd.Flags().IntVarP(&inspectLength, "length", "l", -1, "Only show this length")
}

func runInspectMovement(cmd *cobra.Command, args []string) error {
	path := tablePath(inspectFile, generator.KindMovement, cube.ClassNone)
	mt, err := generator.LoadMovementTable(path)
	if err != nil {
		return err
	}

	if inspectTrace != "" {
		return traceMovement(mt)
	}

	moves := mt.Moves()
	if len(args) == 1 {
		m, ok := notation.ParseNotation(args[0])
		if !ok {
			return fmt.Errorf("%w: %q", notation.ErrInvalidMove, args[0])
		}
		moves = []types.Move{m}
	}

	fmt.Println(render(titleStyle, "Movement table"))
	fmt.Println(render(statusStyle, path))
	fmt.Println()

	for _, m := range moves {
		var moved []string
		for _, p := range cube.AllPositions() {
			to, _ := mt.Lookup(m, p)
			if to != p {
				moved = append(moved, fmt.Sprintf("%s→%s", tables.PositionLiteral(p), tables.PositionLiteral(to)))
			}
		}
		fmt.Printf("%-3s ", render(moveStyle, m.Notation()))
		if len(moved) == 0 {
			fmt.Println(render(statusStyle, "(identity)"))
			continue
		}
		fmt.Printf("%d cells\n", len(moved))
		for _, line := range moved {
			fmt.Printf("    %s\n", line)
		}
	}
	return nil
}

func traceMovement(mt *tables.MovementTable) error {
	from, err := parsePositionArg(inspectFrom)
	if err != nil {
		return err
	}
	moves, err := notation.ParseSequence(inspectTrace)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", render(titleStyle, "Trace from"), render(positionStyle, tables.PositionLiteral(from)))
	cur := from
	for _, m := range moves {
		next, _ := mt.Lookup(m, cur)
		fmt.Printf("  %-3s %s → %s  %s\n", render(moveStyle, m.Notation()), tables.PositionLiteral(cur),
			tables.PositionLiteral(next), render(statusStyle, notation.Describe(m)))
		cur = next
	}
	if notation.HasSameFaceRepeat(moves) {
		fmt.Println(render(statusStyle, "note: sequence repeats a face, path tables never contain it"))
	}
	for _, i := range notation.Cancellations(moves) {
		fmt.Println(render(statusStyle, fmt.Sprintf("note: %s at step %d undoes %s", moves[i], i+1, moves[i-1])))
	}
	return nil
}

func runInspectDistance(cmd *cobra.Command, args []string) error {
	class, err := cube.ParseClass(args[0])
	if err != nil {
		return err
	}
	path := tablePath(inspectFile, generator.KindDistance, class)
	dt, err := loadDistanceTable(path)
	if err != nil {
		return err
	}
	if dt.Class() != class {
		return fmt.Errorf("%s holds %s positions, not %s", path, dt.Class(), class)
	}

	positions := dt.Positions()
	if len(args) >= 2 {
		from, err := parsePositionArg(args[1])
		if err != nil {
			return err
		}
		if err := checkClass(class, from); err != nil {
			return err
		}
		if len(args) == 3 {
			to, err := parsePositionArg(args[2])
			if err != nil {
				return err
			}
			if err := checkClass(class, to); err != nil {
				return err
			}
			fmt.Printf("%s → %s: %s\n", render(positionStyle, tables.PositionLiteral(from)),
				render(positionStyle, tables.PositionLiteral(to)), formatDistance(dt.Get(from, to)))
			return nil
		}
		for _, to := range positions {
			fmt.Printf("%s → %s: %s\n", tables.PositionLiteral(from), tables.PositionLiteral(to), formatDistance(dt.Get(from, to)))
		}
		return nil
	}

	fmt.Println(render(titleStyle, fmt.Sprintf("%s distance table", class)))
	fmt.Println(render(statusStyle, path))
	fmt.Println()
	fmt.Print(distanceMatrix(dt))
	fmt.Println()

	hist := make(map[int]int)
	for _, a := range positions {
		for _, b := range positions {
			if d, ok := dt.Get(a, b); ok {
				hist[d]++
			}
		}
	}
	keys := make([]int, 0, len(hist))
	for d := range hist {
		keys = append(keys, d)
	}
	sort.Ints(keys)
	for _, d := range keys {
		fmt.Printf("  %s: %s pairs\n", formatDistance(d, true), humanize.Comma(int64(hist[d])))
	}
	return nil
}

// distanceMatrix renders the table as a grid with positions in table order.
func distanceMatrix(dt *tables.DistanceTable) string {
	positions := dt.Positions()
	var b strings.Builder

	b.WriteString(strings.Repeat(" ", 13))
	for i := range positions {
		b.WriteString(fmt.Sprintf("%4d", i))
	}
	b.WriteString("\n")

	for i, from := range positions {
		b.WriteString(fmt.Sprintf("%2d %-9s ", i, tables.PositionLiteral(from)))
		for _, to := range positions {
			d, ok := dt.Get(from, to)
			cell := fmt.Sprintf("%4d", d)
			if !ok || d == tables.Unreachable {
				cell = fmt.Sprintf("%4s", "-")
			}
			b.WriteString(render(distanceStyle(d), cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatDistance prints "-" for a pair missing from the table.
func formatDistance(d int, ok bool) string {
	if !ok {
		return "-"
	}
	if d == tables.Unreachable {
		return "unreachable"
	}
	return fmt.Sprintf("%d", d)
}

func runInspectPath(cmd *cobra.Command, args []string) error {
	class, err := cube.ParseClass(args[0])
	if err != nil {
		return err
	}
	from, err := parsePositionArg(args[1])
	if err != nil {
		return err
	}
	to, err := parsePositionArg(args[2])
	if err != nil {
		return err
	}
	if err := checkClass(class, from, to); err != nil {
		return err
	}

	path := tablePath(inspectFile, generator.KindPath, class)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to open table: %w", err)
	}
	logger.WithField("size", humanize.Bytes(uint64(info.Size()))).Debug("loading path table")

	pt, err := loadPathTable(path)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s → %s\n", render(titleStyle, "Paths"),
		render(positionStyle, tables.PositionLiteral(from)), render(positionStyle, tables.PositionLiteral(to)))
	fmt.Printf("%s sequences over %d lengths\n\n", humanize.Comma(int64(pt.Count(from, to))), len(pt.Lengths(from, to)))

	for _, l := range pt.Lengths(from, to) {
		if inspectLength >= 0 && l != inspectLength {
			continue
		}
		seqs := pt.Sequences(from, to, l)
		fmt.Printf("%s %s\n", render(positionStyle, fmt.Sprintf("length %d", l)),
			render(statusStyle, fmt.Sprintf("(%s)", humanize.Comma(int64(len(seqs))))))
		shown := seqs
		if inspectLimit > 0 && len(shown) > inspectLimit {
			shown = shown[:inspectLimit]
		}
		for _, s := range shown {
			if s == "" {
				s = "(stay)"
			}
			fmt.Printf("  %s\n", render(moveStyle, s))
		}
		if len(shown) < len(seqs) {
			fmt.Printf("  %s\n", render(statusStyle, fmt.Sprintf("... %s more", humanize.Comma(int64(len(seqs)-len(shown))))))
		}
	}
	return nil
}
