package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_tables/internal/cube"
	"github.com/SeamusWaldron/gocube_tables/internal/generator"
	"github.com/SeamusWaldron/gocube_tables/internal/tables"
)

var browseCmd = &cobra.Command{
	Use:   "browse <edge|corner>",
	Short: "Browse a path table interactively",
	Long: `Browse the move sequences of a path table pair by pair.

If the matching distance table exists its value is shown next to each pair.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

var (
	browseFile     string
	browseDistance string
)

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringVarP(&browseFile, "file", "f", "", "Path table file (default: latest recorded run, then config)")
	browseCmd.Flags().StringVar(&browseDistance, "distance", "", "Distance table file (default: latest recorded run, then config)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	class, err := cube.ParseClass(args[0])
	if err != nil {
		return err
	}

	path := tablePath(browseFile, generator.KindPath, class)
	fmt.Printf("Loading %s...\n", path)
	pt, err := loadPathTable(path)
	if err != nil {
		return err
	}
	if pt.Class() != class {
		return fmt.Errorf("%s holds %s positions, not %s", path, pt.Class(), class)
	}

	distPath := tablePath(browseDistance, generator.KindDistance, class)
	dt, err := loadDistanceTable(distPath)
	if err != nil {
		logger.WithError(err).Debug("browsing without distances")
		dt = nil
	}

	p := tea.NewProgram(newBrowseModel(pt, dt), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse error: %w", err)
	}
	return nil
}

const browsePageSize = 15

// browseModel walks the pairs of a path table. The left/right keys pick the
// source, up/down the target, [ and ] the sequence length.
type browseModel struct {
	table     *tables.PathTable
	distances *tables.DistanceTable
	positions []cube.Position

	from, to  int
	lengthIdx int
	offset    int
	quitting  bool
}

func newBrowseModel(pt *tables.PathTable, dt *tables.DistanceTable) *browseModel {
	return &browseModel{
		table:     pt,
		distances: dt,
		positions: pt.Positions(),
	}
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) lengths() []int {
	return m.table.Lengths(m.positions[m.from], m.positions[m.to])
}

func (m *browseModel) sequences() []string {
	lengths := m.lengths()
	if len(lengths) == 0 {
		return nil
	}
	return m.table.Sequences(m.positions[m.from], m.positions[m.to], lengths[m.lengthIdx])
}

// selectPair resets the length and scroll state after the pair changes.
func (m *browseModel) selectPair(from, to int) {
	n := len(m.positions)
	m.from = (from + n) % n
	m.to = (to + n) % n
	m.lengthIdx = 0
	m.offset = 0
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "left", "h":
		m.selectPair(m.from-1, m.to)
	case "right", "l":
		m.selectPair(m.from+1, m.to)
	case "up", "k":
		m.selectPair(m.from, m.to-1)
	case "down", "j":
		m.selectPair(m.from, m.to+1)

	case "[":
		if m.lengthIdx > 0 {
			m.lengthIdx--
			m.offset = 0
		}
	case "]":
		if m.lengthIdx < len(m.lengths())-1 {
			m.lengthIdx++
			m.offset = 0
		}

	case "pgdown", "d":
		if m.offset+browsePageSize < len(m.sequences()) {
			m.offset += browsePageSize
		}
	case "pgup", "u":
		m.offset -= browsePageSize
		if m.offset < 0 {
			m.offset = 0
		}
	}

	return m, nil
}

func (m *browseModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	from, to := m.positions[m.from], m.positions[m.to]

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s path table", m.table.Class())))
	b.WriteString(statusStyle.Render(fmt.Sprintf("  %s sequences", humanize.Comma(int64(m.table.Total())))))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("From %s  To %s",
		positionStyle.Render(tables.PositionLiteral(from)),
		positionStyle.Render(tables.PositionLiteral(to))))
	if m.distances != nil {
		if d, ok := m.distances.Get(from, to); ok {
			b.WriteString(statusStyle.Render(fmt.Sprintf("  distance %s", formatDistance(d, ok))))
		}
	}
	b.WriteString("\n\n")

	lengths := m.lengths()
	if len(lengths) == 0 {
		b.WriteString(statusStyle.Render("No sequences recorded for this pair."))
		b.WriteString("\n")
	} else {
		b.WriteString("Lengths: ")
		for i, l := range lengths {
			label := fmt.Sprintf(" %d ", l)
			if i == m.lengthIdx {
				b.WriteString(selectedStyle.Render(label))
			} else {
				b.WriteString(label)
			}
		}
		b.WriteString("\n\n")

		seqs := m.sequences()
		end := m.offset + browsePageSize
		if end > len(seqs) {
			end = len(seqs)
		}
		for i := m.offset; i < end; i++ {
			s := seqs[i]
			if s == "" {
				s = "(stay)"
			}
			b.WriteString(fmt.Sprintf("%5d  %s\n", i+1, moveStyle.Render(s)))
		}
		b.WriteString(statusStyle.Render(fmt.Sprintf("%d-%d of %s", m.offset+1, end, humanize.Comma(int64(len(seqs))))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→=from  ↑/↓=to  [/]=length  u/d=page  q=quit"))
	b.WriteString("\n")

	return b.String()
}
