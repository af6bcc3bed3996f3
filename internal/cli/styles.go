package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	positionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	cellStyle = lipgloss.NewStyle().
			Width(4).
			Align(lipgloss.Right)
)

// styled is false when stdout is piped, so inspect output stays plain text.
var styled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// render applies a style only when writing to a terminal.
func render(s lipgloss.Style, text string) string {
	if !styled {
		return text
	}
	return s.Render(text)
}

// distanceColors shades distance cells from near to far.
var distanceColors = []lipgloss.Color{"82", "39", "214", "205", "196"}

func distanceStyle(d int) lipgloss.Style {
	if d < 0 {
		return cellStyle.Foreground(lipgloss.Color("241"))
	}
	if d >= len(distanceColors) {
		d = len(distanceColors) - 1
	}
	return cellStyle.Foreground(distanceColors[d])
}
