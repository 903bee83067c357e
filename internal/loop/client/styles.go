package client

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"github.com/tomz197/sshnake/internal/draw"
	"github.com/tomz197/sshnake/internal/leaderboard"
)

// Field colours, in palette order.
const (
	colorSnake draw.Color = iota + 1
	colorHead
	colorFood
)

var fieldColors = []string{
	"#2e8b57", // Snake body
	"#7CFC00", // Head
	"#ff4f4f", // Food
}

func newFieldPalette(profile termenv.Profile) *draw.Palette {
	return draw.NewPalette(profile, fieldColors...)
}

// styles are the lipgloss styles for one session's renderer.
type styles struct {
	title     lipgloss.Style
	hud       lipgloss.Style
	hint      lipgloss.Style
	warn      lipgloss.Style
	panel     lipgloss.Style
	accent    lipgloss.Style
	header    lipgloss.Style
	cell      lipgloss.Style
	highlight lipgloss.Style
	border    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	green := lipgloss.Color("#7CFC00")
	grey := lipgloss.Color("#808080")
	return styles{
		title:     r.NewStyle().Foreground(green).Bold(true),
		hud:       r.NewStyle().Bold(true),
		hint:      r.NewStyle().Foreground(grey),
		warn:      r.NewStyle().Foreground(lipgloss.Color("#ff4f4f")).Bold(true),
		panel:     r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(green).Padding(0, 2).Align(lipgloss.Center),
		accent:    r.NewStyle().Foreground(green),
		header:    r.NewStyle().Bold(true).Padding(0, 1),
		cell:      r.NewStyle().Padding(0, 1),
		highlight: r.NewStyle().Foreground(green).Bold(true).Padding(0, 1),
		border:    r.NewStyle().Foreground(grey),
	}
}

// leaderboardTable renders the board. highlight is the 1-based rank to emphasise, 0 for none.
func (s styles) leaderboardTable(entries []leaderboard.Entry, highlight int) string {
	if len(entries) == 0 {
		return s.hint.Render("No scores yet. Be the first!")
	}

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Name,
			strconv.Itoa(e.Score),
			strconv.Itoa(e.Distance),
			e.Timestamp.Format("2006-01-02"),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.border).
		Headers("#", "NAME", "SCORE", "DIST", "DATE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.header
			case row+1 == highlight:
				return s.highlight
			default:
				return s.cell
			}
		})
	return t.Render()
}

// blockLines splits rendered lipgloss output into lines with their display width.
func blockLines(block string) ([]string, int) {
	lines := strings.Split(block, "\n")
	width := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > width {
			width = w
		}
	}
	return lines, width
}
