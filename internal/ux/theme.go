package ux

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Theme holds the styles used by text output. The zero value renders
// plain text.
type Theme struct {
	NoColor bool

	Title   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Danger  lipgloss.Style
	Border  lipgloss.Style
}

var (
	colorPrimary = lipgloss.Color("#1e40af")
	colorMuted   = lipgloss.Color("#6b7280")
	colorSuccess = lipgloss.Color("#15803d")
	colorDanger  = lipgloss.Color("#b91c1c")
)

// NewTheme returns the default theme, or a plain one when noColor is set.
func NewTheme(noColor bool) Theme {
	if noColor {
		return Theme{NoColor: true}
	}
	return Theme{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Header:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Label:   lipgloss.NewStyle().Foreground(colorMuted),
		Muted:   lipgloss.NewStyle().Foreground(colorMuted),
		Success: lipgloss.NewStyle().Foreground(colorSuccess),
		Danger:  lipgloss.NewStyle().Foreground(colorDanger),
		Border:  lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// Table renders headers and rows with a rounded border.
func (th Theme) Table(headers []string, rows [][]string) string {
	cell := lipgloss.NewStyle().Padding(0, 1)
	header := th.Header
	if th.NoColor {
		header = cell
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(th.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	return t.Render()
}

// Fields renders label/value pairs, one per line, with aligned labels.
func (th Theme) Fields(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if n := lipgloss.Width(p[0]); n > width {
			width = n
		}
	}
	var b strings.Builder
	for _, p := range pairs {
		label := p[0] + ":" + strings.Repeat(" ", width-lipgloss.Width(p[0]))
		b.WriteString(th.Label.Render(label))
		b.WriteString(" ")
		b.WriteString(p[1])
		b.WriteString("\n")
	}
	return b.String()
}

// Status renders an active flag.
func (th Theme) Status(active bool) string {
	if active {
		return th.Success.Render("active")
	}
	return th.Danger.Render("inactive")
}
