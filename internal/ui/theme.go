package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	lightText = "#f5f7fa"
	darkText  = "#1b1f2a"
	warnText  = "#ffcc66"
)

// textColorFor picks a foreground that stays readable on bg.
func textColorFor(bg string) string {
	c, err := colorful.Hex(bg)
	if err != nil {
		return lightText
	}
	l, _, _ := c.Lab()
	if l > 0.65 {
		return darkText
	}
	return lightText
}

// Styles are derived per row because the background changes down the screen.
type Styles struct {
	Row     lipgloss.Style
	Title   lipgloss.Style
	Big     lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
}

// stylesFor returns the styles for a row painted with bg.
func stylesFor(bg string) Styles {
	fg := textColorFor(bg)
	row := lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg))
	return Styles{
		Row:     row,
		Title:   row.Bold(true),
		Big:     row.Bold(true),
		Muted:   row.Faint(true),
		Warning: row.Foreground(lipgloss.Color(warnText)),
	}
}
