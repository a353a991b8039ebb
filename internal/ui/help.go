package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(warnText)).Width(8)
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(lightText))

	var b strings.Builder
	b.WriteString(textStyle.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, binding := range m.keys.bindings() {
		h := binding.Help()
		b.WriteString(keyStyle.Render(h.Key))
		b.WriteString(textStyle.Render(h.Desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(textStyle.Faint(true).Render("Press any key to close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(warnText)).
		Padding(1, 3).
		Render(b.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
