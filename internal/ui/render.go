package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/skypane/internal/state"
)

// line is one row of content and the style role it is drawn with.
type line struct {
	text  string
	role  func(Styles) lipgloss.Style
	align lipgloss.Position
}

func title(s Styles) lipgloss.Style   { return s.Title }
func big(s Styles) lipgloss.Style     { return s.Big }
func plain(s Styles) lipgloss.Style   { return s.Row }
func muted(s Styles) lipgloss.Style   { return s.Muted }
func warning(s Styles) lipgloss.Style { return s.Warning }

func centered(text string, role func(Styles) lipgloss.Style) line {
	return line{text: text, role: role, align: lipgloss.Center}
}

// renderMain paints the gradient one row at a time and lays the content over
// it, with the debug overlay pinned to the bottom.
func (m Model) renderMain() string {
	width, height := m.width, m.height
	if width <= 0 || height <= 0 {
		return ""
	}

	content := m.contentLines()
	var overlay []line
	if m.snapshot.Debug {
		overlay = m.debugLines()
	}

	rows := make([]line, height)
	overlayStart := height - len(overlay)
	if overlayStart < 0 {
		overlayStart = 0
	}
	top := (overlayStart - len(content)) / 2
	if top < 0 {
		top = 0
	}
	for i, l := range content {
		if y := top + i; y < overlayStart {
			rows[y] = l
		}
	}
	for i, l := range overlay {
		if y := overlayStart + i; y < height {
			rows[y] = l
		}
	}

	spec := m.snapshot.Theme.Gradient
	var b strings.Builder
	for y, row := range rows {
		pos := 0.0
		if height > 1 {
			pos = float64(y) / float64(height-1)
		}
		styles := stylesFor(spec.At(pos))
		role := row.role
		if role == nil {
			role = plain
		}
		// Truncate first so a long row never wraps onto the next one.
		b.WriteString(role(styles).
			Width(width).
			Align(row.align).
			Render(ansi.Truncate(row.text, width, "…")))
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) contentLines() []line {
	snap := m.snapshot
	lines := []line{
		centered(snap.Theme.Greeting, muted),
		centered(locationLine(snap), title),
		{},
		centered(formatTemperature(snap.Weather), big),
		centered(weatherLine(snap.Weather), plain),
	}
	if r := rangeLine(snap.Weather); r != "" {
		lines = append(lines, centered(r, muted))
	}
	if note := staleNote(snap, state.SourceWeather, m.staleAfter); note != "" {
		lines = append(lines, centered(note, warning))
	}

	lines = append(lines, line{}, centered(airQualityLine(snap), plain))
	// Air quality refreshes a few times a day, so only a failed refresh marks it.
	if note := staleNote(snap, state.SourceAirQuality, 0); note != "" {
		lines = append(lines, centered(note, warning))
	}

	lines = append(lines, line{}, centered(formatClock(snap.Now, snap.ShowSeconds), title))
	return lines
}

func (m Model) debugLines() []line {
	snap := m.snapshot
	left := func(text string, role func(Styles) lipgloss.Style) line {
		return line{text: " " + text, role: role, align: lipgloss.Left}
	}

	lines := []line{
		left(fmt.Sprintf("location  %s (%s) %s", snap.Location.Name, snap.Location.Outcome, snap.Location.Coordinates), muted),
		left(sourceSummary(snap, state.SourceWeather), muted),
		left(sourceSummary(snap, state.SourceAirQuality), muted),
		left(fmt.Sprintf("theme     %s hour=%d stops=%d version=%d", snap.Theme.Band, snap.Theme.Hour, len(snap.Theme.Gradient.Stops), snap.Version), muted),
	}
	for _, e := range m.logs {
		role := muted
		if e.Level == "WARN" || e.Level == "ERROR" {
			role = warning
		}
		lines = append(lines, left(e.Format(), role))
	}
	return lines
}

func sourceSummary(snap state.Snapshot, src state.Source) string {
	st := snap.Status(src)
	parts := []string{fmt.Sprintf("%-10s%s", src, st.Phase)}
	if st.InFlight {
		parts = append(parts, "in flight")
	}
	if !st.LastSuccessAt.IsZero() {
		parts = append(parts, "ok "+st.LastSuccessAt.Format(time.TimeOnly))
	}
	if st.ConsecutiveFailures > 0 {
		parts = append(parts, fmt.Sprintf("failures %d", st.ConsecutiveFailures))
	}
	if st.LastError != "" {
		parts = append(parts, fmt.Sprintf("%s: %s", st.LastErrorKind, st.LastError))
	}
	return strings.Join(parts, " · ")
}
