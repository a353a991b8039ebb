package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/five82/skypane/internal/airquality"
	"github.com/five82/skypane/internal/state"
	"github.com/five82/skypane/internal/weather"
)

const (
	clockLayout        = "Jan 02, 03:04 PM"
	clockLayoutSeconds = "Jan 02, 03:04:05 PM"
)

func formatClock(t time.Time, seconds bool) string {
	if seconds {
		return t.Format(clockLayoutSeconds)
	}
	return t.Format(clockLayout)
}

// roundDegrees rounds half away from zero and never yields -0.
func roundDegrees(v float64) int {
	r := int(math.Round(v))
	if r == 0 {
		return 0
	}
	return r
}

func formatTemperature(obs *weather.Observation) string {
	if obs == nil {
		return "--°"
	}
	return fmt.Sprintf("%d%s", roundDegrees(obs.Temperature), obs.Unit.Symbol())
}

func weatherLine(obs *weather.Observation) string {
	if obs == nil {
		return state.NoDataYetMessage
	}
	return weather.IconFor(*obs) + "  " + obs.Description
}

// rangeLine returns today's high and low, or "" when either is missing.
func rangeLine(obs *weather.Observation) string {
	if obs == nil || obs.TodayMax == nil || obs.TodayMin == nil {
		return ""
	}
	return fmt.Sprintf("H %d°  L %d°", roundDegrees(*obs.TodayMax), roundDegrees(*obs.TodayMin))
}

func airQualityLine(snap state.Snapshot) string {
	aq := snap.AirQuality
	if aq == nil {
		return snap.AirQualityMessage()
	}
	parts := []string{
		fmt.Sprintf("Air quality %d", int(math.Round(aq.Index))),
		aq.Rating.String(),
	}
	if text := airquality.StatusText(aq.Index); text != "" {
		parts = append(parts, text)
	}
	if aq.StationDistanceKm > 0 {
		parts = append(parts, fmt.Sprintf("%.1f km", aq.StationDistanceKm))
	}
	return strings.Join(parts, " · ")
}

// staleNote marks a value kept from an earlier successful fetch.
func staleNote(snap state.Snapshot, src state.Source, maxAge time.Duration) string {
	if !snap.IsStale(src, maxAge) {
		return ""
	}
	last := snap.Status(src).LastSuccessAt
	if last.IsZero() {
		return "stale"
	}
	return "stale since " + last.Format("03:04 PM")
}

func locationLine(snap state.Snapshot) string {
	name := snap.Location.Name
	if name == "" {
		name = snap.Location.Coordinates.String()
	}
	return "📍 " + name
}
