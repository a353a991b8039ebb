// Package gradient derives the background gradient and status text from the
// local hour and the latest weather code. Everything here is pure.
package gradient

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// MaxStepDelta bounds the per-channel change (0-255) between the
	// gradients of two adjacent hours for the same weather code.
	MaxStepDelta = 48
	// WeatherBlend is how far base colors move toward the weather accent.
	WeatherBlend = 0.3
)

// Stop is one (color, position) point. Position runs 0 (top) to 1 (bottom).
type Stop struct {
	Color    string  `json:"color"`
	Position float64 `json:"position"`
}

// Spec is an ordered list of 2 to 4 stops.
type Spec struct {
	Stops []Stop `json:"stops"`
}

// Equal reports whether two specs have identical stops.
func (s Spec) Equal(o Spec) bool {
	if len(s.Stops) != len(o.Stops) {
		return false
	}
	for i := range s.Stops {
		if s.Stops[i] != o.Stops[i] {
			return false
		}
	}
	return true
}

// At samples the gradient at pos (clamped to 0..1) and returns a hex color.
func (s Spec) At(pos float64) string {
	switch len(s.Stops) {
	case 0:
		return "#000000"
	case 1:
		return s.Stops[0].Color
	}
	pos = math.Max(0, math.Min(1, pos))
	if pos <= s.Stops[0].Position {
		return s.Stops[0].Color
	}
	for i := 1; i < len(s.Stops); i++ {
		a, b := s.Stops[i-1], s.Stops[i]
		if pos > b.Position {
			continue
		}
		span := b.Position - a.Position
		if span <= 0 {
			return b.Color
		}
		return blend(parse(a.Color), parse(b.Color), (pos-a.Position)/span).Hex()
	}
	return s.Stops[len(s.Stops)-1].Color
}

// Compute returns the gradient for a local hour and optional weather code.
// Hours outside 0-23 wrap. A nil code, or a code without a weather
// category, yields the unmodified two-stop base gradient.
func Compute(hour int, code *int) Spec {
	top, bottom := baseColors(normalizeHour(hour))
	if code == nil {
		return twoStop(top, bottom)
	}
	accentHex, ok := accentFor(*code)
	if !ok {
		return twoStop(top, bottom)
	}
	accent := parse(accentHex)
	mid := blend(top, bottom, 0.5)
	return Spec{Stops: []Stop{
		{Color: blend(top, accent, WeatherBlend).Hex(), Position: 0},
		{Color: blend(mid, accent, WeatherBlend*1.5).Hex(), Position: 0.55},
		{Color: blend(bottom, accent, WeatherBlend).Hex(), Position: 1},
	}}
}

func twoStop(top, bottom colorful.Color) Spec {
	return Spec{Stops: []Stop{
		{Color: top.Hex(), Position: 0},
		{Color: bottom.Hex(), Position: 1},
	}}
}

func normalizeHour(hour int) int {
	h := hour % 24
	if h < 0 {
		h += 24
	}
	return h
}

// blend interpolates in RGB so adjacent-hour steps stay linear.
func blend(a, b colorful.Color, t float64) colorful.Color {
	return a.BlendRgb(b, t).Clamped()
}

func parse(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return c
}
