package gradient

import "time"

// Theme is everything the renderer derives from time and weather.
type Theme struct {
	Hour     int    `json:"hour"`
	Band     Band   `json:"band"`
	Greeting string `json:"greeting"`
	Gradient Spec   `json:"gradient"`
}

// ThemeFor computes the theme for the local time t and optional code.
func ThemeFor(t time.Time, code *int) Theme {
	hour := t.Hour()
	return Theme{
		Hour:     hour,
		Band:     BandFor(hour),
		Greeting: Greeting(hour),
		Gradient: Compute(hour, code),
	}
}

// Greeting returns the status line for hour.
func Greeting(hour int) string {
	switch h := normalizeHour(hour); {
	case h >= 5 && h < 12:
		return "Good morning"
	case h >= 12 && h < 18:
		return "Good afternoon"
	case h >= 18 && h < 22:
		return "Good evening"
	default:
		return "Good night"
	}
}
