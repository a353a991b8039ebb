package weather

import "slices"

// Condition is a WMO weather code entry.
type Condition struct {
	Description string
	Icon        string
}

// Unknown is returned for codes outside the table.
var Unknown = Condition{Description: "Unknown", Icon: "❓"}

// conditions covers the WMO codes Open-Meteo reports.
var conditions = map[int]Condition{
	0:  {"Clear sky", "☀️"},
	1:  {"Mainly clear", "🌤️"},
	2:  {"Partly cloudy", "⛅"},
	3:  {"Overcast", "☁️"},
	45: {"Foggy", "🌫️"},
	48: {"Depositing rime fog", "🌫️"},
	51: {"Light drizzle", "🌦️"},
	53: {"Moderate drizzle", "🌦️"},
	55: {"Dense drizzle", "🌧️"},
	56: {"Light freezing drizzle", "🌧️"},
	57: {"Dense freezing drizzle", "🌧️"},
	61: {"Slight rain", "🌦️"},
	63: {"Moderate rain", "🌧️"},
	65: {"Heavy rain", "🌧️"},
	66: {"Light freezing rain", "🌧️"},
	67: {"Heavy freezing rain", "🌧️"},
	71: {"Slight snow", "🌨️"},
	73: {"Moderate snow", "🌨️"},
	75: {"Heavy snow", "❄️"},
	77: {"Snow grains", "🌨️"},
	80: {"Slight rain showers", "🌦️"},
	81: {"Moderate rain showers", "🌧️"},
	82: {"Violent rain showers", "⛈️"},
	85: {"Slight snow showers", "🌨️"},
	86: {"Heavy snow showers", "❄️"},
	95: {"Thunderstorm", "⛈️"},
	96: {"Thunderstorm with slight hail", "⛈️"},
	99: {"Thunderstorm with heavy hail", "⛈️"},
}

// nightIcons replaces the sun for clear codes after dark.
var nightIcons = map[int]string{
	0: "🌙",
	1: "🌙",
	2: "☁️",
}

// Describe maps a WMO code to its description and icon.
func Describe(code int) (description, icon string) {
	c := Lookup(code)
	return c.Description, c.Icon
}

// Lookup returns the table entry for code, or Unknown.
func Lookup(code int) Condition {
	if c, ok := conditions[code]; ok {
		return c
	}
	return Unknown
}

// Known reports whether code is in the table.
func Known(code int) bool {
	_, ok := conditions[code]
	return ok
}

// Codes returns every code in the table in ascending order.
func Codes() []int {
	out := make([]int, 0, len(conditions))
	for code := range conditions {
		out = append(out, code)
	}
	slices.Sort(out)
	return out
}

// IconFor picks the day or night icon for an observation.
func IconFor(obs Observation) string {
	if obs.HasIsDay && !obs.IsDay {
		if icon, ok := nightIcons[obs.WeatherCode]; ok {
			return icon
		}
	}
	return obs.Icon
}
