package weather

import (
	"strings"
	"time"
)

// Unit is the temperature unit requested from the upstream.
type Unit string

const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
)

// ParseUnit accepts celsius/fahrenheit and their short forms.
func ParseUnit(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c", "celsius", "metric":
		return Celsius, true
	case "f", "fahrenheit", "imperial":
		return Fahrenheit, true
	default:
		return "", false
	}
}

// Symbol returns the display suffix for the unit.
func (u Unit) Symbol() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// Observation is one successful current-conditions fetch. Temperature keeps
// full precision; rounding happens at presentation time.
type Observation struct {
	Temperature float64   `json:"temperature"`
	Unit        Unit      `json:"unit"`
	WeatherCode int       `json:"weatherCode"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	IsDay       bool      `json:"isDay"`
	HasIsDay    bool      `json:"-"`
	TodayMax    *float64  `json:"todayMax,omitempty"`
	TodayMin    *float64  `json:"todayMin,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Clone returns a deep copy.
func (o Observation) Clone() Observation {
	dup := o
	if o.TodayMax != nil {
		v := *o.TodayMax
		dup.TodayMax = &v
	}
	if o.TodayMin != nil {
		v := *o.TodayMin
		dup.TodayMin = &v
	}
	return dup
}

// forecastResponse mirrors the subset of /v1/forecast we read. Pointers
// distinguish missing fields from zero values.
type forecastResponse struct {
	Current *struct {
		Time          string   `json:"time"`
		Temperature2m *float64 `json:"temperature_2m"`
		WeatherCode   *float64 `json:"weather_code"`
		IsDay         *int     `json:"is_day"`
	} `json:"current"`
	Daily *struct {
		Time             []string   `json:"time"`
		Temperature2mMax []*float64 `json:"temperature_2m_max"`
		Temperature2mMin []*float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}
