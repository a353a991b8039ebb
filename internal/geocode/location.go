package geocode

import (
	"fmt"
	"math"
)

// Coordinates is a WGS84 point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both values are finite and in range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Location is the single place the display reports on.
type Location struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

// DefaultLocation is used whenever geocoding fails.
var DefaultLocation = Location{
	Name:        "Berlin, Germany",
	Coordinates: Coordinates{Latitude: 52.52, Longitude: 13.405},
}

// Outcome records how a Location was obtained.
type Outcome int

const (
	// Resolved means the geocoding API returned a match.
	Resolved Outcome = iota
	// Fallback means resolution failed and DefaultLocation was used.
	Fallback
	// Configured means coordinates came straight from configuration.
	Configured
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Fallback:
		return "fallback"
	case Configured:
		return "configured"
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Resolution is the result of resolving the configured place. Err carries
// the absorbed cause when Outcome is Fallback.
type Resolution struct {
	Location
	Outcome Outcome `json:"outcome"`
	Err     error   `json:"-"`
}

// ConfiguredLocation builds a Resolution from explicit coordinates. Invalid
// coordinates fall back to DefaultLocation.
func ConfiguredLocation(name string, coords Coordinates) Resolution {
	if !coords.Valid() {
		return Resolution{
			Location: DefaultLocation,
			Outcome:  Fallback,
			Err:      fmt.Errorf("configured coordinates %s out of range", coords),
		}
	}
	if name == "" {
		name = coords.String()
	}
	return Resolution{Location: Location{Name: name, Coordinates: coords}, Outcome: Configured}
}

// DisplayName joins a place and country the way the header shows it.
func DisplayName(place, country string) string {
	if country == "" {
		return place
	}
	if place == "" {
		return country
	}
	return place + ", " + country
}
