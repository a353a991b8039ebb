package airquality

import (
	"time"

	"github.com/five82/skypane/internal/geocode"
)

// Station is a monitoring installation considered during one fetch cycle.
type Station struct {
	ID          int64
	Name        string
	Coordinates geocode.Coordinates
	DistanceKm  float64
}

// Observation is one successful air-quality fetch.
type Observation struct {
	Index             float64   `json:"index"`
	Rating            Rating    `json:"rating"`
	StationID         int64     `json:"stationId"`
	StationName       string    `json:"stationName,omitempty"`
	StationDistanceKm float64   `json:"stationDistanceKm"`
	PM25              *float64  `json:"pm25,omitempty"`
	PM10              *float64  `json:"pm10,omitempty"`
	FetchedAt         time.Time `json:"fetchedAt"`
}

// Clone returns a deep copy.
func (o Observation) Clone() Observation {
	dup := o
	if o.PM25 != nil {
		v := *o.PM25
		dup.PM25 = &v
	}
	if o.PM10 != nil {
		v := *o.PM10
		dup.PM10 = &v
	}
	return dup
}

type installation struct {
	ID       int64 `json:"id"`
	Location *struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"location"`
	Address *struct {
		City            string `json:"city"`
		Street          string `json:"street"`
		DisplayAddress1 string `json:"displayAddress1"`
		DisplayAddress2 string `json:"displayAddress2"`
	} `json:"address"`
}

func (i installation) name() string {
	if i.Address == nil {
		return ""
	}
	switch {
	case i.Address.DisplayAddress2 != "":
		return i.Address.DisplayAddress2
	case i.Address.Street != "":
		return i.Address.Street
	default:
		return i.Address.City
	}
}

type measurementResponse struct {
	Current *struct {
		FromDateTime string       `json:"fromDateTime"`
		TillDateTime string       `json:"tillDateTime"`
		Values       []namedValue `json:"values"`
		Indexes      []indexValue `json:"indexes"`
	} `json:"current"`
}

type namedValue struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
}

type indexValue struct {
	Name        string   `json:"name"`
	Value       *float64 `json:"value"`
	Level       string   `json:"level"`
	Description string   `json:"description"`
}
