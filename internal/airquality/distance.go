package airquality

import (
	"math"

	"github.com/five82/skypane/internal/geocode"
)

// earthRadiusKm is the IUGG mean earth radius.
const earthRadiusKm = 6371.0088

// DistanceKm returns the great-circle (haversine) distance between a and b.
func DistanceKm(a, b geocode.Coordinates) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := lat2 - lat1
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	h = math.Min(1, math.Max(0, h))
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// Nearest fills DistanceKm on every station and returns the closest one.
// Exact ties keep the first station seen; the order is otherwise arbitrary.
func Nearest(origin geocode.Coordinates, stations []Station) (Station, bool) {
	best := -1
	for i := range stations {
		stations[i].DistanceKm = DistanceKm(origin, stations[i].Coordinates)
		if math.IsNaN(stations[i].DistanceKm) {
			continue
		}
		if best < 0 || stations[i].DistanceKm < stations[best].DistanceKm {
			best = i
		}
	}
	if best < 0 {
		return Station{}, false
	}
	return stations[best], true
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
