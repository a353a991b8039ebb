package airquality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/skypane/internal/geocode"
)

// north returns a point km kilometres due north of origin.
func north(origin geocode.Coordinates, km float64) geocode.Coordinates {
	return geocode.Coordinates{
		Latitude:  origin.Latitude + km/(earthRadiusKm*math.Pi/180),
		Longitude: origin.Longitude,
	}
}

func TestDistanceKm(t *testing.T) {
	berlin := geocode.Coordinates{Latitude: 52.52, Longitude: 13.405}
	warsaw := geocode.Coordinates{Latitude: 52.2297, Longitude: 21.0122}

	assert.InDelta(t, 0, DistanceKm(berlin, berlin), 1e-9)
	assert.InDelta(t, 517, DistanceKm(berlin, warsaw), 3)
	assert.InDelta(t, DistanceKm(berlin, warsaw), DistanceKm(warsaw, berlin), 1e-9)
	assert.InDelta(t, 6, DistanceKm(berlin, north(berlin, 6)), 1e-6)

	antipode := geocode.Coordinates{Latitude: -52.52, Longitude: 13.405 - 180}
	assert.InDelta(t, math.Pi*earthRadiusKm, DistanceKm(berlin, antipode), 1e-6)
}

func TestNearest(t *testing.T) {
	origin := geocode.Coordinates{Latitude: 50.06, Longitude: 19.94}

	t.Run("minimum distance wins", func(t *testing.T) {
		stations := []Station{
			{ID: 1, Coordinates: north(origin, 6)},
			{ID: 2, Coordinates: north(origin, 2)},
			{ID: 3, Coordinates: north(origin, 4)},
		}
		got, ok := Nearest(origin, stations)
		require.True(t, ok)
		assert.Equal(t, int64(2), got.ID)
		assert.InDelta(t, 2, got.DistanceKm, 1e-6)
		for _, s := range stations {
			assert.Greater(t, s.DistanceKm, 0.0, "distance filled for station %d", s.ID)
		}
	})

	t.Run("exact tie keeps first seen", func(t *testing.T) {
		p := north(origin, 3)
		got, ok := Nearest(origin, []Station{{ID: 7, Coordinates: p}, {ID: 8, Coordinates: p}})
		require.True(t, ok)
		assert.Equal(t, int64(7), got.ID)
	})

	t.Run("empty list", func(t *testing.T) {
		_, ok := Nearest(origin, nil)
		assert.False(t, ok)
	})
}

func TestRatingFor(t *testing.T) {
	cases := []struct {
		index float64
		want  Rating
	}{
		{-12, Good},
		{0, Good},
		{50, Good},
		{50.01, Moderate},
		{100, Moderate},
		{150, Fair},
		{150.5, Poor},
		{900, Poor},
		{math.NaN(), Unknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RatingFor(tc.index), "RatingFor(%v)", tc.index)
	}
	assert.Equal(t, 0.0, ClampIndex(-3))
	assert.Equal(t, "Moderate", Moderate.String())
	assert.Equal(t, "Unknown", Rating(42).String())
}

func TestStatusText(t *testing.T) {
	cases := []struct {
		index float64
		want  string
	}{
		{-4, "A-MAZE-BALLS"},
		{0, "A-MAZE-BALLS"},
		{33.9, "A-MAZE-BALLS"},
		{34, "Open the windows, go out!"},
		{66, "Open the windows, go out!"},
		{67, "It's ok..."},
		{99.5, "It's ok..."},
		{100, "Bad, but will survive"},
		{150.9, "Bad, but will survive"},
		{151, "Hazardous, do not open the windows"},
		{math.NaN(), ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusText(tc.index), "StatusText(%v)", tc.index)
	}
}
