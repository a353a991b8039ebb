package airquality

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/skypane/internal/fetch"
	"github.com/five82/skypane/internal/geocode"
)

var krakow = geocode.Coordinates{Latitude: 50.06, Longitude: 19.94}

type fakeAirly struct {
	stations    []map[string]any
	measurement string
	status      int
	hits        atomic.Int32
	lastID      atomic.Value
	lastKey     atomic.Value
}

func (f *fakeAirly) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	f.lastKey.Store(r.Header.Get("apikey"))
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	switch r.URL.Path {
	case "/v2/installations/nearest":
		_ = json.NewEncoder(w).Encode(f.stations)
	case "/v2/measurements/installation":
		f.lastID.Store(r.URL.Query().Get("installationId"))
		_, _ = w.Write([]byte(f.measurement))
	default:
		http.NotFound(w, r)
	}
}

func station(id int64, at geocode.Coordinates) map[string]any {
	return map[string]any{
		"id":       id,
		"location": map[string]any{"latitude": at.Latitude, "longitude": at.Longitude},
		"address":  map[string]any{"city": "Kraków", "street": fmt.Sprintf("Street %d", id)},
	}
}

const caqiMeasurement = `{"current": {
	"values": [{"name": "PM25", "value": 12.5}, {"name": "PM10", "value": 20.1}],
	"indexes": [{"name": "AIRLY_CAQI", "value": 37.4, "level": "LOW"}]
}}`

func newAirly(t *testing.T, key string, fake *fakeAirly) *Client {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	c, err := NewClient(Options{APIKey: key, BaseURL: server.URL})
	require.NoError(t, err)
	return c
}

func TestFetchNearest_SelectsClosestStation(t *testing.T) {
	fake := &fakeAirly{
		stations: []map[string]any{
			station(11, north(krakow, 6)),
			station(22, north(krakow, 2)),
		},
		measurement: caqiMeasurement,
	}
	c := newAirly(t, "real-key", fake)

	obs, err := c.FetchNearest(context.Background(), krakow, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(22), obs.StationID)
	assert.Equal(t, "Street 22", obs.StationName)
	assert.InDelta(t, 2, obs.StationDistanceKm, 1e-6)
	assert.InDelta(t, 37.4, obs.Index, 1e-9)
	assert.Equal(t, Good, obs.Rating)
	require.NotNil(t, obs.PM25)
	assert.InDelta(t, 12.5, *obs.PM25, 1e-9)
	assert.Equal(t, "22", fake.lastID.Load())
	assert.Equal(t, "real-key", fake.lastKey.Load())
	assert.False(t, obs.FetchedAt.IsZero())
}

func TestFetchNearest_DisabledKeys(t *testing.T) {
	for _, key := range []string{"", "  ", PlaceholderAPIKey} {
		fake := &fakeAirly{}
		c := newAirly(t, key, fake)
		assert.False(t, c.Enabled())

		_, err := c.FetchNearest(context.Background(), krakow, 5)
		require.Error(t, err)
		assert.ErrorIs(t, err, fetch.ErrConfig)
		assert.True(t, fetch.IsDisabled(err))
		assert.Equal(t, int32(0), fake.hits.Load(), "no HTTP call for key %q", key)
	}
}

func TestFetchNearest_Failures(t *testing.T) {
	far := []map[string]any{station(1, north(krakow, 6)), station(2, north(krakow, 7))}
	near := []map[string]any{station(3, north(krakow, 1))}

	cases := []struct {
		name string
		fake *fakeAirly
		want error
	}{
		{"empty installations", &fakeAirly{stations: []map[string]any{}}, fetch.ErrNotFound},
		{"nearest beyond radius", &fakeAirly{stations: far}, fetch.ErrNotFound},
		{"missing caqi index", &fakeAirly{stations: near, measurement: `{"current": {"indexes": [{"name": "PIJP", "value": 3}]}}`}, fetch.ErrData},
		{"null caqi value", &fakeAirly{stations: near, measurement: `{"current": {"indexes": [{"name": "AIRLY_CAQI", "value": null}]}}`}, fetch.ErrData},
		{"missing current", &fakeAirly{stations: near, measurement: `{}`}, fetch.ErrData},
		{"rate limited", &fakeAirly{status: http.StatusTooManyRequests}, fetch.ErrProtocol},
		{"unauthorized", &fakeAirly{status: http.StatusUnauthorized}, fetch.ErrProtocol},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newAirly(t, "real-key", tc.fake)
			_, err := c.FetchNearest(context.Background(), krakow, 5)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.False(t, fetch.IsDisabled(err))
		})
	}
}

func TestFetchNearest_NegativeIndexClamped(t *testing.T) {
	fake := &fakeAirly{
		stations:    []map[string]any{station(5, north(krakow, 0.5))},
		measurement: `{"current": {"indexes": [{"name": "AIRLY_CAQI", "value": -4}]}}`,
	}
	c := newAirly(t, "real-key", fake)

	obs, err := c.FetchNearest(context.Background(), krakow, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, obs.Index)
	assert.Equal(t, Good, obs.Rating)
	assert.Nil(t, obs.PM10)
}
