package airquality

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/skypane/internal/fetch"
	"github.com/five82/skypane/internal/geocode"
)

const (
	// DefaultBaseURL is the Airly v2 API.
	DefaultBaseURL = "https://airapi.airly.eu"
	// PlaceholderAPIKey is the sample value shipped in example configs.
	PlaceholderAPIKey = "your_airly_api_key_here"
	// IndexName is the measurement index used for rating.
	IndexName = "AIRLY_CAQI"

	sourceName         = "airquality"
	maxInstallations   = 10
	defaultMaxDistance = 5.0
)

// Options configure the air-quality client.
type Options struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Now        func() time.Time
}

// Client fetches the nearest installation's CAQI from Airly.
type Client struct {
	api     *fetch.Client
	enabled bool
	log     *slog.Logger
	now     func() time.Time
}

// NewClient builds a client. A missing or placeholder key yields a client
// that reports ConfigError on every fetch without touching the network.
func NewClient(opts Options) (*Client, error) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	key := strings.TrimSpace(opts.APIKey)
	api, err := fetch.NewClient(fetch.Options{
		Source:     sourceName,
		BaseURL:    base,
		Timeout:    opts.Timeout,
		HTTPClient: opts.HTTPClient,
		Header:     http.Header{"apikey": []string{key}},
	})
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{api: api, enabled: KeyConfigured(key), log: logger, now: now}, nil
}

// KeyConfigured reports whether key is a usable API key.
func KeyConfigured(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != PlaceholderAPIKey
}

// Enabled reports whether the client has a usable key.
func (c *Client) Enabled() bool {
	return c.enabled
}

// FetchNearest picks the installation closest to coords within
// maxDistanceKm and returns its current CAQI.
func (c *Client) FetchNearest(ctx context.Context, coords geocode.Coordinates, maxDistanceKm float64) (Observation, error) {
	if !c.enabled {
		return Observation{}, fetch.Errorf(sourceName, fetch.KindConfig, "airly api key not configured")
	}
	if maxDistanceKm <= 0 || math.IsNaN(maxDistanceKm) {
		maxDistanceKm = defaultMaxDistance
	}

	stations, err := c.installations(ctx, coords, maxDistanceKm)
	if err != nil {
		return Observation{}, err
	}
	if len(stations) == 0 {
		return Observation{}, fetch.Errorf(sourceName, fetch.KindNotFound, "no installations returned near %s", coords)
	}
	nearest, ok := Nearest(coords, stations)
	if !ok {
		return Observation{}, fetch.Errorf(sourceName, fetch.KindNotFound, "no installation with usable coordinates")
	}
	if nearest.DistanceKm > maxDistanceKm {
		return Observation{}, fetch.Errorf(sourceName, fetch.KindNotFound,
			"nearest installation %d is %.1f km away, limit %.1f km", nearest.ID, nearest.DistanceKm, maxDistanceKm)
	}
	c.log.DebugContext(ctx, "nearest installation selected",
		"station", nearest.ID, "distance_km", nearest.DistanceKm, "candidates", len(stations))

	return c.measurement(ctx, nearest)
}

func (c *Client) installations(ctx context.Context, coords geocode.Coordinates, maxDistanceKm float64) ([]Station, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', 6, 64))
	values.Set("lng", strconv.FormatFloat(coords.Longitude, 'f', 6, 64))
	values.Set("maxDistanceKM", strconv.FormatFloat(maxDistanceKm, 'f', -1, 64))
	values.Set("maxResults", strconv.Itoa(maxInstallations))

	var payload []installation
	if err := c.api.GetJSON(ctx, "/v2/installations/nearest", values, &payload); err != nil {
		return nil, err
	}
	stations := make([]Station, 0, len(payload))
	for _, inst := range payload {
		if inst.Location == nil || inst.Location.Latitude == nil || inst.Location.Longitude == nil {
			continue
		}
		stations = append(stations, Station{
			ID:   inst.ID,
			Name: inst.name(),
			Coordinates: geocode.Coordinates{
				Latitude:  *inst.Location.Latitude,
				Longitude: *inst.Location.Longitude,
			},
		})
	}
	if len(payload) > 0 && len(stations) == 0 {
		return nil, fetch.Errorf(sourceName, fetch.KindData, "installations carry no coordinates")
	}
	return stations, nil
}

func (c *Client) measurement(ctx context.Context, station Station) (Observation, error) {
	values := url.Values{}
	values.Set("installationId", strconv.FormatInt(station.ID, 10))

	var payload measurementResponse
	if err := c.api.GetJSON(ctx, "/v2/measurements/installation", values, &payload); err != nil {
		return Observation{}, err
	}
	if payload.Current == nil {
		return Observation{}, fetch.Errorf(sourceName, fetch.KindData, "installation %d has no current measurement", station.ID)
	}

	var index *float64
	for _, idx := range payload.Current.Indexes {
		if idx.Name == IndexName && idx.Value != nil && !math.IsNaN(*idx.Value) {
			index = idx.Value
			break
		}
	}
	if index == nil {
		return Observation{}, fetch.Errorf(sourceName, fetch.KindData, "installation %d has no %s value", station.ID, IndexName)
	}

	value := ClampIndex(*index)
	obs := Observation{
		Index:             value,
		Rating:            RatingFor(value),
		StationID:         station.ID,
		StationName:       station.Name,
		StationDistanceKm: station.DistanceKm,
		FetchedAt:         c.now(),
	}
	for _, v := range payload.Current.Values {
		if v.Value == nil {
			continue
		}
		val := *v.Value
		switch v.Name {
		case "PM25":
			obs.PM25 = &val
		case "PM10":
			obs.PM10 = &val
		}
	}
	return obs, nil
}
