package weather

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/five82/skypane/internal/fetch"
	"github.com/five82/skypane/internal/geocode"
)

const (
	// DefaultBaseURL is the public Open-Meteo forecast API.
	DefaultBaseURL = "https://api.open-meteo.com"
	sourceName     = "weather"
)

// Options configure the weather client.
type Options struct {
	BaseURL    string
	Unit       Unit
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Now        func() time.Time
}

// Client fetches current conditions from Open-Meteo.
type Client struct {
	api  *fetch.Client
	unit Unit
	log  *slog.Logger
	now  func() time.Time
}

// NewClient builds a weather client.
func NewClient(opts Options) (*Client, error) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	api, err := fetch.NewClient(fetch.Options{
		Source:     sourceName,
		BaseURL:    base,
		Timeout:    opts.Timeout,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	unit := opts.Unit
	if unit == "" {
		unit = Celsius
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{api: api, unit: unit, log: logger, now: now}, nil
}

// Unit returns the configured temperature unit.
func (c *Client) Unit() Unit {
	return c.unit
}

// FetchCurrent returns the current observation for coords. Failures are
// *fetch.Error values of kind network, protocol or data.
func (c *Client) FetchCurrent(ctx context.Context, coords geocode.Coordinates) (Observation, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', 4, 64))
	values.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', 4, 64))
	values.Set("current", "temperature_2m,weather_code,is_day")
	values.Set("daily", "temperature_2m_max,temperature_2m_min")
	values.Set("forecast_days", "1")
	values.Set("timezone", "auto")
	values.Set("temperature_unit", string(c.unit))

	var payload forecastResponse
	if err := c.api.GetJSON(ctx, "/v1/forecast", values, &payload); err != nil {
		return Observation{}, err
	}
	obs, err := c.parse(payload)
	if err != nil {
		return Observation{}, err
	}
	c.log.DebugContext(ctx, "weather payload parsed",
		"temperature", obs.Temperature, "code", obs.WeatherCode)
	return obs, nil
}

func (c *Client) parse(payload forecastResponse) (Observation, error) {
	cur := payload.Current
	if cur == nil {
		return Observation{}, fetch.Errorf(sourceName, fetch.KindData, "response has no current block")
	}
	if cur.Temperature2m == nil || !finite(*cur.Temperature2m) {
		return Observation{}, fetch.Errorf(sourceName, fetch.KindData, "current.temperature_2m missing")
	}
	if cur.WeatherCode == nil || !finite(*cur.WeatherCode) {
		return Observation{}, fetch.Errorf(sourceName, fetch.KindData, "current.weather_code missing")
	}
	if *cur.WeatherCode != math.Trunc(*cur.WeatherCode) {
		return Observation{}, fetch.Errorf(sourceName, fetch.KindData, "current.weather_code %v is not an integer", *cur.WeatherCode)
	}

	code := int(*cur.WeatherCode)
	desc, icon := Describe(code)
	obs := Observation{
		Temperature: *cur.Temperature2m,
		Unit:        c.unit,
		WeatherCode: code,
		Description: desc,
		Icon:        icon,
		FetchedAt:   c.now(),
	}
	if cur.IsDay != nil {
		obs.HasIsDay = true
		obs.IsDay = *cur.IsDay != 0
	}
	if d := payload.Daily; d != nil {
		obs.TodayMax = firstFinite(d.Temperature2mMax)
		obs.TodayMin = firstFinite(d.Temperature2mMin)
	}
	return obs, nil
}

func firstFinite(values []*float64) *float64 {
	if len(values) == 0 || values[0] == nil || !finite(*values[0]) {
		return nil
	}
	v := *values[0]
	return &v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
