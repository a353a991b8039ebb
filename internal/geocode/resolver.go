package geocode

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/skypane/internal/fetch"
)

const (
	// DefaultBaseURL is the public Open-Meteo geocoding API.
	DefaultBaseURL = "https://geocoding-api.open-meteo.com"
	sourceName     = "geocoding"
	resultCount    = 10
)

// Options configure a Resolver.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Resolver turns a place name into coordinates once at startup.
type Resolver struct {
	api *fetch.Client
	log *slog.Logger
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Name        string   `json:"name"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Country     string   `json:"country"`
	CountryCode string   `json:"country_code"`
}

// NewResolver builds a Resolver.
func NewResolver(opts Options) (*Resolver, error) {
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
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{api: api, log: logger}, nil
}

// Resolve looks up placeName, preferring a match in countryHint. It never
// fails: any error yields DefaultLocation with Outcome Fallback.
func (r *Resolver) Resolve(ctx context.Context, placeName, countryHint string) Resolution {
	place := strings.TrimSpace(placeName)
	country := strings.TrimSpace(countryHint)

	coords, err := r.lookup(ctx, place, country)
	if err != nil {
		r.log.WarnContext(ctx, "geocoding failed, using fallback location",
			"source", sourceName,
			"outcome", Fallback.String(),
			"place", place,
			"fallback", DefaultLocation.Name,
			"error", err,
		)
		return Resolution{Location: DefaultLocation, Outcome: Fallback, Err: err}
	}

	loc := Location{Name: DisplayName(place, country), Coordinates: coords}
	r.log.InfoContext(ctx, "location resolved",
		"source", sourceName,
		"outcome", Resolved.String(),
		"place", loc.Name,
		"coords", coords.String(),
	)
	return Resolution{Location: loc, Outcome: Resolved}
}

func (r *Resolver) lookup(ctx context.Context, place, country string) (Coordinates, error) {
	if place == "" {
		return Coordinates{}, fetch.Errorf(sourceName, fetch.KindNotFound, "place name is empty")
	}
	values := url.Values{}
	values.Set("name", place)
	values.Set("count", strconv.Itoa(resultCount))
	values.Set("language", "en")
	values.Set("format", "json")

	var payload searchResponse
	if err := r.api.GetJSON(ctx, "/v1/search", values, &payload); err != nil {
		return Coordinates{}, err
	}
	match, ok := pickResult(payload.Results, country)
	if !ok {
		return Coordinates{}, fetch.Errorf(sourceName, fetch.KindNotFound, "no results for %q", place)
	}
	if match.Latitude == nil || match.Longitude == nil {
		return Coordinates{}, fetch.Errorf(sourceName, fetch.KindData, "result for %q has no coordinates", place)
	}
	coords := Coordinates{Latitude: *match.Latitude, Longitude: *match.Longitude}
	if !coords.Valid() {
		return Coordinates{}, &fetch.Error{
			Source: sourceName,
			Kind:   fetch.KindData,
			Err:    errors.New("coordinates out of range: " + coords.String()),
		}
	}
	return coords, nil
}

// pickResult returns the first result in the hinted country, else the first
// result.
func pickResult(results []searchResult, country string) (searchResult, bool) {
	if len(results) == 0 {
		return searchResult{}, false
	}
	if country != "" {
		for _, res := range results {
			if strings.EqualFold(res.Country, country) || strings.EqualFold(res.CountryCode, country) {
				return res, true
			}
		}
	}
	return results[0], true
}
