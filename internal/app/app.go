package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/five82/skypane/internal/airquality"
	"github.com/five82/skypane/internal/config"
	"github.com/five82/skypane/internal/geocode"
	"github.com/five82/skypane/internal/logging"
	"github.com/five82/skypane/internal/metrics"
	"github.com/five82/skypane/internal/prefs"
	"github.com/five82/skypane/internal/state"
	"github.com/five82/skypane/internal/status"
	"github.com/five82/skypane/internal/ui"
	"github.com/five82/skypane/internal/weather"
)

// Options configure the skypane application.
type Options struct {
	ConfigPath string
	EnvFiles   []string // empty uses ./.env
	PrefsPath  string   // empty uses default ~/.config/skypane/prefs.toml
	LogFile    string   // overrides LOG_FILE when set
	// Debug overrides both the config and the saved preference when non-nil.
	Debug *bool
}

// LoadConfig loads configuration and applies command-line overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.EnvFiles...)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}
	if opts.Debug != nil {
		cfg.Debug = *opts.Debug
	}
	return cfg, nil
}

// Run boots the display until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)
	debug := userPrefs.DebugOr(cfg.Debug)
	if opts.Debug != nil {
		debug = *opts.Debug
	}

	logger, err := logging.Open(cfg.LogFile, debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt, err := build(ctx, cfg, logger.Logger, endpoints{})
	if err != nil {
		return err
	}
	rt.store.SetDebug(debug)
	logger.Info("skypane starting",
		"location", rt.location.Name,
		"outcome", rt.location.Outcome.String(),
		"air_quality_enabled", airquality.KeyConfigured(cfg.AirlyAPIKey),
	)

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		rt.scheduler.Run(ctx)
	}()

	if cfg.HTTPAddr != "" {
		go func() {
			srv := status.New(rt.store, rt.registry, logger.Logger)
			if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
				logger.Error("status server failed", "error", err)
			}
		}()
	}

	uiErr := ui.Run(ui.Options{
		Context:    ctx,
		Store:      rt.store,
		Logger:     logger,
		LogFile:    cfg.LogFile,
		PrefsPath:  opts.PrefsPath,
		Prefs:      userPrefs,
		StaleAfter: staleAfter(cfg.WeatherInterval),
	})

	cancel()
	<-schedulerDone
	logger.Info("skypane stopped")
	return uiErr
}

// Snapshot resolves the location, refreshes every source once and returns
// the resulting display state.
func Snapshot(ctx context.Context, cfg config.Config, logger *slog.Logger) (state.Snapshot, error) {
	return snapshot(ctx, cfg, logger, endpoints{})
}

func snapshot(ctx context.Context, cfg config.Config, logger *slog.Logger, ep endpoints) (state.Snapshot, error) {
	rt, err := build(ctx, cfg, logger, ep)
	if err != nil {
		return state.Snapshot{}, err
	}
	rt.scheduler.RefreshOnce(ctx)
	return rt.store.Snapshot(), nil
}

// endpoints overrides upstream base URLs; zero values use the public APIs.
type endpoints struct {
	geocode    string
	weather    string
	airQuality string
	httpClient *http.Client
}

type runtime struct {
	location  geocode.Resolution
	store     *state.Store
	scheduler *Scheduler
	registry  *prometheus.Registry
}

func build(ctx context.Context, cfg config.Config, logger *slog.Logger, ep endpoints) (*runtime, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	schedule, err := config.ParseSchedule(cfg.AirQualitySchedule)
	if err != nil {
		return nil, err
	}
	unit, ok := weather.ParseUnit(cfg.TemperatureUnit)
	if !ok {
		return nil, fmt.Errorf("unknown temperature unit %q", cfg.TemperatureUnit)
	}

	location, err := resolveLocation(ctx, cfg, logger, ep)
	if err != nil {
		return nil, err
	}

	weatherClient, err := weather.NewClient(weather.Options{
		BaseURL:    ep.weather,
		Unit:       unit,
		Timeout:    cfg.FetchTimeout,
		HTTPClient: ep.httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init weather client: %w", err)
	}
	airClient, err := airquality.NewClient(airquality.Options{
		APIKey:     cfg.AirlyAPIKey,
		BaseURL:    ep.airQuality,
		Timeout:    cfg.FetchTimeout,
		HTTPClient: ep.httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init air quality client: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	store := state.NewStore(location, time.Now(), cfg.ShowSeconds)

	sched := NewScheduler(SchedulerOptions{
		Store:              store,
		Weather:            weatherClient,
		AirQuality:         airClient,
		Location:           location.Coordinates,
		MaxDistanceKm:      cfg.MaxDistanceKm,
		ClockInterval:      cfg.ClockInterval,
		WeatherInterval:    cfg.WeatherInterval,
		AirQualitySchedule: schedule,
		FetchTimeout:       cfg.FetchTimeout,
		Logger:             logger,
		Metrics:            metrics.NewMetrics(registry),
	})

	return &runtime{location: location, store: store, scheduler: sched, registry: registry}, nil
}

// resolveLocation uses configured coordinates when both are set and geocodes
// the configured city otherwise.
func resolveLocation(ctx context.Context, cfg config.Config, logger *slog.Logger, ep endpoints) (geocode.Resolution, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	name := geocode.DisplayName(cfg.LocationCity, cfg.LocationCountry)
	if cfg.HasCoordinates() {
		res := geocode.ConfiguredLocation(name, geocode.Coordinates{
			Latitude:  *cfg.Latitude,
			Longitude: *cfg.Longitude,
		})
		logger.Info("location configured", "source", "geocode", "outcome", res.Outcome.String(), "coordinates", res.Coordinates.String())
		return res, nil
	}

	resolver, err := geocode.NewResolver(geocode.Options{
		BaseURL:    ep.geocode,
		Timeout:    cfg.FetchTimeout,
		HTTPClient: ep.httpClient,
		Logger:     logger,
	})
	if err != nil {
		return geocode.Resolution{}, fmt.Errorf("init geocoder: %w", err)
	}
	resolveCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	return resolver.Resolve(resolveCtx, cfg.LocationCity, cfg.LocationCountry), nil
}

// staleAfter marks weather stale once two refreshes have been missed.
func staleAfter(weatherInterval time.Duration) time.Duration {
	if weatherInterval <= 0 {
		weatherInterval = defaultWeatherInterval
	}
	return 2 * weatherInterval
}
