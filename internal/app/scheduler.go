package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/five82/skypane/internal/airquality"
	"github.com/five82/skypane/internal/fetch"
	"github.com/five82/skypane/internal/geocode"
	"github.com/five82/skypane/internal/metrics"
	"github.com/five82/skypane/internal/state"
	"github.com/five82/skypane/internal/weather"
)

const (
	defaultClockInterval   = time.Second
	defaultWeatherInterval = 10 * time.Minute
	defaultFetchTimeout    = 8 * time.Second
)

// WeatherFetcher returns current conditions for a location.
type WeatherFetcher interface {
	FetchCurrent(ctx context.Context, coords geocode.Coordinates) (weather.Observation, error)
}

// AirQualityFetcher returns the reading of the nearest station.
type AirQualityFetcher interface {
	FetchNearest(ctx context.Context, coords geocode.Coordinates, maxDistanceKm float64) (airquality.Observation, error)
}

// SchedulerOptions configure a Scheduler.
type SchedulerOptions struct {
	Store              *state.Store
	Weather            WeatherFetcher
	AirQuality         AirQualityFetcher
	Location           geocode.Coordinates
	MaxDistanceKm      float64
	ClockInterval      time.Duration
	WeatherInterval    time.Duration
	AirQualitySchedule cron.Schedule
	FetchTimeout       time.Duration
	Logger             *slog.Logger
	Metrics            *metrics.Metrics
	Now                func() time.Time
}

// band is one refresh cadence. next is only touched by the control loop;
// inFlight is shared with the fetch goroutine.
type band struct {
	source   state.Source
	next     time.Time
	inFlight atomic.Bool
	advance  func(now time.Time) time.Time
	fetch    func(ctx context.Context)
}

// Scheduler drives the clock, weather and air-quality bands from a single
// control loop.
type Scheduler struct {
	store        *state.Store
	weather      WeatherFetcher
	airQuality   AirQualityFetcher
	coords       geocode.Coordinates
	maxDistance  float64
	clock        time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time

	bands []*band
	wg    sync.WaitGroup
}

// NewScheduler builds a Scheduler. Zero durations fall back to defaults and a
// nil schedule falls back to the default air-quality slots.
func NewScheduler(opts SchedulerOptions) *Scheduler {
	s := &Scheduler{
		store:        opts.Store,
		weather:      opts.Weather,
		airQuality:   opts.AirQuality,
		coords:       opts.Location,
		maxDistance:  opts.MaxDistanceKm,
		clock:        opts.ClockInterval,
		fetchTimeout: opts.FetchTimeout,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		now:          opts.Now,
	}
	if s.clock <= 0 {
		s.clock = defaultClockInterval
	}
	if s.fetchTimeout <= 0 {
		s.fetchTimeout = defaultFetchTimeout
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}

	weatherEvery := opts.WeatherInterval
	if weatherEvery <= 0 {
		weatherEvery = defaultWeatherInterval
	}
	schedule := opts.AirQualitySchedule
	if schedule == nil {
		schedule = defaultAirQualitySchedule
	}

	if s.weather != nil {
		s.bands = append(s.bands, &band{
			source:  state.SourceWeather,
			advance: func(now time.Time) time.Time { return now.Add(weatherEvery) },
			fetch:   s.fetchWeather,
		})
	}
	if s.airQuality != nil {
		s.bands = append(s.bands, &band{
			source:  state.SourceAirQuality,
			advance: schedule.Next,
			fetch:   s.fetchAirQuality,
		})
	}
	return s
}

// defaultAirQualitySchedule fires at 06:00, 15:00 and 20:00 local time.
var defaultAirQualitySchedule = mustParseSchedule("0 6,15,20 * * *")

func mustParseSchedule(expr string) cron.Schedule {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		panic(err)
	}
	return sched
}

// Run blocks until ctx is cancelled, then waits for in-flight fetches.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.clock)
	defer ticker.Stop()

	s.step(ctx, s.now())
	for {
		select {
		case <-ctx.Done():
			s.wait()
			return
		case <-ticker.C:
			s.step(ctx, s.now())
		}
	}
}

// RefreshOnce triggers every network band once and waits for the results.
func (s *Scheduler) RefreshOnce(ctx context.Context) {
	now := s.now()
	s.store.Tick(now)
	for _, b := range s.bands {
		s.trigger(ctx, b, now)
	}
	s.wait()
}

// NextDue returns when src is next due, or the zero time before the first
// trigger.
func (s *Scheduler) NextDue(src state.Source) time.Time {
	for _, b := range s.bands {
		if b.source == src {
			return b.next
		}
	}
	return time.Time{}
}

func (s *Scheduler) step(ctx context.Context, now time.Time) {
	s.store.Tick(now)
	for _, b := range s.bands {
		if !now.Before(b.next) {
			s.trigger(ctx, b, now)
		}
	}
}

func (s *Scheduler) trigger(ctx context.Context, b *band, now time.Time) {
	b.next = b.advance(now)
	if !b.inFlight.CompareAndSwap(false, true) {
		s.logger.Debug("fetch skipped, previous still in flight",
			"source", string(b.source),
			"next_due", b.next.Format(time.RFC3339),
		)
		s.metrics.ObserveSkip(string(b.source))
		return
	}

	s.store.BeginFetch(b.source, now)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer b.inFlight.Store(false)

		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
		b.fetch(fetchCtx)
	}()
}

func (s *Scheduler) wait() {
	s.wg.Wait()
}

func (s *Scheduler) fetchWeather(ctx context.Context) {
	start := s.now()
	obs, err := s.weather.FetchCurrent(ctx, s.coords)
	done := s.now()
	took := done.Sub(start)

	if err != nil {
		s.store.WeatherFailed(err, done)
		s.recordFailure(state.SourceWeather, err, took, done)
		return
	}
	s.store.WeatherSucceeded(obs, done)
	s.metrics.ObserveFetch(string(state.SourceWeather), metrics.OutcomeSuccess, took, done)
	s.logger.Info("fetch succeeded",
		"source", string(state.SourceWeather),
		"outcome", metrics.OutcomeSuccess,
		"duration_ms", took.Milliseconds(),
		"temperature", obs.Temperature,
		"weather_code", obs.WeatherCode,
	)
}

func (s *Scheduler) fetchAirQuality(ctx context.Context) {
	start := s.now()
	obs, err := s.airQuality.FetchNearest(ctx, s.coords, s.maxDistance)
	done := s.now()
	took := done.Sub(start)

	if err != nil {
		s.store.AirQualityFailed(err, done)
		s.recordFailure(state.SourceAirQuality, err, took, done)
		return
	}
	s.store.AirQualitySucceeded(obs, done)
	s.metrics.ObserveFetch(string(state.SourceAirQuality), metrics.OutcomeSuccess, took, done)
	s.logger.Info("fetch succeeded",
		"source", string(state.SourceAirQuality),
		"outcome", metrics.OutcomeSuccess,
		"duration_ms", took.Milliseconds(),
		"index", obs.Index,
		"rating", obs.Rating.String(),
		"station_id", obs.StationID,
		"distance_km", obs.StationDistanceKm,
	)
}

func (s *Scheduler) recordFailure(src state.Source, err error, took time.Duration, at time.Time) {
	kind := fetch.KindOf(err)
	s.metrics.ObserveFetch(string(src), kind.String(), took, at)
	if fetch.IsDisabled(err) {
		s.logger.Info("fetch disabled",
			"source", string(src),
			"outcome", kind.String(),
			"reason", err.Error(),
		)
		return
	}
	s.logger.Warn("fetch failed",
		"source", string(src),
		"outcome", kind.String(),
		"duration_ms", took.Milliseconds(),
		"error", err.Error(),
	)
}
