package state

import (
	"sync"
	"time"

	"github.com/five82/skypane/internal/airquality"
	"github.com/five82/skypane/internal/fetch"
	"github.com/five82/skypane/internal/geocode"
	"github.com/five82/skypane/internal/gradient"
	"github.com/five82/skypane/internal/weather"
)

// Source identifies a network band.
type Source string

const (
	SourceWeather    Source = "weather"
	SourceAirQuality Source = "airquality"
)

// Phase is where a source sits in its refresh cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFetching
	PhaseSucceeded
	PhaseFailed
	PhaseDisabled
)

func (p Phase) String() string {
	switch p {
	case PhaseFetching:
		return "fetching"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	case PhaseDisabled:
		return "disabled"
	default:
		return "idle"
	}
}

// MarshalText renders the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// SourceStatus tracks freshness and the last failure of one source.
type SourceStatus struct {
	Phase               Phase      `json:"phase"`
	LastError           string     `json:"lastError,omitempty"`
	LastErrorKind       fetch.Kind `json:"lastErrorKind,omitempty"`
	LastSuccessAt       time.Time  `json:"lastSuccessAt"`
	LastAttemptAt       time.Time  `json:"lastAttemptAt"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	InFlight            bool       `json:"inFlight"`
}

// Snapshot is the display state handed to the renderer.
type Snapshot struct {
	Now              time.Time               `json:"now"`
	Location         geocode.Resolution      `json:"location"`
	Weather          *weather.Observation    `json:"weather,omitempty"`
	AirQuality       *airquality.Observation `json:"airQuality,omitempty"`
	Theme            gradient.Theme          `json:"theme"`
	WeatherStatus    SourceStatus            `json:"weatherStatus"`
	AirQualityStatus SourceStatus            `json:"airQualityStatus"`
	ShowSeconds      bool                    `json:"showSeconds"`
	Debug            bool                    `json:"debug"`
	// Version increases on every visible change.
	Version uint64 `json:"version"`
}

// Store coordinates the scheduler (single writer) and the renderer and
// status server (readers). Every mutation happens under one lock so readers
// never see a half-applied update.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore seeds the store with the resolved location and the current time.
func NewStore(loc geocode.Resolution, now time.Time, showSeconds bool) *Store {
	s := &Store{}
	s.snapshot.Location = loc
	s.snapshot.ShowSeconds = showSeconds
	s.snapshot.Now = now
	s.snapshot.Theme = gradient.ThemeFor(now, nil)
	s.snapshot.Version = 1
	return s
}

// Tick advances the clock. It reports whether the displayed time changed;
// the theme is recomputed only when the hour changes.
func (s *Store) Tick(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	unit := time.Minute
	if s.snapshot.ShowSeconds {
		unit = time.Second
	}
	prev := s.snapshot.Now
	s.snapshot.Now = now
	if !prev.IsZero() && prev.Truncate(unit).Equal(now.Truncate(unit)) {
		return false
	}
	if now.Hour() != s.snapshot.Theme.Hour || prev.IsZero() {
		s.recomputeTheme()
	}
	s.snapshot.Version++
	return true
}

// SetLocation replaces the resolved location.
func (s *Store) SetLocation(loc geocode.Resolution) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Location = loc
	s.snapshot.Version++
}

// BeginFetch marks source as in flight. A source that has already finished a
// fetch keeps its phase, so a failed or disabled source still reads as such
// until the new result lands.
func (s *Store) BeginFetch(src Source, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.status(src)
	if st.Phase == PhaseIdle {
		st.Phase = PhaseFetching
	}
	st.InFlight = true
	st.LastAttemptAt = at
	s.snapshot.Version++
}

// WeatherSucceeded replaces the weather observation and clears the error.
func (s *Store) WeatherSucceeded(obs weather.Observation, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dup := obs.Clone()
	codeChanged := s.snapshot.Weather == nil || s.snapshot.Weather.WeatherCode != obs.WeatherCode
	s.snapshot.Weather = &dup
	s.succeed(&s.snapshot.WeatherStatus, at)
	if codeChanged {
		s.recomputeTheme()
	}
	s.snapshot.Version++
}

// WeatherFailed records err while keeping the previous observation.
func (s *Store) WeatherFailed(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fail(&s.snapshot.WeatherStatus, err, at)
	s.snapshot.Version++
}

// AirQualitySucceeded replaces the air-quality observation.
func (s *Store) AirQualitySucceeded(obs airquality.Observation, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dup := obs.Clone()
	s.snapshot.AirQuality = &dup
	s.succeed(&s.snapshot.AirQualityStatus, at)
	s.snapshot.Version++
}

// AirQualityFailed records err while keeping the previous observation. A
// config error moves the source to PhaseDisabled instead of PhaseFailed.
func (s *Store) AirQualityFailed(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fail(&s.snapshot.AirQualityStatus, err, at)
	if fetch.IsDisabled(err) {
		s.snapshot.AirQualityStatus.Phase = PhaseDisabled
		s.snapshot.AirQualityStatus.ConsecutiveFailures = 0
	}
	s.snapshot.Version++
}

// SetDebug switches the debug overlay.
func (s *Store) SetDebug(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Debug == on {
		return
	}
	s.snapshot.Debug = on
	s.snapshot.Version++
}

// ToggleDebug flips the debug overlay and returns the new value.
func (s *Store) ToggleDebug() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Debug = !s.snapshot.Debug
	s.snapshot.Version++
	return s.snapshot.Debug
}

// Version returns the current version without copying the snapshot.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Version
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.Weather != nil {
		w := s.snapshot.Weather.Clone()
		snap.Weather = &w
	}
	if s.snapshot.AirQuality != nil {
		aq := s.snapshot.AirQuality.Clone()
		snap.AirQuality = &aq
	}
	snap.Theme.Gradient.Stops = append([]gradient.Stop(nil), s.snapshot.Theme.Gradient.Stops...)
	return snap
}

func (s *Store) status(src Source) *SourceStatus {
	if src == SourceAirQuality {
		return &s.snapshot.AirQualityStatus
	}
	return &s.snapshot.WeatherStatus
}

func (s *Store) succeed(st *SourceStatus, at time.Time) {
	st.Phase = PhaseSucceeded
	st.InFlight = false
	st.LastError = ""
	st.LastErrorKind = fetch.KindUnknown
	st.LastSuccessAt = at
	st.ConsecutiveFailures = 0
}

// fail leaves LastSuccessAt and the observation untouched.
func (s *Store) fail(st *SourceStatus, err error, at time.Time) {
	st.Phase = PhaseFailed
	st.InFlight = false
	st.LastAttemptAt = at
	st.ConsecutiveFailures++
	if err != nil {
		st.LastError = err.Error()
		st.LastErrorKind = fetch.KindOf(err)
	}
}

func (s *Store) recomputeTheme() {
	var code *int
	if s.snapshot.Weather != nil {
		c := s.snapshot.Weather.WeatherCode
		code = &c
	}
	s.snapshot.Theme = gradient.ThemeFor(s.snapshot.Now, code)
}
