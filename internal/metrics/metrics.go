// Package metrics exposes fetch counters for the optional status server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors updated by the refresh scheduler.
type Metrics struct {
	FetchAttempts    *prometheus.CounterVec
	FetchDuration    *prometheus.HistogramVec
	FetchLastSuccess *prometheus.GaugeVec
	FetchSkipped     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		FetchAttempts: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "skypane_fetch_attempts_total",
			Help: "Total number of upstream fetch attempts by outcome.",
		}, []string{"source", "outcome"}),
		FetchDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skypane_fetch_duration_seconds",
			Help:    "Duration of upstream fetches.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		FetchLastSuccess: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "skypane_fetch_last_success_timestamp_seconds",
			Help: "Unix time of the last successful fetch.",
		}, []string{"source"}),
		FetchSkipped: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "skypane_fetch_skipped_total",
			Help: "Triggers skipped because the previous fetch was still in flight.",
		}, []string{"source"}),
	}
}

// ObserveFetch records one finished attempt. outcome is "success" or an
// error kind name.
func (m *Metrics) ObserveFetch(source, outcome string, took time.Duration, at time.Time) {
	if m == nil {
		return
	}
	m.FetchAttempts.WithLabelValues(source, outcome).Inc()
	m.FetchDuration.WithLabelValues(source).Observe(took.Seconds())
	if outcome == OutcomeSuccess {
		m.FetchLastSuccess.WithLabelValues(source).Set(float64(at.Unix()))
	}
}

// ObserveSkip records a trigger dropped while a fetch was in flight.
func (m *Metrics) ObserveSkip(source string) {
	if m == nil {
		return
	}
	m.FetchSkipped.WithLabelValues(source).Inc()
}

// OutcomeSuccess is the outcome label for a successful fetch.
const OutcomeSuccess = "success"
