package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFetch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	at := time.Unix(1_736_514_000, 0)

	m.ObserveFetch("weather", OutcomeSuccess, 120*time.Millisecond, at)
	m.ObserveFetch("weather", "network", 8*time.Second, at.Add(time.Minute))
	m.ObserveSkip("airquality")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchAttempts.WithLabelValues("weather", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchAttempts.WithLabelValues("weather", "network")))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.FetchLastSuccess.WithLabelValues("weather")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchSkipped.WithLabelValues("airquality")))

	n, err := testutil.GatherAndCount(reg, "skypane_fetch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("weather", OutcomeSuccess, time.Second, time.Now())
	m.ObserveSkip("weather")
}
