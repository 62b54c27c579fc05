package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Track(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("client", reg)

	done := m.Track("GET", "/quizzes")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsInFlight.WithLabelValues("/quizzes")))

	done("ok")
	assert.Equal(t, float64(0), testutil.ToFloat64(m.RequestsInFlight.WithLabelValues("/quizzes")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/quizzes", "ok")))

	count, err := testutil.GatherAndCount(reg, "quiz_client_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_TrackNil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Track("GET", "/quizzes")("ok") })
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics("client", prometheus.NewRegistry())
		NewMetrics("client", prometheus.NewRegistry())
	})
}
