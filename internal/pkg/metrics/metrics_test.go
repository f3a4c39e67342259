package metrics_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New()

	require.NoError(t, m.Register(reg))
	require.Error(t, m.Register(reg), "collectors cannot be registered twice")
}

func TestMetrics_JobRun(t *testing.T) {
	m := metrics.New()

	m.JobRun("earnings_reset", nil)
	m.JobRun("earnings_reset", nil)
	m.JobRun("earnings_reset", errors.New("db down"))

	assert.InDelta(t, 2, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("earnings_reset", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("earnings_reset", "error")), 0)
}
