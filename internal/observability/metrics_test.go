package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsWith_RegistersAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)

	m.FetchRequests.WithLabelValues("sst", "error").Inc()
	m.CacheLookups.WithLabelValues("official", "hit").Add(2)
	m.PublishEnabled.Set(1)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["heat_dashboard_fetch_requests_total"])
	assert.True(t, names["heat_dashboard_cache_lookups_total"])
	assert.True(t, names["heat_dashboard_snapshot_publish_enabled"])

	assert.InDelta(t, 2, testutil.ToFloat64(m.CacheLookups.WithLabelValues("official", "hit")), 0)
}

func TestNewMetricsWith_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetricsWith(reg)
	assert.Panics(t, func() { NewMetricsWith(reg) })
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.SnapshotsPublished.Inc()
	assert.InDelta(t, 1, testutil.ToFloat64(a.SnapshotsPublished), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.SnapshotsPublished), 0)
}
