package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestScheduleMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewScheduleMetricsWithProvider(provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordRun(ctx, "2025-11", "success")
	m.RecordRun(ctx, "2025-11", "failed")
	m.RecordResult(ctx, "2025-11", 28, 2, 3)
	m.RecordGenerationDuration(ctx, 150*time.Millisecond)

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, data["schedule_runs_total"]))
	assert.Equal(t, int64(28), sumOf(t, data["schedule_assignments_total"]))
	assert.Equal(t, int64(2), sumOf(t, data["schedule_gaps_total"]))
	assert.Equal(t, int64(3), sumOf(t, data["schedule_pending_consents_total"]))

	hist, ok := data["schedule_generation_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.InDelta(t, 0.15, hist.DataPoints[0].Sum, 1e-9)
}

func TestNewScheduleMetrics_GlobalProvider(t *testing.T) {
	m, err := NewScheduleMetrics()
	require.NoError(t, err)
	// The default global provider is a no-op; recording must not panic
	m.RecordRun(context.Background(), "2025-11", "success")
}
