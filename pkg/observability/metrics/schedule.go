package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	scheduleMeterName = "scheduler.generate"
)

type ScheduleMetrics struct {
	runs               metric.Int64Counter
	gaps               metric.Int64Counter
	assignments        metric.Int64Counter
	pendingConsents    metric.Int64Counter
	generationDuration metric.Float64Histogram
}

// NewScheduleMetrics creates the instruments on the global meter provider
func NewScheduleMetrics() (*ScheduleMetrics, error) {
	return NewScheduleMetricsWithProvider(otel.GetMeterProvider())
}

func NewScheduleMetricsWithProvider(provider metric.MeterProvider) (*ScheduleMetrics, error) {
	meter := provider.Meter(scheduleMeterName)

	runs, err := meter.Int64Counter(
		"schedule_runs_total",
		metric.WithDescription("Total number of schedule generation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	gaps, err := meter.Int64Counter(
		"schedule_gaps_total",
		metric.WithDescription("Slots left unfilled by generation runs"),
		metric.WithUnit("{slot}"),
	)
	if err != nil {
		return nil, err
	}

	assignments, err := meter.Int64Counter(
		"schedule_assignments_total",
		metric.WithDescription("Slots filled by generation runs"),
		metric.WithUnit("{slot}"),
	)
	if err != nil {
		return nil, err
	}

	pendingConsents, err := meter.Int64Counter(
		"schedule_pending_consents_total",
		metric.WithDescription("Overtime assignments waiting for consent"),
		metric.WithUnit("{assignment}"),
	)
	if err != nil {
		return nil, err
	}

	generationDuration, err := meter.Float64Histogram(
		"schedule_generation_duration_seconds",
		metric.WithDescription("Time spent generating a month"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	return &ScheduleMetrics{
		runs:               runs,
		gaps:               gaps,
		assignments:        assignments,
		pendingConsents:    pendingConsents,
		generationDuration: generationDuration,
	}, nil
}

// RecordRun counts a run. outcome is "success", "failed" or "cancelled".
func (m *ScheduleMetrics) RecordRun(ctx context.Context, month, outcome string) {
	m.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("month", month),
		attribute.String("outcome", outcome),
	))
}

func (m *ScheduleMetrics) RecordResult(ctx context.Context, month string, assignments, gaps, pending int) {
	attrs := metric.WithAttributes(attribute.String("month", month))
	m.assignments.Add(ctx, int64(assignments), attrs)
	m.gaps.Add(ctx, int64(gaps), attrs)
	m.pendingConsents.Add(ctx, int64(pending), attrs)
}

func (m *ScheduleMetrics) RecordGenerationDuration(ctx context.Context, duration time.Duration) {
	m.generationDuration.Record(ctx, duration.Seconds())
}
