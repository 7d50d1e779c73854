package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/internal/config"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/audit"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine/criteria"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/overtime"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// ErrScheduleFinalized is returned when regenerating a month that was finalized
var ErrScheduleFinalized = errors.New("schedule is finalized")

// GenerateScheduleStore defines the database operations needed for generating a schedule
type GenerateScheduleStore interface {
	ListStaff(ctx context.Context) ([]model.Staff, error)
	GetSchedule(ctx context.Context, month string) (*db.Schedule, error)
	SaveSchedule(ctx context.Context, schedule *db.Schedule) error
}

// HolidayProvider supplies public holidays for a year
type HolidayProvider interface {
	FetchHolidaysForYear(ctx context.Context, year int) ([]time.Time, error)
}

// RunRecorder receives run metrics. metrics.ScheduleMetrics implements it.
type RunRecorder interface {
	RecordRun(ctx context.Context, month, outcome string)
	RecordResult(ctx context.Context, month string, assignments, gaps, pending int)
	RecordGenerationDuration(ctx context.Context, duration time.Duration)
}

// GenerateOptions controls a generation run
type GenerateOptions struct {
	// DryRun skips saving the schedule and raising consent requests
	DryRun bool
}

// GenerateResult is the outcome of a generation run
type GenerateResult struct {
	Schedule    *engine.ScheduleMonth
	Overtime    *overtime.ReconcileReport
	Fingerprint string
	// Record is the stored schedule, nil on a dry run
	Record *db.Schedule
}

// GenerateScheduleDeps bundles the collaborators of a generation run.
// Audit and Metrics are optional.
type GenerateScheduleDeps struct {
	Store    GenerateScheduleStore
	Holidays HolidayProvider
	Gateway  overtime.Gateway
	Audit    audit.Sink
	Metrics  RunRecorder
}

// GenerateSchedule builds the schedule of a month.
//
// It loads the staff snapshot and holidays, carries history over from the
// previous month's stored schedule, runs the engine, reconciles overtime and
// stores the result. A finalized month is never regenerated.
func GenerateSchedule(
	ctx context.Context,
	deps GenerateScheduleDeps,
	cfg *config.Config,
	logger *zap.Logger,
	monthStr string,
	opts GenerateOptions,
) (*GenerateResult, error) {
	logger.Debug("Starting generateSchedule", zap.String("month", monthStr), zap.Bool("dry_run", opts.DryRun))

	started := time.Now()
	result, err := generateSchedule(ctx, deps, cfg, logger, monthStr, opts)

	if deps.Metrics != nil {
		deps.Metrics.RecordGenerationDuration(ctx, time.Since(started))
		deps.Metrics.RecordRun(ctx, monthStr, runOutcome(err))
		if err == nil {
			deps.Metrics.RecordResult(ctx, monthStr,
				len(result.Schedule.Assignments()), len(result.Schedule.Gaps), len(result.Overtime.Pending))
		}
	}

	return result, err
}

func generateSchedule(
	ctx context.Context,
	deps GenerateScheduleDeps,
	cfg *config.Config,
	logger *zap.Logger,
	monthStr string,
	opts GenerateOptions,
) (*GenerateResult, error) {
	month, err := parseMonth(monthStr)
	if err != nil {
		return nil, err
	}

	// Step 1: Refuse finalized months
	logger.Debug("Checking for existing schedule")
	existing, err := deps.Store.GetSchedule(ctx, month.Key())
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch existing schedule: %w", err)
	}
	if existing != nil && existing.Finalized {
		return nil, fmt.Errorf("%s: %w", month.Key(), ErrScheduleFinalized)
	}

	// Step 2: Build the snapshot
	logger.Debug("Fetching staff")
	staff, err := deps.Store.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff: %w", err)
	}
	if len(staff) == 0 {
		return nil, fmt.Errorf("%w: no staff found", engine.ErrInvalidInput)
	}

	logger.Debug("Fetching holidays", zap.Int("year", month.Year))
	holidayDates, err := deps.Holidays.FetchHolidaysForYear(ctx, month.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}

	catalog := cfg.Catalog()

	prev, err := previousSchedule(ctx, deps.Store, month.Prev().Key())
	if err != nil {
		logger.Warn("Ignoring previous month schedule", zap.String("month", month.Prev().Key()), zap.Error(err))
	}
	staff = applyHistory(staff, prev, catalog, month)

	engineCfg, err := cfg.EngineConfig(month)
	if err != nil {
		return nil, err
	}

	logger.Debug("Snapshot built",
		zap.Int("staff", len(staff)),
		zap.Int("holidays", len(holidayDates)),
		zap.Int("shift_kinds", len(catalog)),
		zap.Bool("history_from_previous_month", prev != nil))

	// Step 3: Run the engine
	schedule, err := engine.Generate(ctx, engine.Input{
		Month:    month,
		Staff:    staff,
		Catalog:  catalog,
		Holidays: holidayDates,
		Config:   engineCfg,
		Criteria: criteria.Default(engineCfg),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}

	logger.Info("Schedule generated",
		zap.String("month", schedule.Month),
		zap.Int("assignments", len(schedule.Assignments())),
		zap.Int("gaps", len(schedule.Gaps)))

	// Step 4: Reconcile overtime
	gateway := deps.Gateway
	if opts.DryRun {
		gateway = dryRunGateway{Gateway: gateway}
	}
	report, err := overtime.NewReconciler(gateway, engineCfg, logger).Reconcile(ctx, schedule, staff)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile overtime: %w", err)
	}

	fingerprint, err := schedule.Fingerprint()
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Schedule:    schedule,
		Overtime:    report,
		Fingerprint: fingerprint,
	}

	if opts.DryRun {
		logger.Info("Dry run, schedule not saved", zap.String("fingerprint", fingerprint))
		return result, nil
	}

	// Step 5: Store
	data, err := schedule.Encode()
	if err != nil {
		return nil, err
	}
	record := &db.Schedule{
		ID:          uuid.New().String(),
		Month:       schedule.Month,
		Fingerprint: fingerprint,
		Data:        data,
		GeneratedAt: time.Now().UTC(),
	}
	if err := deps.Store.SaveSchedule(ctx, record); err != nil {
		if errors.Is(err, db.ErrFinalized) {
			return nil, fmt.Errorf("%s: %w", month.Key(), ErrScheduleFinalized)
		}
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}
	result.Record = record

	logger.Info("Schedule saved", zap.String("id", record.ID), zap.String("fingerprint", fingerprint))

	appendAudit(ctx, deps.Audit, logger, fmt.Sprintf(
		"schedule %s generated: %d assignments, %d gaps, %d overtime pending, fingerprint %s",
		schedule.Month, len(schedule.Assignments()), len(schedule.Gaps), len(report.Pending), fingerprint))
	// Pending is ordered by staff ID then date, unlike the Requests map
	for _, a := range report.Pending {
		if _, raised := report.Requests[a.ConsentRequestID]; !raised {
			continue
		}
		appendAudit(ctx, deps.Audit, logger, fmt.Sprintf(
			"overtime consent requested from %s for %s %s (request %s)", a.StaffID, a.Date, a.ShiftKey, a.ConsentRequestID))
	}

	return result, nil
}

// previousSchedule loads the stored schedule of a month, nil when there is none
func previousSchedule(ctx context.Context, store GenerateScheduleStore, month string) (*engine.ScheduleMonth, error) {
	record, err := store.GetSchedule(ctx, month)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return engine.DecodeScheduleMonth(record.Data)
}

func runOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "failed"
	}
}

// dryRunGateway checks existing consent but never raises requests
type dryRunGateway struct {
	overtime.Gateway
}

func (g dryRunGateway) RequestConsent(_ context.Context, staffID, date, _ string) (string, error) {
	return "dry-run:" + staffID + "|" + date, nil
}
