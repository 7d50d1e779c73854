package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/audit"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// ErrScheduleNotFound is returned when no schedule is stored for a month
var ErrScheduleNotFound = errors.New("schedule not found")

// StoredSchedule is a decoded schedule together with its storage record
type StoredSchedule struct {
	Record   *db.Schedule
	Schedule *engine.ScheduleMonth
}

// ViewSchedule loads the stored schedule of a month and checks its fingerprint
func ViewSchedule(ctx context.Context, store db.ScheduleStore, logger *zap.Logger, monthStr string) (*StoredSchedule, error) {
	month, err := parseMonth(monthStr)
	if err != nil {
		return nil, err
	}

	logger.Debug("Fetching schedule", zap.String("month", month.Key()))
	record, err := store.GetSchedule(ctx, month.Key())
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", month.Key(), ErrScheduleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	schedule, err := engine.DecodeScheduleMonth(record.Data)
	if err != nil {
		return nil, err
	}

	fingerprint, err := schedule.Fingerprint()
	if err != nil {
		return nil, err
	}
	if fingerprint != record.Fingerprint {
		logger.Warn("Stored schedule does not match its fingerprint",
			zap.String("month", record.Month),
			zap.String("stored", record.Fingerprint),
			zap.String("computed", fingerprint))
	}

	return &StoredSchedule{Record: record, Schedule: schedule}, nil
}

// FinalizeSchedule locks a month's schedule against regeneration
func FinalizeSchedule(ctx context.Context, store db.ScheduleStore, sink audit.Sink, logger *zap.Logger, monthStr string) error {
	month, err := parseMonth(monthStr)
	if err != nil {
		return err
	}

	record, err := store.GetSchedule(ctx, month.Key())
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%s: %w", month.Key(), ErrScheduleNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch schedule: %w", err)
	}
	if record.Finalized {
		return fmt.Errorf("%s: %w", month.Key(), ErrScheduleFinalized)
	}

	if err := store.FinalizeSchedule(ctx, month.Key(), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to finalize schedule: %w", err)
	}

	logger.Info("Schedule finalized", zap.String("month", month.Key()), zap.String("fingerprint", record.Fingerprint))
	appendAudit(ctx, sink, logger, fmt.Sprintf("schedule %s finalized, fingerprint %s", month.Key(), record.Fingerprint))
	return nil
}
