package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// GetSchedule retrieves the stored schedule of a month
func (d *DB) GetSchedule(ctx context.Context, month string) (*db.Schedule, error) {
	var s db.Schedule
	var generatedAt string
	var finalizedAt sql.NullString
	err := d.db.QueryRowContext(ctx, `
		SELECT id, month, fingerprint, data, generated_at, finalized, finalized_at
		FROM schedule WHERE month = ?
	`, month).Scan(&s.ID, &s.Month, &s.Fingerprint, &s.Data, &generatedAt, &s.Finalized, &finalizedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule %s: %w", month, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}

	if s.GeneratedAt, err = parseTime(generatedAt); err != nil {
		return nil, err
	}
	if finalizedAt.Valid {
		t, err := parseTime(finalizedAt.String)
		if err != nil {
			return nil, err
		}
		s.FinalizedAt = &t
	}
	return &s, nil
}

// SaveSchedule stores a generated schedule, replacing an earlier one for the
// same month unless that one is finalized
func (d *DB) SaveSchedule(ctx context.Context, schedule *db.Schedule) error {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO schedule (id, month, fingerprint, data, generated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (month) DO UPDATE SET
			id = excluded.id,
			fingerprint = excluded.fingerprint,
			data = excluded.data,
			generated_at = excluded.generated_at
		WHERE schedule.finalized = 0
	`, schedule.ID, schedule.Month, schedule.Fingerprint, schedule.Data, formatTime(schedule.GeneratedAt))
	if err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("schedule %s: %w", schedule.Month, db.ErrFinalized)
	}
	return nil
}

// FinalizeSchedule locks the schedule of a month against regeneration
func (d *DB) FinalizeSchedule(ctx context.Context, month string, at time.Time) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE schedule SET finalized = 1, finalized_at = ? WHERE month = ? AND finalized = 0
	`, formatTime(at), month)
	if err != nil {
		return fmt.Errorf("finalizing schedule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finalizing schedule: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("schedule %s: %w", month, db.ErrNotFound)
	}
	return nil
}
