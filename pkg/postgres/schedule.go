package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// GetSchedule retrieves the stored schedule of a month
func (d *DB) GetSchedule(ctx context.Context, month string) (*db.Schedule, error) {
	var s db.Schedule
	err := d.pool.QueryRow(ctx, `
		SELECT id, month, fingerprint, data, generated_at, finalized, finalized_at
		FROM schedule
		WHERE month = $1
	`, month).Scan(&s.ID, &s.Month, &s.Fingerprint, &s.Data, &s.GeneratedAt, &s.Finalized, &s.FinalizedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("schedule %s: %w", month, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	s.GeneratedAt = s.GeneratedAt.UTC()
	return &s, nil
}

// SaveSchedule stores a generated schedule, replacing an earlier one for the
// same month unless that one is finalized
func (d *DB) SaveSchedule(ctx context.Context, schedule *db.Schedule) error {
	tag, err := d.pool.Exec(ctx, `
		INSERT INTO schedule (id, month, fingerprint, data, generated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (month) DO UPDATE SET
			id = EXCLUDED.id,
			fingerprint = EXCLUDED.fingerprint,
			data = EXCLUDED.data,
			generated_at = EXCLUDED.generated_at
		WHERE schedule.finalized = FALSE
	`, schedule.ID, schedule.Month, schedule.Fingerprint, schedule.Data, schedule.GeneratedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("schedule %s: %w", schedule.Month, db.ErrFinalized)
	}
	return nil
}

// FinalizeSchedule locks the schedule of a month against regeneration
func (d *DB) FinalizeSchedule(ctx context.Context, month string, at time.Time) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE schedule SET finalized = TRUE, finalized_at = $2
		WHERE month = $1 AND finalized = FALSE
	`, month, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to finalize schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("schedule %s: %w", month, db.ErrNotFound)
	}
	return nil
}
