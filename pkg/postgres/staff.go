package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// ListStaff retrieves the staff roster ordered by ID
func (d *DB) ListStaff(ctx context.Context) ([]model.Staff, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, email, role, monthly_target_hours, hourly_wage,
		       typical_workdays, prefers_weekends, profile
		FROM staff
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	var staff []model.Staff
	for rows.Next() {
		var s model.Staff
		var role string
		var profile []byte
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &role, &s.MonthlyTargetHours, &s.HourlyWage,
			&s.TypicalWorkdays, &s.PrefersWeekends, &profile); err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		s.Role = model.Role(role)
		if err := db.DecodeStaffProfile(&s, profile); err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}

	return staff, nil
}

// UpsertStaff inserts or replaces staff records in a single batch
func (d *DB) UpsertStaff(ctx context.Context, staff []model.Staff) error {
	if len(staff) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, s := range staff {
		profile, err := db.EncodeStaffProfile(s)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO staff (id, name, email, role, monthly_target_hours, hourly_wage,
			                   typical_workdays, prefers_weekends, profile, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				email = EXCLUDED.email,
				role = EXCLUDED.role,
				monthly_target_hours = EXCLUDED.monthly_target_hours,
				hourly_wage = EXCLUDED.hourly_wage,
				typical_workdays = EXCLUDED.typical_workdays,
				prefers_weekends = EXCLUDED.prefers_weekends,
				profile = EXCLUDED.profile,
				updated_at = NOW()
		`, s.ID, s.Name, s.Email, string(s.Role), s.MonthlyTargetHours, s.HourlyWage,
			s.TypicalWorkdays, s.PrefersWeekends, profile)
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert staff: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit staff upsert: %w", err)
	}
	return nil
}
