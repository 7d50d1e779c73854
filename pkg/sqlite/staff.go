package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// ListStaff retrieves the staff roster ordered by ID
func (d *DB) ListStaff(ctx context.Context) ([]model.Staff, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, email, role, monthly_target_hours, hourly_wage,
		       typical_workdays, prefers_weekends, profile
		FROM staff
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying staff: %w", err)
	}
	defer rows.Close()

	var staff []model.Staff
	for rows.Next() {
		var s model.Staff
		var role, profile string
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &role, &s.MonthlyTargetHours, &s.HourlyWage,
			&s.TypicalWorkdays, &s.PrefersWeekends, &profile); err != nil {
			return nil, fmt.Errorf("scanning staff: %w", err)
		}
		s.Role = model.Role(role)
		if err := db.DecodeStaffProfile(&s, []byte(profile)); err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating staff: %w", err)
	}
	return staff, nil
}

// UpsertStaff inserts or replaces staff records in one transaction
func (d *DB) UpsertStaff(ctx context.Context, staff []model.Staff) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	for _, s := range staff {
		profile, err := db.EncodeStaffProfile(s)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO staff (id, name, email, role, monthly_target_hours, hourly_wage,
			                   typical_workdays, prefers_weekends, profile, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				email = excluded.email,
				role = excluded.role,
				monthly_target_hours = excluded.monthly_target_hours,
				hourly_wage = excluded.hourly_wage,
				typical_workdays = excluded.typical_workdays,
				prefers_weekends = excluded.prefers_weekends,
				profile = excluded.profile,
				updated_at = excluded.updated_at
		`, s.ID, s.Name, s.Email, string(s.Role), s.MonthlyTargetHours, s.HourlyWage,
			s.TypicalWorkdays, s.PrefersWeekends, string(profile), now)
		if err != nil {
			return fmt.Errorf("upserting staff %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing staff upsert: %w", err)
	}
	return nil
}
