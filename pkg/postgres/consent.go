package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// GetConsentRequests retrieves all consent requests
func (d *DB) GetConsentRequests(ctx context.Context) ([]db.ConsentRequest, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, staff_id, date, shift_key, status, decision, requested_at, updated_at
		FROM consent_request
		ORDER BY requested_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query consent requests: %w", err)
	}
	defer rows.Close()

	var requests []db.ConsentRequest
	for rows.Next() {
		var r db.ConsentRequest
		var date time.Time
		if err := rows.Scan(&r.ID, &r.StaffID, &date, &r.ShiftKey, &r.Status, &r.Decision,
			&r.RequestedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan consent request: %w", err)
		}
		r.Date = date.Format(model.DateLayout)
		r.RequestedAt = r.RequestedAt.UTC()
		r.UpdatedAt = r.UpdatedAt.UTC()
		requests = append(requests, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating consent requests: %w", err)
	}

	return requests, nil
}

// InsertConsentRequest inserts a new consent request
func (d *DB) InsertConsentRequest(ctx context.Context, request *db.ConsentRequest) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO consent_request (id, staff_id, date, shift_key, status, decision, requested_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, request.ID, request.StaffID, request.Date, request.ShiftKey, request.Status, request.Decision,
		request.RequestedAt.UTC(), request.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert consent request: %w", err)
	}
	return nil
}

// UpdateConsentRequest sets the status and decision of a consent request
func (d *DB) UpdateConsentRequest(ctx context.Context, id, status, decision string, at time.Time) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE consent_request SET status = $2, decision = $3, updated_at = $4 WHERE id = $1
	`, id, status, decision, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to update consent request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("consent request %s: %w", id, db.ErrNotFound)
	}
	return nil
}
