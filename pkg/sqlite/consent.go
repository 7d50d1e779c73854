package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// GetConsentRequests retrieves all consent requests
func (d *DB) GetConsentRequests(ctx context.Context) ([]db.ConsentRequest, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, staff_id, date, shift_key, status, decision, requested_at, updated_at
		FROM consent_request
		ORDER BY requested_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying consent requests: %w", err)
	}
	defer rows.Close()

	var requests []db.ConsentRequest
	for rows.Next() {
		var r db.ConsentRequest
		var requestedAt, updatedAt string
		if err := rows.Scan(&r.ID, &r.StaffID, &r.Date, &r.ShiftKey, &r.Status, &r.Decision,
			&requestedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning consent request: %w", err)
		}
		if r.RequestedAt, err = parseTime(requestedAt); err != nil {
			return nil, err
		}
		if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating consent requests: %w", err)
	}
	return requests, nil
}

// InsertConsentRequest inserts a new consent request
func (d *DB) InsertConsentRequest(ctx context.Context, request *db.ConsentRequest) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO consent_request (id, staff_id, date, shift_key, status, decision, requested_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, request.ID, request.StaffID, request.Date, request.ShiftKey, request.Status, request.Decision,
		formatTime(request.RequestedAt), formatTime(request.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting consent request: %w", err)
	}
	return nil
}

// UpdateConsentRequest sets the status and decision of a consent request
func (d *DB) UpdateConsentRequest(ctx context.Context, id, status, decision string, at time.Time) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE consent_request SET status = ?, decision = ?, updated_at = ? WHERE id = ?
	`, status, decision, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("updating consent request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating consent request: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("consent request %s: %w", id, db.ErrNotFound)
	}
	return nil
}
