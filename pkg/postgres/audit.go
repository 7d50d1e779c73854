package postgres

import (
	"context"
	"fmt"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// InsertAuditEntry appends an entry to the audit log
func (d *DB) InsertAuditEntry(ctx context.Context, entry *db.AuditEntry) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO audit_log (id, month, message, created_at) VALUES ($1, $2, $3, $4)
	`, entry.ID, entry.Month, entry.Message, entry.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// GetAuditEntries retrieves the audit log of a month in insertion order
func (d *DB) GetAuditEntries(ctx context.Context, month string) ([]db.AuditEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, month, message, created_at FROM audit_log WHERE month = $1 ORDER BY created_at, id
	`, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []db.AuditEntry
	for rows.Next() {
		var e db.AuditEntry
		if err := rows.Scan(&e.ID, &e.Month, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log: %w", err)
	}

	return entries, nil
}

var _ db.Database = (*DB)(nil)
