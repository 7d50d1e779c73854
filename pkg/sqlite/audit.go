package sqlite

import (
	"context"
	"fmt"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// InsertAuditEntry appends an entry to the audit log
func (d *DB) InsertAuditEntry(ctx context.Context, entry *db.AuditEntry) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, month, message, created_at) VALUES (?, ?, ?, ?)
	`, entry.ID, entry.Month, entry.Message, formatTime(entry.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// GetAuditEntries retrieves the audit log of a month in insertion order
func (d *DB) GetAuditEntries(ctx context.Context, month string) ([]db.AuditEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, month, message, created_at FROM audit_log WHERE month = ? ORDER BY rowid
	`, month)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []db.AuditEntry
	for rows.Next() {
		var e db.AuditEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Month, &e.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit log: %w", err)
	}
	return entries, nil
}

var _ db.Database = (*DB)(nil)
