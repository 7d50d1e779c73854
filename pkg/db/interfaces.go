package db

import (
	"context"
	"errors"
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// ErrFinalized is returned when writing over a finalized schedule
var ErrFinalized = errors.New("schedule is finalized")

// StaffStore defines the interface for staff roster operations
type StaffStore interface {
	ListStaff(ctx context.Context) ([]model.Staff, error)
	UpsertStaff(ctx context.Context, staff []model.Staff) error
}

// ScheduleStore defines the interface for generated schedule operations
type ScheduleStore interface {
	GetSchedule(ctx context.Context, month string) (*Schedule, error)
	SaveSchedule(ctx context.Context, schedule *Schedule) error
	FinalizeSchedule(ctx context.Context, month string, at time.Time) error
}

// ConsentStore defines the interface for overtime consent request operations
type ConsentStore interface {
	GetConsentRequests(ctx context.Context) ([]ConsentRequest, error)
	InsertConsentRequest(ctx context.Context, request *ConsentRequest) error
	UpdateConsentRequest(ctx context.Context, id, status, decision string, at time.Time) error
}

// AuditStore defines the interface for the audit log
type AuditStore interface {
	InsertAuditEntry(ctx context.Context, entry *AuditEntry) error
	GetAuditEntries(ctx context.Context, month string) ([]AuditEntry, error)
}

// Database defines the interface for all database operations.
// Both postgres.DB and sqlite.DB implement this interface.
type Database interface {
	StaffStore
	ScheduleStore
	ConsentStore
	AuditStore
	Close()
}
