package db

import "time"

// Schedule is a stored month schedule. Data holds the canonical JSON encoding
// of the engine output.
type Schedule struct {
	ID          string
	Month       string
	Fingerprint string
	Data        []byte
	GeneratedAt time.Time
	Finalized   bool
	FinalizedAt *time.Time
}

// ConsentRequest is an overtime consent request raised for a staff member on a date.
// Decision keeps the consent outcome once the request is completed.
type ConsentRequest struct {
	ID          string
	StaffID     string
	Date        string
	ShiftKey    string
	Status      string
	Decision    string
	RequestedAt time.Time
	UpdatedAt   time.Time
}

// AuditEntry is one line of the audit log
type AuditEntry struct {
	ID        string
	Month     string
	Message   string
	CreatedAt time.Time
}
