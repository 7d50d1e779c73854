package engine

import (
	"fmt"
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// Priority is the fill priority class of a slot
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityOptional Priority = "optional"
)

// Status of an assignment
type Status string

const (
	StatusAssigned         Status = "assigned"
	StatusConsentPending   Status = "overtime-consent-pending"
	StatusOvertimeApproved Status = "overtime-approved"
)

// Slot is one (date, shift) pair to fill
type Slot struct {
	// DayIndex is the position of the day in the month (0-based)
	DayIndex int
	Day      calendar.Day
	Shift    model.ShiftKind
	Priority Priority

	// Closed slots appear in the grid but are never filled
	Closed bool

	Start time.Time
	End   time.Time
}

// Hours returns the duration of the slot in hours
func (s *Slot) Hours() float64 {
	return s.Shift.Duration()
}

// IsWeekend reports whether the slot is a weekend shift. Holiday shifts on a
// Saturday or Sunday are holiday shifts and do not count.
func (s *Slot) IsWeekend() bool {
	return s.Shift.Category == model.CategoryWeekend
}

// WeekKey returns the ISO week the slot falls into
func (s *Slot) WeekKey() string {
	return calendar.ISOWeekKey(s.Day.Time)
}

func (s *Slot) String() string {
	return s.Day.Date + "/" + s.Shift.Key
}

// Assignment is a committed (date, shift, staff) triple
type Assignment struct {
	Date             string  `json:"date"`
	ShiftKey         string  `json:"shiftKey"`
	StaffID          string  `json:"staffId"`
	Hours            float64 `json:"hours"`
	Status           Status  `json:"status"`
	ConsentRequestID string  `json:"consentRequestId,omitempty"`
}

// Gap is a slot that no eligible candidate could fill
type Gap struct {
	Date     string   `json:"date"`
	ShiftKey string   `json:"shiftKey"`
	Priority Priority `json:"priority"`
	// Reasons names the checks that excluded candidates
	Reasons []string `json:"reasons,omitempty"`
}

// ViolationError represents a hard-constraint violation found in a schedule
type ViolationError struct {
	Date          string
	ShiftKey      string
	StaffID       string
	CriterionName string
	Description   string
}

func (v ViolationError) Error() string {
	return fmt.Sprintf("%s: staff %s on %s/%s: %s", v.CriterionName, v.StaffID, v.Date, v.ShiftKey, v.Description)
}
