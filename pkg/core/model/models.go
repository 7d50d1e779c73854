package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical date format used across the scheduler
const DateLayout = "2006-01-02"

type Role string

const (
	RoleMinijob     Role = "minijob"
	RoleStudent     Role = "student"
	RoleWerkstudent Role = "werkstudent"
	RolePermanent   Role = "permanent"
)

// Roles lists all known roles in a stable order
var Roles = []Role{RoleMinijob, RoleStudent, RoleWerkstudent, RolePermanent}

func (r Role) IsValid() bool {
	switch r {
	case RoleMinijob, RoleStudent, RoleWerkstudent, RolePermanent:
		return true
	}
	return false
}

// IsStudent returns true for roles that are enrolled students
func (r Role) IsStudent() bool {
	return r == RoleStudent || r == RoleWerkstudent
}

// ParseRole parses a role name case-insensitively
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

// DateRange is an inclusive range of dates in YYYY-MM-DD format
type DateRange struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// Contains returns true if date (YYYY-MM-DD) falls within the range, bounds included
func (r DateRange) Contains(date string) bool {
	return r.Start <= date && date <= r.End
}

// DateShift marks a single date as unavailable. An empty ShiftKey covers the whole day.
type DateShift struct {
	Date     string `yaml:"date" json:"date"`
	ShiftKey string `yaml:"shiftKey,omitempty" json:"shiftKey,omitempty"`
}

type PreferenceLevel string

const (
	PreferenceUnavailable PreferenceLevel = "unavailable"
	PreferencePreferred   PreferenceLevel = "preferred"
)

// WeekdayPreference expresses a recurring preference for a weekday, optionally limited to one shift
type WeekdayPreference struct {
	Weekday  string          `yaml:"weekday" json:"weekday"`
	ShiftKey string          `yaml:"shiftKey,omitempty" json:"shiftKey,omitempty"`
	Level    PreferenceLevel `yaml:"level" json:"level"`
}

// Matches returns true if the preference applies to the given weekday and shift
func (p WeekdayPreference) Matches(weekday time.Weekday, shiftKey string) bool {
	wd, err := ParseWeekday(p.Weekday)
	if err != nil || wd != weekday {
		return false
	}
	return p.ShiftKey == "" || p.ShiftKey == shiftKey
}

// StaffHistory carries counters from previous months, frozen at snapshot time
type StaffHistory struct {
	// PriorWeekendCount is the number of weekend shifts worked in previous months
	PriorWeekendCount int `yaml:"priorWeekendCount,omitempty" json:"priorWeekendCount,omitempty"`

	// ConsecutiveDaysAtStart is the working streak running into the first day of the month
	ConsecutiveDaysAtStart int `yaml:"consecutiveDaysAtStart,omitempty" json:"consecutiveDaysAtStart,omitempty"`

	// LastShiftEnd is the end of the last shift worked before the month started
	LastShiftEnd *time.Time `yaml:"lastShiftEnd,omitempty" json:"lastShiftEnd,omitempty"`

	// CarryOverWeekHours are hours already worked in the ISO week containing the 1st of the month
	CarryOverWeekHours float64 `yaml:"carryOverWeekHours,omitempty" json:"carryOverWeekHours,omitempty"`
}

// Staff is a read-only snapshot of a staff member taken at generation start
type Staff struct {
	ID                 string              `yaml:"id" json:"id"`
	Name               string              `yaml:"name" json:"name"`
	Email              string              `yaml:"email,omitempty" json:"email,omitempty"`
	Role               Role                `yaml:"role" json:"role"`
	MonthlyTargetHours float64             `yaml:"monthlyTargetHours" json:"monthlyTargetHours"`
	HourlyWage         float64             `yaml:"hourlyWage,omitempty" json:"hourlyWage,omitempty"`
	Vacations          []DateRange         `yaml:"vacations,omitempty" json:"vacations,omitempty"`
	Sickness           []DateRange         `yaml:"sickness,omitempty" json:"sickness,omitempty"`
	Unavailable        []DateShift         `yaml:"unavailable,omitempty" json:"unavailable,omitempty"`
	WeekdayPreferences []WeekdayPreference `yaml:"weekdayPreferences,omitempty" json:"weekdayPreferences,omitempty"`
	PrefersWeekends    bool                `yaml:"prefersWeekends,omitempty" json:"prefersWeekends,omitempty"`
	// TypicalWorkdays is the number of days per week this person historically works (0 = no pattern)
	TypicalWorkdays int          `yaml:"typicalWorkdays,omitempty" json:"typicalWorkdays,omitempty"`
	History         StaffHistory `yaml:"history,omitempty" json:"history,omitempty"`
}

// IsAbsent returns true if the date falls inside a vacation or sickness period
func (s *Staff) IsAbsent(date string) bool {
	for _, r := range s.Vacations {
		if r.Contains(date) {
			return true
		}
	}
	for _, r := range s.Sickness {
		if r.Contains(date) {
			return true
		}
	}
	return false
}

// Validate checks the snapshot for values the engine cannot work with
func (s *Staff) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("staff member %q has no id", s.Name)
	}
	if !s.Role.IsValid() {
		return fmt.Errorf("staff %s has unknown role %q", s.ID, s.Role)
	}
	if s.MonthlyTargetHours < 0 {
		return fmt.Errorf("staff %s has negative monthly target", s.ID)
	}
	if s.HourlyWage < 0 {
		return fmt.Errorf("staff %s has negative hourly wage", s.ID)
	}
	if s.TypicalWorkdays < 0 || s.TypicalWorkdays > 7 {
		return fmt.Errorf("staff %s has typical workdays %d outside 0-7", s.ID, s.TypicalWorkdays)
	}
	for _, periods := range [][]DateRange{s.Vacations, s.Sickness} {
		for _, r := range periods {
			if _, err := time.Parse(DateLayout, r.Start); err != nil {
				return fmt.Errorf("staff %s has invalid period start %q: %w", s.ID, r.Start, err)
			}
			if _, err := time.Parse(DateLayout, r.End); err != nil {
				return fmt.Errorf("staff %s has invalid period end %q: %w", s.ID, r.End, err)
			}
			if r.End < r.Start {
				return fmt.Errorf("staff %s has period ending before it starts (%s - %s)", s.ID, r.Start, r.End)
			}
		}
	}
	for _, p := range s.WeekdayPreferences {
		if _, err := ParseWeekday(p.Weekday); err != nil {
			return fmt.Errorf("staff %s: %w", s.ID, err)
		}
		if p.Level != PreferenceUnavailable && p.Level != PreferencePreferred {
			return fmt.Errorf("staff %s has unknown preference level %q", s.ID, p.Level)
		}
	}
	return nil
}

// ParseWeekday parses an English weekday name ("monday", "Mon")
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
