package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type ShiftCategory string

const (
	CategoryWeekday ShiftCategory = "weekday"
	CategoryWeekend ShiftCategory = "weekend"
	CategoryHoliday ShiftCategory = "holiday"
)

func (c ShiftCategory) IsValid() bool {
	switch c {
	case CategoryWeekday, CategoryWeekend, CategoryHoliday:
		return true
	}
	return false
}

// ClockTime is a wall-clock time of day stored as minutes since midnight.
// It marshals as "HH:MM" in both YAML and JSON.
type ClockTime int

// ParseClockTime parses "HH:MM" (24h)
func ParseClockTime(s string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in clock time %q", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in clock time %q", s)
	}
	return ClockTime(hour*60 + minute), nil
}

// MustClockTime is ParseClockTime for package-level literals
func MustClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// On returns the clock time on the given calendar date
func (c ClockTime) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location()).Add(time.Duration(c) * time.Minute)
}

// ShiftKind is one entry of the shift catalog
type ShiftKind struct {
	Key      string        `yaml:"key" json:"key"`
	Label    string        `yaml:"label" json:"label"`
	Start    ClockTime     `yaml:"start" json:"start"`
	End      ClockTime     `yaml:"end" json:"end"`
	Category ShiftCategory `yaml:"category" json:"category"`
}

// Duration returns the length of the shift in hours.
// An end before the start means the shift runs past midnight.
func (s ShiftKind) Duration() float64 {
	minutes := int(s.End) - int(s.Start)
	if minutes < 0 {
		minutes += 24 * 60
	}
	return float64(minutes) / 60
}

// IsEvening returns true if the shift starts at or after eveningStart
func (s ShiftKind) IsEvening(eveningStart ClockTime) bool {
	return s.Start >= eveningStart
}

// Window returns the absolute start and end of the shift on the given date
func (s ShiftKind) Window(date time.Time) (time.Time, time.Time) {
	start := s.Start.On(date)
	end := start.Add(time.Duration(s.Duration() * float64(time.Hour)))
	return start, end
}

// Catalog is the ordered table of shift kinds. The order is the canonical
// slot order used when several shifts share a priority class.
type Catalog []ShiftKind

// ForCategory returns the shifts of one category in catalog order
func (c Catalog) ForCategory(category ShiftCategory) []ShiftKind {
	var shifts []ShiftKind
	for _, s := range c {
		if s.Category == category {
			shifts = append(shifts, s)
		}
	}
	return shifts
}

// Get looks up a shift kind by key
func (c Catalog) Get(key string) (ShiftKind, bool) {
	for _, s := range c {
		if s.Key == key {
			return s, true
		}
	}
	return ShiftKind{}, false
}

// Index returns the catalog position of key, or -1
func (c Catalog) Index(key string) int {
	for i, s := range c {
		if s.Key == key {
			return i
		}
	}
	return -1
}

// Validate rejects duplicate keys, unknown categories and zero-length shifts
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return errors.New("shift catalog is empty")
	}
	seen := make(map[string]bool, len(c))
	var errs []error
	for i, s := range c {
		if s.Key == "" {
			errs = append(errs, fmt.Errorf("shift %d has no key", i))
			continue
		}
		if seen[s.Key] {
			errs = append(errs, fmt.Errorf("duplicate shift key %q", s.Key))
		}
		seen[s.Key] = true
		if !s.Category.IsValid() {
			errs = append(errs, fmt.Errorf("shift %q references unknown category %q", s.Key, s.Category))
		}
		if s.Start < 0 || s.Start >= 24*60 || s.End < 0 || s.End >= 24*60 {
			errs = append(errs, fmt.Errorf("shift %q has a time outside the day", s.Key))
		}
		if s.Duration() == 0 {
			errs = append(errs, fmt.Errorf("shift %q has zero duration", s.Key))
		}
	}
	return errors.Join(errs...)
}

// DefaultCatalog returns the standard shift table
func DefaultCatalog() Catalog {
	return Catalog{
		{Key: "early", Label: "Early", Start: MustClockTime("08:00"), End: MustClockTime("12:00"), Category: CategoryWeekday},
		{Key: "midday", Label: "Midday", Start: MustClockTime("12:00"), End: MustClockTime("16:00"), Category: CategoryWeekday},
		{Key: "evening", Label: "Evening", Start: MustClockTime("16:00"), End: MustClockTime("19:00"), Category: CategoryWeekday},
		{Key: "closing", Label: "Closing", Start: MustClockTime("19:00"), End: MustClockTime("22:00"), Category: CategoryWeekday},
		{Key: "weekend-early", Label: "Weekend early", Start: MustClockTime("09:00"), End: MustClockTime("15:00"), Category: CategoryWeekend},
		{Key: "weekend-late", Label: "Weekend late", Start: MustClockTime("15:00"), End: MustClockTime("21:00"), Category: CategoryWeekend},
		{Key: "holiday-early", Label: "Holiday early", Start: MustClockTime("10:00"), End: MustClockTime("15:00"), Category: CategoryHoliday},
		{Key: "holiday-late", Label: "Holiday late", Start: MustClockTime("15:00"), End: MustClockTime("20:00"), Category: CategoryHoliday},
	}
}
