package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// Month identifies a calendar month
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a "YYYY-MM" month key
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Key returns the "YYYY-MM" form of the month
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) String() string {
	return m.Key()
}

// First returns midnight UTC on the first day of the month
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Length returns the number of days in the month
func (m Month) Length() int {
	return m.First().AddDate(0, 1, -1).Day()
}

// Prev returns the previous month
func (m Month) Prev() Month {
	p := m.First().AddDate(0, -1, 0)
	return Month{Year: p.Year(), Month: p.Month()}
}

func (m Month) valid() bool {
	return m.Year > 0 && m.Month >= time.January && m.Month <= time.December
}

type Season string

const (
	SeasonNone   Season = "none"
	SeasonWinter Season = "winter"
	SeasonSummer Season = "summer"
)

// Term is the academic-term tag of a date
type Term struct {
	Season  Season `json:"season"`
	Lecture bool   `json:"lecture"`
}

// InBreak returns true for dates inside a term but outside its lecture period
func (t Term) InBreak() bool {
	return t.Season != SeasonNone && !t.Lecture
}

// MonthDay is a day of the year without the year, e.g. "10-01"
type MonthDay struct {
	Month time.Month
	Day   int
}

// ParseMonthDay parses "MM-DD"
func ParseMonthDay(s string) (MonthDay, error) {
	mm, dd, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return MonthDay{}, fmt.Errorf("invalid month-day %q: expected MM-DD", s)
	}
	month, err := strconv.Atoi(mm)
	if err != nil || month < 1 || month > 12 {
		return MonthDay{}, fmt.Errorf("invalid month in %q", s)
	}
	day, err := strconv.Atoi(dd)
	if err != nil || day < 1 || day > 31 {
		return MonthDay{}, fmt.Errorf("invalid day in %q", s)
	}
	return MonthDay{Month: time.Month(month), Day: day}, nil
}

func (md MonthDay) ordinal() int {
	return int(md.Month)*100 + md.Day
}

func (md MonthDay) IsZero() bool {
	return md.Month == 0
}

func monthDayOf(t time.Time) MonthDay {
	return MonthDay{Month: t.Month(), Day: t.Day()}
}

// Window is an inclusive range of month-days. A start after the end wraps
// over the year boundary (e.g. 10-01 to 03-31).
type Window struct {
	Start MonthDay
	End   MonthDay
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Contains returns true if the date's month-day lies inside the window
func (w Window) Contains(t time.Time) bool {
	if w.IsZero() {
		return false
	}
	md := monthDayOf(t).ordinal()
	start, end := w.Start.ordinal(), w.End.ordinal()
	if start <= end {
		return start <= md && md <= end
	}
	return md >= start || md <= end
}

// TermWindow is a term with its nested lecture period
type TermWindow struct {
	Term     Window
	Lectures Window
}

// TermConfig holds the academic calendar. The zero value tags every date
// with SeasonNone.
type TermConfig struct {
	Winter TermWindow
	Summer TermWindow
}

// Classify returns the term tag for a date
func (tc TermConfig) Classify(t time.Time) Term {
	switch {
	case tc.Winter.Term.Contains(t):
		return Term{Season: SeasonWinter, Lecture: tc.Winter.Lectures.Contains(t)}
	case tc.Summer.Term.Contains(t):
		return Term{Season: SeasonSummer, Lecture: tc.Summer.Lectures.Contains(t)}
	}
	return Term{Season: SeasonNone}
}

// Validate checks that lecture periods sit inside their term
func (tc TermConfig) Validate() error {
	var errs []error
	check := func(name string, tw TermWindow) {
		if tw.Term.IsZero() {
			if !tw.Lectures.IsZero() {
				errs = append(errs, fmt.Errorf("%s lectures configured without a %s term", name, name))
			}
			return
		}
		if tw.Lectures.IsZero() {
			return
		}
		if outside, ok := tw.lectureOutsideTerm(); ok {
			errs = append(errs, fmt.Errorf("%s lecture period is not nested inside the %s term (%02d-%02d)",
				name, name, int(outside.Month), outside.Day))
		}
	}
	check("winter", tc.Winter)
	check("summer", tc.Summer)
	return errors.Join(errs...)
}

// lectureOutsideTerm returns the first month-day of the lecture window that
// falls outside the term. Every day of a leap year is checked because a
// wrapping lecture window can start and end inside the term and still leave it.
func (tw TermWindow) lectureOutsideTerm() (MonthDay, bool) {
	day := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for ; day.Year() == 2024; day = day.AddDate(0, 0, 1) {
		if tw.Lectures.Contains(day) && !tw.Term.Contains(day) {
			return monthDayOf(day), true
		}
	}
	return MonthDay{}, false
}

// DefaultTerms returns the usual German university calendar
func DefaultTerms() TermConfig {
	return TermConfig{
		Winter: TermWindow{
			Term:     Window{Start: MonthDay{time.October, 1}, End: MonthDay{time.March, 31}},
			Lectures: Window{Start: MonthDay{time.October, 14}, End: MonthDay{time.February, 14}},
		},
		Summer: TermWindow{
			Term:     Window{Start: MonthDay{time.April, 1}, End: MonthDay{time.September, 30}},
			Lectures: Window{Start: MonthDay{time.April, 14}, End: MonthDay{time.July, 19}},
		},
	}
}

// Day is one classified calendar date
type Day struct {
	Date      string       `json:"date"`
	Time      time.Time    `json:"-"`
	Weekday   time.Weekday `json:"weekday"`
	IsWeekend bool         `json:"isWeekend"`
	IsHoliday bool         `json:"isHoliday"`
	Term      Term         `json:"term"`
}

// Category maps the day onto a shift category. Holidays override weekends.
func (d Day) Category() model.ShiftCategory {
	switch {
	case d.IsHoliday:
		return model.CategoryHoliday
	case d.IsWeekend:
		return model.CategoryWeekend
	}
	return model.CategoryWeekday
}

// Build enumerates and classifies every date of the month. Holidays outside
// the month are ignored.
func Build(month Month, holidays []time.Time, terms TermConfig) ([]Day, error) {
	if !month.valid() {
		return nil, fmt.Errorf("invalid month %d-%02d", month.Year, int(month.Month))
	}

	holidaySet := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Format(model.DateLayout)] = true
	}

	first := month.First()
	days := make([]Day, 0, month.Length())
	for i := 0; i < month.Length(); i++ {
		t := first.AddDate(0, 0, i)
		date := t.Format(model.DateLayout)
		days = append(days, Day{
			Date:      date,
			Time:      t,
			Weekday:   t.Weekday(),
			IsWeekend: t.Weekday() == time.Saturday || t.Weekday() == time.Sunday,
			IsHoliday: holidaySet[date],
			Term:      terms.Classify(t),
		})
	}
	return days, nil
}

// ISOWeekKey returns the ISO week of a date as "2025-W45"
func ISOWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
