package engine

import (
	"fmt"
	"sort"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// Names of the labour-law checks built into every run
const (
	ReasonAbsence                = "Absence"
	ReasonRestPeriod             = "RestPeriod"
	ReasonConsecutiveDays        = "ConsecutiveDays"
	ReasonMinijobEarnings        = "MinijobEarnings"
	ReasonWerkstudentWeeklyHours = "WerkstudentWeeklyHours"
)

// invariants are applied by every Evaluator and by ValidateSchedule ahead of
// the caller's criteria. They read their limits from state.Config, so a run
// cannot be configured without them.
var invariants = []Criterion{
	absenceRule{},
	restPeriodRule{},
	consecutiveDaysRule{},
	minijobEarningsRule{},
	werkstudentHoursRule{},
}

// hardRule supplies the scoring half of Criterion for veto-only checks
type hardRule struct{}

func (hardRule) Score(state *State, staff *StaffState, slot *Slot) float64 { return 0 }
func (hardRule) Weight() float64 { return 0 }

// absenceRule keeps staff off dates inside their vacation or sickness periods
type absenceRule struct{ hardRule }

func (absenceRule) Name() string { return ReasonAbsence }

func (absenceRule) IsEligible(state *State, staff *StaffState, slot *Slot) bool {
	return !staff.Staff.IsAbsent(slot.Day.Date)
}

func (r absenceRule) ValidateSchedule(state *State) []ViolationError {
	var violations []ViolationError
	for _, staff := range state.Staff {
		for _, slot := range staff.Shifts {
			if staff.Staff.IsAbsent(slot.Day.Date) {
				violations = append(violations, ViolationError{
					Date:          slot.Day.Date,
					ShiftKey:      slot.Shift.Key,
					StaffID:       staff.ID(),
					CriterionName: r.Name(),
					Description:   "assigned during vacation or sickness",
				})
			}
		}
	}
	return violations
}

// restPeriodRule enforces MinRestHours between two shifts of the same person,
// including the last shift of the previous month.
type restPeriodRule struct{ hardRule }

func (restPeriodRule) Name() string { return ReasonRestPeriod }

func (restPeriodRule) IsEligible(state *State, staff *StaffState, slot *Slot) bool {
	if staff.LastShiftEnd.IsZero() {
		return true
	}
	return slot.Start.Sub(staff.LastShiftEnd).Hours() >= state.Config.MinRestHours
}

func (r restPeriodRule) ValidateSchedule(state *State) []ViolationError {
	minRest := state.Config.MinRestHours
	var violations []ViolationError

	for _, staff := range state.Staff {
		shifts := append([]*Slot(nil), staff.Shifts...)
		sort.Slice(shifts, func(i, j int) bool { return shifts[i].Start.Before(shifts[j].Start) })

		prevEnd := staff.Staff.History.LastShiftEnd
		for _, slot := range shifts {
			if prevEnd != nil {
				if rest := slot.Start.Sub(*prevEnd).Hours(); rest < minRest {
					violations = append(violations, ViolationError{
						Date:          slot.Day.Date,
						ShiftKey:      slot.Shift.Key,
						StaffID:       staff.ID(),
						CriterionName: r.Name(),
						Description:   fmt.Sprintf("only %.1fh rest before this shift (minimum %.1fh)", rest, minRest),
					})
				}
			}
			end := slot.End
			prevEnd = &end
		}
	}
	return violations
}

// consecutiveDaysRule caps the run of consecutive calendar days worked,
// counting the run carried over from the previous month.
type consecutiveDaysRule struct{ hardRule }

func (consecutiveDaysRule) Name() string { return ReasonConsecutiveDays }

func (consecutiveDaysRule) IsEligible(state *State, staff *StaffState, slot *Slot) bool {
	// Streak covers days up to yesterday; the slot's day would add one
	return staff.Streak+1 <= state.Config.MaxConsecutiveDays
}

func (r consecutiveDaysRule) ValidateSchedule(state *State) []ViolationError {
	maxDays := state.Config.MaxConsecutiveDays
	var violations []ViolationError

	for _, staff := range state.Staff {
		run := staff.Staff.History.ConsecutiveDaysAtStart
		for _, day := range state.Days {
			if !staff.DatesWorked[day.Date] {
				run = 0
				continue
			}
			run++
			if run > maxDays {
				violations = append(violations, ViolationError{
					Date:          day.Date,
					StaffID:       staff.ID(),
					CriterionName: r.Name(),
					Description:   fmt.Sprintf("day %d of a consecutive run (maximum %d)", run, maxDays),
				})
			}
		}
	}
	return violations
}

// minijobEarningsRule keeps minijob staff under the monthly earnings cap.
// The staff member's own wage is used when set, MinijobHourlyWage otherwise.
type minijobEarningsRule struct{ hardRule }

func (minijobEarningsRule) Name() string { return ReasonMinijobEarnings }

func (minijobEarningsRule) IsEligible(state *State, staff *StaffState, slot *Slot) bool {
	if staff.Staff.Role != model.RoleMinijob {
		return true
	}
	cfg := state.Config
	projected := (staff.Hours + slot.Hours()) * cfg.HourlyWage(&staff.Staff)
	return projected <= cfg.MinijobMaxEarning+cfg.FloatPrecisionOffset
}

func (r minijobEarningsRule) ValidateSchedule(state *State) []ViolationError {
	cfg := state.Config
	var violations []ViolationError

	for _, staff := range state.Staff {
		if staff.Staff.Role != model.RoleMinijob {
			continue
		}
		hours := 0.0
		for _, slot := range staff.Shifts {
			hours += slot.Hours()
		}
		earnings := hours * cfg.HourlyWage(&staff.Staff)
		if earnings > cfg.MinijobMaxEarning+cfg.FloatPrecisionOffset {
			violations = append(violations, ViolationError{
				StaffID:       staff.ID(),
				CriterionName: r.Name(),
				Description:   fmt.Sprintf("monthly earnings %.2f exceed cap %.2f", earnings, cfg.MinijobMaxEarning),
			})
		}
	}
	return violations
}

// werkstudentHoursRule caps werkstudent hours per ISO week. Hours carried over
// from the previous month count towards the first week.
type werkstudentHoursRule struct{ hardRule }

func (werkstudentHoursRule) Name() string { return ReasonWerkstudentWeeklyHours }

func (werkstudentHoursRule) IsEligible(state *State, staff *StaffState, slot *Slot) bool {
	if staff.Staff.Role != model.RoleWerkstudent {
		return true
	}
	cfg := state.Config
	return staff.WeekHours[slot.WeekKey()]+slot.Hours() <= cfg.WerkstudentMaxHours+cfg.FloatPrecisionOffset
}

func (r werkstudentHoursRule) ValidateSchedule(state *State) []ViolationError {
	cfg := state.Config
	var violations []ViolationError

	for _, staff := range state.Staff {
		if staff.Staff.Role != model.RoleWerkstudent {
			continue
		}

		weeks := make(map[string]float64)
		if len(state.Days) > 0 {
			weeks[calendar.ISOWeekKey(state.Days[0].Time)] = staff.Staff.History.CarryOverWeekHours
		}
		for _, slot := range staff.Shifts {
			weeks[slot.WeekKey()] += slot.Hours()
		}

		keys := make([]string, 0, len(weeks))
		for week := range weeks {
			keys = append(keys, week)
		}
		sort.Strings(keys)

		for _, week := range keys {
			if weeks[week] > cfg.WerkstudentMaxHours+cfg.FloatPrecisionOffset {
				violations = append(violations, ViolationError{
					StaffID:       staff.ID(),
					CriterionName: r.Name(),
					Description:   fmt.Sprintf("%.1fh in week %s (maximum %.1fh)", weeks[week], week, cfg.WerkstudentMaxHours),
				})
			}
		}
	}
	return violations
}
