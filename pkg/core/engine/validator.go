package engine

import (
	"fmt"
	"sort"
)

// ValidateSchedule validates the final state against the built-in invariants and all provided criteria.
// Returns a slice of violations; an empty slice means the schedule is valid.
func ValidateSchedule(state *State, criteria []Criterion) []ViolationError {
	violations := validateOneShiftPerDay(state)

	for _, criterion := range invariants {
		violations = append(violations, criterion.ValidateSchedule(state)...)
	}
	for _, criterion := range criteria {
		violations = append(violations, criterion.ValidateSchedule(state)...)
	}

	return violations
}

func validateOneShiftPerDay(state *State) []ViolationError {
	var violations []ViolationError

	dates := make([]string, 0, len(state.Grid))
	for date := range state.Grid {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		held := make(map[string]string)
		for _, slot := range slotsOn(state, date) {
			a := state.Grid[date][slot.Shift.Key]
			if a == nil {
				continue
			}
			if slot.Closed {
				violations = append(violations, ViolationError{
					Date: date, ShiftKey: slot.Shift.Key, StaffID: a.StaffID,
					CriterionName: ReasonOneShiftPerDay,
					Description:   "closed slot was filled",
				})
			}
			if other, ok := held[a.StaffID]; ok {
				violations = append(violations, ViolationError{
					Date: date, ShiftKey: slot.Shift.Key, StaffID: a.StaffID,
					CriterionName: ReasonOneShiftPerDay,
					Description:   fmt.Sprintf("already holds %s on this date", other),
				})
				continue
			}
			held[a.StaffID] = slot.Shift.Key
		}
	}
	return violations
}

func slotsOn(state *State, date string) []*Slot {
	for i, day := range state.Days {
		if day.Date == date {
			return state.Slots[i]
		}
	}
	return nil
}
