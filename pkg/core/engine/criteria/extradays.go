package criteria

import (
	"fmt"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
)

// ExtraDaysCriterion limits days worked beyond the typical weekly pattern.
// An extra day is any day in an ISO week past the staff member's TypicalWorkdays.
//
// Validity:
//   - Returns false if the extra day would exceed hardCap
//   - Returns false if it would exceed allowed, unless the fairness override is active
//
// Score:
//   - Returns -penalty for each extra day beyond the first
//   - Suppressed while the fairness override is active
type ExtraDaysCriterion struct {
	penalty float64
	allowed int
	hardCap int
	weight  float64
}

// NewExtraDaysCriterion creates a new ExtraDaysCriterion
func NewExtraDaysCriterion(penalty float64, allowed, hardCap int, weight float64) *ExtraDaysCriterion {
	return &ExtraDaysCriterion{
		penalty: penalty,
		allowed: allowed,
		hardCap: hardCap,
		weight:  weight,
	}
}

func (c *ExtraDaysCriterion) Name() string {
	return "ExtraDays"
}

func (c *ExtraDaysCriterion) IsEligible(state *engine.State, staff *engine.StaffState, slot *engine.Slot) bool {
	if !staff.IsExtraDay(slot.WeekKey()) {
		return true
	}
	extra := staff.ExtraDays + 1
	if extra > c.hardCap {
		return false
	}
	if extra > c.allowed && !state.FairnessOverride(staff, slot) {
		return false
	}
	return true
}

func (c *ExtraDaysCriterion) Score(state *engine.State, staff *engine.StaffState, slot *engine.Slot) float64 {
	if !staff.IsExtraDay(slot.WeekKey()) || state.FairnessOverride(staff, slot) {
		return 0
	}
	extra := staff.ExtraDays + 1
	return -c.penalty * float64(extra-1)
}

func (c *ExtraDaysCriterion) Weight() float64 {
	return c.weight
}

func (c *ExtraDaysCriterion) ValidateSchedule(state *engine.State) []engine.ViolationError {
	var errors []engine.ViolationError

	for _, staff := range state.Staff {
		typical := staff.Staff.TypicalWorkdays
		if typical == 0 {
			continue
		}
		days := make(map[string]int)
		for _, slot := range staff.Shifts {
			days[slot.WeekKey()]++
		}
		extra := 0
		for _, n := range days {
			extra += max(n-typical, 0)
		}
		if extra > c.hardCap {
			errors = append(errors, engine.ViolationError{
				StaffID:       staff.ID(),
				CriterionName: c.Name(),
				Description:   fmt.Sprintf("%d extra days (hard cap %d)", extra, c.hardCap),
			})
		}
	}

	return errors
}
