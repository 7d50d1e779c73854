package criteria

import (
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
)

// TypicalDaysCriterion discourages working more days in a week than the staff
// member's historical pattern.
//
// Score:
//   - Returns -penalty if the slot would push the ISO week's worked days beyond
//     TypicalWorkdays. Staff without a recorded pattern are unaffected
type TypicalDaysCriterion struct {
	penalty float64
	weight  float64
}

// NewTypicalDaysCriterion creates a new TypicalDaysCriterion
func NewTypicalDaysCriterion(penalty, weight float64) *TypicalDaysCriterion {
	return &TypicalDaysCriterion{penalty: penalty, weight: weight}
}

func (c *TypicalDaysCriterion) Name() string {
	return "TypicalDays"
}

func (c *TypicalDaysCriterion) IsEligible(state *engine.State, staff *engine.StaffState, slot *engine.Slot) bool {
	return true
}

func (c *TypicalDaysCriterion) Score(state *engine.State, staff *engine.StaffState, slot *engine.Slot) float64 {
	if staff.IsExtraDay(slot.WeekKey()) {
		return -c.penalty
	}
	return 0
}

func (c *TypicalDaysCriterion) Weight() float64 {
	return c.weight
}

func (c *TypicalDaysCriterion) ValidateSchedule(state *engine.State) []engine.ViolationError {
	return nil
}
