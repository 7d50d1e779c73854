package criteria

import (
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// PreferredShiftCriterion rewards slots matching a "preferred" weekday preference
type PreferredShiftCriterion struct {
	bonus  float64
	weight float64
}

func NewPreferredShiftCriterion(bonus, weight float64) *PreferredShiftCriterion {
	return &PreferredShiftCriterion{bonus: bonus, weight: weight}
}

func (c *PreferredShiftCriterion) Name() string {
	return "PreferredShift"
}

func (c *PreferredShiftCriterion) IsEligible(state *engine.State, staff *engine.StaffState, slot *engine.Slot) bool {
	return true
}

func (c *PreferredShiftCriterion) Score(state *engine.State, staff *engine.StaffState, slot *engine.Slot) float64 {
	for _, p := range staff.Staff.WeekdayPreferences {
		if p.Level == model.PreferencePreferred && p.Matches(slot.Day.Weekday, slot.Shift.Key) {
			return c.bonus
		}
	}
	return 0
}

func (c *PreferredShiftCriterion) Weight() float64 {
	return c.weight
}

func (c *PreferredShiftCriterion) ValidateSchedule(state *engine.State) []engine.ViolationError {
	return nil
}
