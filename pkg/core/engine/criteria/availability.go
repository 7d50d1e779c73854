package criteria

import (
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// AvailabilityCriterion excludes staff from dates and shifts they marked as unavailable,
// either for a specific date or as a recurring weekday preference.
type AvailabilityCriterion struct{}

func NewAvailabilityCriterion() *AvailabilityCriterion {
	return &AvailabilityCriterion{}
}

func (c *AvailabilityCriterion) Name() string {
	return "Availability"
}

func (c *AvailabilityCriterion) IsEligible(state *engine.State, staff *engine.StaffState, slot *engine.Slot) bool {
	return isAvailable(staff.Staff, slot)
}

func isAvailable(staff *model.Staff, slot *engine.Slot) bool {
	for _, u := range staff.Unavailable {
		if u.Date == slot.Day.Date && (u.ShiftKey == "" || u.ShiftKey == slot.Shift.Key) {
			return false
		}
	}
	for _, p := range staff.WeekdayPreferences {
		if p.Level == model.PreferenceUnavailable && p.Matches(slot.Day.Weekday, slot.Shift.Key) {
			return false
		}
	}
	return true
}

func (c *AvailabilityCriterion) Score(state *engine.State, staff *engine.StaffState, slot *engine.Slot) float64 {
	return 0
}

func (c *AvailabilityCriterion) Weight() float64 {
	return 0
}

func (c *AvailabilityCriterion) ValidateSchedule(state *engine.State) []engine.ViolationError {
	var errors []engine.ViolationError

	for _, staff := range state.Staff {
		for _, slot := range staff.Shifts {
			if !isAvailable(staff.Staff, slot) {
				errors = append(errors, engine.ViolationError{
					Date:          slot.Day.Date,
					ShiftKey:      slot.Shift.Key,
					StaffID:       staff.ID(),
					CriterionName: c.Name(),
					Description:   "assigned while marked unavailable",
				})
			}
		}
	}

	return errors
}
