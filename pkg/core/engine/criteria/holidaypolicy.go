package criteria

import (
	"slices"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// HolidayPolicyCriterion restricts holiday shifts to the configured roles.
// An empty role list allows everyone.
type HolidayPolicyCriterion struct {
	allowedRoles []model.Role
}

func NewHolidayPolicyCriterion(allowedRoles []model.Role) *HolidayPolicyCriterion {
	return &HolidayPolicyCriterion{allowedRoles: allowedRoles}
}

func (c *HolidayPolicyCriterion) Name() string {
	return "HolidayPolicy"
}

func (c *HolidayPolicyCriterion) allowed(staff *engine.StaffState, slot *engine.Slot) bool {
	if slot.Shift.Category != model.CategoryHoliday || len(c.allowedRoles) == 0 {
		return true
	}
	return slices.Contains(c.allowedRoles, staff.Staff.Role)
}

func (c *HolidayPolicyCriterion) IsEligible(state *engine.State, staff *engine.StaffState, slot *engine.Slot) bool {
	return c.allowed(staff, slot)
}

func (c *HolidayPolicyCriterion) Score(state *engine.State, staff *engine.StaffState, slot *engine.Slot) float64 {
	return 0
}

func (c *HolidayPolicyCriterion) Weight() float64 {
	return 0
}

func (c *HolidayPolicyCriterion) ValidateSchedule(state *engine.State) []engine.ViolationError {
	var errors []engine.ViolationError

	for _, staff := range state.Staff {
		for _, slot := range staff.Shifts {
			if !c.allowed(staff, slot) {
				errors = append(errors, engine.ViolationError{
					Date:          slot.Day.Date,
					ShiftKey:      slot.Shift.Key,
					StaffID:       staff.ID(),
					CriterionName: c.Name(),
					Description:   "role " + string(staff.Staff.Role) + " may not work holiday shifts",
				})
			}
		}
	}

	return errors
}
