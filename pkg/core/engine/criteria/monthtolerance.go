package criteria

import (
	"fmt"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// MonthToleranceCriterion makes anyone whose projected monthly hours would exceed
// target + tolerance(role) ineligible, regardless of score.
type MonthToleranceCriterion struct {
	defaultTolerance float64
	toleranceByRole  map[model.Role]float64
	precisionOffset  float64
}

// NewMonthToleranceCriterion creates a new MonthToleranceCriterion
func NewMonthToleranceCriterion(defaultTolerance float64, toleranceByRole map[model.Role]float64, precisionOffset float64) *MonthToleranceCriterion {
	return &MonthToleranceCriterion{
		defaultTolerance: defaultTolerance,
		toleranceByRole:  toleranceByRole,
		precisionOffset:  precisionOffset,
	}
}

func (c *MonthToleranceCriterion) Name() string {
	return "MonthTolerance"
}

func (c *MonthToleranceCriterion) limit(staff *engine.StaffState) float64 {
	tolerance, ok := c.toleranceByRole[staff.Staff.Role]
	if !ok {
		tolerance = c.defaultTolerance
	}
	return staff.Target() + tolerance
}

func (c *MonthToleranceCriterion) IsEligible(state *engine.State, staff *engine.StaffState, slot *engine.Slot) bool {
	return staff.Hours+slot.Hours() <= c.limit(staff)+c.precisionOffset
}

func (c *MonthToleranceCriterion) Score(state *engine.State, staff *engine.StaffState, slot *engine.Slot) float64 {
	return 0
}

func (c *MonthToleranceCriterion) Weight() float64 {
	return 0
}

func (c *MonthToleranceCriterion) ValidateSchedule(state *engine.State) []engine.ViolationError {
	var errors []engine.ViolationError

	for _, staff := range state.Staff {
		if staff.Hours > c.limit(staff)+c.precisionOffset {
			errors = append(errors, engine.ViolationError{
				StaffID:       staff.ID(),
				CriterionName: c.Name(),
				Description:   fmt.Sprintf("%.1fh assigned, limit is %.1fh", staff.Hours, c.limit(staff)),
			})
		}
	}

	return errors
}
