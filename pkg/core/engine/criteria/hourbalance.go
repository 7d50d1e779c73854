package criteria

import (
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
)

// HourBalanceCriterion favours staff furthest below their monthly target.
// Returns (target - hours) / target clamped to [-1, 1]; staff without a target score -1.
type HourBalanceCriterion struct {
	weight float64
}

func NewHourBalanceCriterion(weight float64) *HourBalanceCriterion {
	return &HourBalanceCriterion{weight: weight}
}

func (c *HourBalanceCriterion) Name() string {
	return "HourBalance"
}

func (c *HourBalanceCriterion) IsEligible(state *engine.State, staff *engine.StaffState, slot *engine.Slot) bool {
	return true
}

func (c *HourBalanceCriterion) Score(state *engine.State, staff *engine.StaffState, slot *engine.Slot) float64 {
	target := staff.Target()
	if target <= 0 {
		return -1
	}
	balance := (target - staff.Hours) / target
	return max(min(balance, 1), -1)
}

func (c *HourBalanceCriterion) Weight() float64 {
	return c.weight
}

func (c *HourBalanceCriterion) ValidateSchedule(state *engine.State) []engine.ViolationError {
	return nil
}
