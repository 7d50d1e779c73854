package criteria

import (
	"fmt"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
)

// WeekendDistributionConfig holds the weekend fairness parameters
type WeekendDistributionConfig struct {
	PreferenceBonus      float64
	FairnessPenalty      float64
	HistoryWeight        float64
	MaxWithoutPreference int
	MinPerMonth          int
}

// WeekendDistributionCriterion spreads weekend shifts across the team.
//
// Validity:
//   - Staff without a weekend preference may not exceed MaxWithoutPreference
//     weekend shifts in the month
//
// Score:
//   - Adds PreferenceBonus for staff who prefer weekends while they are under the cap
//   - Subtracts FairnessPenalty when a non-preferring staff member would reach the
//     cap while someone else is still under MinPerMonth
//   - Subtracts HistoryWeight scaled by the weekends worked in previous months
type WeekendDistributionCriterion struct {
	cfg    WeekendDistributionConfig
	weight float64
}

// NewWeekendDistributionCriterion creates a new WeekendDistributionCriterion
func NewWeekendDistributionCriterion(cfg WeekendDistributionConfig, weight float64) *WeekendDistributionCriterion {
	return &WeekendDistributionCriterion{cfg: cfg, weight: weight}
}

func (c *WeekendDistributionCriterion) Name() string {
	return "WeekendDistribution"
}

func (c *WeekendDistributionCriterion) IsEligible(state *engine.State, staff *engine.StaffState, slot *engine.Slot) bool {
	if !slot.IsWeekend() || staff.Staff.PrefersWeekends {
		return true
	}
	return staff.WeekendCount+1 <= c.cfg.MaxWithoutPreference
}

func (c *WeekendDistributionCriterion) Score(state *engine.State, staff *engine.StaffState, slot *engine.Slot) float64 {
	if !slot.IsWeekend() {
		return 0
	}

	score := 0.0
	if staff.Staff.PrefersWeekends {
		if staff.WeekendCount < c.cfg.MaxWithoutPreference {
			score += c.cfg.PreferenceBonus
		}
	} else if staff.WeekendCount+1 >= c.cfg.MaxWithoutPreference && c.othersUnderMinimum(state, staff) {
		score -= c.cfg.FairnessPenalty
	}

	if c.cfg.MaxWithoutPreference > 0 {
		prior := min(staff.Staff.History.PriorWeekendCount, c.cfg.MaxWithoutPreference)
		score -= c.cfg.HistoryWeight * float64(prior) / float64(c.cfg.MaxWithoutPreference)
	}
	return score
}

func (c *WeekendDistributionCriterion) othersUnderMinimum(state *engine.State, staff *engine.StaffState) bool {
	for _, other := range state.Staff {
		if other != staff && other.WeekendCount < c.cfg.MinPerMonth {
			return true
		}
	}
	return false
}

func (c *WeekendDistributionCriterion) Weight() float64 {
	return c.weight
}

func (c *WeekendDistributionCriterion) ValidateSchedule(state *engine.State) []engine.ViolationError {
	var errors []engine.ViolationError

	for _, staff := range state.Staff {
		if staff.Staff.PrefersWeekends {
			continue
		}
		count := 0
		for _, slot := range staff.Shifts {
			if slot.IsWeekend() {
				count++
			}
		}
		if count > c.cfg.MaxWithoutPreference {
			errors = append(errors, engine.ViolationError{
				StaffID:       staff.ID(),
				CriterionName: c.Name(),
				Description:   fmt.Sprintf("%d weekend shifts without a weekend preference (maximum %d)", count, c.cfg.MaxWithoutPreference),
			})
		}
	}

	return errors
}
