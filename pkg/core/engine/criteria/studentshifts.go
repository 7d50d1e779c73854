package criteria

import (
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
)

// StudentShiftsConfig holds the student scoring parameters
type StudentShiftsConfig struct {
	MaxWeekdayDaytimeShifts int
	WeekdayDaytimePenalty   float64
	// WeekdayDaytimePreference is a negative weight applied to every weekday daytime shift
	WeekdayDaytimePreference float64
	WeekendBonus             float64
	EveningBonus             float64
	// LectureBreakRelief drops the daytime preference weight during lecture breaks
	LectureBreakRelief bool
}

// StudentShiftsCriterion steers students (including werkstudents) towards
// evenings and weekends and away from weekday daytime shifts.
//
// Score:
//   - Adds WeekdayDaytimePreference to weekday daytime shifts, except in lecture
//     breaks when LectureBreakRelief is set
//   - Subtracts WeekdayDaytimePenalty once the weekday daytime count would exceed
//     MaxWeekdayDaytimeShifts, unless the fairness override is active
//   - Adds WeekendBonus to weekend shifts and EveningBonus to evening shifts
type StudentShiftsCriterion struct {
	cfg    StudentShiftsConfig
	weight float64
}

// NewStudentShiftsCriterion creates a new StudentShiftsCriterion
func NewStudentShiftsCriterion(cfg StudentShiftsConfig, weight float64) *StudentShiftsCriterion {
	return &StudentShiftsCriterion{cfg: cfg, weight: weight}
}

func (c *StudentShiftsCriterion) Name() string {
	return "StudentShifts"
}

func (c *StudentShiftsCriterion) IsEligible(state *engine.State, staff *engine.StaffState, slot *engine.Slot) bool {
	return true
}

func (c *StudentShiftsCriterion) Score(state *engine.State, staff *engine.StaffState, slot *engine.Slot) float64 {
	if !staff.Staff.Role.IsStudent() {
		return 0
	}

	score := 0.0
	if state.IsWeekdayDaytime(slot) {
		if !(c.cfg.LectureBreakRelief && slot.Day.Term.InBreak()) {
			score += c.cfg.WeekdayDaytimePreference
		}
		if staff.WeekdayDaytimeCount+1 > c.cfg.MaxWeekdayDaytimeShifts && !state.FairnessOverride(staff, slot) {
			score -= c.cfg.WeekdayDaytimePenalty
		}
	}
	if slot.IsWeekend() {
		score += c.cfg.WeekendBonus
	}
	if slot.Shift.IsEvening(state.Config.EveningStart) {
		score += c.cfg.EveningBonus
	}
	return score
}

func (c *StudentShiftsCriterion) Weight() float64 {
	return c.weight
}

func (c *StudentShiftsCriterion) ValidateSchedule(state *engine.State) []engine.ViolationError {
	return nil
}
