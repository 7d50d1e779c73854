package criteria

import (
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
)

// Default returns the configurable criteria set. The labour-law invariants
// (rest period, consecutive days, absence, minijob earnings, werkstudent
// hours) are built into the engine and not part of it.
// Hard criteria come first so vetoes short-circuit before any scoring work.
func Default(cfg engine.Config) []engine.Criterion {
	return []engine.Criterion{
		NewAvailabilityCriterion(),
		NewHolidayPolicyCriterion(cfg.HolidayAllowedRoles),
		NewMonthToleranceCriterion(cfg.DefaultMonthTolerance, cfg.MonthToleranceByRole, cfg.FloatPrecisionOffset),
		NewExtraDaysCriterion(cfg.ExtraDayPenalty, cfg.MaxExtraDaysAllowed, cfg.MaxExtraDaysHardCap, 1),
		NewWeekendDistributionCriterion(WeekendDistributionConfig{
			PreferenceBonus:      cfg.WeekendPreferenceBonus,
			FairnessPenalty:      cfg.WeekendFairnessPenalty,
			HistoryWeight:        cfg.WeekendHistoryWeight,
			MaxWithoutPreference: cfg.MaxWeekendsWithoutPreference,
			MinPerMonth:          cfg.MinWeekendsPerMonth,
		}, 1),
		NewTypicalDaysCriterion(cfg.TypicalDaysPenalty, 1),
		NewStudentShiftsCriterion(StudentShiftsConfig{
			MaxWeekdayDaytimeShifts:  cfg.StudentMaxWeekdayDaytimeShifts,
			WeekdayDaytimePenalty:    cfg.StudentWeekdayDaytimePenalty,
			WeekdayDaytimePreference: cfg.StudentWeekdayDaytimePenaltyPref,
			WeekendBonus:             cfg.StudentWeekendBonus,
			EveningBonus:             cfg.StudentEveningBonus,
			LectureBreakRelief:       cfg.LectureBreakDaytimeRelief,
		}, 1),
		NewHourBalanceCriterion(cfg.HourBalanceWeight),
		NewPreferredShiftCriterion(cfg.PreferredShiftBonus, 1),
	}
}
