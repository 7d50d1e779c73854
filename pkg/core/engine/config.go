package engine

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// OptionalShift marks a shift kind as optional on the listed weekdays.
// On every other weekday the shift stays critical.
type OptionalShift struct {
	ShiftKey string
	Weekdays []time.Weekday
}

// Closure removes shift kinds from the dates AppliesTo matches.
// Closed slots appear in the grid but are never filled and are not gaps.
type Closure struct {
	ShiftKeys []string
	AppliesTo func(date time.Time) bool
}

// Config is the immutable constraint configuration of a run
type Config struct {
	// Labour law
	MinRestHours         float64
	MaxConsecutiveDays   int
	MinijobMaxEarning    float64
	MinijobHourlyWage    float64 // used when the staff member has no wage of their own
	FloatPrecisionOffset float64
	WerkstudentMaxHours  float64

	// Monthly targets
	DefaultMonthTolerance float64
	MonthToleranceByRole  map[model.Role]float64

	// Hour conservation for optional shifts
	HourConservationEnabled   bool
	HourConservationThreshold float64

	// Scoring
	BaseEligibilityWeight float64
	HourBalanceWeight     float64
	TypicalDaysPenalty    float64
	ExtraDayPenalty       float64
	MaxExtraDaysAllowed   int
	MaxExtraDaysHardCap   int

	StudentMaxWeekdayDaytimeShifts   int
	StudentWeekdayDaytimePenalty     float64
	StudentWeekdayDaytimePenaltyPref float64 // negative preference weight
	StudentWeekendBonus              float64
	StudentEveningBonus              float64
	// LectureBreakDaytimeRelief drops the daytime preference weight for students during lecture breaks
	LectureBreakDaytimeRelief bool

	WeekendPreferenceBonus       float64
	WeekendFairnessPenalty       float64
	WeekendHistoryWeight         float64
	MaxWeekendsWithoutPreference int
	MinWeekendsPerMonth          int

	FairnessOverrideThreshold float64
	PreferredShiftBonus       float64

	// Shift classification
	EveningStart        model.ClockTime
	HolidayAllowedRoles []model.Role // empty allows every role
	OptionalShifts      []OptionalShift
	Closures            []Closure
	Terms               calendar.TermConfig

	// Overtime threshold as a ratio of the monthly target, per role
	OvertimeThresholdByRole map[model.Role]float64
}

// DefaultConfig returns the standard parameter set
func DefaultConfig() Config {
	return Config{
		MinRestHours:         11,
		MaxConsecutiveDays:   6,
		MinijobMaxEarning:    556,
		MinijobHourlyWage:    12.82,
		FloatPrecisionOffset: 0.01,
		WerkstudentMaxHours:  20,

		DefaultMonthTolerance: 10,
		MonthToleranceByRole: map[model.Role]float64{
			model.RoleMinijob:     2,
			model.RoleStudent:     8,
			model.RoleWerkstudent: 8,
			model.RolePermanent:   12,
		},

		HourConservationEnabled:   true,
		HourConservationThreshold: 8,

		BaseEligibilityWeight: 10,
		HourBalanceWeight:     5,
		TypicalDaysPenalty:    2,
		ExtraDayPenalty:       3,
		MaxExtraDaysAllowed:   2,
		MaxExtraDaysHardCap:   4,

		StudentMaxWeekdayDaytimeShifts:   3,
		StudentWeekdayDaytimePenalty:     4,
		StudentWeekdayDaytimePenaltyPref: -1,
		StudentWeekendBonus:              2,
		StudentEveningBonus:              2,
		LectureBreakDaytimeRelief:        true,

		WeekendPreferenceBonus:       3,
		WeekendFairnessPenalty:       4,
		WeekendHistoryWeight:         0.5,
		MaxWeekendsWithoutPreference: 2,
		MinWeekendsPerMonth:          1,

		FairnessOverrideThreshold: 0.25,
		PreferredShiftBonus:       2,

		EveningStart: model.MustClockTime("16:00"),
		OptionalShifts: []OptionalShift{
			{ShiftKey: "evening", Weekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday}},
		},
		Terms: calendar.DefaultTerms(),

		OvertimeThresholdByRole: map[model.Role]float64{
			model.RoleMinijob:     1,
			model.RoleStudent:     1,
			model.RoleWerkstudent: 1,
			model.RolePermanent:   1,
		},
	}
}

// Tolerance returns the monthly hour tolerance for a role
func (c Config) Tolerance(role model.Role) float64 {
	if tol, ok := c.MonthToleranceByRole[role]; ok {
		return tol
	}
	return c.DefaultMonthTolerance
}

// OvertimeRatio returns the ratio of the monthly target above which hours count as overtime
func (c Config) OvertimeRatio(role model.Role) float64 {
	if ratio, ok := c.OvertimeThresholdByRole[role]; ok {
		return ratio
	}
	return 1
}

// HourlyWage returns the wage used for the minijob earnings cap
func (c Config) HourlyWage(staff *model.Staff) float64 {
	if staff.HourlyWage > 0 {
		return staff.HourlyWage
	}
	return c.MinijobHourlyWage
}

// IsOptional reports whether the shift is optional on the given weekday
func (c Config) IsOptional(shiftKey string, weekday time.Weekday) bool {
	for _, o := range c.OptionalShifts {
		if o.ShiftKey == shiftKey && slices.Contains(o.Weekdays, weekday) {
			return true
		}
	}
	return false
}

// IsClosed reports whether a closure removes the shift on the date
func (c Config) IsClosed(shiftKey string, date time.Time) bool {
	for _, cl := range c.Closures {
		if slices.Contains(cl.ShiftKeys, shiftKey) && cl.AppliesTo != nil && cl.AppliesTo(date) {
			return true
		}
	}
	return false
}

// HolidayAllowed reports whether the role may work holiday shifts
func (c Config) HolidayAllowed(role model.Role) bool {
	return len(c.HolidayAllowedRoles) == 0 || slices.Contains(c.HolidayAllowedRoles, role)
}

// Validate checks ranges and cross-field consistency. All problems are
// reported together, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	nonNegative := func(name string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative (got %v)", name, v))
		}
	}

	if c.MinRestHours < 0 || c.MinRestHours > 24 {
		errs = append(errs, fmt.Errorf("MinRestHours must be between 0 and 24 (got %v)", c.MinRestHours))
	}
	if c.MaxConsecutiveDays < 1 {
		errs = append(errs, fmt.Errorf("MaxConsecutiveDays must be at least 1 (got %d)", c.MaxConsecutiveDays))
	}
	if c.MinijobMaxEarning <= 0 {
		errs = append(errs, fmt.Errorf("MinijobMaxEarning must be positive (got %v)", c.MinijobMaxEarning))
	}
	if c.MinijobHourlyWage <= 0 {
		errs = append(errs, fmt.Errorf("MinijobHourlyWage must be positive (got %v)", c.MinijobHourlyWage))
	}
	if c.WerkstudentMaxHours <= 0 {
		errs = append(errs, fmt.Errorf("WerkstudentMaxHours must be positive (got %v)", c.WerkstudentMaxHours))
	}
	nonNegative("FloatPrecisionOffset", c.FloatPrecisionOffset)
	nonNegative("DefaultMonthTolerance", c.DefaultMonthTolerance)
	for role, tol := range c.MonthToleranceByRole {
		if !role.IsValid() {
			errs = append(errs, fmt.Errorf("MonthToleranceByRole references unknown role %q", role))
		}
		nonNegative(fmt.Sprintf("MonthToleranceByRole[%s]", role), tol)
	}
	nonNegative("HourConservationThreshold", c.HourConservationThreshold)

	nonNegative("TypicalDaysPenalty", c.TypicalDaysPenalty)
	nonNegative("ExtraDayPenalty", c.ExtraDayPenalty)
	nonNegative("HourBalanceWeight", c.HourBalanceWeight)
	if c.MaxExtraDaysAllowed < 0 || c.MaxExtraDaysHardCap < 0 {
		errs = append(errs, errors.New("extra day caps must not be negative"))
	}
	if c.MaxExtraDaysAllowed > c.MaxExtraDaysHardCap {
		errs = append(errs, fmt.Errorf("MaxExtraDaysAllowed (%d) must not exceed MaxExtraDaysHardCap (%d)",
			c.MaxExtraDaysAllowed, c.MaxExtraDaysHardCap))
	}

	if c.StudentMaxWeekdayDaytimeShifts < 0 {
		errs = append(errs, fmt.Errorf("StudentMaxWeekdayDaytimeShifts must not be negative (got %d)", c.StudentMaxWeekdayDaytimeShifts))
	}
	nonNegative("StudentWeekdayDaytimePenalty", c.StudentWeekdayDaytimePenalty)
	if c.StudentWeekdayDaytimePenaltyPref > 0 {
		errs = append(errs, fmt.Errorf("StudentWeekdayDaytimePenaltyPref must be zero or negative (got %v)", c.StudentWeekdayDaytimePenaltyPref))
	}
	nonNegative("StudentWeekendBonus", c.StudentWeekendBonus)
	nonNegative("StudentEveningBonus", c.StudentEveningBonus)

	nonNegative("WeekendPreferenceBonus", c.WeekendPreferenceBonus)
	nonNegative("WeekendFairnessPenalty", c.WeekendFairnessPenalty)
	nonNegative("WeekendHistoryWeight", c.WeekendHistoryWeight)
	if c.MaxWeekendsWithoutPreference < 0 || c.MinWeekendsPerMonth < 0 {
		errs = append(errs, errors.New("weekend caps must not be negative"))
	}

	if c.FairnessOverrideThreshold <= 0 || c.FairnessOverrideThreshold > 1 {
		errs = append(errs, fmt.Errorf("FairnessOverrideThreshold must be in (0, 1] (got %v)", c.FairnessOverrideThreshold))
	}
	nonNegative("PreferredShiftBonus", c.PreferredShiftBonus)

	if c.EveningStart < 0 || c.EveningStart >= 24*60 {
		errs = append(errs, fmt.Errorf("EveningStart is outside the day"))
	}
	for _, role := range c.HolidayAllowedRoles {
		if !role.IsValid() {
			errs = append(errs, fmt.Errorf("HolidayAllowedRoles references unknown role %q", role))
		}
	}
	for role, ratio := range c.OvertimeThresholdByRole {
		if !role.IsValid() {
			errs = append(errs, fmt.Errorf("OvertimeThresholdByRole references unknown role %q", role))
		}
		if ratio <= 0 {
			errs = append(errs, fmt.Errorf("OvertimeThresholdByRole[%s] must be positive (got %v)", role, ratio))
		}
	}
	for i, cl := range c.Closures {
		if cl.AppliesTo == nil {
			errs = append(errs, fmt.Errorf("closure %d has no date rule", i))
		}
	}
	if err := c.Terms.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ValidateCatalog checks that every shift key the configuration names exists in the catalog
func (c Config) ValidateCatalog(catalog model.Catalog) error {
	var errs []error
	if err := catalog.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, o := range c.OptionalShifts {
		if _, ok := catalog.Get(o.ShiftKey); !ok {
			errs = append(errs, fmt.Errorf("optional shift references unknown shift %q", o.ShiftKey))
		}
	}
	for i, cl := range c.Closures {
		for _, key := range cl.ShiftKeys {
			if _, ok := catalog.Get(key); !ok {
				errs = append(errs, fmt.Errorf("closure %d references unknown shift %q", i, key))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
