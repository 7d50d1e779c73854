package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/holidays"
)

// DatabaseConfig selects the store backend
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=postgres sqlite"`
	DSN    string `yaml:"dsn" validate:"required"`
}

// ConstraintsConfig holds every tunable engine parameter. Fields left out of
// the YAML keep their defaults.
type ConstraintsConfig struct {
	MinRestHours         float64 `yaml:"minRestHours" validate:"gte=0,lte=24"`
	MaxConsecutiveDays   int     `yaml:"maxConsecutiveDays" validate:"gte=1"`
	MinijobMaxEarning    float64 `yaml:"minijobMaxEarning" validate:"gt=0"`
	MinijobHourlyWage    float64 `yaml:"minijobHourlyWage" validate:"gt=0"`
	FloatPrecisionOffset float64 `yaml:"floatPrecisionOffset" validate:"gte=0"`
	WerkstudentMaxHours  float64 `yaml:"werkstudentMaxHours" validate:"gt=0"`

	DefaultMonthTolerance float64                `yaml:"defaultMonthTolerance" validate:"gte=0"`
	MonthToleranceByRole  map[model.Role]float64 `yaml:"monthToleranceByRole" validate:"dive,gte=0"`

	HourConservationEnabled   bool    `yaml:"hourConservationEnabled"`
	HourConservationThreshold float64 `yaml:"hourConservationThreshold" validate:"gte=0"`

	BaseEligibilityWeight float64 `yaml:"baseEligibilityWeight"`
	HourBalanceWeight     float64 `yaml:"hourBalanceWeight" validate:"gte=0"`
	TypicalDaysPenalty    float64 `yaml:"typicalDaysPenalty" validate:"gte=0"`
	ExtraDayPenalty       float64 `yaml:"extraDayPenalty" validate:"gte=0"`
	MaxExtraDaysAllowed   int     `yaml:"maxExtraDaysAllowed" validate:"gte=0,ltefield=MaxExtraDaysHardCap"`
	MaxExtraDaysHardCap   int     `yaml:"maxExtraDaysHardCap" validate:"gte=0"`

	StudentMaxWeekdayDaytimeShifts   int     `yaml:"studentMaxWeekdayDaytimeShifts" validate:"gte=0"`
	StudentWeekdayDaytimePenalty     float64 `yaml:"studentWeekdayDaytimePenalty" validate:"gte=0"`
	StudentWeekdayDaytimePenaltyPref float64 `yaml:"studentWeekdayDaytimePenaltyPref" validate:"lte=0"`
	StudentWeekendBonus              float64 `yaml:"studentWeekendBonus" validate:"gte=0"`
	StudentEveningBonus              float64 `yaml:"studentEveningBonus" validate:"gte=0"`
	LectureBreakDaytimeRelief        bool    `yaml:"lectureBreakDaytimeRelief"`

	WeekendPreferenceBonus       float64 `yaml:"weekendPreferenceBonus" validate:"gte=0"`
	WeekendFairnessPenalty       float64 `yaml:"weekendFairnessPenalty" validate:"gte=0"`
	WeekendHistoryWeight         float64 `yaml:"weekendHistoryWeight" validate:"gte=0"`
	MaxWeekendsWithoutPreference int     `yaml:"maxWeekendsWithoutPreference" validate:"gte=0"`
	MinWeekendsPerMonth          int     `yaml:"minWeekendsPerMonth" validate:"gte=0"`

	FairnessOverrideThreshold float64 `yaml:"fairnessOverrideThreshold" validate:"gt=0,lte=1"`
	PreferredShiftBonus       float64 `yaml:"preferredShiftBonus" validate:"gte=0"`

	EveningStart        model.ClockTime `yaml:"eveningStart"`
	HolidayAllowedRoles []model.Role    `yaml:"holidayAllowedRoles,omitempty"`
}

// OptionalShiftConfig marks a shift as optional on the listed weekdays
type OptionalShiftConfig struct {
	ShiftKey string   `yaml:"shiftKey" validate:"required"`
	Weekdays []string `yaml:"weekdays" validate:"required,min=1"`
}

// ClosureConfig closes shifts on the dates an rrule produces. A rule without
// DTSTART counts its INTERVAL from Monday 2001-01-01, so a fortnightly closure
// keeps its rhythm from one month to the next.
type ClosureConfig struct {
	RRule     string   `yaml:"rrule" validate:"required"`
	ShiftKeys []string `yaml:"shiftKeys" validate:"required,min=1"`
}

// TermWindowConfig is a term and its lecture period as MM-DD bounds
type TermWindowConfig struct {
	Start         string `yaml:"start" validate:"required"`
	End           string `yaml:"end" validate:"required"`
	LecturesStart string `yaml:"lecturesStart,omitempty"`
	LecturesEnd   string `yaml:"lecturesEnd,omitempty"`
}

// TermsConfig is the academic calendar. Leaving both terms out uses the default calendar.
type TermsConfig struct {
	Winter *TermWindowConfig `yaml:"winter,omitempty"`
	Summer *TermWindowConfig `yaml:"summer,omitempty"`
}

// HolidaysConfig lists public holidays as fixed dates and recurring rules
type HolidaysConfig struct {
	Fixed     []string `yaml:"fixed,omitempty" validate:"dive,datetime=2006-01-02"`
	Recurring []string `yaml:"recurring,omitempty"`
}

// OvertimeConfig holds the overtime thresholds as a ratio of the monthly target
type OvertimeConfig struct {
	ThresholdByRole map[model.Role]float64 `yaml:"thresholdByRole" validate:"dive,gt=0"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// MetricsConfig configures the OTLP metric export. Export is off without an endpoint.
type MetricsConfig struct {
	OTLPEndpoint    string `yaml:"otlpEndpoint,omitempty"`
	Insecure        bool   `yaml:"insecure,omitempty"`
	IntervalSeconds int    `yaml:"intervalSeconds,omitempty" validate:"gte=0"`
}

// Config represents the application configuration
type Config struct {
	Database        DatabaseConfig        `yaml:"database"`
	ScheduleSheetID string                `yaml:"scheduleSheetID,omitempty"`
	StaffSheetTab   string                `yaml:"staffSheetTab,omitempty"`
	GmailUserID     string                `yaml:"gmailUserID,omitempty"`
	GmailSender     string                `yaml:"gmailSender,omitempty"`
	Constraints     ConstraintsConfig     `yaml:"constraints"`
	Shifts          model.Catalog         `yaml:"shifts,omitempty"`
	OptionalShifts  []OptionalShiftConfig `yaml:"optionalShifts,omitempty" validate:"dive"`
	Closures        []ClosureConfig       `yaml:"closures,omitempty" validate:"dive"`
	Terms           TermsConfig           `yaml:"terms,omitempty"`
	Holidays        HolidaysConfig        `yaml:"holidays,omitempty"`
	Overtime        OvertimeConfig        `yaml:"overtime"`
	Server          ServerConfig          `yaml:"server"`
	Metrics         MetricsConfig         `yaml:"metrics,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns a configuration carrying the default constraint values
func Default() Config {
	d := engine.DefaultConfig()

	optional := make([]OptionalShiftConfig, 0, len(d.OptionalShifts))
	for _, o := range d.OptionalShifts {
		weekdays := make([]string, len(o.Weekdays))
		for i, wd := range o.Weekdays {
			weekdays[i] = wd.String()
		}
		optional = append(optional, OptionalShiftConfig{ShiftKey: o.ShiftKey, Weekdays: weekdays})
	}

	return Config{
		Constraints: ConstraintsConfig{
			MinRestHours:                     d.MinRestHours,
			MaxConsecutiveDays:               d.MaxConsecutiveDays,
			MinijobMaxEarning:                d.MinijobMaxEarning,
			MinijobHourlyWage:                d.MinijobHourlyWage,
			FloatPrecisionOffset:             d.FloatPrecisionOffset,
			WerkstudentMaxHours:              d.WerkstudentMaxHours,
			DefaultMonthTolerance:            d.DefaultMonthTolerance,
			MonthToleranceByRole:             d.MonthToleranceByRole,
			HourConservationEnabled:          d.HourConservationEnabled,
			HourConservationThreshold:        d.HourConservationThreshold,
			BaseEligibilityWeight:            d.BaseEligibilityWeight,
			HourBalanceWeight:                d.HourBalanceWeight,
			TypicalDaysPenalty:               d.TypicalDaysPenalty,
			ExtraDayPenalty:                  d.ExtraDayPenalty,
			MaxExtraDaysAllowed:              d.MaxExtraDaysAllowed,
			MaxExtraDaysHardCap:              d.MaxExtraDaysHardCap,
			StudentMaxWeekdayDaytimeShifts:   d.StudentMaxWeekdayDaytimeShifts,
			StudentWeekdayDaytimePenalty:     d.StudentWeekdayDaytimePenalty,
			StudentWeekdayDaytimePenaltyPref: d.StudentWeekdayDaytimePenaltyPref,
			StudentWeekendBonus:              d.StudentWeekendBonus,
			StudentEveningBonus:              d.StudentEveningBonus,
			LectureBreakDaytimeRelief:        d.LectureBreakDaytimeRelief,
			WeekendPreferenceBonus:           d.WeekendPreferenceBonus,
			WeekendFairnessPenalty:           d.WeekendFairnessPenalty,
			WeekendHistoryWeight:             d.WeekendHistoryWeight,
			MaxWeekendsWithoutPreference:     d.MaxWeekendsWithoutPreference,
			MinWeekendsPerMonth:              d.MinWeekendsPerMonth,
			FairnessOverrideThreshold:        d.FairnessOverrideThreshold,
			PreferredShiftBonus:              d.PreferredShiftBonus,
			EveningStart:                     d.EveningStart,
			HolidayAllowedRoles:              d.HolidayAllowedRoles,
		},
		StaffSheetTab:  "Staff",
		Shifts:         model.DefaultCatalog(),
		OptionalShifts: optional,
		Overtime:       OvertimeConfig{ThresholdByRole: d.OvertimeThresholdByRole},
		Server:         ServerConfig{Addr: ":8080"},
	}
}

// Load loads and validates the configuration from shiftplan_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads and validates the configuration with an environment suffix
// For example, env="test" will look for "shiftplan_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the rrule syntax and the
// cross-field rules of the engine configuration
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, closure := range cfg.Closures {
		if _, err := rrule.StrToRRule(closure.RRule); err != nil {
			return fmt.Errorf("invalid rrule in closures[%d]: %w", i, err)
		}
	}
	for i, rule := range cfg.Holidays.Recurring {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in holidays.recurring[%d]: %w", i, err)
		}
	}

	// The month only bounds closure expansion, any month will do here
	engineCfg, err := cfg.EngineConfig(calendar.Month{Year: 2000, Month: time.January})
	if err != nil {
		return err
	}
	if err := engineCfg.Validate(); err != nil {
		return err
	}
	if err := engineCfg.ValidateCatalog(cfg.Catalog()); err != nil {
		return err
	}

	return nil
}

// Catalog returns the configured shift catalog, or the default one
func (c *Config) Catalog() model.Catalog {
	if len(c.Shifts) == 0 {
		return model.DefaultCatalog()
	}
	return c.Shifts
}

// HolidayProvider builds the holiday provider from the holidays section
func (c *Config) HolidayProvider() (*holidays.Provider, error) {
	return holidays.NewProvider(c.Holidays.Fixed, c.Holidays.Recurring)
}

// EngineConfig maps the YAML configuration onto the immutable engine
// configuration. Closure rules are expanded for the given month.
func (c *Config) EngineConfig(month calendar.Month) (engine.Config, error) {
	k := c.Constraints
	cfg := engine.Config{
		MinRestHours:                     k.MinRestHours,
		MaxConsecutiveDays:               k.MaxConsecutiveDays,
		MinijobMaxEarning:                k.MinijobMaxEarning,
		MinijobHourlyWage:                k.MinijobHourlyWage,
		FloatPrecisionOffset:             k.FloatPrecisionOffset,
		WerkstudentMaxHours:              k.WerkstudentMaxHours,
		DefaultMonthTolerance:            k.DefaultMonthTolerance,
		MonthToleranceByRole:             k.MonthToleranceByRole,
		HourConservationEnabled:          k.HourConservationEnabled,
		HourConservationThreshold:        k.HourConservationThreshold,
		BaseEligibilityWeight:            k.BaseEligibilityWeight,
		HourBalanceWeight:                k.HourBalanceWeight,
		TypicalDaysPenalty:               k.TypicalDaysPenalty,
		ExtraDayPenalty:                  k.ExtraDayPenalty,
		MaxExtraDaysAllowed:              k.MaxExtraDaysAllowed,
		MaxExtraDaysHardCap:              k.MaxExtraDaysHardCap,
		StudentMaxWeekdayDaytimeShifts:   k.StudentMaxWeekdayDaytimeShifts,
		StudentWeekdayDaytimePenalty:     k.StudentWeekdayDaytimePenalty,
		StudentWeekdayDaytimePenaltyPref: k.StudentWeekdayDaytimePenaltyPref,
		StudentWeekendBonus:              k.StudentWeekendBonus,
		StudentEveningBonus:              k.StudentEveningBonus,
		LectureBreakDaytimeRelief:        k.LectureBreakDaytimeRelief,
		WeekendPreferenceBonus:           k.WeekendPreferenceBonus,
		WeekendFairnessPenalty:           k.WeekendFairnessPenalty,
		WeekendHistoryWeight:             k.WeekendHistoryWeight,
		MaxWeekendsWithoutPreference:     k.MaxWeekendsWithoutPreference,
		MinWeekendsPerMonth:              k.MinWeekendsPerMonth,
		FairnessOverrideThreshold:        k.FairnessOverrideThreshold,
		PreferredShiftBonus:              k.PreferredShiftBonus,
		EveningStart:                     k.EveningStart,
		HolidayAllowedRoles:              k.HolidayAllowedRoles,
		OvertimeThresholdByRole:          c.Overtime.ThresholdByRole,
	}

	for i, o := range c.OptionalShifts {
		optional := engine.OptionalShift{ShiftKey: o.ShiftKey}
		for _, name := range o.Weekdays {
			wd, err := model.ParseWeekday(name)
			if err != nil {
				return engine.Config{}, fmt.Errorf("%w: optionalShifts[%d]: %w", engine.ErrInvalidConfig, i, err)
			}
			optional.Weekdays = append(optional.Weekdays, wd)
		}
		cfg.OptionalShifts = append(cfg.OptionalShifts, optional)
	}

	from := month.First()
	to := from.AddDate(0, 1, -1)
	for i, cl := range c.Closures {
		appliesTo, err := holidays.DateMatcher(cl.RRule, from, to)
		if err != nil {
			return engine.Config{}, fmt.Errorf("%w: closures[%d]: %w", engine.ErrInvalidConfig, i, err)
		}
		cfg.Closures = append(cfg.Closures, engine.Closure{ShiftKeys: cl.ShiftKeys, AppliesTo: appliesTo})
	}

	terms, err := c.Terms.toTermConfig()
	if err != nil {
		return engine.Config{}, fmt.Errorf("%w: terms: %w", engine.ErrInvalidConfig, err)
	}
	cfg.Terms = terms

	return cfg, nil
}

func (t TermsConfig) toTermConfig() (calendar.TermConfig, error) {
	if t.Winter == nil && t.Summer == nil {
		return calendar.DefaultTerms(), nil
	}
	var tc calendar.TermConfig
	var err error
	if t.Winter != nil {
		if tc.Winter, err = t.Winter.toTermWindow(); err != nil {
			return calendar.TermConfig{}, fmt.Errorf("winter: %w", err)
		}
	}
	if t.Summer != nil {
		if tc.Summer, err = t.Summer.toTermWindow(); err != nil {
			return calendar.TermConfig{}, fmt.Errorf("summer: %w", err)
		}
	}
	return tc, nil
}

func (w TermWindowConfig) toTermWindow() (calendar.TermWindow, error) {
	var tw calendar.TermWindow
	var err error
	if tw.Term.Start, err = calendar.ParseMonthDay(w.Start); err != nil {
		return tw, err
	}
	if tw.Term.End, err = calendar.ParseMonthDay(w.End); err != nil {
		return tw, err
	}
	if w.LecturesStart == "" && w.LecturesEnd == "" {
		return tw, nil
	}
	if tw.Lectures.Start, err = calendar.ParseMonthDay(w.LecturesStart); err != nil {
		return tw, err
	}
	if tw.Lectures.End, err = calendar.ParseMonthDay(w.LecturesEnd); err != nil {
		return tw, err
	}
	return tw, nil
}

// findConfigFile searches for the config file in the current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "shiftplan_config.yaml"
	if env != "" {
		configFileName = "shiftplan_config." + env + ".yaml"
	}
	return locate(configFileName)
}

// locate returns the path of fileName in the current directory, falling back to the home directory
func locate(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", fileName)
}
