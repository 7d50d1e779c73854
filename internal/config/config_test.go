package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

func minimalConfig() *Config {
	cfg := Default()
	cfg.Database = DatabaseConfig{Driver: "sqlite", DSN: "shiftplan.db"}
	return &cfg
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	assert.NoError(t, Validate(minimalConfig()))
}

func TestValidate_MissingDatabase(t *testing.T) {
	cfg := minimalConfig()
	cfg.Database = DatabaseConfig{}

	err := Validate(cfg)
	assert.ErrorContains(t, err, "validation failed")
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := minimalConfig()
	cfg.Database.Driver = "mysql"

	assert.ErrorContains(t, Validate(cfg), "validation failed")
}

func TestValidate_ConstraintRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConstraintsConfig)
	}{
		{"rest above a day", func(c *ConstraintsConfig) { c.MinRestHours = 25 }},
		{"no consecutive days", func(c *ConstraintsConfig) { c.MaxConsecutiveDays = 0 }},
		{"negative tolerance", func(c *ConstraintsConfig) { c.DefaultMonthTolerance = -1 }},
		{"negative role tolerance", func(c *ConstraintsConfig) { c.MonthToleranceByRole[model.RoleStudent] = -2 }},
		{"extra day cap above hard cap", func(c *ConstraintsConfig) { c.MaxExtraDaysAllowed = 5; c.MaxExtraDaysHardCap = 4 }},
		{"positive preference weight", func(c *ConstraintsConfig) { c.StudentWeekdayDaytimePenaltyPref = 1 }},
		{"fairness threshold above one", func(c *ConstraintsConfig) { c.FairnessOverrideThreshold = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minimalConfig()
			tt.mutate(&cfg.Constraints)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestValidate_UnknownRoleInMap(t *testing.T) {
	cfg := minimalConfig()
	cfg.Overtime.ThresholdByRole = map[model.Role]float64{"intern": 1}

	err := Validate(cfg)
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := minimalConfig()
	cfg.Closures = []ClosureConfig{
		{RRule: "FREQ=WEEKLY;BYDAY=SU", ShiftKeys: []string{"early"}},
		{RRule: "INVALID_RRULE", ShiftKeys: []string{"early"}},
	}

	err := Validate(cfg)
	assert.ErrorContains(t, err, "invalid rrule in closures[1]")

	cfg = minimalConfig()
	cfg.Holidays.Recurring = []string{"FREQ=NEVER"}
	assert.ErrorContains(t, Validate(cfg), "invalid rrule in holidays.recurring[0]")
}

func TestValidate_EmptyRRule(t *testing.T) {
	cfg := minimalConfig()
	cfg.Closures = []ClosureConfig{{RRule: "", ShiftKeys: []string{"early"}}}

	assert.ErrorContains(t, Validate(cfg), "validation failed")
}

func TestValidate_UnknownShiftKey(t *testing.T) {
	cfg := minimalConfig()
	cfg.Closures = []ClosureConfig{{RRule: "FREQ=WEEKLY;BYDAY=SU", ShiftKeys: []string{"night"}}}

	err := Validate(cfg)
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)
	assert.ErrorContains(t, err, `unknown shift "night"`)
}

func TestValidate_InvalidHolidayDate(t *testing.T) {
	cfg := minimalConfig()
	cfg.Holidays.Fixed = []string{"25.12.2025"}

	assert.ErrorContains(t, Validate(cfg), "validation failed")
}

func TestEngineConfig_MapsEverySection(t *testing.T) {
	cfg := minimalConfig()
	cfg.Constraints.MinRestHours = 12
	cfg.Constraints.HolidayAllowedRoles = []model.Role{model.RolePermanent}
	cfg.OptionalShifts = []OptionalShiftConfig{{ShiftKey: "closing", Weekdays: []string{"Fri", "saturday"}}}
	cfg.Closures = []ClosureConfig{{RRule: "FREQ=MONTHLY;BYDAY=-1FR", ShiftKeys: []string{"closing"}}}
	cfg.Overtime.ThresholdByRole = map[model.Role]float64{model.RolePermanent: 1.1}
	cfg.Terms = TermsConfig{Winter: &TermWindowConfig{Start: "10-01", End: "03-31"}}

	ec, err := cfg.EngineConfig(calendar.Month{Year: 2025, Month: time.November})
	require.NoError(t, err)
	require.NoError(t, ec.Validate())

	assert.Equal(t, 12.0, ec.MinRestHours)
	assert.False(t, ec.HolidayAllowed(model.RoleStudent))
	assert.True(t, ec.IsOptional("closing", time.Friday))
	assert.True(t, ec.IsOptional("closing", time.Saturday))
	assert.False(t, ec.IsOptional("closing", time.Monday))
	assert.True(t, ec.IsClosed("closing", time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ec.IsClosed("closing", time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1.1, ec.OvertimeRatio(model.RolePermanent))

	// Only the winter term is configured
	assert.Equal(t, calendar.SeasonNone, ec.Terms.Classify(time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)).Season)
	assert.Equal(t, calendar.SeasonWinter, ec.Terms.Classify(time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)).Season)
}

func TestEngineConfig_DefaultsMatchEngine(t *testing.T) {
	ec, err := minimalConfig().EngineConfig(calendar.Month{Year: 2025, Month: time.November})
	require.NoError(t, err)

	d := engine.DefaultConfig()
	assert.Equal(t, d.MaxConsecutiveDays, ec.MaxConsecutiveDays)
	assert.Equal(t, d.MinijobMaxEarning, ec.MinijobMaxEarning)
	assert.Equal(t, d.MonthToleranceByRole, ec.MonthToleranceByRole)
	assert.Equal(t, d.OptionalShifts, ec.OptionalShifts)
	assert.Equal(t, d.Terms, ec.Terms)
	assert.Equal(t, d.EveningStart, ec.EveningStart)
}

func TestEngineConfig_FortnightlyClosureAcrossMonths(t *testing.T) {
	cfg := minimalConfig()
	cfg.Closures = []ClosureConfig{{RRule: "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO", ShiftKeys: []string{"early"}}}

	nov, err := cfg.EngineConfig(calendar.Month{Year: 2025, Month: time.November})
	require.NoError(t, err)
	dec, err := cfg.EngineConfig(calendar.Month{Year: 2025, Month: time.December})
	require.NoError(t, err)

	day := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }
	assert.True(t, nov.IsClosed("early", day(time.November, 17)))
	assert.False(t, nov.IsClosed("early", day(time.November, 24)))
	assert.True(t, dec.IsClosed("early", day(time.December, 1)))
	assert.False(t, dec.IsClosed("early", day(time.December, 8)))
}

func TestEngineConfig_BadWeekday(t *testing.T) {
	cfg := minimalConfig()
	cfg.OptionalShifts = []OptionalShiftConfig{{ShiftKey: "evening", Weekdays: []string{"Funday"}}}

	_, err := cfg.EngineConfig(calendar.Month{Year: 2025, Month: time.November})
	assert.True(t, errors.Is(err, engine.ErrInvalidConfig))
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "shiftplan_config.yaml")

	validConfig := `
database:
  driver: postgres
  dsn: postgres://localhost/shiftplan
scheduleSheetID: "sheet123"
gmailUserID: "me"
gmailSender: "Schichtplan <plan@example.com>"
constraints:
  maxConsecutiveDays: 5
  monthToleranceByRole:
    minijob: 1
  eveningStart: "17:00"
shifts:
  - key: early
    label: Early
    start: "07:00"
    end: "13:00"
    category: weekday
  - key: late
    label: Late
    start: "13:00"
    end: "20:00"
    category: weekday
  - key: weekend
    label: Weekend
    start: "10:00"
    end: "18:00"
    category: weekend
optionalShifts:
  - shiftKey: late
    weekdays: [monday, tuesday]
closures:
  - rrule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=24"
    shiftKeys: [late]
holidays:
  fixed: ["2025-04-18"]
  recurring: ["FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"]
overtime:
  thresholdByRole:
    permanent: 1.05
server:
  addr: ":9090"
`
	require.NoError(t, os.WriteFile(configPath, []byte(validConfig), 0644))

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "sheet123", cfg.ScheduleSheetID)
	assert.Equal(t, 5, cfg.Constraints.MaxConsecutiveDays)
	assert.Equal(t, model.MustClockTime("17:00"), cfg.Constraints.EveningStart)

	// Untouched values keep their defaults
	assert.Equal(t, 11.0, cfg.Constraints.MinRestHours)
	assert.Equal(t, 1.0, cfg.Constraints.MonthToleranceByRole[model.RoleMinijob])
	assert.Equal(t, 12.0, cfg.Constraints.MonthToleranceByRole[model.RolePermanent])

	require.Len(t, cfg.Catalog(), 3)
	assert.Equal(t, 7.0, cfg.Catalog()[1].Duration())
	require.Len(t, cfg.Closures, 1)
	assert.Equal(t, ":9090", cfg.Server.Addr)

	provider, err := cfg.HolidayProvider()
	require.NoError(t, err)
	assert.NotNil(t, provider)
}

func TestLoadFromPath_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()

	missing := filepath.Join(tmpDir, "missing.yaml")
	_, err := LoadFromPath(missing)
	assert.ErrorContains(t, err, "failed to read config file")

	broken := filepath.Join(tmpDir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("database: [unclosed"), 0644))
	_, err = LoadFromPath(broken)
	assert.ErrorContains(t, err, "failed to parse config file")

	unknownShift := filepath.Join(tmpDir, "unknown_shift.yaml")
	require.NoError(t, os.WriteFile(unknownShift, []byte(`
database: {driver: sqlite, dsn: test.db}
optionalShifts:
  - shiftKey: night
    weekdays: [monday]
`), 0644))
	_, err = LoadFromPath(unknownShift)
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)
}

func TestLoadWithEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	_, err := LoadWithEnv("test")
	assert.ErrorContains(t, err, "shiftplan_config.test.yaml not found")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "shiftplan_config.test.yaml"),
		[]byte("database: {driver: sqlite, dsn: test.db}\n"), 0644))

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFromPath_ExampleConfig(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join("..", "..", "shiftplan_config.example.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Len(t, cfg.Catalog(), 8)
	assert.Equal(t, 12.0, cfg.Constraints.MonthToleranceByRole[model.RolePermanent])

	engineCfg, err := cfg.EngineConfig(calendar.Month{Year: 2025, Month: time.December})
	require.NoError(t, err)
	require.Len(t, engineCfg.Closures, 1)
	assert.True(t, engineCfg.Closures[0].AppliesTo(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)))
}
