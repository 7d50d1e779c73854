package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Werkstudent ")
	require.NoError(t, err)
	assert.Equal(t, RoleWerkstudent, role)
	assert.True(t, role.IsStudent())
	assert.True(t, RoleStudent.IsStudent())
	assert.False(t, RoleMinijob.IsStudent())

	_, err = ParseRole("intern")
	assert.Error(t, err)
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{Start: "2025-11-03", End: "2025-11-05"}

	assert.False(t, r.Contains("2025-11-02"))
	assert.True(t, r.Contains("2025-11-03"))
	assert.True(t, r.Contains("2025-11-04"))
	assert.True(t, r.Contains("2025-11-05"))
	assert.False(t, r.Contains("2025-11-06"))
}

func TestStaff_IsAbsent(t *testing.T) {
	s := Staff{
		Vacations: []DateRange{{Start: "2025-12-22", End: "2026-01-02"}},
		Sickness:  []DateRange{{Start: "2025-11-10", End: "2025-11-10"}},
	}

	assert.True(t, s.IsAbsent("2025-12-31"))
	assert.True(t, s.IsAbsent("2026-01-02"))
	assert.True(t, s.IsAbsent("2025-11-10"))
	assert.False(t, s.IsAbsent("2025-11-11"))
}

func TestStaff_Validate(t *testing.T) {
	valid := Staff{ID: "a", Role: RolePermanent, MonthlyTargetHours: 100}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		staff Staff
	}{
		{"missing id", Staff{Role: RolePermanent}},
		{"unknown role", Staff{ID: "a", Role: "intern"}},
		{"negative target", Staff{ID: "a", Role: RolePermanent, MonthlyTargetHours: -1}},
		{"negative wage", Staff{ID: "a", Role: RoleMinijob, HourlyWage: -2}},
		{"typical days above a week", Staff{ID: "a", Role: RolePermanent, TypicalWorkdays: 8}},
		{"bad period date", Staff{ID: "a", Role: RolePermanent, Vacations: []DateRange{{Start: "2025-13-01", End: "2025-12-01"}}}},
		{"reversed period", Staff{ID: "a", Role: RolePermanent, Sickness: []DateRange{{Start: "2025-11-05", End: "2025-11-01"}}}},
		{"bad weekday", Staff{ID: "a", Role: RolePermanent, WeekdayPreferences: []WeekdayPreference{{Weekday: "someday", Level: PreferencePreferred}}}},
		{"bad level", Staff{ID: "a", Role: RolePermanent, WeekdayPreferences: []WeekdayPreference{{Weekday: "mon", Level: "maybe"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.staff.Validate())
		})
	}
}

func TestWeekdayPreference_Matches(t *testing.T) {
	p := WeekdayPreference{Weekday: "Tue", ShiftKey: "early", Level: PreferenceUnavailable}
	assert.True(t, p.Matches(time.Tuesday, "early"))
	assert.False(t, p.Matches(time.Tuesday, "closing"))
	assert.False(t, p.Matches(time.Wednesday, "early"))

	whole := WeekdayPreference{Weekday: "sunday", Level: PreferencePreferred}
	assert.True(t, whole.Matches(time.Sunday, "weekend-late"))
}

func TestStaff_YAML(t *testing.T) {
	data := `
id: s-001
name: Jana
email: jana@example.com
role: werkstudent
monthlyTargetHours: 80
typicalWorkdays: 3
vacations:
  - start: "2025-11-10"
    end: "2025-11-14"
weekdayPreferences:
  - weekday: friday
    level: unavailable
history:
  priorWeekendCount: 3
  lastShiftEnd: 2025-10-31T22:00:00Z
`
	var s Staff
	require.NoError(t, yaml.Unmarshal([]byte(data), &s))
	require.NoError(t, s.Validate())

	assert.Equal(t, RoleWerkstudent, s.Role)
	assert.Equal(t, 80.0, s.MonthlyTargetHours)
	assert.True(t, s.IsAbsent("2025-11-12"))
	assert.Equal(t, 3, s.History.PriorWeekendCount)
	require.NotNil(t, s.History.LastShiftEnd)
	assert.Equal(t, 22, s.History.LastShiftEnd.Hour())
}
