package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

func TestParseStaff(t *testing.T) {
	raw := [][]interface{}{
		{"Name", "ID", "Role", "Monthly target hours", "Hourly wage", "Typical workdays", "Prefers weekends", "Email"},
		{"Anna Berg", "anna", "permanent", "150", "", "5", "", "anna@example.com"},
		{"", "", "", ""},
		{"Emil", "emil", "minijob", "40", "13,50", "", "ja"},
	}

	staff, err := parseStaff(raw)
	require.NoError(t, err)
	require.Len(t, staff, 2)

	assert.Equal(t, model.Staff{
		ID: "anna", Name: "Anna Berg", Email: "anna@example.com", Role: model.RolePermanent,
		MonthlyTargetHours: 150, TypicalWorkdays: 5,
	}, staff[0])
	assert.Equal(t, model.RoleMinijob, staff[1].Role)
	assert.Equal(t, 13.5, staff[1].HourlyWage)
	assert.True(t, staff[1].PrefersWeekends)
	assert.Empty(t, staff[1].Email)
}

func TestParseStaff_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  [][]interface{}
		want string
	}{
		{"no header", nil, "no header row"},
		{"missing column", [][]interface{}{{"ID", "Name", "Role"}}, "Monthly target hours"},
		{"bad role", [][]interface{}{
			{"ID", "Name", "Role", "Monthly target hours"},
			{"x", "X", "intern", "10"},
		}, "row 2"},
		{"bad hours", [][]interface{}{
			{"ID", "Name", "Role", "Monthly target hours"},
			{"x", "X", "student", "lots"},
		}, "Monthly target hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseStaff(tt.raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
