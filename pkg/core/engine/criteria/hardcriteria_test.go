package criteria

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

func TestAvailabilityCriterion(t *testing.T) {
	criterion := NewAvailabilityCriterion()
	state := newTestState(t, engine.DefaultConfig(), nil, Staff{
		ID: "a", Role: model.RoleStudent, MonthlyTargetHours: 40,
		Unavailable: []model.DateShift{
			{Date: "2025-11-04"},
			{Date: "2025-11-05", ShiftKey: "late"},
		},
		WeekdayPreferences: []model.WeekdayPreference{
			{Weekday: "friday", ShiftKey: "early", Level: model.PreferenceUnavailable},
			{Weekday: "thursday", Level: model.PreferencePreferred},
		},
	})
	staff := state.StaffByID("a")

	tests := []struct {
		name     string
		date     string
		shift    string
		eligible bool
	}{
		{"whole day unavailable", "2025-11-04", "early", false},
		{"whole day unavailable late", "2025-11-04", "late", false},
		{"single shift unavailable", "2025-11-05", "late", false},
		{"other shift that day", "2025-11-05", "early", true},
		{"weekday preference", "2025-11-07", "early", false},
		{"weekday preference other shift", "2025-11-07", "late", true},
		{"preferred is not a veto", "2025-11-06", "early", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.eligible, criterion.IsEligible(state, staff, slotFor(t, state, tt.date, tt.shift)))
		})
	}
}

func TestHolidayPolicyCriterion(t *testing.T) {
	holidays := []time.Time{date("2025-11-19")}
	state := newTestState(t, engine.DefaultConfig(), holidays,
		Staff{ID: "mini", Role: model.RoleMinijob, MonthlyTargetHours: 40},
		Staff{ID: "perm", Role: model.RolePermanent, MonthlyTargetHours: 160},
	)
	holiday := slotFor(t, state, "2025-11-19", "holiday")
	weekday := slotFor(t, state, "2025-11-20", "early")

	restricted := NewHolidayPolicyCriterion([]model.Role{model.RolePermanent})
	assert.False(t, restricted.IsEligible(state, state.StaffByID("mini"), holiday))
	assert.True(t, restricted.IsEligible(state, state.StaffByID("perm"), holiday))
	assert.True(t, restricted.IsEligible(state, state.StaffByID("mini"), weekday))

	open := NewHolidayPolicyCriterion(nil)
	assert.True(t, open.IsEligible(state, state.StaffByID("mini"), holiday))
}

func TestMonthToleranceCriterion(t *testing.T) {
	criterion := NewMonthToleranceCriterion(10, map[model.Role]float64{model.RoleStudent: 4}, 0.01)
	state := newTestState(t, engine.DefaultConfig(), nil,
		Staff{ID: "student", Role: model.RoleStudent, MonthlyTargetHours: 40},
		Staff{ID: "perm", Role: model.RolePermanent, MonthlyTargetHours: 40},
	)
	slot := slotFor(t, state, "2025-11-20", "early")

	student := state.StaffByID("student")
	student.Hours = 40
	assert.True(t, criterion.IsEligible(state, student, slot)) // 44 = 40 + 4
	student.Hours = 41
	assert.False(t, criterion.IsEligible(state, student, slot))

	// Falls back to the default tolerance
	perm := state.StaffByID("perm")
	perm.Hours = 46
	assert.True(t, criterion.IsEligible(state, perm, slot))
	perm.Hours = 47
	assert.False(t, criterion.IsEligible(state, perm, slot))

	assert.Empty(t, criterion.ValidateSchedule(state))
	student.Hours = 45
	perm.Hours = 51
	assert.Len(t, criterion.ValidateSchedule(state), 2)
}
