package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

func TestApplyHistory(t *testing.T) {
	catalog := testConfig().Catalog()
	// October 2025 ends on a Friday; Nov 1 is in ISO week 2025-W44 with Oct 27-31
	prev := &engine.ScheduleMonth{
		Month:      "2025-10",
		ShiftOrder: []string{"early", "weekend-day"},
		Grid: map[string]map[string]*engine.Assignment{
			"2025-10-25": {"weekend-day": {Date: "2025-10-25", ShiftKey: "weekend-day", StaffID: "anna", Hours: 4}},
			"2025-10-29": {"early": {Date: "2025-10-29", ShiftKey: "early", StaffID: "anna", Hours: 4}},
			"2025-10-30": {"early": {Date: "2025-10-30", ShiftKey: "early", StaffID: "anna", Hours: 4}},
			"2025-10-31": {"early": {Date: "2025-10-31", ShiftKey: "early", StaffID: "anna", Hours: 4}},
		},
		Summary: map[string]engine.StaffSummary{"anna": {WeekendCount: 1}},
	}

	lastEnd := time.Date(2025, 10, 31, 22, 0, 0, 0, time.UTC)
	staff := []model.Staff{
		{ID: "anna", Role: model.RolePermanent, MonthlyTargetHours: 100},
		{ID: "ben", Role: model.RolePermanent, MonthlyTargetHours: 100},
		{ID: "cem", Role: model.RolePermanent, MonthlyTargetHours: 100, History: model.StaffHistory{LastShiftEnd: &lastEnd}},
	}

	out := applyHistory(staff, prev, catalog, calendar.Month{Year: 2025, Month: time.November})

	h := out[0].History
	assert.Equal(t, 1, h.PriorWeekendCount)
	assert.Equal(t, 3, h.ConsecutiveDaysAtStart)
	assert.Equal(t, 12.0, h.CarryOverWeekHours)
	require.NotNil(t, h.LastShiftEnd)
	assert.Equal(t, time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC), *h.LastShiftEnd)

	assert.Equal(t, model.StaffHistory{}, out[1].History, "no assignments last month")
	assert.Same(t, &lastEnd, out[2].History.LastShiftEnd, "recorded history is kept")

	assert.Equal(t, model.StaffHistory{}, staff[0].History, "input is not modified")
}

func TestApplyHistory_NoPreviousSchedule(t *testing.T) {
	staff := []model.Staff{{ID: "anna"}}
	assert.Equal(t, staff, applyHistory(staff, nil, nil, calendar.Month{Year: 2025, Month: time.November}))
}
