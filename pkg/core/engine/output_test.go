package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

func generated(t *testing.T) *ScheduleMonth {
	t.Helper()
	result, err := Generate(context.Background(), testInput(
		model.Staff{ID: "a", Role: model.RolePermanent, MonthlyTargetHours: 100},
		model.Staff{ID: "b", Role: model.RolePermanent, MonthlyTargetHours: 100},
	))
	require.NoError(t, err)
	return result
}

func TestScheduleMonth_Assignments(t *testing.T) {
	result := generated(t)

	assignments := result.Assignments()
	require.NotEmpty(t, assignments)
	for i := 1; i < len(assignments); i++ {
		assert.LessOrEqual(t, assignments[i-1].Date, assignments[i].Date)
	}

	// Friday: catalog order early, evening, closing
	var friday []string
	for _, a := range assignments {
		if a.Date == "2025-11-07" {
			friday = append(friday, a.ShiftKey)
		}
	}
	assert.Equal(t, []string{"early", "evening"}, friday)

	for _, a := range result.AssignmentsFor("b") {
		assert.Equal(t, "b", a.StaffID)
	}
}

func TestScheduleMonth_Summary(t *testing.T) {
	result := generated(t)

	total := 0.0
	for _, a := range result.Assignments() {
		total += a.Hours
	}
	assert.InDelta(t, total, result.Summary["a"].TotalHours+result.Summary["b"].TotalHours, 1e-9)
	assert.Equal(t, 100.0, result.Summary["a"].TargetHours)
	assert.Equal(t, "2025-11", result.Month)
	assert.Equal(t, []string{"early", "evening", "closing", "weekend"}, result.ShiftOrder)
}

func TestScheduleMonth_EncodeDecode(t *testing.T) {
	result := generated(t)

	data, err := result.Encode()
	require.NoError(t, err)

	decoded, err := DecodeScheduleMonth(data)
	require.NoError(t, err)

	assert.Equal(t, result.Month, decoded.Month)
	assert.Equal(t, result.Gaps, decoded.Gaps)
	assert.Equal(t, result.Summary, decoded.Summary)
	assert.Equal(t, result.Days[5].Time, decoded.Days[5].Time)
	assert.Equal(t, len(result.Assignments()), len(decoded.Assignments()))

	again, err := decoded.Encode()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestScheduleMonth_Fingerprint(t *testing.T) {
	first, err := generated(t).Fingerprint()
	require.NoError(t, err)
	second, err := generated(t).Fingerprint()
	require.NoError(t, err)

	assert.Len(t, first, 16)
	assert.Equal(t, first, second)

	changed := generated(t)
	changed.Grid["2025-11-03"]["early"].Status = StatusConsentPending
	third, err := changed.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestDecodeScheduleMonth_Invalid(t *testing.T) {
	_, err := DecodeScheduleMonth([]byte("{"))
	assert.Error(t, err)

	_, err = DecodeScheduleMonth([]byte(`{"days":[{"date":"not-a-date"}]}`))
	assert.Error(t, err)
}
