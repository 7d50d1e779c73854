package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseClockTime(t *testing.T) {
	c, err := ParseClockTime("07:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(450), c)
	assert.Equal(t, "07:30", c.String())

	for _, bad := range []string{"7", "24:00", "12:60", "ab:cd", ""} {
		_, err := ParseClockTime(bad)
		assert.Error(t, err, bad)
	}
}

func TestShiftKind_Duration(t *testing.T) {
	day := ShiftKind{Start: MustClockTime("08:00"), End: MustClockTime("12:30")}
	assert.Equal(t, 4.5, day.Duration())

	night := ShiftKind{Start: MustClockTime("22:00"), End: MustClockTime("02:00")}
	assert.Equal(t, 4.0, night.Duration())

	start, end := night.Window(time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 11, 3, 22, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 11, 4, 2, 0, 0, 0, time.UTC), end)
}

func TestShiftKind_IsEvening(t *testing.T) {
	evening := MustClockTime("16:00")
	assert.True(t, ShiftKind{Start: MustClockTime("16:00")}.IsEvening(evening))
	assert.False(t, ShiftKind{Start: MustClockTime("12:00")}.IsEvening(evening))
}

func TestCatalog_ForCategoryKeepsOrder(t *testing.T) {
	catalog := DefaultCatalog()

	var keys []string
	for _, s := range catalog.ForCategory(CategoryWeekday) {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"early", "midday", "evening", "closing"}, keys)
	assert.Len(t, catalog.ForCategory(CategoryWeekend), 2)
	assert.Len(t, catalog.ForCategory(CategoryHoliday), 2)
	assert.Equal(t, 4, catalog.Index("weekend-early"))
	assert.Equal(t, -1, catalog.Index("night"))
}

func TestCatalog_Validate(t *testing.T) {
	assert.NoError(t, DefaultCatalog().Validate())
	assert.Error(t, Catalog{}.Validate())

	dup := Catalog{
		{Key: "a", Start: 480, End: 720, Category: CategoryWeekday},
		{Key: "a", Start: 720, End: 900, Category: CategoryWeekday},
	}
	assert.ErrorContains(t, dup.Validate(), "duplicate")

	unknown := Catalog{{Key: "a", Start: 480, End: 720, Category: "night"}}
	assert.ErrorContains(t, unknown.Validate(), "unknown category")

	zero := Catalog{{Key: "a", Start: 480, End: 480, Category: CategoryWeekday}}
	assert.ErrorContains(t, zero.Validate(), "zero duration")
}

func TestShiftKind_Encoding(t *testing.T) {
	var s ShiftKind
	require.NoError(t, yaml.Unmarshal([]byte("key: early\nlabel: Early\nstart: \"06:45\"\nend: \"11:15\"\ncategory: weekday\n"), &s))
	assert.Equal(t, MustClockTime("06:45"), s.Start)
	assert.Equal(t, 4.5, s.Duration())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"early","label":"Early","start":"06:45","end":"11:15","category":"weekday"}`, string(data))
}
