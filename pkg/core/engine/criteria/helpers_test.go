package criteria

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// November 2025 starts on a Saturday; Nov 3-9 is ISO week 45
var november = calendar.Month{Year: 2025, Month: time.November}

func testCatalog() model.Catalog {
	return model.Catalog{
		{Key: "early", Label: "Early", Start: model.MustClockTime("08:00"), End: model.MustClockTime("12:00"), Category: model.CategoryWeekday},
		{Key: "late", Label: "Late", Start: model.MustClockTime("18:00"), End: model.MustClockTime("22:00"), Category: model.CategoryWeekday},
		{Key: "weekend", Label: "Weekend", Start: model.MustClockTime("10:00"), End: model.MustClockTime("16:00"), Category: model.CategoryWeekend},
		{Key: "holiday", Label: "Holiday", Start: model.MustClockTime("10:00"), End: model.MustClockTime("14:00"), Category: model.CategoryHoliday},
	}
}

func newTestState(t *testing.T, cfg Config, holidays []time.Time, staff ...Staff) *State {
	t.Helper()
	days, err := calendar.Build(november, holidays, cfg.Terms)
	require.NoError(t, err)
	return engine.NewState(november, cfg, testCatalog(), days, staff)
}

func slotFor(t *testing.T, state *State, date, shiftKey string) *Slot {
	t.Helper()
	for _, slots := range state.Slots {
		for _, slot := range slots {
			if slot.Day.Date == date && slot.Shift.Key == shiftKey {
				return slot
			}
		}
	}
	t.Fatalf("no slot %s/%s", date, shiftKey)
	return nil
}

// work commits the slot and closes every day up to and including it
func work(t *testing.T, state *State, staffID, date, shiftKey string) {
	t.Helper()
	slot := slotFor(t, state, date, shiftKey)
	state.Commit(slot, state.StaffByID(staffID))
}

func closeDaysThrough(state *State, lastDayIndex int) {
	for i := 0; i <= lastDayIndex; i++ {
		state.CloseDay(i)
	}
}

func date(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
