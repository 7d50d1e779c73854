package services

import (
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// applyHistory fills the cross-month history of staff members from the
// previous month's schedule. Staff with a history already recorded in their
// profile keep it.
func applyHistory(staff []model.Staff, prev *engine.ScheduleMonth, catalog model.Catalog, month calendar.Month) []model.Staff {
	if prev == nil {
		return staff
	}

	firstWeek := calendar.ISOWeekKey(month.First())
	lastDay := month.First().AddDate(0, 0, -1)

	out := make([]model.Staff, len(staff))
	copy(out, staff)

	for i := range out {
		s := &out[i]
		if hasHistory(s.History) {
			continue
		}

		assignments := prev.AssignmentsFor(s.ID)
		if len(assignments) == 0 {
			continue
		}

		var h model.StaffHistory
		h.PriorWeekendCount = prev.Summary[s.ID].WeekendCount

		worked := make(map[string]bool, len(assignments))
		for _, a := range assignments {
			worked[a.Date] = true
			d, err := time.Parse(model.DateLayout, a.Date)
			if err != nil {
				continue
			}
			if calendar.ISOWeekKey(d) == firstWeek {
				h.CarryOverWeekHours += a.Hours
			}
		}

		for d := lastDay; worked[d.Format(model.DateLayout)]; d = d.AddDate(0, 0, -1) {
			h.ConsecutiveDaysAtStart++
		}

		last := assignments[len(assignments)-1]
		if shift, ok := catalog.Get(last.ShiftKey); ok {
			if d, err := time.Parse(model.DateLayout, last.Date); err == nil {
				_, end := shift.Window(d)
				h.LastShiftEnd = &end
			}
		}

		s.History = h
	}
	return out
}

func hasHistory(h model.StaffHistory) bool {
	return h.PriorWeekendCount != 0 || h.ConsecutiveDaysAtStart != 0 ||
		h.LastShiftEnd != nil || h.CarryOverWeekHours != 0
}
