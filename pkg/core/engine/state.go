package engine

import (
	"sort"
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// StaffState holds the running counters of one staff member during a run
type StaffState struct {
	// Staff is the frozen snapshot (read-only)
	Staff *model.Staff

	Hours        float64
	WeekendCount int
	ExtraDays    int

	// Streak is the number of consecutive worked days up to and including the last closed day
	Streak int

	// WeekHours and WeekDays are keyed by ISO week ("2025-W45")
	WeekHours map[string]float64
	WeekDays  map[string]int

	WeekdayDaytimeCount int

	// LastShiftEnd is the end of the latest committed shift (zero if none)
	LastShiftEnd time.Time

	DatesWorked map[string]bool

	// Shifts lists the committed slots in chronological order
	Shifts []*Slot
}

func (s *StaffState) ID() string {
	return s.Staff.ID
}

// Target returns the monthly hour target
func (s *StaffState) Target() float64 {
	return s.Staff.MonthlyTargetHours
}

// WorksOn returns true if the staff member already holds a shift on the date
func (s *StaffState) WorksOn(date string) bool {
	return s.DatesWorked[date]
}

// IsExtraDay returns true if working another day in the week goes beyond the typical pattern
func (s *StaffState) IsExtraDay(weekKey string) bool {
	typical := s.Staff.TypicalWorkdays
	return typical > 0 && s.WeekDays[weekKey]+1 > typical
}

// State is the mutable schedule under construction. The engine owns it
// exclusively for the duration of a run.
type State struct {
	Month   calendar.Month
	Config  Config
	Catalog model.Catalog
	Days    []calendar.Day

	// Slots per day, sorted in fill order
	Slots [][]*Slot

	// Grid maps date -> shift key -> assignment (nil = unfilled)
	Grid map[string]map[string]*Assignment

	// Staff sorted by ascending ID
	Staff     []*StaffState
	staffByID map[string]*StaffState

	Gaps []Gap

	// criticalHoursFrom[i] is the total critical slot hours on days i..end
	criticalHoursFrom []float64
}

// NewState creates an empty schedule for the given days and staff snapshot
func NewState(month calendar.Month, cfg Config, catalog model.Catalog, days []calendar.Day, staff []model.Staff) *State {
	state := &State{
		Month:     month,
		Config:    cfg,
		Catalog:   catalog,
		Days:      days,
		Grid:      make(map[string]map[string]*Assignment, len(days)),
		staffByID: make(map[string]*StaffState, len(staff)),
		Gaps:      []Gap{},
	}

	for i := range staff {
		member := staff[i]
		ss := &StaffState{
			Staff:       &member,
			Streak:      member.History.ConsecutiveDaysAtStart,
			WeekHours:   make(map[string]float64),
			WeekDays:    make(map[string]int),
			DatesWorked: make(map[string]bool),
		}
		if member.History.LastShiftEnd != nil {
			ss.LastShiftEnd = *member.History.LastShiftEnd
		}
		if len(days) > 0 && member.History.CarryOverWeekHours > 0 {
			ss.WeekHours[calendar.ISOWeekKey(days[0].Time)] = member.History.CarryOverWeekHours
		}
		state.Staff = append(state.Staff, ss)
		state.staffByID[member.ID] = ss
	}
	sort.Slice(state.Staff, func(i, j int) bool {
		return state.Staff[i].ID() < state.Staff[j].ID()
	})

	state.Slots = make([][]*Slot, len(days))
	state.criticalHoursFrom = make([]float64, len(days)+1)
	for i, day := range days {
		state.Slots[i] = buildDaySlots(i, day, cfg, catalog)
		state.Grid[day.Date] = make(map[string]*Assignment, len(state.Slots[i]))
		for _, slot := range state.Slots[i] {
			state.Grid[day.Date][slot.Shift.Key] = nil
		}
	}
	for i := len(days) - 1; i >= 0; i-- {
		hours := 0.0
		for _, slot := range state.Slots[i] {
			if slot.Priority == PriorityCritical && !slot.Closed {
				hours += slot.Hours()
			}
		}
		state.criticalHoursFrom[i] = state.criticalHoursFrom[i+1] + hours
	}

	return state
}

// buildDaySlots creates the slots of one day: all shifts of the day's
// category, critical before optional, catalog order within a class
func buildDaySlots(dayIndex int, day calendar.Day, cfg Config, catalog model.Catalog) []*Slot {
	shifts := catalog.ForCategory(day.Category())
	slots := make([]*Slot, 0, len(shifts))
	for _, shift := range shifts {
		priority := PriorityCritical
		if cfg.IsOptional(shift.Key, day.Weekday) {
			priority = PriorityOptional
		}
		start, end := shift.Window(day.Time)
		slots = append(slots, &Slot{
			DayIndex: dayIndex,
			Day:      day,
			Shift:    shift,
			Priority: priority,
			Closed:   cfg.IsClosed(shift.Key, day.Time),
			Start:    start,
			End:      end,
		})
	}
	// Stable sort keeps catalog order within a priority class
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Priority == PriorityCritical && slots[j].Priority == PriorityOptional
	})
	return slots
}

// StaffByID returns the running state of a staff member, or nil
func (s *State) StaffByID(id string) *StaffState {
	return s.staffByID[id]
}

// IsWeekdayDaytime returns true for weekday-category shifts that start before the evening
func (s *State) IsWeekdayDaytime(slot *Slot) bool {
	return slot.Shift.Category == model.CategoryWeekday && !slot.Shift.IsEvening(s.Config.EveningStart)
}

// FairnessOverride reports whether a staff member is so far behind their
// expected progress towards the monthly target that fairness penalties
// should be lifted for them
func (s *State) FairnessOverride(staff *StaffState, slot *Slot) bool {
	target := staff.Target()
	if target <= 0 || len(s.Days) == 0 {
		return false
	}
	expected := target * float64(slot.DayIndex+1) / float64(len(s.Days))
	return (expected-staff.Hours)/target > s.Config.FairnessOverrideThreshold
}

// RemainingCriticalHours returns the critical hours on the days after dayIndex
func (s *State) RemainingCriticalHours(dayIndex int) float64 {
	if dayIndex+1 >= len(s.criticalHoursFrom) {
		return 0
	}
	return s.criticalHoursFrom[dayIndex+1]
}

// AggregateSlack is the total remaining hour budget of all staff minus the
// critical hours still to fill after dayIndex
func (s *State) AggregateSlack(dayIndex int) float64 {
	budget := 0.0
	for _, ss := range s.Staff {
		budget += max(ss.Target()+s.Config.Tolerance(ss.Staff.Role)-ss.Hours, 0)
	}
	return budget - s.RemainingCriticalHours(dayIndex)
}

// Commit records an assignment and updates the staff counters
func (s *State) Commit(slot *Slot, staff *StaffState) *Assignment {
	assignment := &Assignment{
		Date:     slot.Day.Date,
		ShiftKey: slot.Shift.Key,
		StaffID:  staff.ID(),
		Hours:    slot.Hours(),
		Status:   StatusAssigned,
	}
	s.Grid[slot.Day.Date][slot.Shift.Key] = assignment

	week := slot.WeekKey()
	if staff.IsExtraDay(week) {
		staff.ExtraDays++
	}
	staff.Hours += slot.Hours()
	staff.WeekHours[week] += slot.Hours()
	staff.WeekDays[week]++
	if slot.IsWeekend() {
		staff.WeekendCount++
	}
	if s.IsWeekdayDaytime(slot) {
		staff.WeekdayDaytimeCount++
	}
	if slot.End.After(staff.LastShiftEnd) {
		staff.LastShiftEnd = slot.End
	}
	staff.DatesWorked[slot.Day.Date] = true
	staff.Shifts = append(staff.Shifts, slot)

	return assignment
}

// RecordGap marks a slot as unfilled
func (s *State) RecordGap(slot *Slot, reasons []string) {
	s.Gaps = append(s.Gaps, Gap{
		Date:     slot.Day.Date,
		ShiftKey: slot.Shift.Key,
		Priority: slot.Priority,
		Reasons:  reasons,
	})
}

// CloseDay recomputes consecutive-day streaks once every slot of the day is processed
func (s *State) CloseDay(dayIndex int) {
	date := s.Days[dayIndex].Date
	for _, ss := range s.Staff {
		if ss.DatesWorked[date] {
			ss.Streak++
		} else {
			ss.Streak = 0
		}
	}
}
