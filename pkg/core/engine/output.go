package engine

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// StaffSummary holds the per-staff totals of a finished month
type StaffSummary struct {
	TargetHours   float64 `json:"targetHours"`
	TotalHours    float64 `json:"totalHours"`
	WeekendCount  int     `json:"weekendCount"`
	ExtraDays     int     `json:"extraDays"`
	Streak        int     `json:"consecutiveDays"`
	OvertimeHours float64 `json:"overtimeHours"`
	// OverTarget is informational: hours above target but within tolerance
	OverTarget bool `json:"overTarget"`
}

// ScheduleMonth is the result of a run. It becomes immutable once the
// overtime reconciler has processed it.
type ScheduleMonth struct {
	Month string         `json:"month"`
	Days  []calendar.Day `json:"days"`

	// ShiftOrder is the catalog order of shift keys, for rendering
	ShiftOrder []string `json:"shiftOrder"`

	// Grid maps date -> shift key -> assignment (nil = unfilled)
	Grid    map[string]map[string]*Assignment `json:"grid"`
	Gaps    []Gap                             `json:"gaps"`
	Summary map[string]StaffSummary           `json:"summary"`
}

// NewScheduleMonth freezes the state into the output shape
func NewScheduleMonth(state *State) *ScheduleMonth {
	sm := &ScheduleMonth{
		Month:      state.Month.Key(),
		Days:       state.Days,
		ShiftOrder: make([]string, 0, len(state.Catalog)),
		Grid:       state.Grid,
		Gaps:       state.Gaps,
		Summary:    make(map[string]StaffSummary, len(state.Staff)),
	}
	for _, shift := range state.Catalog {
		sm.ShiftOrder = append(sm.ShiftOrder, shift.Key)
	}
	for _, ss := range state.Staff {
		sm.Summary[ss.ID()] = StaffSummary{
			TargetHours:  ss.Target(),
			TotalHours:   ss.Hours,
			WeekendCount: ss.WeekendCount,
			ExtraDays:    ss.ExtraDays,
			Streak:       ss.Streak,
			OverTarget:   ss.Hours > ss.Target()+state.Config.FloatPrecisionOffset,
		}
	}
	return sm
}

// Assignments returns every filled slot ordered by date, then shift order
func (sm *ScheduleMonth) Assignments() []*Assignment {
	order := make(map[string]int, len(sm.ShiftOrder))
	for i, key := range sm.ShiftOrder {
		order[key] = i
	}

	var out []*Assignment
	for _, shifts := range sm.Grid {
		for _, a := range shifts {
			if a != nil {
				out = append(out, a)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return order[out[i].ShiftKey] < order[out[j].ShiftKey]
	})
	return out
}

// AssignmentsFor returns the staff member's assignments in chronological order
func (sm *ScheduleMonth) AssignmentsFor(staffID string) []*Assignment {
	var out []*Assignment
	for _, a := range sm.Assignments() {
		if a.StaffID == staffID {
			out = append(out, a)
		}
	}
	return out
}

// SlotCount returns the number of slots in the grid
func (sm *ScheduleMonth) SlotCount() int {
	n := 0
	for _, shifts := range sm.Grid {
		n += len(shifts)
	}
	return n
}

// Encode returns the canonical JSON form. Map keys are sorted, so equal
// schedules encode to identical bytes.
func (sm *ScheduleMonth) Encode() ([]byte, error) {
	data, err := json.Marshal(sm)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schedule: %w", err)
	}
	return data, nil
}

// Fingerprint returns an xxh3 hash of the canonical JSON form
func (sm *ScheduleMonth) Fingerprint() (string, error) {
	data, err := sm.Encode()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxh3.Hash(data)), nil
}

// DecodeScheduleMonth parses a schedule produced by Encode
func DecodeScheduleMonth(data []byte) (*ScheduleMonth, error) {
	var sm ScheduleMonth
	if err := json.Unmarshal(data, &sm); err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}
	for i := range sm.Days {
		t, err := time.Parse(model.DateLayout, sm.Days[i].Date)
		if err != nil {
			return nil, fmt.Errorf("failed to decode schedule day %q: %w", sm.Days[i].Date, err)
		}
		sm.Days[i].Time = t
	}
	return &sm, nil
}
