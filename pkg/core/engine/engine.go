package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// Input is the frozen snapshot a run works on
type Input struct {
	Month    calendar.Month
	Staff    []model.Staff
	Catalog  model.Catalog
	Holidays []time.Time
	Config   Config

	// Criteria applied on top of the built-in invariants (one shift per day,
	// rest period, consecutive days, absence, minijob earnings, werkstudent hours)
	Criteria []Criterion
}

// Generate runs a single greedy pass over the month and returns the filled schedule.
//
// Days are processed chronologically; within a day critical slots come before
// optional ones, catalog order within a class. Each slot goes to the
// highest-scoring eligible candidate or is recorded as a gap. Decisions are
// never revisited.
//
// Configuration errors fail the run before any state is built. Cancellation is
// checked between days and returns no result.
func Generate(ctx context.Context, in Input) (*ScheduleMonth, error) {
	if err := in.Config.Validate(); err != nil {
		return nil, err
	}
	if err := in.Config.ValidateCatalog(in.Catalog); err != nil {
		return nil, err
	}
	if err := validateStaff(in.Staff); err != nil {
		return nil, err
	}

	days, err := calendar.Build(in.Month, in.Holidays, in.Config.Terms)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	state := NewState(in.Month, in.Config, in.Catalog, days, in.Staff)
	evaluator := NewEvaluator(in.Criteria)

	for dayIndex := range days {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, slot := range state.Slots[dayIndex] {
			fillSlot(state, evaluator, slot)
		}
		state.CloseDay(dayIndex)
	}

	if violations := ValidateSchedule(state, in.Criteria); len(violations) > 0 {
		errs := make([]error, len(violations))
		for i, v := range violations {
			errs[i] = v
		}
		return nil, fmt.Errorf("%w: %w", ErrInvariantViolated, errors.Join(errs...))
	}

	return NewScheduleMonth(state), nil
}

// fillSlot assigns the best eligible candidate to the slot or records a gap
func fillSlot(state *State, evaluator *Evaluator, slot *Slot) {
	if slot.Closed {
		return
	}

	candidates := make([]Candidate, 0, len(state.Staff))
	for _, staff := range state.Staff {
		if evaluator.IsEligible(state, staff, slot) {
			candidates = append(candidates, Candidate{Staff: staff})
		}
	}

	candidates, conserved := conserveHours(state, slot, candidates)

	if len(candidates) == 0 {
		state.RecordGap(slot, evaluator.explainGap(state, slot, conserved))
		return
	}

	for i := range candidates {
		candidates[i].Score = evaluator.Score(state, candidates[i].Staff, slot)
	}
	rankCandidates(candidates)

	state.Commit(slot, candidates[0].Staff)
}

// conserveHours defers optional slots when the month's hour budget is tight.
// Once aggregate slack drops below the threshold, a candidate is skipped if
// taking the slot plus their proportional share of the remaining critical
// hours would push them past target + tolerance.
// Returns the kept candidates and whether any were skipped.
func conserveHours(state *State, slot *Slot, candidates []Candidate) ([]Candidate, bool) {
	cfg := state.Config
	if !cfg.HourConservationEnabled || slot.Priority == PriorityCritical || len(candidates) == 0 {
		return candidates, false
	}
	if state.AggregateSlack(slot.DayIndex) >= cfg.HourConservationThreshold {
		return candidates, false
	}

	remaining := state.RemainingCriticalHours(slot.DayIndex)
	totalTarget := 0.0
	for _, ss := range state.Staff {
		totalTarget += ss.Target()
	}

	kept := candidates[:0]
	skipped := false
	for _, c := range candidates {
		share := 0.0
		if totalTarget > 0 {
			share = remaining * c.Staff.Target() / totalTarget
		}
		limit := c.Staff.Target() + cfg.Tolerance(c.Staff.Staff.Role) + cfg.FloatPrecisionOffset
		if c.Staff.Hours+slot.Hours()+share > limit {
			skipped = true
			continue
		}
		kept = append(kept, c)
	}
	return kept, skipped
}

func validateStaff(staff []model.Staff) error {
	var errs []error
	seen := make(map[string]bool, len(staff))
	for i := range staff {
		if err := staff[i].Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[staff[i].ID] {
			errs = append(errs, fmt.Errorf("duplicate staff id %q", staff[i].ID))
		}
		seen[staff[i].ID] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
