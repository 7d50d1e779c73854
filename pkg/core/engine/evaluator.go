package engine

import "sort"

// Names of the checks built into the evaluator, reported in gap reasons
const (
	ReasonOneShiftPerDay   = "OneShiftPerDay"
	ReasonHourConservation = "HourConservation"
	ReasonNoStaff          = "NoStaff"
)

// Evaluator composes criteria into eligibility and scoring decisions.
// The built-in invariants always veto ahead of the composed criteria.
type Evaluator struct {
	criteria []Criterion
}

// NewEvaluator creates an evaluator over the given criteria
func NewEvaluator(criteria []Criterion) *Evaluator {
	return &Evaluator{criteria: criteria}
}

// Criteria returns the built-in invariants followed by the composed criteria
func (e *Evaluator) Criteria() []Criterion {
	return append(append([]Criterion(nil), invariants...), e.criteria...)
}

// IsEligible returns true if no built-in check and no criterion vetoes the candidate
func (e *Evaluator) IsEligible(state *State, staff *StaffState, slot *Slot) bool {
	if slot.Closed || staff.WorksOn(slot.Day.Date) {
		return false
	}
	for _, criterion := range invariants {
		if !criterion.IsEligible(state, staff, slot) {
			return false
		}
	}
	for _, criterion := range e.criteria {
		if !criterion.IsEligible(state, staff, slot) {
			return false
		}
	}
	return true
}

// Score returns the base eligibility weight plus every weighted criterion score.
// Only meaningful for eligible candidates.
func (e *Evaluator) Score(state *State, staff *StaffState, slot *Slot) float64 {
	total := state.Config.BaseEligibilityWeight
	for _, criterion := range e.criteria {
		total += criterion.Score(state, staff, slot) * criterion.Weight()
	}
	return total
}

// Explain returns the names of every check that vetoes the candidate
func (e *Evaluator) Explain(state *State, staff *StaffState, slot *Slot) []string {
	var reasons []string
	if staff.WorksOn(slot.Day.Date) {
		reasons = append(reasons, ReasonOneShiftPerDay)
	}
	for _, criterion := range e.Criteria() {
		if !criterion.IsEligible(state, staff, slot) {
			reasons = append(reasons, criterion.Name())
		}
	}
	return reasons
}

// explainGap collects the distinct veto reasons across all staff for an unfilled slot
func (e *Evaluator) explainGap(state *State, slot *Slot, conserved bool) []string {
	seen := make(map[string]bool)
	for _, staff := range state.Staff {
		for _, reason := range e.Explain(state, staff, slot) {
			seen[reason] = true
		}
	}
	if conserved {
		seen[ReasonHourConservation] = true
	}
	if len(state.Staff) == 0 {
		seen[ReasonNoStaff] = true
	}

	reasons := make([]string, 0, len(seen))
	for reason := range seen {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	return reasons
}
