package engine

// Criterion defines the interface for scheduling rules.
// A criterion can veto candidates, contribute to their score, and audit the finished schedule.
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// IsEligible determines if the staff member may take the slot
	// Returns false if the assignment would violate a hard constraint
	// This acts as a veto - if ANY criterion returns false, the candidate is excluded
	IsEligible(state *State, staff *StaffState, slot *Slot) bool

	// Score returns this criterion's contribution to the candidate's ranking
	// The value is multiplied by Weight and added to the base eligibility weight
	// Return 0 if this criterion doesn't affect ranking
	Score(state *State, staff *StaffState, slot *Slot) float64

	// Weight returns the multiplier applied to Score
	Weight() float64

	// ValidateSchedule checks the finished schedule against this criterion's hard rules
	// Returns a slice of violations (empty if all valid)
	ValidateSchedule(state *State) []ViolationError
}
