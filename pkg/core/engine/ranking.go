package engine

import "sort"

// Candidate is an eligible staff member with their score for a slot
type Candidate struct {
	Staff *StaffState
	Score float64
}

// rankCandidates sorts candidates by descending score.
// Equal scores are broken by ascending staff ID (byte order), so the result
// never depends on input order.
func rankCandidates(candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Staff.ID() < candidates[j].Staff.ID()
	})
}
