package db

import (
	"fmt"
	"sort"
)

// LatestConsentRequests reduces the request history to the most recently
// updated request per (staff, date). Two records with the same ID and the same
// update time are a data integrity violation.
func LatestConsentRequests(requests []ConsentRequest) ([]ConsentRequest, error) {
	byID := make(map[string]ConsentRequest, len(requests))
	for _, req := range requests {
		existing, exists := byID[req.ID]
		if !exists {
			byID[req.ID] = req
			continue
		}
		if existing.UpdatedAt.Equal(req.UpdatedAt) {
			return nil, fmt.Errorf("duplicate consent request %s with the same update time", req.ID)
		}
		if req.UpdatedAt.After(existing.UpdatedAt) {
			byID[req.ID] = req
		}
	}

	latest := make(map[string]ConsentRequest, len(byID))
	for _, req := range byID {
		key := req.StaffID + "|" + req.Date
		existing, exists := latest[key]
		if !exists || req.RequestedAt.After(existing.RequestedAt) ||
			(req.RequestedAt.Equal(existing.RequestedAt) && req.ID > existing.ID) {
			latest[key] = req
		}
	}

	result := make([]ConsentRequest, 0, len(latest))
	for _, req := range latest {
		result = append(result, req)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].StaffID < result[j].StaffID
	})
	return result, nil
}

// FindConsentRequest returns the latest request for a staff member on a date, or nil
func FindConsentRequest(requests []ConsentRequest, staffID, date string) *ConsentRequest {
	var found *ConsentRequest
	for i := range requests {
		req := &requests[i]
		if req.StaffID != staffID || req.Date != date {
			continue
		}
		if found == nil || req.RequestedAt.After(found.RequestedAt) {
			found = req
		}
	}
	return found
}
