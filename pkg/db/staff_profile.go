package db

import (
	"encoding/json"
	"fmt"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// staffProfile holds the nested parts of a staff record that are stored as one JSON column
type staffProfile struct {
	Vacations          []model.DateRange         `json:"vacations,omitempty"`
	Sickness           []model.DateRange         `json:"sickness,omitempty"`
	Unavailable        []model.DateShift         `json:"unavailable,omitempty"`
	WeekdayPreferences []model.WeekdayPreference `json:"weekdayPreferences,omitempty"`
	History            model.StaffHistory        `json:"history"`
}

// EncodeStaffProfile returns the JSON profile column of a staff member
func EncodeStaffProfile(s model.Staff) ([]byte, error) {
	data, err := json.Marshal(staffProfile{
		Vacations:          s.Vacations,
		Sickness:           s.Sickness,
		Unavailable:        s.Unavailable,
		WeekdayPreferences: s.WeekdayPreferences,
		History:            s.History,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile of staff %s: %w", s.ID, err)
	}
	return data, nil
}

// DecodeStaffProfile fills the nested parts of s from a JSON profile column
func DecodeStaffProfile(s *model.Staff, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var p staffProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to decode profile of staff %s: %w", s.ID, err)
	}
	s.Vacations = p.Vacations
	s.Sickness = p.Sickness
	s.Unavailable = p.Unavailable
	s.WeekdayPreferences = p.WeekdayPreferences
	s.History = p.History
	return nil
}
