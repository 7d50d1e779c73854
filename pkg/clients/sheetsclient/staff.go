package sheetsclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
)

// Column names in the staff roster tab. Columns not listed in
// requiredStaffFields may be missing.
const (
	fieldID              = "ID"
	fieldName            = "Name"
	fieldEmail           = "Email"
	fieldRole            = "Role"
	fieldTargetHours     = "Monthly target hours"
	fieldHourlyWage      = "Hourly wage"
	fieldTypicalWorkdays = "Typical workdays"
	fieldPrefersWeekends = "Prefers weekends"
)

var requiredStaffFields = []string{fieldID, fieldName, fieldRole, fieldTargetHours}

var optionalStaffFields = []string{fieldEmail, fieldHourlyWage, fieldTypicalWorkdays, fieldPrefersWeekends}

// ListStaff reads the staff roster from a spreadsheet tab
func (c *Client) ListStaff(ctx context.Context, spreadsheetID, tab string) ([]model.Staff, error) {
	values, err := c.GetValues(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	staff, err := parseStaff(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse staff: %w", err)
	}
	return staff, nil
}

// parseStaff converts raw spreadsheet rows into staff records
func parseStaff(raw [][]interface{}) ([]model.Staff, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	headerRow := raw[0]
	fieldIndexes := make(map[string]int)
	for _, field := range requiredStaffFields {
		index := findColumnIndex(headerRow, field)
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}
	for _, field := range optionalStaffFields {
		if index := findColumnIndex(headerRow, field); index != -1 {
			fieldIndexes[field] = index
		}
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok || index >= len(row) {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(row[index]))
	}

	staff := make([]model.Staff, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		id := getField(fieldID, row)
		// Skip empty rows
		if id == "" {
			continue
		}

		role, err := model.ParseRole(getField(fieldRole, row))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		target, err := parseNumber(getField(fieldTargetHours, row))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s: %w", i+1, fieldTargetHours, err)
		}

		wage, err := parseNumber(getField(fieldHourlyWage, row))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s: %w", i+1, fieldHourlyWage, err)
		}

		workdays := 0
		if v := getField(fieldTypicalWorkdays, row); v != "" {
			workdays, err = strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s: %w", i+1, fieldTypicalWorkdays, err)
			}
		}

		staff = append(staff, model.Staff{
			ID:                 id,
			Name:               getField(fieldName, row),
			Email:              getField(fieldEmail, row),
			Role:               role,
			MonthlyTargetHours: target,
			HourlyWage:         wage,
			TypicalWorkdays:    workdays,
			PrefersWeekends:    parseFlag(getField(fieldPrefersWeekends, row)),
		})
	}

	return staff, nil
}

// parseNumber accepts both "12.5" and "12,5"; empty is zero
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "x", "ja", "1":
		return true
	}
	return false
}
