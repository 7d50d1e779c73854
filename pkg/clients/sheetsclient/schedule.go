package sheetsclient

import (
	"context"
	"fmt"
)

const notesColumn = "Notes"

// PublishedScheduleRow is one day of a published month
type PublishedScheduleRow struct {
	Date  string   // Format: "Mon Jan 02 2006"
	Cells []string // One entry per column, in column order
}

// PublishedSchedule is a month grid ready to be written to a tab
type PublishedSchedule struct {
	Title   string   // Tab title, e.g. "November 2025"
	Columns []string // Shift labels in catalog order
	Rows    []PublishedScheduleRow
}

// valuesAPI is the subset of the client used for publishing
type valuesAPI interface {
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
	UpdateValues(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error
	CreateSheet(ctx context.Context, spreadsheetID, title string) (int64, error)
	SheetExists(ctx context.Context, spreadsheetID, title string) (bool, error)
}

// PublishSchedule writes a month to its own tab, creating the tab if needed.
// When the tab exists the grid is overwritten and the Notes column is kept,
// matched to rows by date.
func (c *Client) PublishSchedule(ctx context.Context, spreadsheetID string, schedule *PublishedSchedule) error {
	return publishSchedule(ctx, c, spreadsheetID, schedule)
}

func publishSchedule(ctx context.Context, api valuesAPI, spreadsheetID string, schedule *PublishedSchedule) error {
	if schedule.Title == "" {
		return fmt.Errorf("schedule has no tab title")
	}

	exists, err := api.SheetExists(ctx, spreadsheetID, schedule.Title)
	if err != nil {
		return err
	}

	var existing [][]interface{}
	if exists {
		existing, err = api.GetValues(ctx, spreadsheetID, fmt.Sprintf("%s!A1:ZZ", schedule.Title))
		if err != nil {
			return fmt.Errorf("failed to read existing tab data: %w", err)
		}
	} else {
		if _, err := api.CreateSheet(ctx, spreadsheetID, schedule.Title); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	values := buildScheduleValues(schedule, existingNotes(existing))

	if err := api.UpdateValues(ctx, spreadsheetID, fmt.Sprintf("%s!A1", schedule.Title), values); err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}
	return nil
}

// buildScheduleValues lays out the header and one row per day
func buildScheduleValues(schedule *PublishedSchedule, notes map[string]interface{}) [][]interface{} {
	header := []interface{}{"Date"}
	for _, col := range schedule.Columns {
		header = append(header, col)
	}
	header = append(header, notesColumn)

	values := make([][]interface{}, 0, len(schedule.Rows)+1)
	values = append(values, header)
	for _, row := range schedule.Rows {
		sheetRow := []interface{}{row.Date}
		for i := range schedule.Columns {
			if i < len(row.Cells) {
				sheetRow = append(sheetRow, row.Cells[i])
			} else {
				sheetRow = append(sheetRow, "")
			}
		}
		note, ok := notes[row.Date]
		if !ok {
			note = ""
		}
		sheetRow = append(sheetRow, note)
		values = append(values, sheetRow)
	}
	return values
}

// existingNotes maps date to the Notes cell of an existing tab
func existingNotes(existing [][]interface{}) map[string]interface{} {
	notes := make(map[string]interface{})
	if len(existing) == 0 {
		return notes
	}

	dateCol := findColumnIndex(existing[0], "Date")
	notesCol := findColumnIndex(existing[0], notesColumn)
	if dateCol == -1 || notesCol == -1 {
		return notes
	}

	for _, row := range existing[1:] {
		if dateCol >= len(row) || notesCol >= len(row) {
			continue
		}
		if date, ok := row[dateCol].(string); ok && date != "" {
			notes[date] = row[notesCol]
		}
	}
	return notes
}

// findColumnIndex finds the index of a column by its header name
func findColumnIndex(header []interface{}, columnName string) int {
	for i, cell := range header {
		if str, ok := cell.(string); ok && str == columnName {
			return i
		}
	}
	return -1
}
