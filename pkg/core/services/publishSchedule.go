package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/internal/config"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/clients/sheetsclient"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// Cell texts for slots without a staff member
const (
	cellUnfilled = "UNFILLED"
	cellClosed   = "closed"
)

// SchedulePublisher writes a published schedule to a spreadsheet
type SchedulePublisher interface {
	PublishSchedule(ctx context.Context, spreadsheetID string, schedule *sheetsclient.PublishedSchedule) error
}

// StaffLister lists the staff roster
type StaffLister interface {
	ListStaff(ctx context.Context) ([]model.Staff, error)
}

// PublishScheduleStore defines the database operations needed for publishing a schedule
type PublishScheduleStore interface {
	db.ScheduleStore
	StaffLister
}

// PublishSchedule renders the stored schedule of a month as a grid of staff
// names and writes it to the configured spreadsheet
func PublishSchedule(
	ctx context.Context,
	store PublishScheduleStore,
	publisher SchedulePublisher,
	cfg *config.Config,
	logger *zap.Logger,
	monthStr string,
) (*sheetsclient.PublishedSchedule, error) {
	if cfg.ScheduleSheetID == "" {
		return nil, fmt.Errorf("scheduleSheetID is not configured")
	}

	stored, err := ViewSchedule(ctx, store, logger, monthStr)
	if err != nil {
		return nil, err
	}

	published, err := RenderSchedule(ctx, store, cfg.Catalog(), stored.Schedule)
	if err != nil {
		return nil, err
	}

	logger.Debug("Publishing schedule", zap.String("tab", published.Title), zap.Int("rows", len(published.Rows)))
	if err := publisher.PublishSchedule(ctx, cfg.ScheduleSheetID, published); err != nil {
		return nil, fmt.Errorf("failed to publish schedule: %w", err)
	}

	logger.Info("Schedule published", zap.String("month", stored.Schedule.Month), zap.String("tab", published.Title))
	return published, nil
}

// RenderSchedule lays a schedule out as one row per day and one column per
// shift, naming staff by their shortest unambiguous name
func RenderSchedule(ctx context.Context, store StaffLister, catalog model.Catalog, sm *engine.ScheduleMonth) (*sheetsclient.PublishedSchedule, error) {
	staff, err := store.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff: %w", err)
	}
	return buildPublishedSchedule(sm, catalog, displayNames(staff))
}

func buildPublishedSchedule(sm *engine.ScheduleMonth, catalog model.Catalog, names map[string]string) (*sheetsclient.PublishedSchedule, error) {
	first, err := time.Parse("2006-01", sm.Month)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule month %q: %w", sm.Month, err)
	}

	published := &sheetsclient.PublishedSchedule{
		Title:   first.Format("January 2006"),
		Columns: make([]string, 0, len(sm.ShiftOrder)),
	}
	for _, key := range sm.ShiftOrder {
		label := key
		if shift, ok := catalog.Get(key); ok && shift.Label != "" {
			label = shift.Label
		}
		published.Columns = append(published.Columns, label)
	}

	gaps := make(map[string]bool, len(sm.Gaps))
	for _, g := range sm.Gaps {
		gaps[g.Date+"|"+g.ShiftKey] = true
	}

	for _, day := range sm.Days {
		date, err := time.Parse(model.DateLayout, day.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule day %q: %w", day.Date, err)
		}
		row := sheetsclient.PublishedScheduleRow{
			Date:  date.Format("Mon Jan 02 2006"),
			Cells: make([]string, len(sm.ShiftOrder)),
		}
		slots := sm.Grid[day.Date]
		for i, key := range sm.ShiftOrder {
			a, inGrid := slots[key]
			switch {
			case !inGrid:
			case a != nil:
				row.Cells[i] = assignmentCell(a, names)
			case gaps[day.Date+"|"+key]:
				row.Cells[i] = cellUnfilled
			default:
				row.Cells[i] = cellClosed
			}
		}
		published.Rows = append(published.Rows, row)
	}

	return published, nil
}

func assignmentCell(a *engine.Assignment, names map[string]string) string {
	name, ok := names[a.StaffID]
	if !ok {
		name = a.StaffID
	}
	switch a.Status {
	case engine.StatusConsentPending:
		return name + " (overtime, consent pending)"
	case engine.StatusOvertimeApproved:
		return name + " (overtime)"
	}
	return name
}

// displayNames picks the shortest unambiguous name per staff member:
// first name, then first name and last initial, then the full name.
func displayNames(staff []model.Staff) map[string]string {
	firstNameCounts := make(map[string]int)
	initialCounts := make(map[string]int)
	for _, s := range staff {
		first, initial := nameParts(s.Name)
		firstNameCounts[first]++
		if initial != "" {
			initialCounts[initial]++
		}
	}

	names := make(map[string]string, len(staff))
	for _, s := range staff {
		first, initial := nameParts(s.Name)
		switch {
		case first == "":
			names[s.ID] = s.ID
		case firstNameCounts[first] == 1:
			names[s.ID] = first
		case initial != "" && initialCounts[initial] == 1:
			names[s.ID] = initial
		default:
			names[s.ID] = strings.TrimSpace(s.Name)
		}
	}
	return names
}

// nameParts returns the first name and "First L." for a full name
func nameParts(name string) (string, string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	if len(fields) == 1 {
		return fields[0], ""
	}
	last := []rune(fields[len(fields)-1])
	return fields[0], fields[0] + " " + string(last[0]) + "."
}
