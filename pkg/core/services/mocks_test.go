package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/clients/sheetsclient"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// mockDB is an in-memory implementation of the stores used by the services
type mockDB struct {
	staff     []model.Staff
	schedules map[string]*db.Schedule
	requests  []db.ConsentRequest
	audit     []db.AuditEntry

	listStaffErr   error
	getScheduleErr error
	saveErr        error
	upsertErr      error

	saveCalls int
}

func newMockDB(staff ...model.Staff) *mockDB {
	return &mockDB{staff: staff, schedules: make(map[string]*db.Schedule)}
}

func (m *mockDB) ListStaff(_ context.Context) ([]model.Staff, error) {
	if m.listStaffErr != nil {
		return nil, m.listStaffErr
	}
	out := make([]model.Staff, len(m.staff))
	copy(out, m.staff)
	return out, nil
}

func (m *mockDB) UpsertStaff(_ context.Context, staff []model.Staff) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	byID := make(map[string]model.Staff)
	for _, s := range m.staff {
		byID[s.ID] = s
	}
	for _, s := range staff {
		byID[s.ID] = s
	}
	m.staff = m.staff[:0]
	for _, s := range byID {
		m.staff = append(m.staff, s)
	}
	sort.Slice(m.staff, func(i, j int) bool { return m.staff[i].ID < m.staff[j].ID })
	return nil
}

func (m *mockDB) GetSchedule(_ context.Context, month string) (*db.Schedule, error) {
	if m.getScheduleErr != nil {
		return nil, m.getScheduleErr
	}
	s, ok := m.schedules[month]
	if !ok {
		return nil, fmt.Errorf("schedule %s: %w", month, db.ErrNotFound)
	}
	copied := *s
	return &copied, nil
}

func (m *mockDB) SaveSchedule(_ context.Context, schedule *db.Schedule) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	if existing, ok := m.schedules[schedule.Month]; ok && existing.Finalized {
		return fmt.Errorf("schedule %s: %w", schedule.Month, db.ErrFinalized)
	}
	copied := *schedule
	m.schedules[schedule.Month] = &copied
	return nil
}

func (m *mockDB) FinalizeSchedule(_ context.Context, month string, at time.Time) error {
	s, ok := m.schedules[month]
	if !ok || s.Finalized {
		return fmt.Errorf("schedule %s: %w", month, db.ErrNotFound)
	}
	s.Finalized = true
	s.FinalizedAt = &at
	return nil
}

func (m *mockDB) GetConsentRequests(_ context.Context) ([]db.ConsentRequest, error) {
	out := make([]db.ConsentRequest, len(m.requests))
	copy(out, m.requests)
	return out, nil
}

func (m *mockDB) InsertConsentRequest(_ context.Context, request *db.ConsentRequest) error {
	m.requests = append(m.requests, *request)
	return nil
}

func (m *mockDB) UpdateConsentRequest(_ context.Context, id, status, decision string, at time.Time) error {
	for i := range m.requests {
		if m.requests[i].ID == id {
			m.requests[i].Status = status
			m.requests[i].Decision = decision
			m.requests[i].UpdatedAt = at
			return nil
		}
	}
	return fmt.Errorf("consent request %s: %w", id, db.ErrNotFound)
}

func (m *mockDB) InsertAuditEntry(_ context.Context, entry *db.AuditEntry) error {
	m.audit = append(m.audit, *entry)
	return nil
}

func (m *mockDB) GetAuditEntries(_ context.Context, month string) ([]db.AuditEntry, error) {
	var out []db.AuditEntry
	for _, e := range m.audit {
		if e.Month == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockDB) Close() {}

var _ db.Database = (*mockDB)(nil)

type mockHolidays struct {
	dates []time.Time
	err   error
}

func (m *mockHolidays) FetchHolidaysForYear(_ context.Context, _ int) ([]time.Time, error) {
	return m.dates, m.err
}

type recordingSink struct {
	messages []string
	err      error
}

func (r *recordingSink) Append(_ context.Context, message string) error {
	r.messages = append(r.messages, message)
	return r.err
}

type recordingNotifier struct {
	requests []db.ConsentRequest
}

func (r *recordingNotifier) NotifyConsentRequest(_ context.Context, request db.ConsentRequest) error {
	r.requests = append(r.requests, request)
	return nil
}

type recordingMetrics struct {
	runs      []string
	results   [][3]int
	durations int
}

func (r *recordingMetrics) RecordRun(_ context.Context, _, outcome string) {
	r.runs = append(r.runs, outcome)
}

func (r *recordingMetrics) RecordResult(_ context.Context, _ string, assignments, gaps, pending int) {
	r.results = append(r.results, [3]int{assignments, gaps, pending})
}

func (r *recordingMetrics) RecordGenerationDuration(_ context.Context, _ time.Duration) {
	r.durations++
}

type mockPublisher struct {
	spreadsheetID string
	published     *sheetsclient.PublishedSchedule
	err           error
}

func (m *mockPublisher) PublishSchedule(_ context.Context, spreadsheetID string, schedule *sheetsclient.PublishedSchedule) error {
	m.spreadsheetID = spreadsheetID
	m.published = schedule
	return m.err
}
