package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(database.Close)
	return database
}

func TestOpen_CreatesDirectoryAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scheduler.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.UpsertStaff(context.Background(), []model.Staff{
		{ID: "anna", Name: "Anna", Role: model.RolePermanent, MonthlyTargetHours: 150},
	}))
	first.Close()

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	staff, err := second.ListStaff(context.Background())
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "Anna", staff[0].Name)
}

func TestStaff_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	lastEnd := time.Date(2025, 10, 31, 21, 0, 0, 0, time.UTC)
	staff := []model.Staff{
		{ID: "ben", Name: "Ben", Role: model.RoleStudent, MonthlyTargetHours: 40, PrefersWeekends: true},
		{ID: "anna", Name: "Anna", Email: "anna@example.com", Role: model.RolePermanent, MonthlyTargetHours: 150,
			TypicalWorkdays: 5,
			Vacations:       []model.DateRange{{Start: "2025-11-10", End: "2025-11-14"}},
			History:         model.StaffHistory{ConsecutiveDaysAtStart: 3, LastShiftEnd: &lastEnd}},
	}
	require.NoError(t, database.UpsertStaff(ctx, staff))

	got, err := database.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "anna", got[0].ID)
	assert.Equal(t, model.RolePermanent, got[0].Role)
	assert.Equal(t, 5, got[0].TypicalWorkdays)
	assert.Equal(t, staff[1].Vacations, got[0].Vacations)
	require.NotNil(t, got[0].History.LastShiftEnd)
	assert.True(t, lastEnd.Equal(*got[0].History.LastShiftEnd))
	assert.True(t, got[1].PrefersWeekends)

	// Upsert replaces the existing record
	staff[0].MonthlyTargetHours = 50
	require.NoError(t, database.UpsertStaff(ctx, staff[:1]))
	got, err = database.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 50.0, got[1].MonthlyTargetHours)
}

func TestSchedule_SaveReplaceAndFinalize(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	_, err := database.GetSchedule(ctx, "2025-11")
	assert.ErrorIs(t, err, db.ErrNotFound)

	generated := time.Date(2025, 10, 20, 9, 30, 0, 0, time.UTC)
	require.NoError(t, database.SaveSchedule(ctx, &db.Schedule{
		ID: "s1", Month: "2025-11", Fingerprint: "aaaa", Data: []byte(`{"month":"2025-11"}`), GeneratedAt: generated,
	}))
	require.NoError(t, database.SaveSchedule(ctx, &db.Schedule{
		ID: "s2", Month: "2025-11", Fingerprint: "bbbb", Data: []byte(`{"month":"2025-11","v":2}`), GeneratedAt: generated.Add(time.Hour),
	}))

	got, err := database.GetSchedule(ctx, "2025-11")
	require.NoError(t, err)
	assert.Equal(t, "s2", got.ID)
	assert.Equal(t, "bbbb", got.Fingerprint)
	assert.Equal(t, `{"month":"2025-11","v":2}`, string(got.Data))
	assert.True(t, generated.Add(time.Hour).Equal(got.GeneratedAt))
	assert.False(t, got.Finalized)
	assert.Nil(t, got.FinalizedAt)

	finalizedAt := generated.Add(48 * time.Hour)
	require.NoError(t, database.FinalizeSchedule(ctx, "2025-11", finalizedAt))

	got, err = database.GetSchedule(ctx, "2025-11")
	require.NoError(t, err)
	assert.True(t, got.Finalized)
	require.NotNil(t, got.FinalizedAt)
	assert.True(t, finalizedAt.Equal(*got.FinalizedAt))

	err = database.SaveSchedule(ctx, &db.Schedule{ID: "s3", Month: "2025-11", Fingerprint: "cccc", Data: []byte(`{}`), GeneratedAt: generated})
	assert.ErrorIs(t, err, db.ErrFinalized)

	err = database.FinalizeSchedule(ctx, "2025-11", finalizedAt)
	assert.ErrorIs(t, err, db.ErrNotFound, "already finalized")
	err = database.FinalizeSchedule(ctx, "2025-12", finalizedAt)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestConsentRequests_InsertAndUpdate(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	requested := time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, database.InsertConsentRequest(ctx, &db.ConsentRequest{
		ID: "r1", StaffID: "anna", Date: "2025-11-06", ShiftKey: "early",
		Status: "requested", RequestedAt: requested, UpdatedAt: requested,
	}))

	decided := requested.Add(2 * time.Hour)
	require.NoError(t, database.UpdateConsentRequest(ctx, "r1", "consented", "consented", decided))

	requests, err := database.GetConsentRequests(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "2025-11-06", requests[0].Date)
	assert.Equal(t, "consented", requests[0].Status)
	assert.Equal(t, "consented", requests[0].Decision)
	assert.True(t, decided.Equal(requests[0].UpdatedAt))
	assert.True(t, requested.Equal(requests[0].RequestedAt))

	err = database.UpdateConsentRequest(ctx, "missing", "declined", "declined", decided)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestAuditLog_InsertionOrderPerMonth(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	at := time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC)
	for i, msg := range []string{"generated", "consent requested", "finalized"} {
		require.NoError(t, database.InsertAuditEntry(ctx, &db.AuditEntry{
			ID: "e" + string(rune('c'-i)), Month: "2025-11", Message: msg, CreatedAt: at,
		}))
	}
	require.NoError(t, database.InsertAuditEntry(ctx, &db.AuditEntry{ID: "x", Month: "2025-12", Message: "other", CreatedAt: at}))

	entries, err := database.GetAuditEntries(ctx, "2025-11")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "generated", entries[0].Message)
	assert.Equal(t, "consent requested", entries[1].Message)
	assert.Equal(t, "finalized", entries[2].Message)
}
