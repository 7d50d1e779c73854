package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

type mockAuditStore struct {
	entries   []db.AuditEntry
	insertErr error
}

func (m *mockAuditStore) InsertAuditEntry(_ context.Context, entry *db.AuditEntry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditStore) GetAuditEntries(_ context.Context, month string) ([]db.AuditEntry, error) {
	var out []db.AuditEntry
	for _, e := range m.entries {
		if e.Month == month {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordingSink struct {
	messages []string
	err      error
}

func (r *recordingSink) Append(_ context.Context, message string) error {
	r.messages = append(r.messages, message)
	return r.err
}

func TestStoreSink_Append(t *testing.T) {
	store := &mockAuditStore{}
	sink := NewStoreSink(store, "2025-11")
	fixed := time.Date(2025, 10, 20, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	sink.now = func() time.Time { return fixed }

	require.NoError(t, sink.Append(context.Background(), "schedule generated"))

	require.Len(t, store.entries, 1)
	entry := store.entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "2025-11", entry.Month)
	assert.Equal(t, "schedule generated", entry.Message)
	assert.Equal(t, time.UTC, entry.CreatedAt.Location())
	assert.True(t, fixed.Equal(entry.CreatedAt))
}

func TestStoreSink_AppendError(t *testing.T) {
	store := &mockAuditStore{insertErr: errors.New("disk full")}
	err := NewStoreSink(store, "2025-11").Append(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestMulti_ContinuesAfterFailure(t *testing.T) {
	failing := &recordingSink{err: errors.New("boom")}
	ok := &recordingSink{}
	sinks := Multi{failing, ok, &LogSink{Logger: zap.NewNop(), Month: "2025-11"}}

	err := sinks.Append(context.Background(), "finalized")

	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"finalized"}, failing.messages)
	assert.Equal(t, []string{"finalized"}, ok.messages)
}
