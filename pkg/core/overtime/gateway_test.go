package overtime

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

// mockConsentStore keeps consent requests in memory
type mockConsentStore struct {
	requests  []db.ConsentRequest
	insertErr error
}

func (m *mockConsentStore) GetConsentRequests(ctx context.Context) ([]db.ConsentRequest, error) {
	return m.requests, nil
}

func (m *mockConsentStore) InsertConsentRequest(ctx context.Context, request *db.ConsentRequest) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.requests = append(m.requests, *request)
	return nil
}

func (m *mockConsentStore) UpdateConsentRequest(ctx context.Context, id, status, decision string, at time.Time) error {
	for i := range m.requests {
		if m.requests[i].ID == id {
			m.requests[i].Status = status
			m.requests[i].Decision = decision
			m.requests[i].UpdatedAt = at
			return nil
		}
	}
	return db.ErrNotFound
}

type mockNotifier struct {
	notified []db.ConsentRequest
	err      error
}

func (m *mockNotifier) NotifyConsentRequest(ctx context.Context, request db.ConsentRequest) error {
	m.notified = append(m.notified, request)
	return m.err
}

func newTestGateway(store *mockConsentStore, notifier Notifier) *StoreGateway {
	g := NewStoreGateway(store, notifier, zap.NewNop())
	clock := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	g.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return g
}

func TestStoreGateway_RequestConsent(t *testing.T) {
	store := &mockConsentStore{}
	notifier := &mockNotifier{}
	g := newTestGateway(store, notifier)
	ctx := context.Background()

	id, err := g.RequestConsent(ctx, "perm", "2025-11-06", "early")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Len(t, store.requests, 1)
	assert.Equal(t, string(ConsentRequested), store.requests[0].Status)
	assert.Equal(t, "early", store.requests[0].ShiftKey)
	require.Len(t, notifier.notified, 1)
	assert.Equal(t, id, notifier.notified[0].ID)

	// An open request is reused
	again, err := g.RequestConsent(ctx, "perm", "2025-11-06", "early")
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Len(t, store.requests, 1)
	assert.Len(t, notifier.notified, 1)
}

func TestStoreGateway_NotifierFailureIsNotFatal(t *testing.T) {
	store := &mockConsentStore{}
	g := newTestGateway(store, &mockNotifier{err: errors.New("quota exceeded")})

	id, err := g.RequestConsent(context.Background(), "perm", "2025-11-06", "early")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Len(t, store.requests, 1)
}

func TestStoreGateway_InsertFailure(t *testing.T) {
	g := newTestGateway(&mockConsentStore{insertErr: errors.New("disk full")}, nil)

	_, err := g.RequestConsent(context.Background(), "perm", "2025-11-06", "early")
	assert.ErrorContains(t, err, "disk full")
}

func TestStoreGateway_DecisionLifecycle(t *testing.T) {
	store := &mockConsentStore{}
	g := newTestGateway(store, nil)
	ctx := context.Background()

	id, err := g.RequestConsent(ctx, "perm", "2025-11-06", "early")
	require.NoError(t, err)

	consent, err := g.HasConsent(ctx, "perm", "2025-11-06")
	require.NoError(t, err)
	assert.False(t, consent)

	req, err := g.RecordDecision(ctx, id, ConsentGiven)
	require.NoError(t, err)
	assert.Equal(t, string(ConsentGiven), req.Status)

	consent, err = g.HasConsent(ctx, "perm", "2025-11-06")
	require.NoError(t, err)
	assert.True(t, consent)

	req, err = g.RecordDecision(ctx, id, ConsentCompleted)
	require.NoError(t, err)
	assert.Equal(t, string(ConsentCompleted), req.Status)
	assert.Equal(t, string(ConsentGiven), req.Decision)

	// Consent survives completion
	consent, err = g.HasConsent(ctx, "perm", "2025-11-06")
	require.NoError(t, err)
	assert.True(t, consent)

	_, err = g.RecordDecision(ctx, id, ConsentDeclined)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStoreGateway_DeclinedRequestIsRaisedAgain(t *testing.T) {
	store := &mockConsentStore{}
	g := newTestGateway(store, nil)
	ctx := context.Background()

	first, err := g.RequestConsent(ctx, "perm", "2025-11-06", "early")
	require.NoError(t, err)
	_, err = g.RecordDecision(ctx, first, ConsentDeclined)
	require.NoError(t, err)

	consent, err := g.HasConsent(ctx, "perm", "2025-11-06")
	require.NoError(t, err)
	assert.False(t, consent)

	second, err := g.RequestConsent(ctx, "perm", "2025-11-06", "early")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Len(t, store.requests, 2)
}

func TestStoreGateway_RecordDecisionUnknownRequest(t *testing.T) {
	g := newTestGateway(&mockConsentStore{}, nil)

	_, err := g.RecordDecision(context.Background(), "missing", ConsentGiven)
	assert.ErrorIs(t, err, db.ErrNotFound)
}
