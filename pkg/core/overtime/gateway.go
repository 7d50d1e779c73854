package overtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// Notifier tells a staff member that a consent request is waiting for them
type Notifier interface {
	NotifyConsentRequest(ctx context.Context, request db.ConsentRequest) error
}

// StoreGateway is the Gateway backed by the consent request table.
// Requests start in ConsentRequested and are advanced by RecordDecision.
type StoreGateway struct {
	store    db.ConsentStore
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewStoreGateway creates a gateway over the consent store. notifier may be nil.
func NewStoreGateway(store db.ConsentStore, notifier Notifier, logger *zap.Logger) *StoreGateway {
	return &StoreGateway{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// HasConsent returns true if the latest request for the staff member and date was consented to
func (g *StoreGateway) HasConsent(ctx context.Context, staffID, date string) (bool, error) {
	req, err := g.find(ctx, staffID, date)
	if err != nil {
		return false, err
	}
	return req != nil && ConsentStatus(req.Decision) == ConsentGiven, nil
}

// RequestConsent raises a consent request. An open request for the same staff
// member and date is reused instead of raising a second one.
func (g *StoreGateway) RequestConsent(ctx context.Context, staffID, date, shiftKey string) (string, error) {
	existing, err := g.find(ctx, staffID, date)
	if err != nil {
		return "", err
	}
	if existing != nil && ConsentStatus(existing.Status) == ConsentRequested {
		g.logger.Debug("Reusing open consent request",
			zap.String("request_id", existing.ID),
			zap.String("staff_id", staffID),
			zap.String("date", date))
		return existing.ID, nil
	}

	now := g.now().UTC()
	req := db.ConsentRequest{
		ID:          uuid.New().String(),
		StaffID:     staffID,
		Date:        date,
		ShiftKey:    shiftKey,
		Status:      string(ConsentRequested),
		RequestedAt: now,
		UpdatedAt:   now,
	}
	if err := g.store.InsertConsentRequest(ctx, &req); err != nil {
		return "", fmt.Errorf("failed to insert consent request: %w", err)
	}

	g.logger.Info("Consent request raised",
		zap.String("request_id", req.ID),
		zap.String("staff_id", staffID),
		zap.String("date", date),
		zap.String("shift", shiftKey))

	if g.notifier != nil {
		if err := g.notifier.NotifyConsentRequest(ctx, req); err != nil {
			g.logger.Warn("Failed to notify staff of consent request",
				zap.String("request_id", req.ID),
				zap.Error(err))
		}
	}

	return req.ID, nil
}

// RecordDecision advances a consent request to the given status
func (g *StoreGateway) RecordDecision(ctx context.Context, requestID string, to ConsentStatus) (*db.ConsentRequest, error) {
	requests, err := g.store.GetConsentRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consent requests: %w", err)
	}
	latest, err := db.LatestConsentRequests(requests)
	if err != nil {
		return nil, err
	}

	var req *db.ConsentRequest
	for i := range latest {
		if latest[i].ID == requestID {
			req = &latest[i]
			break
		}
	}
	if req == nil {
		return nil, fmt.Errorf("consent request %s: %w", requestID, db.ErrNotFound)
	}

	from := ConsentStatus(req.Status)
	if err := Transition(from, to); err != nil {
		return nil, err
	}

	decision := Decision(from, to)

	now := g.now().UTC()
	if err := g.store.UpdateConsentRequest(ctx, requestID, string(to), string(decision), now); err != nil {
		return nil, fmt.Errorf("failed to update consent request: %w", err)
	}

	g.logger.Info("Consent request updated",
		zap.String("request_id", requestID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	req.Status = string(to)
	req.Decision = string(decision)
	req.UpdatedAt = now
	return req, nil
}

func (g *StoreGateway) find(ctx context.Context, staffID, date string) (*db.ConsentRequest, error) {
	requests, err := g.store.GetConsentRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consent requests: %w", err)
	}
	latest, err := db.LatestConsentRequests(requests)
	if err != nil {
		return nil, err
	}
	return db.FindConsentRequest(latest, staffID, date), nil
}
