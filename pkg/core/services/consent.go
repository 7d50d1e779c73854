package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/audit"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/overtime"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// ConsentRecorder advances consent requests. overtime.StoreGateway implements it.
type ConsentRecorder interface {
	RecordDecision(ctx context.Context, requestID string, to overtime.ConsentStatus) (*db.ConsentRequest, error)
}

// ListConsentRequests returns the current consent request per staff and date.
// A non-empty month keeps only requests for dates in that month.
func ListConsentRequests(ctx context.Context, store db.ConsentStore, logger *zap.Logger, monthStr string) ([]db.ConsentRequest, error) {
	prefix := ""
	if monthStr != "" {
		month, err := parseMonth(monthStr)
		if err != nil {
			return nil, err
		}
		prefix = month.Key() + "-"
	}

	logger.Debug("Fetching consent requests")
	requests, err := store.GetConsentRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consent requests: %w", err)
	}

	latest, err := db.LatestConsentRequests(requests)
	if err != nil {
		return nil, err
	}

	filtered := make([]db.ConsentRequest, 0, len(latest))
	for _, r := range latest {
		if strings.HasPrefix(r.Date, prefix) {
			filtered = append(filtered, r)
		}
	}

	logger.Debug("Found consent requests", zap.Int("total", len(requests)), zap.Int("current", len(filtered)))
	return filtered, nil
}

// RecordConsent applies a staff member's answer to a consent request
func RecordConsent(
	ctx context.Context,
	recorder ConsentRecorder,
	sink audit.Sink,
	logger *zap.Logger,
	requestID string,
	status string,
) (*db.ConsentRequest, error) {
	to, err := overtime.ParseConsentStatus(status)
	if err != nil {
		return nil, err
	}

	request, err := recorder.RecordDecision(ctx, requestID, to)
	if err != nil {
		return nil, fmt.Errorf("failed to record consent: %w", err)
	}

	logger.Info("Consent recorded",
		zap.String("request_id", request.ID),
		zap.String("staff_id", request.StaffID),
		zap.String("date", request.Date),
		zap.String("status", request.Status))

	appendAudit(ctx, sink, logger, fmt.Sprintf("consent request %s for %s on %s is now %s",
		request.ID, request.StaffID, request.Date, request.Status))
	return request, nil
}
