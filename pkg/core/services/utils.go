package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/audit"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/calendar"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
)

// appendAudit appends a message to the sink. Failures are logged and never
// returned, the audit trail must not block scheduling.
func appendAudit(ctx context.Context, sink audit.Sink, logger *zap.Logger, message string) {
	if sink == nil {
		return
	}
	if err := sink.Append(ctx, message); err != nil {
		logger.Warn("Failed to append audit entry", zap.String("message", message), zap.Error(err))
	}
}

func parseMonth(month string) (calendar.Month, error) {
	m, err := calendar.ParseMonth(month)
	if err != nil {
		return calendar.Month{}, fmt.Errorf("%w: %w", engine.ErrInvalidInput, err)
	}
	return m, nil
}
