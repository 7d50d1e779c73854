// Package audit records a human readable trail of schedule runs and consent
// decisions.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

// Sink receives audit messages
type Sink interface {
	Append(ctx context.Context, message string) error
}

// LogSink writes audit messages to the logger only
type LogSink struct {
	Logger *zap.Logger
	Month  string
}

func (s *LogSink) Append(_ context.Context, message string) error {
	s.Logger.Info("Audit", zap.String("month", s.Month), zap.String("message", message))
	return nil
}

// StoreSink persists audit messages for one month
type StoreSink struct {
	store db.AuditStore
	month string
	now   func() time.Time
}

// NewStoreSink creates a sink writing entries for the given month
func NewStoreSink(store db.AuditStore, month string) *StoreSink {
	return &StoreSink{store: store, month: month, now: time.Now}
}

func (s *StoreSink) Append(ctx context.Context, message string) error {
	entry := &db.AuditEntry{
		ID:        uuid.New().String(),
		Month:     s.month,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.InsertAuditEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// Multi fans a message out to every sink and returns the first error.
// Later sinks still receive the message when an earlier one fails.
type Multi []Sink

func (m Multi) Append(ctx context.Context, message string) error {
	var first error
	for _, sink := range m {
		if err := sink.Append(ctx, message); err != nil && first == nil {
			first = err
		}
	}
	return first
}
