// Package eventlog provides sinks for registry and discovery notifications:
// a structured-log sink for operations and a SQLite-backed append-only log
// for durable auditing.
package eventlog

import (
	"log/slog"

	"github.com/ruteri/ntt-registry-backend/interfaces"
)

// SlogSink writes every notification to a structured logger.
type SlogSink struct {
	log *slog.Logger
}

// NewSlogSink creates a sink logging at INFO level.
func NewSlogSink(log *slog.Logger) *SlogSink {
	if log == nil {
		log = slog.Default()
	}
	return &SlogSink{log: log}
}

// Publish logs the event.
func (s *SlogSink) Publish(e interfaces.Event) {
	attrs := []any{
		slog.String("event_id", e.ID),
		slog.String("kind", string(e.Kind)),
		slog.String("registry", e.Registry.String()),
		slog.String("owner", e.Owner.String()),
	}
	if e.TokenID != 0 {
		attrs = append(attrs, slog.String("token_id", e.TokenID.String()))
	}
	if !e.Recipient.IsZero() {
		attrs = append(attrs, slog.String("recipient", e.Recipient.String()))
	}
	s.log.Info("Notification", attrs...)
}
