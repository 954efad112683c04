package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/passport/internal/auth/domain"
	"github.com/aussiebroadwan/passport/internal/auth/store"
	"github.com/aussiebroadwan/passport/pkg/slogx"
)

// AuditSink receives credential events. Record errors are logged by the
// engine and never change the outcome of the operation being audited.
type AuditSink interface {
	Record(ctx context.Context, ev domain.AuditEvent) error
}

// LogAuditSink writes events as structured log lines.
type LogAuditSink struct {
	Logger *slog.Logger
}

func (s LogAuditSink) Record(ctx context.Context, ev domain.AuditEvent) error {
	l := s.Logger
	if l == nil {
		l = slogx.FromContext(ctx)
	}

	level := slog.LevelInfo
	switch ev.Kind {
	case domain.AuditTokenRejected, domain.AuditPersistenceFailed:
		level = slog.LevelWarn
	}

	l.LogAttrs(ctx, level, "audit",
		slog.String("audit_id", ev.ID),
		slog.String("kind", string(ev.Kind)),
		slog.String("user_id", ev.UserID),
		slog.String("provider", ev.Provider.String()),
		slog.String("reason", ev.Reason),
		slog.String("token_fp", ev.TokenFingerprint),
		slog.String("req_id", ev.RequestID),
	)
	return nil
}

// StoreAuditSink appends events to the audit store.
type StoreAuditSink struct {
	Events store.AuditEvents
}

func (s StoreAuditSink) Record(ctx context.Context, ev domain.AuditEvent) error {
	return s.Events.CreateAuditEvent(ctx, ev)
}

// MultiAuditSink fans an event out to every sink. All sinks are attempted;
// their errors are joined.
type MultiAuditSink []AuditSink

func (m MultiAuditSink) Record(ctx context.Context, ev domain.AuditEvent) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type discardAuditSink struct{}

func (discardAuditSink) Record(context.Context, domain.AuditEvent) error { return nil }
