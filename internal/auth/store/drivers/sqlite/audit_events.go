package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/domain"
	"github.com/aussiebroadwan/passport/internal/auth/store/drivers/sqlite/gen"
)

type auditEventsRepo struct {
	q *gen.Queries
}

func (r *auditEventsRepo) CreateAuditEvent(ctx context.Context, ev domain.AuditEvent) error {
	if ev.ID == "" {
		return errors.New("sqlite: audit event id is required")
	}
	if ev.CreatedAt.IsZero() {
		return errors.New("sqlite: audit event timestamp is required")
	}

	return r.q.CreateAuditEvent(ctx, gen.CreateAuditEventParams{
		ID:               ev.ID,
		Kind:             string(ev.Kind),
		UserID:           ev.UserID,
		Provider:         string(ev.Provider),
		Reason:           ev.Reason,
		TokenFingerprint: ev.TokenFingerprint,
		RequestID:        ev.RequestID,
		CreatedAt:        toMillis(ev.CreatedAt),
	})
}

func (r *auditEventsRepo) CountAuditEventsByKind(
	ctx context.Context,
	kind domain.AuditKind,
	since time.Time,
) (int64, error) {
	return r.q.CountAuditEventsByKind(ctx, gen.CountAuditEventsByKindParams{
		Kind:      string(kind),
		CreatedAt: toMillis(since),
	})
}

func (r *auditEventsRepo) DeleteAuditEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.DeleteAuditEventsBefore(ctx, toMillis(cutoff))
}
