package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/domain"
)

// LoadAuditEvent reads one event back by id. It returns sql.ErrNoRows when
// the event does not exist.
func (s *Store) LoadAuditEvent(ctx context.Context, id string) (domain.AuditEvent, error) {
	var (
		ev        domain.AuditEvent
		kind      string
		provider  string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, user_id, provider, reason, token_fingerprint, request_id, created_at
		FROM audit_events WHERE id = ?`, id,
	).Scan(&ev.ID, &kind, &ev.UserID, &provider, &ev.Reason, &ev.TokenFingerprint, &ev.RequestID, &createdAt)
	if err != nil {
		return domain.AuditEvent{}, err
	}

	ev.Kind = domain.AuditKind(kind)
	ev.Provider = domain.ProviderKind(provider)
	ev.CreatedAt = time.UnixMilli(createdAt).UTC()
	return ev, nil
}
