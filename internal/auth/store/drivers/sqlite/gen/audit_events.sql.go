package gen

import (
	"context"
)

const countAuditEventsByKind = `-- name: CountAuditEventsByKind :one
SELECT COUNT(*) FROM audit_events
WHERE kind = ? AND created_at >= ?
`

type CountAuditEventsByKindParams struct {
	Kind      string
	CreatedAt int64
}

func (q *Queries) CountAuditEventsByKind(ctx context.Context, arg CountAuditEventsByKindParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countAuditEventsByKind, arg.Kind, arg.CreatedAt)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createAuditEvent = `-- name: CreateAuditEvent :exec
INSERT INTO audit_events (
    id, kind, user_id, provider, reason, token_fingerprint, request_id, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateAuditEventParams struct {
	ID               string
	Kind             string
	UserID           string
	Provider         string
	Reason           string
	TokenFingerprint string
	RequestID        string
	CreatedAt        int64
}

func (q *Queries) CreateAuditEvent(ctx context.Context, arg CreateAuditEventParams) error {
	_, err := q.db.ExecContext(ctx, createAuditEvent,
		arg.ID,
		arg.Kind,
		arg.UserID,
		arg.Provider,
		arg.Reason,
		arg.TokenFingerprint,
		arg.RequestID,
		arg.CreatedAt,
	)
	return err
}

const deleteAuditEventsBefore = `-- name: DeleteAuditEventsBefore :execrows
DELETE FROM audit_events WHERE created_at < ?
`

func (q *Queries) DeleteAuditEventsBefore(ctx context.Context, createdAt int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAuditEventsBefore, createdAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
