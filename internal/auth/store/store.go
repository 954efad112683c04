package store

import (
	"context"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/domain"
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories so each concern can be faked on its own in tests.
type Store interface {
	AuditEvents() AuditEvents

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type AuditEvents interface {
	// CreateAuditEvent appends one event. ID and CreatedAt must be set.
	CreateAuditEvent(ctx context.Context, ev domain.AuditEvent) error

	// CountAuditEventsByKind counts events of kind recorded at or after since.
	CountAuditEventsByKind(ctx context.Context, kind domain.AuditKind, since time.Time) (int64, error)

	// DeleteAuditEventsBefore removes events older than cutoff and reports how
	// many were deleted (housekeeping).
	DeleteAuditEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
