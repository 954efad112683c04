package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/domain"
	"github.com/aussiebroadwan/passport/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/passport/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func event(kind domain.AuditKind, userID string, at time.Time) domain.AuditEvent {
	return domain.AuditEvent{
		ID:               idx.NewAt(at).String(),
		Kind:             kind,
		UserID:           userID,
		Provider:         domain.ProviderApple,
		Reason:           "test",
		TokenFingerprint: "fp",
		RequestID:        "req-1",
		CreatedAt:        at,
	}
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	s := newStore(t)
	require.EqualValues(t, 1, s.SchemaVersion())

	require.NoError(t, s.ApplyMigrations())
	require.EqualValues(t, 1, s.SchemaVersion())
	require.NoError(t, s.Ping(context.Background()))
}

func TestAuditEvents_Create(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	at := time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.UTC)
	ev := event(domain.AuditLoginSucceeded, "42", at)
	require.NoError(t, s.AuditEvents().CreateAuditEvent(ctx, ev))

	got, err := s.LoadAuditEvent(ctx, ev.ID)
	require.NoError(t, err)
	require.Equal(t, ev, got)

	_, err = s.LoadAuditEvent(ctx, "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAuditEvents_CreateValidation(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t).AuditEvents()

	require.Error(t, repo.CreateAuditEvent(ctx, domain.AuditEvent{Kind: domain.AuditLoginFailed, CreatedAt: time.Now()}))
	require.Error(t, repo.CreateAuditEvent(ctx, domain.AuditEvent{ID: "x", Kind: domain.AuditLoginFailed}))

	ev := event(domain.AuditLoginFailed, "", time.Now())
	require.NoError(t, repo.CreateAuditEvent(ctx, ev))
	require.Error(t, repo.CreateAuditEvent(ctx, ev), "duplicate id")
}

func TestAuditEvents_CountByKind(t *testing.T) {
	ctx := context.Background()
	repo := newStore(t).AuditEvents()

	now := time.Now()
	require.NoError(t, repo.CreateAuditEvent(ctx, event(domain.AuditTokenRejected, "", now.Add(-2*time.Hour))))
	require.NoError(t, repo.CreateAuditEvent(ctx, event(domain.AuditTokenRejected, "", now)))
	require.NoError(t, repo.CreateAuditEvent(ctx, event(domain.AuditLoginFailed, "", now)))

	n, err := repo.CountAuditEventsByKind(ctx, domain.AuditTokenRejected, now.Add(-time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = repo.CountAuditEventsByKind(ctx, domain.AuditTokenRejected, now.Add(-3*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestAuditEvents_DeleteBefore(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	repo := s.AuditEvents()

	now := time.Now()
	old := event(domain.AuditLoginSucceeded, "1", now.Add(-48*time.Hour))
	fresh := event(domain.AuditLoginSucceeded, "1", now)
	require.NoError(t, repo.CreateAuditEvent(ctx, old))
	require.NoError(t, repo.CreateAuditEvent(ctx, fresh))

	deleted, err := repo.DeleteAuditEventsBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	_, err = s.LoadAuditEvent(ctx, old.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)
	_, err = s.LoadAuditEvent(ctx, fresh.ID)
	require.NoError(t, err)
}
