package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/domain"
	"github.com/aussiebroadwan/passport/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestLogAuditSink(t *testing.T) {
	var buf bytes.Buffer
	sink := service.LogAuditSink{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	err := sink.Record(context.Background(), domain.AuditEvent{
		ID:               "01J",
		Kind:             domain.AuditTokenRejected,
		UserID:           "42",
		TokenFingerprint: "fp",
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, `"level":"WARN"`)
	require.Contains(t, out, `"kind":"token_rejected"`)
	require.Contains(t, out, `"token_fp":"fp"`)
}

func TestStoreAuditSink(t *testing.T) {
	ctx := context.Background()
	st := newAuditStore(t)
	sink := service.StoreAuditSink{Events: st.AuditEvents()}

	ev := domain.AuditEvent{ID: "01JAUDIT", Kind: domain.AuditLoginSucceeded, UserID: "42", CreatedAt: time.Now()}
	require.NoError(t, sink.Record(ctx, ev))

	n, err := st.AuditEvents().CountAuditEventsByKind(ctx, domain.AuditLoginSucceeded, ev.CreatedAt.Add(-time.Second))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestMultiAuditSink(t *testing.T) {
	ok := &recordingSink{}
	failing := &recordingSink{err: errors.New("boom")}

	multi := service.MultiAuditSink{failing, nil, ok}
	err := multi.Record(context.Background(), domain.AuditEvent{Kind: domain.AuditLoginFailed})
	require.ErrorContains(t, err, "boom")

	require.Len(t, ok.kinds(), 1, "later sinks still receive the event")
	require.Len(t, failing.kinds(), 1)
}

func TestEngineWritesToAuditStore(t *testing.T) {
	ctx := context.Background()
	st := newAuditStore(t)
	dir := newStubDirectory(alice)

	e, err := service.NewCredentialEngine(service.EngineOptions{
		Signer:    newSigner(t, nil, secret),
		Directory: dir,
		Audit:     service.MultiAuditSink{service.StoreAuditSink{Events: st.AuditEvents()}},
	})
	require.NoError(t, err)

	_, err = e.Login(ctx, domain.LoginRequest{Provider: domain.ProviderApple, Identifier: "xyz"})
	require.NoError(t, err)

	n, err := st.AuditEvents().CountAuditEventsByKind(ctx, domain.AuditLoginSucceeded, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
