package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/directory"
	"github.com/aussiebroadwan/passport/internal/auth/domain"
	"github.com/aussiebroadwan/passport/pkg/cryptox"
	"github.com/aussiebroadwan/passport/pkg/idx"
	"github.com/aussiebroadwan/passport/pkg/jwtx"
	"github.com/aussiebroadwan/passport/pkg/slogx"
)

// TokenTypeBearer is the only token type this service hands out.
const TokenTypeBearer = "Bearer"

// ReauthKey selects how ReAuthenticate finds the identity record. It is one of
// ByExpiredAccessToken, ByIdentifier or ByRefreshToken.
type ReauthKey interface {
	reauthKey()
	String() string
}

// ByExpiredAccessToken re-authenticates with an access token this service
// issued, typically after it has expired.
type ByExpiredAccessToken struct {
	Token string
}

// ByIdentifier re-authenticates with a provider identity.
type ByIdentifier struct {
	Provider   domain.ProviderKind
	Identifier string
}

// ByRefreshToken re-authenticates with the refresh token itself.
type ByRefreshToken struct {
	Token string
}

func (ByExpiredAccessToken) reauthKey() {}
func (ByIdentifier) reauthKey()         {}
func (ByRefreshToken) reauthKey()       {}

func (ByExpiredAccessToken) String() string { return "expired_access_token" }
func (ByIdentifier) String() string         { return "identifier" }
func (ByRefreshToken) String() string       { return "refresh_token" }

// EngineOptions configures a CredentialEngine.
type EngineOptions struct {
	Signer    jwtx.TokenSigner
	Directory directory.Client

	// Audit receives credential events. Nil discards them.
	Audit AuditSink

	// AllowedProviders gates login. Empty means domain.DefaultProviders.
	AllowedProviders []domain.ProviderKind

	// Clock stamps audit events. Defaults to time.Now.
	Clock func() time.Time
}

// CredentialEngine runs login and re-authentication. It holds no mutable
// state after construction and is safe for concurrent use.
type CredentialEngine struct {
	signer    jwtx.TokenSigner
	directory directory.Client
	audit     AuditSink
	allowed   map[domain.ProviderKind]struct{}
	clock     func() time.Time
}

func NewCredentialEngine(opts EngineOptions) (*CredentialEngine, error) {
	if opts.Signer == nil {
		return nil, errors.New("service: token signer is required")
	}
	if opts.Directory == nil {
		return nil, errors.New("service: directory client is required")
	}

	providers := opts.AllowedProviders
	if len(providers) == 0 {
		providers = domain.DefaultProviders
	}

	allowed := make(map[domain.ProviderKind]struct{}, len(providers))
	for _, p := range providers {
		if strings.TrimSpace(p.String()) == "" {
			return nil, errors.New("service: empty provider in allow-list")
		}
		allowed[p] = struct{}{}
	}

	e := &CredentialEngine{
		signer:    opts.Signer,
		directory: opts.Directory,
		audit:     opts.Audit,
		allowed:   allowed,
		clock:     opts.Clock,
	}
	if e.audit == nil {
		e.audit = discardAuditSink{}
	}
	if e.clock == nil {
		e.clock = time.Now
	}

	return e, nil
}

// Allows reports whether provider may be used to log in.
func (e *CredentialEngine) Allows(provider domain.ProviderKind) bool {
	_, ok := e.allowed[provider]
	return ok
}

// Login resolves the identity, issues an access and refresh token for it and
// stores the refresh token with the directory. The pair is only returned once
// the refresh token is stored.
func (e *CredentialEngine) Login(ctx context.Context, req domain.LoginRequest) (domain.TokenPair, error) {
	return e.login(ctx, req, domain.AuditLoginSucceeded, domain.AuditLoginFailed)
}

// ReAuthenticate proves the caller still holds a valid refresh token and then
// runs the login flow again for the record's provider identity.
func (e *CredentialEngine) ReAuthenticate(ctx context.Context, key ReauthKey) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx).With(slog.String("reauth_by", keyName(key)))

	rec, err := e.resolveReauth(ctx, key)
	if err != nil {
		l.Info("re-authentication rejected", slog.Any("error", err))
		return domain.TokenPair{}, err
	}

	if err := e.checkStoredRefresh(ctx, key, rec); err != nil {
		l.Info("re-authentication rejected", slog.String("user_id", rec.UserID), slog.Any("error", err))
		return domain.TokenPair{}, err
	}

	return e.login(ctx, domain.LoginRequest{
		Provider:   rec.Provider,
		Identifier: rec.Identifier,
	}, domain.AuditReauthSucceeded, domain.AuditReauthFailed)
}

func (e *CredentialEngine) login(
	ctx context.Context,
	req domain.LoginRequest,
	succeeded, failed domain.AuditKind,
) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	req, err := e.validate(req)
	if err != nil {
		e.record(ctx, domain.AuditEvent{Kind: failed, Provider: req.Provider, Reason: "invalid_parameter"})
		return domain.TokenPair{}, err
	}

	rec, err := e.directory.FindByProviderIdentity(ctx, req.Provider, req.Identifier)
	if err != nil {
		err = mapLookupError(err)
		e.record(ctx, domain.AuditEvent{Kind: failed, Provider: req.Provider, Reason: reasonOf(err)})
		return domain.TokenPair{}, err
	}

	access, err := e.signer.Issue(rec.UserID, jwtx.Access)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := e.signer.Issue(rec.UserID, jwtx.Refresh)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := e.directory.PersistRefreshToken(ctx, rec.UserID, refresh); err != nil {
		l.Error("refresh token not persisted",
			slog.String("user_id", rec.UserID),
			slog.String("token_fp", cryptox.FingerprintToken(refresh)),
			slog.Any("error", err),
		)
		e.record(ctx, domain.AuditEvent{
			Kind:             domain.AuditPersistenceFailed,
			UserID:           rec.UserID,
			Provider:         req.Provider,
			Reason:           err.Error(),
			TokenFingerprint: cryptox.FingerprintToken(refresh),
		})
		return domain.TokenPair{}, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	e.record(ctx, domain.AuditEvent{
		Kind:             succeeded,
		UserID:           rec.UserID,
		Provider:         req.Provider,
		TokenFingerprint: cryptox.FingerprintToken(refresh),
	})
	l.Info("credentials issued", slog.String("user_id", rec.UserID), slog.String("provider", req.Provider.String()))

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    e.signer.TTL(jwtx.Access),
		UserID:       rec.UserID,
	}, nil
}

// validate checks req against the allow-list. The provider must match an
// allow-list entry exactly and the identifier is passed upstream as given;
// provider identifiers are opaque.
func (e *CredentialEngine) validate(req domain.LoginRequest) (domain.LoginRequest, error) {
	if req.Provider == "" || strings.TrimSpace(req.Identifier) == "" {
		return req, fmt.Errorf("%w: type and identifier are required", ErrInvalidParameter)
	}
	if !e.Allows(req.Provider) {
		return req, fmt.Errorf("%w: provider %q is not allowed", ErrInvalidParameter, req.Provider)
	}
	return req, nil
}

// resolveReauth turns key into an identity record. Tokens are never sent to
// the directory before they pass local checks.
func (e *CredentialEngine) resolveReauth(ctx context.Context, key ReauthKey) (domain.IdentityRecord, error) {
	var (
		rec domain.IdentityRecord
		err error
	)

	switch k := key.(type) {
	case ByExpiredAccessToken:
		token := strings.TrimSpace(k.Token)
		if token == "" {
			e.record(ctx, domain.AuditEvent{Kind: domain.AuditReauthFailed, Reason: "invalid_parameter"})
			return rec, fmt.Errorf("%w: access token is required", ErrInvalidParameter)
		}

		claims, verr := e.signer.VerifyAllowExpired(token)
		if verr != nil {
			e.record(ctx, domain.AuditEvent{
				Kind:             domain.AuditTokenRejected,
				Reason:           verr.Error(),
				TokenFingerprint: cryptox.FingerprintToken(token),
			})
			return rec, fmt.Errorf("%w: %w", ErrInvalidToken, verr)
		}

		rec, err = e.directory.FindByAccessToken(ctx, token)
		if err == nil && rec.UserID != claims.Subject {
			e.record(ctx, domain.AuditEvent{
				Kind:             domain.AuditTokenRejected,
				UserID:           rec.UserID,
				Reason:           "access token subject does not match record",
				TokenFingerprint: cryptox.FingerprintToken(token),
			})
			return domain.IdentityRecord{}, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
		}

	case ByIdentifier:
		req, verr := e.validate(domain.LoginRequest{Provider: k.Provider, Identifier: k.Identifier})
		if verr != nil {
			e.record(ctx, domain.AuditEvent{Kind: domain.AuditReauthFailed, Provider: req.Provider, Reason: "invalid_parameter"})
			return rec, verr
		}
		rec, err = e.directory.FindByProviderIdentity(ctx, req.Provider, req.Identifier)
		if rec.Provider == "" {
			rec.Provider = req.Provider
		}
		if rec.Identifier == "" {
			rec.Identifier = req.Identifier
		}

	case ByRefreshToken:
		token := strings.TrimSpace(k.Token)
		if token == "" {
			e.record(ctx, domain.AuditEvent{Kind: domain.AuditReauthFailed, Reason: "invalid_parameter"})
			return rec, fmt.Errorf("%w: refresh token is required", ErrInvalidParameter)
		}
		rec, err = e.directory.FindByRefreshToken(ctx, token)

	default:
		return rec, fmt.Errorf("%w: unsupported re-authentication key %T", ErrInvalidParameter, key)
	}

	if err != nil {
		err = mapLookupError(err)
		e.record(ctx, domain.AuditEvent{Kind: domain.AuditReauthFailed, Reason: reasonOf(err)})
		return domain.IdentityRecord{}, err
	}
	return rec, nil
}

// checkStoredRefresh verifies the refresh token the directory holds for rec.
func (e *CredentialEngine) checkStoredRefresh(ctx context.Context, key ReauthKey, rec domain.IdentityRecord) error {
	stored := rec.RefreshToken
	if stored == "" {
		e.record(ctx, domain.AuditEvent{Kind: domain.AuditReauthFailed, UserID: rec.UserID, Provider: rec.Provider, Reason: "no stored refresh token"})
		return fmt.Errorf("%w: no refresh token on record", ErrExpiredRefreshToken)
	}

	if k, ok := key.(ByRefreshToken); ok {
		presented := strings.TrimSpace(k.Token)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) != 1 {
			e.record(ctx, domain.AuditEvent{
				Kind:             domain.AuditTokenRejected,
				UserID:           rec.UserID,
				Provider:         rec.Provider,
				Reason:           "refresh token does not match stored value",
				TokenFingerprint: cryptox.FingerprintToken(presented),
			})
			return fmt.Errorf("%w: refresh token superseded", ErrInvalidToken)
		}
	}

	claims, err := e.signer.Verify(stored)
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		e.record(ctx, domain.AuditEvent{
			Kind:             domain.AuditReauthFailed,
			UserID:           rec.UserID,
			Provider:         rec.Provider,
			Reason:           "refresh token expired",
			TokenFingerprint: cryptox.FingerprintToken(stored),
		})
		return fmt.Errorf("%w: %w", ErrExpiredRefreshToken, err)
	case err != nil:
		e.record(ctx, domain.AuditEvent{
			Kind:             domain.AuditTokenRejected,
			UserID:           rec.UserID,
			Provider:         rec.Provider,
			Reason:           err.Error(),
			TokenFingerprint: cryptox.FingerprintToken(stored),
		})
		return fmt.Errorf("%w: stored refresh token: %w", ErrInvalidToken, err)
	case claims.Subject != rec.UserID:
		e.record(ctx, domain.AuditEvent{
			Kind:             domain.AuditTokenRejected,
			UserID:           rec.UserID,
			Provider:         rec.Provider,
			Reason:           "refresh token subject does not match record",
			TokenFingerprint: cryptox.FingerprintToken(stored),
		})
		return fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}

	return nil
}

// record stamps ev and hands it to the audit sink. It outlives request
// cancellation so a dropped client still leaves a trail.
func (e *CredentialEngine) record(ctx context.Context, ev domain.AuditEvent) {
	now := e.clock().UTC()
	ev.ID = idx.NewAt(now).String()
	ev.CreatedAt = now
	if ev.RequestID == "" {
		ev.RequestID = slogx.RequestID(ctx)
	}

	if err := e.audit.Record(context.WithoutCancel(ctx), ev); err != nil {
		slogx.FromContext(ctx).Warn("audit record failed",
			slog.String("kind", string(ev.Kind)),
			slog.Any("error", err),
		)
	}
}

func mapLookupError(err error) error {
	if errors.Is(err, directory.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrUnknownUser, err)
	}
	return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}

func reasonOf(err error) string {
	for _, sentinel := range []error{
		ErrInvalidParameter,
		ErrUnknownUser,
		ErrUpstreamUnavailable,
		ErrExpiredRefreshToken,
		ErrInvalidToken,
		ErrPersistenceFailed,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal"
}

func keyName(key ReauthKey) string {
	if key == nil {
		return "none"
	}
	return key.String()
}
