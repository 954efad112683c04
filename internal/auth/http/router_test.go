package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/directory"
	"github.com/aussiebroadwan/passport/internal/auth/domain"
	authhttp "github.com/aussiebroadwan/passport/internal/auth/http"
	"github.com/aussiebroadwan/passport/internal/auth/service"
	"github.com/aussiebroadwan/passport/internal/auth/store"
	"github.com/aussiebroadwan/passport/pkg/authsdk"
	"github.com/aussiebroadwan/passport/pkg/httpx"
	"github.com/aussiebroadwan/passport/pkg/slogx"
	"github.com/stretchr/testify/require"
)

// fakeEngine records its inputs and returns canned results.
type fakeEngine struct {
	loginReq domain.LoginRequest
	reauth   service.ReauthKey
	err      error
}

func (f *fakeEngine) Login(_ context.Context, req domain.LoginRequest) (domain.TokenPair, error) {
	f.loginReq = req
	if f.err != nil {
		return domain.TokenPair{}, f.err
	}
	return domain.TokenPair{AccessToken: "access-" + req.Identifier, RefreshToken: "refresh", TokenType: "Bearer"}, nil
}

func (f *fakeEngine) ReAuthenticate(_ context.Context, key service.ReauthKey) (domain.TokenPair, error) {
	f.reauth = key
	if f.err != nil {
		return domain.TokenPair{}, f.err
	}
	return domain.TokenPair{AccessToken: "fresh", RefreshToken: "refresh", TokenType: "Bearer"}, nil
}

type fakeStore struct{ pingErr error }

func (fakeStore) AuditEvents() store.AuditEvents { return nil }
func (fakeStore) ApplyMigrations() error         { return nil }
func (fakeStore) Close() error                   { return nil }
func (s fakeStore) Ping(context.Context) error   { return s.pingErr }

type fakeDirectory struct {
	directory.Client
	pingErr error
}

func (d fakeDirectory) Ping(context.Context) error { return d.pingErr }

func newRouter(t *testing.T, engine authhttp.CredentialEngine, st store.Store, dir directory.Client) *authhttp.Router {
	t.Helper()

	r := authhttp.NewRouter("test", st, dir, slogx.Discard())
	r.Engine = engine
	r.ApplyRoutes()
	return r
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) authsdk.APIResponse[json.RawMessage] {
	t.Helper()

	var env authsdk.APIResponse[json.RawMessage]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		engine := &fakeEngine{}
		r := newRouter(t, engine, fakeStore{}, fakeDirectory{})

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"type":"apple","identifier":"xyz"}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		rec := do(r, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		require.NotEmpty(t, rec.Header().Get(slogx.RequestIDHeader))
		require.JSONEq(t, `{
			"status": "success",
			"data": {"token_type": "Bearer", "authorization": "access-xyz"},
			"code": null,
			"message": "login succeeded"
		}`, rec.Body.String())
		require.Equal(t, domain.LoginRequest{Provider: domain.ProviderApple, Identifier: "xyz"}, engine.loginReq)
		require.NotContains(t, rec.Body.String(), "refresh")
	})

	t.Run("passes type and identifier through untouched", func(t *testing.T) {
		engine := &fakeEngine{}
		r := newRouter(t, engine, fakeStore{}, fakeDirectory{})

		do(r, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"type":" APPLE ","identifier":" xyz "}`)))
		require.Equal(t, domain.LoginRequest{Provider: " APPLE ", Identifier: " xyz "}, engine.loginReq)
	})

	t.Run("bad body", func(t *testing.T) {
		r := newRouter(t, &fakeEngine{}, fakeStore{}, fakeDirectory{})

		for _, body := range []string{``, `{`, `[]`} {
			rec := do(r, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))
			require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
			require.Equal(t, 400, *decode(t, rec).Code)
		}
	})

	t.Run("wrong content type", func(t *testing.T) {
		r := newRouter(t, &fakeEngine{}, fakeStore{}, fakeDirectory{})

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`type=apple`))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		require.Equal(t, http.StatusBadRequest, do(r, req).Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		r := newRouter(t, &fakeEngine{}, fakeStore{}, fakeDirectory{})
		require.Equal(t, http.StatusMethodNotAllowed, do(r, httptest.NewRequest(http.MethodGet, "/login", nil)).Code)
	})
}

func TestEngineErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      error
		httpCode int
		code     int
	}{
		{err: service.ErrInvalidParameter, httpCode: http.StatusBadRequest, code: 400},
		{err: service.ErrUnknownUser, httpCode: http.StatusNotFound, code: 401},
		{err: service.ErrExpiredRefreshToken, httpCode: http.StatusUnauthorized, code: 402},
		{err: service.ErrInvalidToken, httpCode: http.StatusUnauthorized, code: 403},
		{err: service.ErrPersistenceFailed, httpCode: http.StatusInternalServerError, code: 501},
		{err: service.ErrUpstreamUnavailable, httpCode: http.StatusServiceUnavailable, code: 503},
		{err: errors.New("something else"), httpCode: http.StatusInternalServerError, code: 500},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()

			r := newRouter(t, &fakeEngine{err: fmt.Errorf("wrapped: %w", tt.err)}, fakeStore{}, fakeDirectory{})
			rec := do(r, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"type":"apple","identifier":"x"}`)))

			require.Equal(t, tt.httpCode, rec.Code)
			env := decode(t, rec)
			require.Equal(t, authsdk.StatusError, env.Status)
			require.Equal(t, tt.code, *env.Code)
			require.Equal(t, "null", string(env.Data))
		})
	}
}

func TestTokens(t *testing.T) {
	t.Parallel()

	t.Run("passes bearer token as expired access token", func(t *testing.T) {
		engine := &fakeEngine{}
		r := newRouter(t, engine, fakeStore{}, fakeDirectory{})

		req := httptest.NewRequest(http.MethodGet, "/tokens", nil)
		req.Header.Set("Authorization", "Bearer old.jwt.token")
		rec := do(r, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, service.ByExpiredAccessToken{Token: "old.jwt.token"}, engine.reauth)

		env := decode(t, rec)
		require.Equal(t, authsdk.TokenCreated.Message, env.Message)

		var token authsdk.TokenResponse
		require.NoError(t, json.Unmarshal(env.Data, &token))
		require.Equal(t, "fresh", token.Authorization)
	})

	t.Run("missing bearer", func(t *testing.T) {
		engine := &fakeEngine{}
		r := newRouter(t, engine, fakeStore{}, fakeDirectory{})

		rec := do(r, httptest.NewRequest(http.MethodGet, "/tokens", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Nil(t, engine.reauth)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		r := newRouter(t, &fakeEngine{err: service.ErrExpiredRefreshToken}, fakeStore{}, fakeDirectory{})

		req := httptest.NewRequest(http.MethodGet, "/tokens", nil)
		req.Header.Set("Authorization", "Bearer old")
		rec := do(r, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, 402, *decode(t, rec).Code)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	r := newRouter(t, &fakeEngine{}, fakeStore{}, fakeDirectory{})
	rec := do(r, httptest.NewRequest(http.MethodPost, "/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.Equal(t, authsdk.StatusSuccess, env.Status)
	require.Equal(t, authsdk.LogoutOK.Message, env.Message)
}

func TestLoginRateLimit(t *testing.T) {
	t.Parallel()

	r := authhttp.NewRouter("test", fakeStore{}, fakeDirectory{}, slogx.Discard())
	r.Engine = &fakeEngine{}
	r.LoginLimit = httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	r.ApplyRoutes()

	login := func(identifier string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"type":"apple","identifier":"`+identifier+`"}`))
		req.RemoteAddr = "10.0.0.1:1234"
		return do(r, req)
	}

	require.Equal(t, http.StatusOK, login("a").Code)

	rec := login("a")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, 429, *decode(t, rec).Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	require.Equal(t, http.StatusOK, login("b").Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("livez", func(t *testing.T) {
		r := newRouter(t, &fakeEngine{}, fakeStore{}, fakeDirectory{})
		rec := do(r, httptest.NewRequest(http.MethodGet, "/livez", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var health authsdk.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
		require.Equal(t, "ok", health.Status)
		require.Equal(t, "test", health.Version)
	})

	t.Run("readyz ok", func(t *testing.T) {
		r := newRouter(t, &fakeEngine{}, fakeStore{}, fakeDirectory{})
		rec := do(r, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var health authsdk.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
		require.Equal(t, &authsdk.HealthChecks{Database: "ok", Directory: "ok"}, health.Checks)
	})

	t.Run("readyz degraded", func(t *testing.T) {
		r := newRouter(t, &fakeEngine{}, fakeStore{}, fakeDirectory{pingErr: directory.ErrUnavailable})
		rec := do(r, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var health authsdk.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
		require.Equal(t, "degraded", health.Status)
		require.Equal(t, "ok", health.Checks.Database)
		require.Contains(t, health.Checks.Directory, "unavailable")
	})
}
