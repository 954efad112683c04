package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/passport/internal/auth/domain"
	"github.com/aussiebroadwan/passport/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// userService is a minimal in-memory user directory holding one user.
type userService struct {
	mu       sync.Mutex
	refresh  string
	persists int
}

func (u *userService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPatch && r.URL.Path == "/users":
		var body struct {
			UserID       string `json:"userId"`
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID != "42" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		u.refresh = body.RefreshToken
		u.persists++
		_, _ = w.Write([]byte(`{"status":"success","data":null}`))

	case r.Method == http.MethodGet && r.URL.Path == "/users":
		q := r.URL.Query()
		if q.Get("identifier") == "xyz" || q.Get("accessToken") != "" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "success",
				"data": map[string]any{
					"userId":       42,
					"type":         "apple",
					"identifier":   "xyz",
					"refreshToken": u.refresh,
				},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","code":404,"message":"no such user"}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (u *userService) snapshot() (string, int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.refresh, u.persists
}

func newTestApp(t *testing.T, cfg Config) *Application {
	t.Helper()

	cfg.LogLevel = "error"
	cfg.LogFormat = "text"

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.closeAll() })

	return app
}

func serve(app *Application, method, path, body, bearer string) (*httptest.ResponseRecorder, authsdk.APIResponse[authsdk.TokenResponse]) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)

	var env authsdk.APIResponse[authsdk.TokenResponse]
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestApplicationCredentialFlow(t *testing.T) {
	users := &userService{}
	srv := httptest.NewServer(users)
	t.Cleanup(srv.Close)

	cfg := validConfig()
	cfg.DirectoryURLs = []string{srv.URL}
	app := newTestApp(t, cfg)

	// Log in
	rec, env := serve(app, http.MethodPost, "/login", `{"type":"apple","identifier":"xyz"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Bearer", env.Data.TokenType)

	claims, err := app.signer.Verify(env.Data.Authorization)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)

	stored, persists := users.snapshot()
	require.NotEmpty(t, stored)
	require.Equal(t, 1, persists)
	require.NotContains(t, rec.Body.String(), stored)

	// Re-issue from the access token
	rec, env = serve(app, http.MethodGet, "/tokens", "", env.Data.Authorization)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, env.Data.Authorization)

	rotated, persists := users.snapshot()
	require.Equal(t, 2, persists)
	require.NotEqual(t, stored, rotated)

	// Unknown user
	rec, env = serve(app, http.MethodPost, "/login", `{"type":"apple","identifier":"nobody"}`, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, 401, *env.Code)

	// Disallowed provider
	rec, env = serve(app, http.MethodPost, "/login", `{"type":"google","identifier":"xyz"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, 400, *env.Code)

	// Readiness sees both the database and the directory
	rec, _ = serve(app, http.MethodGet, "/readyz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	count := func(kind domain.AuditKind) int64 {
		n, err := app.db.AuditEvents().CountAuditEventsByKind(context.Background(), kind, time.Time{})
		require.NoError(t, err)
		return n
	}
	require.EqualValues(t, 1, count(domain.AuditLoginSucceeded))
	require.EqualValues(t, 1, count(domain.AuditReauthSucceeded))
	require.EqualValues(t, 2, count(domain.AuditLoginFailed))
}

func TestApplicationRedisDiscovery(t *testing.T) {
	users := &userService{}
	srv := httptest.NewServer(users)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	_, err := mr.SAdd("discovery:user-service", srv.URL)
	require.NoError(t, err)

	cfg := validConfig()
	cfg.DiscoveryMode = DiscoveryRedis
	cfg.DirectoryURLs = nil
	cfg.RedisAddr = mr.Addr()
	app := newTestApp(t, cfg)

	rec, env := serve(app, http.MethodPost, "/login", `{"type":"apple","identifier":"xyz"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, env.Data.Authorization)

	// An emptied registry leaves the directory unreachable
	mr.Del("discovery:user-service")

	rec, env = serve(app, http.MethodPost, "/login", `{"type":"apple","identifier":"xyz"}`, "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, 503, *env.Code)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""

	_, err := New(cfg)
	require.ErrorContains(t, err, "AUTH_JWT_SECRET")
}
