package http

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/aussiebroadwan/passport/internal/auth/domain"
	"github.com/aussiebroadwan/passport/internal/auth/service"
	"github.com/aussiebroadwan/passport/pkg/authsdk"
	"github.com/aussiebroadwan/passport/pkg/httpx"
)

// maxLoginBody bounds the login request body.
const maxLoginBody = 16 << 10

// CredentialEngine is what the credential handlers need from the service
// layer.
type CredentialEngine interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.TokenPair, error)
	ReAuthenticate(ctx context.Context, key service.ReauthKey) (domain.TokenPair, error)
}

var _ CredentialEngine = (*service.CredentialEngine)(nil)

// LoginHandler serves POST /login.
type LoginHandler struct {
	Engine CredentialEngine
}

// ServeHTTP godoc
//
//	@Summary		Log In
//	@Description	Exchanges a federated identity (provider type and identifier) for a signed access token.
//	@Description	The paired refresh token is stored with the user directory and never returned.
//	@Tags			Credentials
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"type and identifier"
//	@Success		200		{object}	tokenEnvelope			"LOGIN_OK"
//	@Failure		400		{object}	errorEnvelope			"INVALID_PARAMETER"
//	@Failure		404		{object}	errorEnvelope			"NOT_USER"
//	@Failure		429		{object}	errorEnvelope			"RATE_LIMITED"
//	@Failure		500		{object}	errorEnvelope			"PERSISTENCE_FAILED or SERVER_ERROR"
//	@Failure		503		{object}	errorEnvelope			"UPSTREAM_UNAVAILABLE"
//	@Router			/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 1. Ensure the right content-type
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			authsdk.InvalidParameter.Write(w, nil)
			return
		}
	}

	// 2. Decode the body
	var req authsdk.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&req); err != nil {
		authsdk.InvalidParameter.Write(w, nil)
		return
	}

	// 3. Run the login
	pair, err := h.Engine.Login(r.Context(), domain.LoginRequest{
		Provider:   domain.ProviderKind(req.Type),
		Identifier: req.Identifier,
	})
	if err != nil {
		writeEngineError(w, r, "login", err)
		return
	}

	authsdk.LoginOK.Write(w, tokenResponse(pair))
}

// TokensHandler serves GET /tokens.
type TokensHandler struct {
	Engine CredentialEngine
}

// ServeHTTP godoc
//
//	@Summary		Re-issue Access Token
//	@Description	Trades an access token issued by this service, usually an expired one, for a fresh one.
//	@Description	The stored refresh token must still be valid.
//	@Tags			Credentials
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	tokenEnvelope	"TOKEN_CREATE_SUCCESS"
//	@Failure		400	{object}	errorEnvelope	"INVALID_PARAMETER"
//	@Failure		401	{object}	errorEnvelope	"EXPIRED_REFRESH_TOKEN or INVALID_TOKEN"
//	@Failure		404	{object}	errorEnvelope	"NOT_USER"
//	@Failure		503	{object}	errorEnvelope	"UPSTREAM_UNAVAILABLE"
//	@Router			/tokens [get].
func (h *TokensHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		authsdk.InvalidParameter.Write(w, nil)
		return
	}

	pair, err := h.Engine.ReAuthenticate(r.Context(), service.ByExpiredAccessToken{Token: token})
	if err != nil {
		writeEngineError(w, r, "token re-issue", err)
		return
	}

	authsdk.TokenCreated.Write(w, tokenResponse(pair))
}

// LogoutHandler godoc
//
//	@Summary		Log Out
//	@Description	Acknowledges a logout. Tokens are stateless and are not revoked server side.
//	@Tags			Credentials
//	@Produce		json
//	@Success		200	{object}	errorEnvelope	"LOGOUT_OK"
//	@Router			/logout [post].
func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authsdk.LogoutOK.Write(w, nil)
	}
}

func tokenResponse(pair domain.TokenPair) authsdk.TokenResponse {
	return authsdk.TokenResponse{
		TokenType:     pair.TokenType,
		Authorization: pair.AccessToken,
	}
}

// Swagger schema helpers.
type (
	tokenEnvelope = authsdk.APIResponse[authsdk.TokenResponse]
	errorEnvelope = authsdk.APIResponse[any]
)
