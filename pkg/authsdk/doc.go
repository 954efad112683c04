/*
Package authsdk provides a client SDK for the passport credential service and
the wire types shared with its HTTP handlers.

# Overview

The service exchanges a federated identity (a provider such as "apple" or
"kakao" plus the user's identifier there) for a short-lived access token. A
matching refresh token is kept by the user directory and is never handed to
the client. When the access token expires the client trades it in at
GET /tokens for a fresh one.

	client := authsdk.NewSDKClient("https://auth.example.com")

	token, err := client.Login(ctx, "apple", identifier)
	if errors.Is(err, authsdk.ErrNotUser) {
		// send the user to registration
	}

	// later, once token.Authorization has expired
	token, err = client.Tokens(ctx, token.Authorization)
	if errors.Is(err, authsdk.ErrExpiredRefreshToken) {
		// the session is over, log in again
	}

# Envelope

Every credential endpoint answers with the same envelope:

	{"status": "success", "data": {...}, "code": null, "message": "login succeeded"}
	{"status": "error", "data": null, "code": 401, "message": "not a registered user"}

The application code is stable and distinct for every error outcome; the HTTP
status is a coarser hint. ResponseCode lists them and is also what the
server's handlers write with.

# Error Handling

Failures from the service are returned as *APIError. Compare with errors.Is
against ErrInvalidParameter, ErrNotUser, ErrExpiredRefreshToken,
ErrInvalidToken, ErrUpstreamUnavailable, ErrPersistenceFailed,
ErrRateLimited or ErrServerError. Transport failures are returned wrapped as
ordinary errors.

# Health

GetLiveness and GetReadiness read /livez and /readyz. These endpoints return a
plain HealthResponse rather than the envelope.
*/
package authsdk
