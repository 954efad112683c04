package service

import "errors"

// Outcomes of the credential engine. Every failure returned by Login and
// ReAuthenticate wraps exactly one of these; anything else is a programming
// or configuration fault.
var (
	// ErrInvalidParameter: empty or disallowed input. Rejected before any
	// directory call.
	ErrInvalidParameter = errors.New("invalid_parameter")

	// ErrUnknownUser: the directory answered and holds no such identity.
	ErrUnknownUser = errors.New("unknown_user")

	// ErrUpstreamUnavailable: the directory could not be reached or gave an
	// answer that could not be used. Retryable by the caller.
	ErrUpstreamUnavailable = errors.New("upstream_unavailable")

	// ErrExpiredRefreshToken: the stored refresh token is missing or has
	// lapsed. The client must log in again.
	ErrExpiredRefreshToken = errors.New("expired_refresh_token")

	// ErrInvalidToken: a presented or stored token is malformed, forged or
	// does not belong to the resolved user.
	ErrInvalidToken = errors.New("invalid_token")

	// ErrPersistenceFailed: tokens were signed but the refresh token could
	// not be stored. No token is returned.
	ErrPersistenceFailed = errors.New("persistence_failed")
)
