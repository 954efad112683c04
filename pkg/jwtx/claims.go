package jwtx

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/passport/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token TTL constants. The service always overrides these from
// config, they only exist so a zero-value options struct is still usable in
// tests.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 30 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 14 * 24 * time.Hour

	// IssuerNonceLength is the length of the random "iss" value.
	IssuerNonceLength = 10
)

// TokenClass selects which expiry policy a token is issued under. Both
// classes share the same claim layout and signing key.
type TokenClass int

const (
	// Access tokens are short-lived and authorize API calls.
	Access TokenClass = iota

	// Refresh tokens are long-lived, persisted by the user directory and used
	// to mint new access tokens.
	Refresh
)

func (c TokenClass) String() string {
	switch c {
	case Access:
		return "access"
	case Refresh:
		return "refresh"
	default:
		return fmt.Sprintf("TokenClass(%d)", int(c))
	}
}

// Claims are the claims carried by both token classes.
//
// The issuer is a random nonce regenerated on every issuance. It is cosmetic
// and must never be relied on for replay protection. The jti is only used to
// reference an issued token in logs and audit records.
type Claims struct {
	jwt.RegisteredClaims
}

// NewClaims builds claims for subject expiring ttl after now.
func NewClaims(subject string, ttl time.Duration, now time.Time) (Claims, error) {
	nonce, err := cryptox.RandomAlphanumeric(IssuerNonceLength)
	if err != nil {
		return Claims{}, fmt.Errorf("jwtx: issuer nonce: %w", err)
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    nonce,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}, nil
}

// Lifetime returns exp - iat, or zero when either claim is missing.
func (c *Claims) Lifetime() time.Duration {
	if c.IssuedAt == nil || c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(c.IssuedAt.Time)
}
