// Package directory is the contract for the user-directory service that owns
// identity records. The credential engine only needs to tell three outcomes
// apart: the record exists, it does not, or the directory could not answer.
package directory

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/passport/internal/auth/domain"
)

var (
	// ErrNotFound means the directory answered and holds no such record.
	ErrNotFound = errors.New("directory: record not found")

	// ErrUnavailable covers every failure to get an answer: timeouts,
	// refused connections, unresolvable service, 5xx replies and bodies
	// that do not decode.
	ErrUnavailable = errors.New("directory: unavailable")
)

// Client reads identity records and writes back refresh tokens.
//
// Lookups are plain GETs, so the HTTP driver sends bearer tokens in the query
// string where the directory's access logs and any proxy in between record
// them. Those logs hold live credentials and must be protected as such.
type Client interface {
	FindByProviderIdentity(ctx context.Context, provider domain.ProviderKind, identifier string) (domain.IdentityRecord, error)

	// FindByAccessToken resolves the user an access token was issued to.
	// Access tokens are never persisted, so the directory cannot match the
	// raw string against storage. It must decode the JWT subject (the user
	// id) and return that user's record. The token's signature has already
	// been verified but it may be expired. A record whose UserID differs from
	// the subject is rejected.
	FindByAccessToken(ctx context.Context, accessToken string) (domain.IdentityRecord, error)

	// FindByRefreshToken returns the user whose stored refresh token equals
	// refreshToken exactly.
	FindByRefreshToken(ctx context.Context, refreshToken string) (domain.IdentityRecord, error)

	// PersistRefreshToken replaces the stored refresh token for userID. Last
	// writer wins.
	PersistRefreshToken(ctx context.Context, userID, refreshToken string) error

	// Ping reports whether the directory is reachable.
	Ping(ctx context.Context) error
}
