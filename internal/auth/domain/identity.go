package domain

import "strings"

// ProviderKind names the federated identity provider a user signed in with.
type ProviderKind string

const (
	ProviderApple ProviderKind = "apple"
	ProviderKakao ProviderKind = "kakao"
)

// DefaultProviders is the allow-list used when none is configured.
var DefaultProviders = []ProviderKind{ProviderApple, ProviderKakao}

// ParseProviderKind normalises an operator-configured provider name, such as
// an AUTH_ALLOWED_PROVIDERS entry. Request input is never normalised.
func ParseProviderKind(s string) ProviderKind {
	return ProviderKind(strings.ToLower(strings.TrimSpace(s)))
}

func (p ProviderKind) String() string { return string(p) }

// LoginRequest is the credential request presented at login. It is never
// stored.
type LoginRequest struct {
	Provider   ProviderKind
	Identifier string
}

// IdentityRecord is a user as held by the directory service. This service
// only ever writes RefreshToken back.
type IdentityRecord struct {
	UserID     string
	Provider   ProviderKind
	Identifier string

	// RefreshToken is the most recently persisted refresh token, empty if the
	// user has never logged in through this service.
	RefreshToken string
}
