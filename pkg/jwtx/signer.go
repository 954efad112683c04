package jwtx

import "time"

// TokenSigner issues and verifies bearer tokens. Callers depend on this
// interface so the algorithm and secret source can change without touching
// the credential engine.
type TokenSigner interface {
	// Issue signs a new token of the given class for subject. An empty
	// subject fails with ErrInvalidSubject.
	Issue(subject string, class TokenClass) (string, error)

	// Verify checks format, algorithm, signature and expiry, in that order.
	// Failures are exactly one of ErrMalformed, ErrUnsupported, ErrInvalidSig
	// or ErrExpired.
	Verify(token string) (Claims, error)

	// VerifyAllowExpired is Verify without the expiry check. It proves a
	// token was issued by us even after it has lapsed.
	VerifyAllowExpired(token string) (Claims, error)

	// TTL returns the configured lifetime for class.
	TTL(class TokenClass) time.Duration
}
