package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomAlphanumeric returns n characters drawn uniformly from [A-Za-z0-9].
// Used for the JWT issuer nonce, which only needs to differ per token.
func RandomAlphanumeric(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive, got %d", n)
	}

	limit := big.NewInt(int64(len(alphanumeric)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate random string: %w", err)
		}
		out[i] = alphanumeric[idx.Int64()]
	}

	return string(out), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token.
// Logs and audit records carry the fingerprint, never the bearer token itself.
//
// The fingerprint is returned as a base64url-encoded string (43 chars).
func FingerprintToken(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
