package jwtx

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultHMACAlgorithm is used when HMACSignerOptions.Algorithm is empty.
const DefaultHMACAlgorithm = "HS512"

// HMACSignerOptions configures an HMACSigner. Everything is fixed at
// construction; the signer never mutates afterwards.
type HMACSignerOptions struct {
	// Secret is the shared symmetric key for both token classes.
	Secret []byte

	// Algorithm is one of HS256, HS384 or HS512. Empty means HS512.
	Algorithm string

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Leeway tolerates clock skew on the exp check.
	Leeway time.Duration

	// Clock overrides time.Now, mostly for tests.
	Clock func() time.Time
}

// HMACSigner implements TokenSigner with a single shared secret.
type HMACSigner struct {
	secret     []byte
	method     *jwt.SigningMethodHMAC
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration
	clock      func() time.Time
}

var _ TokenSigner = (*HMACSigner)(nil)

// NewHMACSigner validates opts and returns a ready signer.
func NewHMACSigner(opts HMACSignerOptions) (*HMACSigner, error) {
	if len(opts.Secret) == 0 {
		return nil, ErrEmptySecret
	}
	// exp and iat are NumericDates with second precision, so a fractional
	// TTL would be truncated on the wire and Lifetime would disagree with it.
	if !wholeSeconds(opts.AccessTTL) || !wholeSeconds(opts.RefreshTTL) {
		return nil, ErrInvalidTTL
	}

	method, err := hmacMethod(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	// Copy the secret so later mutation of the caller's slice can't change
	// what we sign with.
	secret := make([]byte, len(opts.Secret))
	copy(secret, opts.Secret)

	return &HMACSigner{
		secret:     secret,
		method:     method,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		leeway:     opts.Leeway,
		clock:      clock,
	}, nil
}

func hmacMethod(alg string) (*jwt.SigningMethodHMAC, error) {
	switch strings.ToUpper(strings.TrimSpace(alg)) {
	case "", "HS512":
		return jwt.SigningMethodHS512, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS256":
		return jwt.SigningMethodHS256, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAlgorithm, alg)
	}
}

// Alg returns the JWS algorithm name.
func (s *HMACSigner) Alg() string { return s.method.Alg() }

func wholeSeconds(d time.Duration) bool {
	return d > 0 && d%time.Second == 0
}

// TTL returns the lifetime configured for class, or zero for an unknown class.
func (s *HMACSigner) TTL(class TokenClass) time.Duration {
	switch class {
	case Access:
		return s.accessTTL
	case Refresh:
		return s.refreshTTL
	default:
		return 0
	}
}

// Issue signs a token of class for subject.
func (s *HMACSigner) Issue(subject string, class TokenClass) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", ErrInvalidSubject
	}

	ttl := s.TTL(class)
	if ttl <= 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownClass, class)
	}

	claims, err := NewClaims(subject, ttl, s.clock())
	if err != nil {
		return "", err
	}

	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify validates the token and returns its claims.
func (s *HMACSigner) Verify(token string) (Claims, error) {
	return s.verify(token, false)
}

// VerifyAllowExpired validates everything except exp.
func (s *HMACSigner) VerifyAllowExpired(token string) (Claims, error) {
	return s.verify(token, true)
}

func (s *HMACSigner) verify(token string, allowExpired bool) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrMalformed
	}

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(s.clock),
		jwt.WithExpirationRequired(),
	}
	if s.leeway > 0 {
		opts = append(opts, jwt.WithLeeway(s.leeway))
	}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, &claims, s.keyFunc)
	if err != nil {
		return Claims{}, classifyParseError(err)
	}

	// Claim validation is skipped in the allow-expired path, so exp presence
	// is checked by hand there.
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return Claims{}, ErrMalformed
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, ErrMalformed
	}

	return claims, nil
}

func (s *HMACSigner) keyFunc(t *jwt.Token) (any, error) {
	if t.Method == nil || t.Method.Alg() != s.method.Alg() {
		return nil, ErrUnsupported
	}
	return s.secret, nil
}
