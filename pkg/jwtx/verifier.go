package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrUnsupported = errors.New("jwtx: unsupported token format")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrExpired     = errors.New("jwtx: token expired")

	ErrInvalidSubject = errors.New("jwtx: empty subject")
	ErrUnknownClass   = errors.New("jwtx: unknown token class")
	ErrEmptySecret    = errors.New("jwtx: empty signing secret")
	ErrInvalidTTL     = errors.New("jwtx: token lifetime must be a positive whole number of seconds")
	ErrAlgorithm      = errors.New("jwtx: unsupported signing algorithm")
)

// classifyParseError folds the golang-jwt error tree into our four verify
// outcomes. Signature checks run before claim validation in the parser, so a
// forged token that is also expired surfaces as ErrInvalidSig.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, ErrUnsupported), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
