package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/passport/internal/auth/service"
	"github.com/aussiebroadwan/passport/pkg/authsdk"
	"github.com/aussiebroadwan/passport/pkg/slogx"
)

// responseFor maps an engine error to its response code. Unknown errors are
// a server fault, never a business outcome.
func responseFor(err error) authsdk.ResponseCode {
	switch {
	case errors.Is(err, service.ErrInvalidParameter):
		return authsdk.InvalidParameter
	case errors.Is(err, service.ErrUnknownUser):
		return authsdk.NotUser
	case errors.Is(err, service.ErrExpiredRefreshToken):
		return authsdk.ExpiredRefreshToken
	case errors.Is(err, service.ErrInvalidToken):
		return authsdk.InvalidToken
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return authsdk.UpstreamUnavailable
	case errors.Is(err, service.ErrPersistenceFailed):
		return authsdk.PersistenceFailed
	default:
		return authsdk.ServerError
	}
}

func writeEngineError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := slogx.FromContext(r.Context())

	code := responseFor(err)
	switch code.Name {
	case authsdk.ServerError.Name, authsdk.PersistenceFailed.Name:
		log.Error(op+" failed", "response", code.Name, "err", err)
	case authsdk.UpstreamUnavailable.Name:
		log.Warn(op+" failed", "response", code.Name, "err", err)
	default:
		log.Info(op+" rejected", "response", code.Name, "err", err)
	}

	code.Write(w, nil)
}
