package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/passport/pkg/authsdk"
	"github.com/aussiebroadwan/passport/pkg/httpx"
)

// Pinger is anything readiness depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness endpoint returning basic service health status, uptime, and version information
//	@Description	This endpoint always returns 200 OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse(startTime, version, "ok", nil))
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the audit database and the user directory
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, database, directory Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Database:  checkDependency(r.Context(), database),
			Directory: checkDependency(r.Context(), directory),
		}

		status, code := "ok", http.StatusOK
		if checks.Database != "ok" || checks.Directory != "ok" {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse(startTime, version, status, checks))
	}
}

// checkDependency renders one dependency check.
func checkDependency(ctx context.Context, p Pinger) string {
	if err := p.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

func healthResponse(startTime time.Time, version, status string, checks *authsdk.HealthChecks) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(startTime).Truncate(time.Second).String(),
		Version: version,
		Checks:  checks,
	}
}
