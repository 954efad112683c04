package authsdk

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	// Type is the identity provider, e.g. "apple" or "kakao".
	Type string `json:"type"`

	// Identifier is the user's identifier at that provider.
	Identifier string `json:"identifier"`
}

// TokenResponse is the payload of a successful POST /login or GET /tokens.
// Only the access token is handed out; the refresh token stays with the
// user directory.
type TokenResponse struct {
	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// Authorization is the signed access token.
	Authorization string `json:"authorization"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status ("ok" or "degraded")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database is the audit store connection status
	Database string `json:"database"`

	// Directory is the user directory reachability status
	Directory string `json:"directory"`
}
