package authsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GetLiveness reports whether the service process is up.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/livez")
}

// GetReadiness reports whether the service can issue credentials. A degraded
// service answers 503; the decoded report is then returned together with an
// *APIError so callers can see which check failed.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.getHealth(ctx, "/readyz")
}

// getHealth fetches a health endpoint. Those answer with a bare
// HealthResponse, not the envelope.
func (c *SDKClient) getHealth(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var health HealthResponse
	decodeErr := json.Unmarshal(body, &health)

	switch {
	case resp.StatusCode == http.StatusOK:
		if decodeErr != nil {
			return nil, fmt.Errorf("failed to decode health response: %w", decodeErr)
		}
		return &health, nil

	case resp.StatusCode == http.StatusServiceUnavailable && decodeErr == nil && health.Status != "":
		return &health, &APIError{
			StatusCode: resp.StatusCode,
			Code:       resp.StatusCode,
			Message:    "service " + health.Status,
		}

	default:
		return nil, parseErrorResponse(resp, body)
	}
}
