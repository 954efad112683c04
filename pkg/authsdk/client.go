package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the passport credential service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new credential service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login exchanges a provider identity for an access token. An unregistered
// identity fails with ErrNotUser.
func (c *SDKClient) Login(ctx context.Context, provider, identifier string) (*TokenResponse, error) {
	body, err := json.Marshal(LoginRequest{Type: provider, Identifier: identifier})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/login", bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := decodeEnvelope(resp, &token, http.StatusOK); err != nil {
		return nil, err
	}
	return &token, nil
}

// Tokens trades an access token, usually an expired one, for a fresh one.
// When the stored refresh token has lapsed it fails with
// ErrExpiredRefreshToken and the caller must Login again.
func (c *SDKClient) Tokens(ctx context.Context, accessToken string) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/tokens", nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := decodeEnvelope(resp, &token, http.StatusOK); err != nil {
		return nil, err
	}
	return &token, nil
}

// Logout acknowledges a logout. Tokens are not revoked server side; the
// caller should discard them.
func (c *SDKClient) Logout(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/logout", nil, nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, nil, http.StatusOK)
}
