// Package httpdir implements directory.Client against the user service's
// JSON API.
package httpdir

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/directory"
	"github.com/aussiebroadwan/passport/internal/auth/discovery"
	"github.com/aussiebroadwan/passport/internal/auth/domain"
	"github.com/aussiebroadwan/passport/pkg/slogx"
)

// DefaultTimeout bounds every directory call when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// maxBodyBytes caps how much of a reply is read.
const maxBodyBytes = 1 << 20

// Options configures a Client.
type Options struct {
	// Service is the logical name resolved through discovery, e.g. USER-SERVICE.
	Service string

	// Timeout applies to each call as a whole, resolution included.
	Timeout time.Duration

	// HTTPClient defaults to a client with Timeout set.
	HTTPClient *http.Client
}

// Client talks to the user directory over HTTP. It never retries.
type Client struct {
	resolver discovery.Resolver
	service  string
	timeout  time.Duration
	http     *http.Client
}

var _ directory.Client = (*Client)(nil)

// New returns a Client resolving opts.Service through resolver.
func New(resolver discovery.Resolver, opts Options) (*Client, error) {
	if resolver == nil {
		return nil, errors.New("httpdir: resolver is required")
	}
	if strings.TrimSpace(opts.Service) == "" {
		return nil, errors.New("httpdir: service name is required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		resolver: resolver,
		service:  opts.Service,
		timeout:  timeout,
		http:     hc,
	}, nil
}

// envelope is the user service's response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Code    *int            `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
}

// userDTO is the directory's user record. The service also returns an
// accessToken field, which is ignored.
type userDTO struct {
	UserID       userID `json:"userId"`
	Type         string `json:"type"`
	Identifier   string `json:"identifier"`
	RefreshToken string `json:"refreshToken"`
}

// userID accepts both numeric and string ids.
type userID string

func (id *userID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = userID(strings.TrimSpace(s))
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*id = userID(n.String())
		return nil
	}
}

type persistRequest struct {
	UserID       string `json:"userId"`
	RefreshToken string `json:"refreshToken"`
}

func (c *Client) FindByProviderIdentity(
	ctx context.Context,
	provider domain.ProviderKind,
	identifier string,
) (domain.IdentityRecord, error) {
	return c.findUser(ctx, url.Values{
		"type":       {provider.String()},
		"identifier": {identifier},
	})
}

func (c *Client) FindByAccessToken(ctx context.Context, accessToken string) (domain.IdentityRecord, error) {
	return c.findUser(ctx, url.Values{"accessToken": {accessToken}})
}

// FindByRefreshToken sends the refresh token as ?refreshToken=. See
// directory.Client for the logging exposure that implies.
func (c *Client) FindByRefreshToken(ctx context.Context, refreshToken string) (domain.IdentityRecord, error) {
	return c.findUser(ctx, url.Values{"refreshToken": {refreshToken}})
}

func (c *Client) PersistRefreshToken(ctx context.Context, userID, refreshToken string) error {
	body, err := json.Marshal(persistRequest{UserID: userID, RefreshToken: refreshToken})
	if err != nil {
		return fmt.Errorf("httpdir: encode persist request: %w", err)
	}

	status, env, err := c.do(ctx, http.MethodPatch, "/users", nil, body)
	if err != nil {
		return err
	}

	switch {
	case status == http.StatusNotFound:
		return directory.ErrNotFound
	case status/100 == 2 && env.Status != "error":
		return nil
	default:
		return unexpected(status, env)
	}
}

// Ping resolves the service and requests its root. Any HTTP answer below 500
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, "/", nil, nil)
	if err != nil {
		return err
	}
	if status >= 500 {
		return fmt.Errorf("%w: status %d", directory.ErrUnavailable, status)
	}
	return nil
}

func (c *Client) findUser(ctx context.Context, query url.Values) (domain.IdentityRecord, error) {
	status, env, err := c.do(ctx, http.MethodGet, "/users", query, nil)
	if err != nil {
		return domain.IdentityRecord{}, err
	}

	switch {
	case status == http.StatusNotFound:
		return domain.IdentityRecord{}, directory.ErrNotFound
	case status/100 != 2 || env.Status == "error":
		return domain.IdentityRecord{}, unexpected(status, env)
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return domain.IdentityRecord{}, directory.ErrNotFound
	}

	var u userDTO
	if err := json.Unmarshal(data, &u); err != nil {
		return domain.IdentityRecord{}, fmt.Errorf("%w: decode user: %v", directory.ErrUnavailable, err)
	}
	if u.UserID == "" {
		return domain.IdentityRecord{}, fmt.Errorf("%w: user record without userId", directory.ErrUnavailable)
	}

	return domain.IdentityRecord{
		UserID:       string(u.UserID),
		Provider:     domain.ProviderKind(u.Type),
		Identifier:   u.Identifier,
		RefreshToken: u.RefreshToken,
	}, nil
}

// do resolves the service, sends one request and decodes the envelope. A
// reply that is not an envelope is reported with a zero envelope; callers
// decide from the status whether that matters.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body []byte,
) (int, envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log := slogx.FromContext(ctx)

	base, err := c.resolver.Resolve(ctx, c.service)
	if err != nil {
		return 0, envelope{}, fmt.Errorf("%w: resolve %s: %v", directory.ErrUnavailable, c.service, err)
	}

	target := base.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return 0, envelope{}, fmt.Errorf("%w: build request: %v", directory.ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := slogx.RequestID(ctx); reqID != "" {
		req.Header.Set(slogx.RequestIDHeader, reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("directory call failed",
			"method", method,
			"path", path,
			"host", base.Host,
			"err", err,
		)
		return 0, envelope{}, fmt.Errorf("%w: %v", directory.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, envelope{}, fmt.Errorf("%w: read body: %v", directory.ErrUnavailable, err)
	}

	log.Debug("directory call",
		"method", method,
		"path", path,
		"host", base.Host,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode/100 == 2 {
			return 0, envelope{}, fmt.Errorf("%w: decode envelope: %v", directory.ErrUnavailable, err)
		}
	}

	return resp.StatusCode, env, nil
}

func unexpected(status int, env envelope) error {
	if env.Message != "" {
		return fmt.Errorf("%w: status %d: %s", directory.ErrUnavailable, status, env.Message)
	}
	return fmt.Errorf("%w: status %d", directory.ErrUnavailable, status)
}
