// Package discovery maps a logical service name (for example USER-SERVICE)
// to a concrete base URL. Callers resolve on every request so registry
// changes take effect without a restart.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrNoEndpoints means the service has no registered instances.
	ErrNoEndpoints = errors.New("discovery: no endpoints registered")

	// ErrUnavailable means the registry itself could not be queried.
	ErrUnavailable = errors.New("discovery: registry unavailable")

	// ErrInvalidEndpoint means a registered endpoint is not an absolute
	// http(s) URL.
	ErrInvalidEndpoint = errors.New("discovery: invalid endpoint")
)

// Resolver picks one endpoint for a service.
type Resolver interface {
	Resolve(ctx context.Context, service string) (*url.URL, error)
}

// NormalizeService folds service names so "USER-SERVICE" and
// " user-service " address the same registry entry.
func NormalizeService(service string) string {
	return strings.ToLower(strings.TrimSpace(service))
}

// ParseEndpoint validates a registered endpoint.
func ParseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}

// clone returns a copy so callers can't mutate resolver state.
func clone(u *url.URL) *url.URL {
	c := *u
	return &c
}
