package discovery

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
)

// StaticResolver serves a fixed endpoint list per service, round-robin.
type StaticResolver struct {
	services map[string]*staticPool
}

type staticPool struct {
	endpoints []*url.URL
	next      atomic.Uint64
}

var _ Resolver = (*StaticResolver)(nil)

// NewStaticResolver validates every endpoint up front. Services with an
// empty list are accepted and resolve to ErrNoEndpoints.
func NewStaticResolver(endpoints map[string][]string) (*StaticResolver, error) {
	r := &StaticResolver{services: make(map[string]*staticPool, len(endpoints))}

	for service, raws := range endpoints {
		pool := &staticPool{}
		for _, raw := range raws {
			u, err := ParseEndpoint(raw)
			if err != nil {
				return nil, fmt.Errorf("service %s: %w", service, err)
			}
			pool.endpoints = append(pool.endpoints, u)
		}
		r.services[NormalizeService(service)] = pool
	}

	return r, nil
}

// Resolve returns the next endpoint for service.
func (r *StaticResolver) Resolve(ctx context.Context, service string) (*url.URL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool, ok := r.services[NormalizeService(service)]
	if !ok || len(pool.endpoints) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEndpoints, service)
	}

	n := pool.next.Add(1) - 1
	return clone(pool.endpoints[n%uint64(len(pool.endpoints))]), nil
}
