package discovery

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix is prepended to the normalised service name to form the
// Redis set holding its endpoints.
const DefaultKeyPrefix = "discovery:"

// RedisResolver reads endpoints from a Redis set per service. Instances
// register themselves with SADD and leave with SREM; see Register and
// Deregister.
type RedisResolver struct {
	client redis.Cmdable
	prefix string

	mu       sync.Mutex
	counters map[string]uint64
}

var _ Resolver = (*RedisResolver)(nil)

// NewRedisResolver returns a resolver over client. An empty prefix means
// DefaultKeyPrefix.
func NewRedisResolver(client redis.Cmdable, prefix string) *RedisResolver {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisResolver{
		client:   client,
		prefix:   prefix,
		counters: make(map[string]uint64),
	}
}

func (r *RedisResolver) key(service string) string {
	return r.prefix + NormalizeService(service)
}

// Resolve round-robins over the sorted members of the service's set.
// Members that fail to parse are skipped.
func (r *RedisResolver) Resolve(ctx context.Context, service string) (*url.URL, error) {
	members, err := r.client.SMembers(ctx, r.key(service)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	sort.Strings(members)

	endpoints := make([]*url.URL, 0, len(members))
	for _, m := range members {
		u, err := ParseEndpoint(m)
		if err != nil {
			continue
		}
		endpoints = append(endpoints, u)
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEndpoints, service)
	}

	return endpoints[r.nextIndex(NormalizeService(service), len(endpoints))], nil
}

func (r *RedisResolver) nextIndex(service string, n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.counters[service]
	r.counters[service] = i + 1
	return int(i % uint64(n))
}

// Register adds endpoint to the service's set.
func (r *RedisResolver) Register(ctx context.Context, service, endpoint string) error {
	u, err := ParseEndpoint(endpoint)
	if err != nil {
		return err
	}
	if err := r.client.SAdd(ctx, r.key(service), u.String()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Deregister removes endpoint from the service's set.
func (r *RedisResolver) Deregister(ctx context.Context, service, endpoint string) error {
	u, err := ParseEndpoint(endpoint)
	if err != nil {
		return err
	}
	if err := r.client.SRem(ctx, r.key(service), u.String()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Ping checks the registry connection.
func (r *RedisResolver) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
