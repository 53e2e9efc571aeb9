package redirect

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultKeyPrefix namespaces redirect entries in a shared Redis.
	DefaultKeyPrefix = "auth:redirect:"

	// DefaultTTL bounds how long a stashed path survives. A federated auth
	// round trip completes within minutes; stale paths should not linger.
	DefaultTTL = 15 * time.Minute
)

// RedisStore is a Redis-backed Store implementation for deployments where
// the auth flow may resume on a different instance than the one that
// initiated the federated handoff.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption is a functional option for configuring the Redis store.
type RedisOption func(*RedisStore)

// WithKeyPrefix overrides the key namespace.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL overrides how long stashed paths are retained.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisStore creates a redirect store on top of an existing Redis client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: DefaultKeyPrefix,
		ttl:    DefaultTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Put stores the redirect path for the given key with the configured TTL.
func (s *RedisStore) Put(ctx context.Context, key, path string) error {
	return s.client.Set(ctx, s.prefix+key, path, s.ttl).Err()
}

// Take returns the stored path and removes it atomically via GETDEL.
// Missing keys return "".
func (s *RedisStore) Take(ctx context.Context, key string) (string, error) {
	path, err := s.client.GetDel(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}
