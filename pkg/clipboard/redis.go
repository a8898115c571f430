package clipboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis default tuning. The TTL keeps abandoned clipboards from accumulating
// in a shared instance.
const (
	DefaultRedisKeyPrefix = "jobcanvas:clipboard"
	DefaultRedisTTL       = 24 * time.Hour
)

// RedisOptions configures a Redis-backed clipboard.
type RedisOptions struct {
	// KeyPrefix namespaces the clipboard key. The scope (typically a user or
	// session identifier) is appended to it.
	KeyPrefix string

	// Scope isolates clipboards from each other: two editors with the same
	// scope share copy/paste, different scopes never see each other.
	Scope string

	// TTL bounds how long an untouched clipboard survives.
	TTL time.Duration
}

// SetDefaults fills unset fields. Idempotent.
func (o *RedisOptions) SetDefaults() {
	if o.KeyPrefix == "" {
		o.KeyPrefix = DefaultRedisKeyPrefix
	}
	if o.Scope == "" {
		o.Scope = "default"
	}
	if o.TTL <= 0 {
		o.TTL = DefaultRedisTTL
	}
}

// Redis is a Port backed by a Redis key, letting several editor sessions with
// the same scope share one clipboard. Bundles are stored as JSON.
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedis creates a Redis-backed clipboard on an existing client. The client
// is not closed by this type; the caller owns its lifecycle.
func NewRedis(client redis.UniversalClient, opts RedisOptions) *Redis {
	opts.SetDefaults()
	return &Redis{
		client: client,
		key:    opts.KeyPrefix + ":" + opts.Scope,
		ttl:    opts.TTL,
	}
}

// Write implements [Port].
func (r *Redis) Write(ctx context.Context, b Bundle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode clipboard bundle: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write clipboard to redis: %w", err)
	}
	return nil
}

// Read implements [Port].
func (r *Redis) Read(ctx context.Context) (Bundle, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Bundle{}, ErrEmpty
	}
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to read clipboard from redis: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("failed to decode clipboard bundle: %w", err)
	}
	return b, nil
}
