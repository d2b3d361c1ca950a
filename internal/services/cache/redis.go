package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/rueidis"
)

// RedisOptions configures a RedisCache
type RedisOptions struct {
	// URL is a redis:// or rediss:// connection string
	URL        string
	ClientName string
	// KeyPrefix namespaces every key written by this service
	KeyPrefix string
}

// RedisCache implements Cache on a redis server through rueidis
type RedisCache struct {
	client rueidis.Client
	prefix string
}

// NewRedisCache connects to redis and pings it once to fail fast
func NewRedisCache(ctx context.Context, opts RedisOptions, logger *slog.Logger) (*RedisCache, error) {
	if opts.URL == "" {
		return nil, errors.New("redis cache: URL must not be empty")
	}

	clientOpt, err := rueidis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("redis cache: parse url: %w", err)
	}
	clientOpt.ClientName = opts.ClientName

	client, err := rueidis.NewClient(clientOpt)
	if err != nil {
		return nil, fmt.Errorf("redis cache: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis cache: ping: %w", err)
	}

	logger.Info("redis cache connected",
		slog.String("mode", string(client.Mode())),
		slog.String("client_name", opts.ClientName),
	)

	return NewRedisCacheFromClient(client, opts.KeyPrefix), nil
}

// NewRedisCacheFromClient wraps an existing rueidis client
func NewRedisCacheFromClient(client rueidis.Client, keyPrefix string) *RedisCache {
	return &RedisCache{client: client, prefix: keyPrefix}
}

// Get retrieves a value from redis. Any error is reported as a miss.
func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := rc.client.Do(ctx, rc.client.B().Get().Key(rc.prefix+key).Build()).AsBytes()
	if err != nil {
		return nil, false
	}
	return value, true
}

// Set stores a value with a TTL
func (rc *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cmd := rc.client.B().Set().Key(rc.prefix + key).Value(rueidis.BinaryString(value)).Px(ttl).Build()
	if err := rc.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("redis cache: set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key
func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	if err := rc.client.Do(ctx, rc.client.B().Del().Key(rc.prefix+key).Build()).Error(); err != nil {
		return fmt.Errorf("redis cache: delete %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client
func (rc *RedisCache) Close() {
	rc.client.Close()
}
