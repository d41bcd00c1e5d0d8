package pref

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSurface stores items as Redis strings.
type RedisSurface struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisConfig configures a RedisSurface.
type RedisConfig struct {
	// Client is an existing client. If set, the connection fields are ignored.
	Client redis.UniversalClient

	Addr     string
	Password string
	DB       int

	// KeyPrefix is prepended to every key.
	KeyPrefix string
}

// NewRedisSurface connects to Redis and verifies the connection with PING.
func NewRedisSurface(ctx context.Context, cfg RedisConfig) (*RedisSurface, error) {
	client := cfg.Client
	if client == nil {
		if cfg.Addr == "" {
			return nil, errors.New("pref: redis address required")
		}
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pref: redis ping: %w", err)
	}
	return &RedisSurface{client: client, keyPrefix: cfg.KeyPrefix}, nil
}

func (r *RedisSurface) prefixKey(key string) string {
	return r.keyPrefix + key
}

// GetItem implements Surface.
func (r *RedisSurface) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefixKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SetItem implements Surface. Items do not expire.
func (r *RedisSurface) SetItem(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefixKey(key), value, 0).Err()
}

// RemoveItem implements Surface.
func (r *RedisSurface) RemoveItem(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefixKey(key)).Err()
}

// Close closes the client.
func (r *RedisSurface) Close() error {
	return r.client.Close()
}
