// Package cache holds the Redis-backed nickname cache used by author
// enrichment.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis nickname cache.
type RedisOptions struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string
	// Prefix is prepended to all keys (e.g., "brazucas:")
	Prefix string
	// TTL bounds how long a nickname may be served stale.
	TTL            time.Duration
	ConnectTimeout time.Duration
}

// DefaultRedisOptions returns sensible defaults.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Prefix:         "brazucas:",
		TTL:            10 * time.Minute,
		ConnectTimeout: 5 * time.Second,
	}
}

// NicknameCache stores user id -> nickname pairs in Redis.
type NicknameCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewNicknameCache connects to Redis and pings it.
func NewNicknameCache(ctx context.Context, opts RedisOptions) (*NicknameCache, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}
	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.ConnectTimeout > 0 {
		redisOpts.DialTimeout = opts.ConnectTimeout
	}
	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, redisOpts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewNicknameCacheFromClient(client, opts.Prefix, opts.TTL), nil
}

// NewNicknameCacheFromClient wraps an existing client.
func NewNicknameCacheFromClient(client *redis.Client, prefix string, ttl time.Duration) *NicknameCache {
	return &NicknameCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *NicknameCache) key(id int64) string {
	return c.prefix + "nick:" + strconv.FormatInt(id, 10)
}

// GetMany returns the cached subset of ids with a single MGET.
func (c *NicknameCache) GetMany(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(ids))
	for i, v := range vals {
		if s, ok := v.(string); ok && s != "" {
			out[ids[i]] = s
		}
	}
	return out, nil
}

// SetMany stores nicknames in one pipeline round trip.
func (c *NicknameCache) SetMany(ctx context.Context, nicknames map[int64]string) error {
	if len(nicknames) == 0 {
		return nil
	}
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for id, nick := range nicknames {
			p.Set(ctx, c.key(id), nick, c.ttl)
		}
		return nil
	})
	return err
}

// Close releases the underlying connection pool.
func (c *NicknameCache) Close() error {
	return c.client.Close()
}

// Ping checks the Redis connection.
func (c *NicknameCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
