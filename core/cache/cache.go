package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"schedulai/core/config"
	"schedulai/core/constants"
	"schedulai/core/logger"
)

// ICache is the slice of Redis the server uses: short-lived OAuth state
// nonces and the session-token blacklist.
type ICache interface {
	SetOAuthState(ctx context.Context, state string) error
	TakeOAuthState(ctx context.Context, state string) (bool, error)
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	Close() error
}

type Cache struct {
	client *redis.Client
}

func NewCache(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Cache:NewCache:Ping:Error", "error", err, "addr", cfg.Addr)
		return nil, err
	}

	logger.Info("Redis connected", "addr", cfg.Addr, "db", cfg.DB)
	return &Cache{client: client}, nil
}

// SetOAuthState stores a login-flow state nonce with a short TTL.
func (c *Cache) SetOAuthState(ctx context.Context, state string) error {
	key := constants.RedisKeyOAuthState + state
	return c.client.Set(ctx, key, "1", constants.OAuthStateTTL).Err()
}

// TakeOAuthState consumes a state nonce; a nonce is valid exactly once.
func (c *Cache) TakeOAuthState(ctx context.Context, state string) (bool, error) {
	key := constants.RedisKeyOAuthState + state
	n, err := c.client.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// BlacklistToken invalidates a session token until its natural expiry.
func (c *Cache) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	key := constants.RedisKeyTokenBlacklist + token
	return c.client.Set(ctx, key, "1", ttl).Err()
}

func (c *Cache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := constants.RedisKeyTokenBlacklist + token
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}
