package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func userSessionsKey(userID int64) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}

// CacheSession stores a token with a TTL equal to its remaining lifetime and
// indexes it under the owning user for bulk revocation.
func (c *Client) CacheSession(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, sessionKey(token), userID, ttl)
	pipe.SAdd(ctx, userSessionsKey(userID), token)
	pipe.Expire(ctx, userSessionsKey(userID), ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// LookupSession resolves a cached token to its user id. A missing key means
// the token is unknown to the cache, not that it is invalid.
func (c *Client) LookupSession(ctx context.Context, token string) (int64, bool, error) {
	val, err := c.rdb.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt session cache entry: %w", err)
	}

	return userID, true, nil
}

// RevokeUserSessions drops every cached token for the user.
func (c *Client) RevokeUserSessions(ctx context.Context, userID int64) error {
	tokens, err := c.rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}

	pipe := c.rdb.Pipeline()
	for _, token := range tokens {
		pipe.Del(ctx, sessionKey(token))
	}
	pipe.Del(ctx, userSessionsKey(userID))

	_, err = pipe.Exec(ctx)
	return err
}
