package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/capital-longevity/pkg/longevity"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "capital-longevity:memo:"

// RedisStore keeps memos in Redis so several server processes can share
// sessions. Values are the JSON encoding of longevity.Result.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects lazily to the Redis server at addr.
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(rdb, ttl)
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Get returns the memo stored for id.
func (r *RedisStore) Get(ctx context.Context, id string) (longevity.Result, bool, error) {
	val, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return longevity.Result{}, false, nil
	}
	if err != nil {
		return longevity.Result{}, false, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	memo, err := decodeMemo(val)
	if err != nil {
		return longevity.Result{}, false, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return memo, true, nil
}

// Set stores memo for id with the configured ttl.
func (r *RedisStore) Set(ctx context.Context, id string, memo longevity.Result) error {
	val, err := json.Marshal(memo)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", id, err)
	}
	if err := r.client.Set(ctx, redisKey(id), val, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session %s: %w", id, err)
	}
	return nil
}

// Ping checks connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func decodeMemo(data []byte) (longevity.Result, error) {
	var memo longevity.Result
	if err := json.Unmarshal(data, &memo); err != nil {
		return longevity.Result{}, err
	}
	return memo, nil
}
