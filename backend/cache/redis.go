package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"engilearn/backend/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	statsKeyPrefix = "engilearn:stats:"
	genKeyPrefix   = "engilearn:stats-gen:"
)

// NewRedisClient connects to REDIS_URL. Returns nil when the URL is empty.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func (c *RedisStatsCache) Get(ctx context.Context, userID uuid.UUID) (*models.UserStats, bool, error) {
	raw, err := c.client.Get(ctx, statsKeyPrefix+userID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var stats models.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false, fmt.Errorf("decode cached stats: %w", err)
	}
	return &stats, true, nil
}

func (c *RedisStatsCache) Generation(ctx context.Context, userID uuid.UUID) (uint64, error) {
	return readGeneration(ctx, c.client, userID)
}

// Set writes stats inside a WATCH on the generation key, so an Invalidate that
// lands between the check and the write aborts the transaction.
func (c *RedisStatsCache) Set(ctx context.Context, userID uuid.UUID, generation uint64, stats *models.UserStats) (bool, error) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return false, err
	}
	genKey := genKeyPrefix + userID.String()

	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, userID)
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, statsKeyPrefix+userID.String(), raw, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKeyPrefix+userID.String())
		pipe.Del(ctx, statsKeyPrefix+userID.String())
		return nil
	})
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, c getter, userID uuid.UUID) (uint64, error) {
	gen, err := c.Get(ctx, genKeyPrefix+userID.String()).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}
