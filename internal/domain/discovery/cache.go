package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// rankedSitter is a ranked search hit before eligibility rules are applied.
// Only these are cached; eligibility always runs against live booking data.
type rankedSitter struct {
	SitterUserID int64         `json:"sitter_user_id"`
	IsAvailable  bool          `json:"is_available"`
	Summary      SitterSummary `json:"summary"`
}

type resultCache interface {
	get(ctx context.Context, userID int64, queryKey string) ([]rankedSitter, bool)
	set(ctx context.Context, userID int64, queryKey string, ranked []rankedSitter)
	invalidate(ctx context.Context, userID int64) error
}

// redisCache versions keys per user so one INCR drops all of a user's entries.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func versionKey(userID int64) string {
	return fmt.Sprintf("discovery:ver:%d", userID)
}

func (c *redisCache) resultKey(ctx context.Context, userID int64, queryKey string) (string, bool) {
	ver, err := c.client.Get(ctx, versionKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn("discovery cache version read failed", zap.Int64("user_id", userID), zap.Error(err))
		return "", false
	}
	return fmt.Sprintf("discovery:%d:v%d:%s", userID, ver, queryKey), true
}

func (c *redisCache) get(ctx context.Context, userID int64, queryKey string) ([]rankedSitter, bool) {
	key, ok := c.resultKey(ctx, userID, queryKey)
	if !ok {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("discovery cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var out []rankedSitter
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *redisCache) set(ctx context.Context, userID int64, queryKey string, ranked []rankedSitter) {
	key, ok := c.resultKey(ctx, userID, queryKey)
	if !ok {
		return
	}

	raw, err := json.Marshal(ranked)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("discovery cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *redisCache) invalidate(ctx context.Context, userID int64) error {
	key := versionKey(userID)
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}
