// Package cache keeps a best-effort redis cache of shared-quiz summaries.
// Every read falls through to postgres when redis misses or errors.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quizshare/api/config"
	"github.com/quizshare/api/internal/dto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const summaryTTL = 5 * time.Minute

type ShareCache interface {
	GetSummary(ctx context.Context, code string) *dto.SharedQuizInfoDTO
	SetSummary(ctx context.Context, code string, info *dto.SharedQuizInfoDTO)
	// Invalidate must be called on revocation and on quiz deletion so a
	// stale summary never outlives the quiz's public visibility by more
	// than the in-flight request.
	Invalidate(ctx context.Context, code string)
}

func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
	})
}

type redisShareCache struct {
	client *redis.Client
}

func NewShareCache(client *redis.Client) ShareCache {
	return &redisShareCache{client: client}
}

func summaryKey(code string) string {
	return "share:summary:" + code
}

func (c *redisShareCache) GetSummary(ctx context.Context, code string) *dto.SharedQuizInfoDTO {
	data, err := c.client.Get(ctx, summaryKey(code)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("code", code).Msg("Redis error reading shared summary")
		}
		return nil
	}

	var info dto.SharedQuizInfoDTO
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("Failed to unmarshal cached shared summary")
		return nil
	}
	return &info
}

func (c *redisShareCache) SetSummary(ctx context.Context, code string, info *dto.SharedQuizInfoDTO) {
	data, err := json.Marshal(info)
	if err != nil {
		log.Warn().Err(err).Str("code", code).Msg("Failed to marshal shared summary for cache")
		return
	}
	if err := c.client.Set(ctx, summaryKey(code), data, summaryTTL).Err(); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("Redis error storing shared summary")
	}
}

func (c *redisShareCache) Invalidate(ctx context.Context, code string) {
	if err := c.client.Del(ctx, summaryKey(code)).Err(); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("Redis error invalidating shared summary")
	}
}
