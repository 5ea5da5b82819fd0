package study

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/studyhall-ai/server/internal/core/error"
	logx "github.com/studyhall-ai/server/pkg/logger"
)

// RedisReviewRepository stores wrong answers as a Redis list of JSON entries,
// same layout as the session transcripts.
type RedisReviewRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisReviewRepository(rdb redis.Cmdable, ttl time.Duration) *RedisReviewRepository {
	return &RedisReviewRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisReviewRepository) reviewKey(sessionID string) string {
	return fmt.Sprintf("session:%s:review", sessionID)
}

func (r *RedisReviewRepository) Add(ctx context.Context, sessionID string, answer WrongAnswer) error {
	b, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("marshal wrong answer: %w", err)
	}
	key := r.reviewKey(sessionID)

	if err := r.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push wrong answer to redis")
		return errx.WrapRedis(err)
	}
	if r.ttl > 0 {
		if err := r.rdb.Expire(ctx, key, r.ttl).Err(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		}
	}
	return nil
}

func (r *RedisReviewRepository) List(ctx context.Context, sessionID string) ([]WrongAnswer, error) {
	key := r.reviewKey(sessionID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []WrongAnswer{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load review list from redis")
		return nil, errx.WrapRedis(err)
	}

	answers := make([]WrongAnswer, 0, len(rows))
	for i, s := range rows {
		var a WrongAnswer
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			return nil, fmt.Errorf("unmarshal wrong answer at index %d: %w", i, err)
		}
		answers = append(answers, a)
	}
	return answers, nil
}

func (r *RedisReviewRepository) Clear(ctx context.Context, sessionID string) error {
	key := r.reviewKey(sessionID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to clear review list from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ ReviewRepository = (*RedisReviewRepository)(nil)
