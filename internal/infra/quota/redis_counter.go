package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounterStore は Redis を使用した CounterStore 実装。
// INCR と EXPIREAT をパイプラインで発行し、増分の不可分性を Redis 側に委ねる。
type RedisCounterStore struct {
	client redis.Cmdable
}

// NewRedisCounterStore は新しい RedisCounterStore を生成する。
func NewRedisCounterStore(client redis.Cmdable) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Get(ctx context.Context, key string) (int64, error) {
	count, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get usage counter: %w", err)
	}
	return count, nil
}

func (s *RedisCounterStore) Increment(ctx context.Context, key string, expireAt time.Time) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, expireAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment usage counter: %w", err)
	}
	return incr.Val(), nil
}

func (s *RedisCounterStore) Healthy(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
