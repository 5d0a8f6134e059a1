package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/cache"
)

const (
	couponCacheKeyPrefix = "coupon:"
	couponListKeyPrefix  = "coupons:"
	// couponCacheScope はクーポン関連キャッシュの無効化スコープ。
	// クーポンの作成・更新・削除時にスコープ単位で無効化される。
	couponCacheScope = "coupons"
)

// loadCouponCached はクーポンをキャッシュ経由で取得する。
// 見つからない場合はキャッシュに残さず ErrCouponNotFound を返す。
func loadCouponCached(ctx context.Context, store *cache.Store, repo repository.CouponRepository, id string, ttl time.Duration) (*model.Coupon, error) {
	raw, err := store.GetOrLoad(ctx, couponCacheKeyPrefix+id, couponCacheScope, ttl, func(ctx context.Context) (string, error) {
		coupon, err := repo.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		data, err := json.Marshal(coupon)
		if err != nil {
			return "", fmt.Errorf("failed to serialize coupon: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to load coupon: %w", err)
	}

	var coupon model.Coupon
	if err := json.Unmarshal([]byte(raw), &coupon); err != nil {
		return nil, fmt.Errorf("failed to deserialize cached coupon: %w", err)
	}
	return &coupon, nil
}
