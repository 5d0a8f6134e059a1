package usecase

import (
	"context"
	"time"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/cache"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/clock"
)

// GetCouponUseCase はクーポン詳細取得ユースケース。
type GetCouponUseCase struct {
	couponRepo repository.CouponRepository
	store      *cache.Store
	clk        clock.Clock
	cacheTTL   time.Duration
}

// NewGetCouponUseCase は新しい GetCouponUseCase を作成する。
func NewGetCouponUseCase(
	couponRepo repository.CouponRepository,
	store *cache.Store,
	clk clock.Clock,
	cacheTTL time.Duration,
) *GetCouponUseCase {
	return &GetCouponUseCase{
		couponRepo: couponRepo,
		store:      store,
		clk:        clk,
		cacheTTL:   cacheTTL,
	}
}

// GetCouponOutput はクーポン詳細取得の出力。
// Active はキャッシュに依存せず現在時刻で評価した有効判定。
type GetCouponOutput struct {
	Coupon *model.Coupon `json:"coupon"`
	Active bool          `json:"active"`
}

// Execute は ID でクーポンを取得する。見つからない場合は ErrCouponNotFound。
func (uc *GetCouponUseCase) Execute(ctx context.Context, id string) (*GetCouponOutput, error) {
	coupon, err := loadCouponCached(ctx, uc.store, uc.couponRepo, id, uc.cacheTTL)
	if err != nil {
		return nil, err
	}

	return &GetCouponOutput{
		Coupon: coupon,
		Active: coupon.IsActive(uc.clk.Now()),
	}, nil
}
