package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/cache"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/clock"
)

// DeleteCouponUseCase はクーポン削除ユースケース。
type DeleteCouponUseCase struct {
	couponRepo repository.CouponRepository
	store      *cache.Store
	publisher  CouponEventPublisher
	clk        clock.Clock
}

// NewDeleteCouponUseCase は新しい DeleteCouponUseCase を作成する。
func NewDeleteCouponUseCase(
	couponRepo repository.CouponRepository,
	store *cache.Store,
	publisher CouponEventPublisher,
	clk clock.Clock,
) *DeleteCouponUseCase {
	return &DeleteCouponUseCase{
		couponRepo: couponRepo,
		store:      store,
		publisher:  publisher,
		clk:        clk,
	}
}

// Execute はクーポンを削除する。他社のクーポンは ErrNotCouponOwner。
func (uc *DeleteCouponUseCase) Execute(ctx context.Context, couponID, companyID string) error {
	existing, err := uc.couponRepo.GetByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCouponNotFound
		}
		return fmt.Errorf("failed to get coupon: %w", err)
	}
	if existing.CompanyID != companyID {
		return ErrNotCouponOwner
	}

	if err := uc.couponRepo.Delete(ctx, couponID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCouponNotFound
		}
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	uc.store.Invalidate(ctx, couponCacheKeyPrefix+couponID)
	uc.store.InvalidateScope(ctx, couponCacheScope)
	publishCouponChange(ctx, uc.publisher, existing, "DELETED", uc.clk.Now())

	return nil
}
