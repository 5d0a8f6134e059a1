package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/cache"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/clock"
)

// ApplyPlanChangeUseCase は課金 Webhook によるプラン変更適用ユースケース。
type ApplyPlanChangeUseCase struct {
	apiKeyRepo repository.ApiKeyRepository
	store      *cache.Store
	publisher  PlanEventPublisher
	clk        clock.Clock
}

// NewApplyPlanChangeUseCase は新しい ApplyPlanChangeUseCase を作成する。
func NewApplyPlanChangeUseCase(
	apiKeyRepo repository.ApiKeyRepository,
	store *cache.Store,
	publisher PlanEventPublisher,
	clk clock.Clock,
) *ApplyPlanChangeUseCase {
	return &ApplyPlanChangeUseCase{
		apiKeyRepo: apiKeyRepo,
		store:      store,
		publisher:  publisher,
		clk:        clk,
	}
}

// ApplyPlanChangeInput はプラン変更の入力パラメータ。
type ApplyPlanChangeInput struct {
	CompanyID string     `json:"company_id" validate:"required"`
	NewTier   model.Tier `json:"new_tier" validate:"required,oneof=FREE BASIC PRO"`
}

// Execute はプラン変更を API キーに適用する。
// tier と monthlyQuota を更新し、認証キャッシュを無効化する。
func (uc *ApplyPlanChangeUseCase) Execute(ctx context.Context, input ApplyPlanChangeInput) error {
	key, err := uc.apiKeyRepo.GetByCompanyID(ctx, input.CompanyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("failed to get api key: %w", err)
	}

	oldTier := key.Tier
	quota := model.QuotaForTier(input.NewTier)
	if err := uc.apiKeyRepo.UpdatePlan(ctx, key.ID, input.NewTier, quota); err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	// 古い tier を見続けないよう認証キャッシュを即時無効化する
	uc.store.Invalidate(ctx, apiKeyCacheKey(key.Secret))

	event := &model.PlanChangeEvent{
		ID:        uuid.NewString(),
		CompanyID: input.CompanyID,
		APIKeyID:  key.ID,
		OldTier:   oldTier,
		NewTier:   input.NewTier,
		ChangedAt: uc.clk.Now(),
	}
	if err := uc.publisher.PublishPlanEvent(ctx, event); err != nil {
		slog.Warn("failed to publish plan change event", "company_id", input.CompanyID, "error", err)
	}

	return nil
}
