package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/cache"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/clock"
)

// CreateCouponUseCase はクーポン作成ユースケース。
type CreateCouponUseCase struct {
	couponRepo repository.CouponRepository
	store      *cache.Store
	publisher  CouponEventPublisher
	clk        clock.Clock
}

// NewCreateCouponUseCase は新しい CreateCouponUseCase を作成する。
func NewCreateCouponUseCase(
	couponRepo repository.CouponRepository,
	store *cache.Store,
	publisher CouponEventPublisher,
	clk clock.Clock,
) *CreateCouponUseCase {
	return &CreateCouponUseCase{
		couponRepo: couponRepo,
		store:      store,
		publisher:  publisher,
		clk:        clk,
	}
}

// CreateCouponInput はクーポン作成の入力パラメータ。
type CreateCouponInput struct {
	CompanyID   string         `json:"-"`
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description" validate:"max=2000"`
	Category    string         `json:"category" validate:"required,max=50"`
	StartDate   string         `json:"start_date" validate:"required"`
	EndDate     string         `json:"end_date" validate:"required"`
	Region      string         `json:"region" validate:"required,max=50"`
	CodeKind    model.CodeKind `json:"code_kind" validate:"required,oneof=STATIC DYNAMIC REDIRECT"`
	CodePayload string         `json:"code_payload" validate:"required,max=500"`
}

// Execute はクーポンを作成する。startDate >= endDate の場合は ErrInvalidDateRange。
func (uc *CreateCouponUseCase) Execute(ctx context.Context, input CreateCouponInput) (*model.Coupon, error) {
	startDate, endDate, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	now := uc.clk.Now()
	coupon := &model.Coupon{
		ID:          uuid.NewString(),
		CompanyID:   input.CompanyID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		StartDate:   startDate,
		EndDate:     endDate,
		Region:      input.Region,
		CodeKind:    input.CodeKind,
		CodePayload: input.CodePayload,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.couponRepo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	// 一覧キャッシュに新規クーポンを反映させる
	uc.store.InvalidateScope(ctx, couponCacheScope)
	publishCouponChange(ctx, uc.publisher, coupon, "CREATED", now)

	return coupon, nil
}
