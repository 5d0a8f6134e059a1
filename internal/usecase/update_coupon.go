package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/cache"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/clock"
)

// UpdateCouponUseCase はクーポン更新ユースケース。
type UpdateCouponUseCase struct {
	couponRepo repository.CouponRepository
	store      *cache.Store
	publisher  CouponEventPublisher
	clk        clock.Clock
}

// NewUpdateCouponUseCase は新しい UpdateCouponUseCase を作成する。
func NewUpdateCouponUseCase(
	couponRepo repository.CouponRepository,
	store *cache.Store,
	publisher CouponEventPublisher,
	clk clock.Clock,
) *UpdateCouponUseCase {
	return &UpdateCouponUseCase{
		couponRepo: couponRepo,
		store:      store,
		publisher:  publisher,
		clk:        clk,
	}
}

// UpdateCouponInput はクーポン更新の入力パラメータ。
type UpdateCouponInput struct {
	CouponID    string         `json:"-"`
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

// Execute はクーポンを更新する。他社のクーポンは ErrNotCouponOwner。
func (uc *UpdateCouponUseCase) Execute(ctx context.Context, input UpdateCouponInput) (*model.Coupon, error) {
	startDate, endDate, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	existing, err := uc.couponRepo.GetByID(ctx, input.CouponID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if existing.CompanyID != input.CompanyID {
		return nil, ErrNotCouponOwner
	}

	now := uc.clk.Now()
	coupon := &model.Coupon{
		ID:          existing.ID,
		CompanyID:   existing.CompanyID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		StartDate:   startDate,
		EndDate:     endDate,
		Region:      input.Region,
		CodeKind:    input.CodeKind,
		CodePayload: input.CodePayload,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   now,
	}

	if err := uc.couponRepo.Update(ctx, coupon); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	uc.store.Invalidate(ctx, couponCacheKeyPrefix+coupon.ID)
	uc.store.InvalidateScope(ctx, couponCacheScope)
	publishCouponChange(ctx, uc.publisher, coupon, "UPDATED", now)

	return coupon, nil
}

// parseDateRange は有効期間の文字列を検証しつつ解釈する。
func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start_date", ErrInvalidDateRange)
	}
	endDate, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end_date", ErrInvalidDateRange)
	}
	if !startDate.Before(endDate) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return startDate.UTC(), endDate.UTC(), nil
}

// publishCouponChange はクーポン変更イベントをベストエフォートで配信する。
func publishCouponChange(ctx context.Context, publisher CouponEventPublisher, coupon *model.Coupon, changeType string, changedAt time.Time) {
	event := &model.CouponChangeEvent{
		ID:         uuid.NewString(),
		CouponID:   coupon.ID,
		CompanyID:  coupon.CompanyID,
		ChangeType: changeType,
		ChangedAt:  changedAt,
	}
	if err := publisher.PublishCouponEvent(ctx, event); err != nil {
		slog.Warn("failed to publish coupon change event", "coupon_id", coupon.ID, "change_type", changeType, "error", err)
	}
}
