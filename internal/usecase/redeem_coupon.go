package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/service"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/cache"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/clock"
)

// RedeemCouponUseCase はクーポン利用ユースケース。
// 有効性チェック → 利用記録の条件付き挿入 → コード払い出し → イベント配信の順で処理する。
type RedeemCouponUseCase struct {
	couponRepo repository.CouponRepository
	recordRepo repository.RedeemRecordRepository
	store      *cache.Store
	publisher  RedeemEventPublisher
	clk        clock.Clock
	cacheTTL   time.Duration
}

// NewRedeemCouponUseCase は新しい RedeemCouponUseCase を作成する。
func NewRedeemCouponUseCase(
	couponRepo repository.CouponRepository,
	recordRepo repository.RedeemRecordRepository,
	store *cache.Store,
	publisher RedeemEventPublisher,
	clk clock.Clock,
	cacheTTL time.Duration,
) *RedeemCouponUseCase {
	return &RedeemCouponUseCase{
		couponRepo: couponRepo,
		recordRepo: recordRepo,
		store:      store,
		publisher:  publisher,
		clk:        clk,
		cacheTTL:   cacheTTL,
	}
}

// RedeemCouponInput はクーポン利用の入力パラメータ。
type RedeemCouponInput struct {
	CouponID   string `json:"coupon_id" validate:"required"`
	ClaimantID string `json:"claimant_id" validate:"required,max=128"`
	IP         string `json:"-"`
	UserAgent  string `json:"-"`
	APIKeyID   string `json:"-"`
}

// RedeemedCouponSummary は利用レスポンスに含めるクーポンの概要。
type RedeemedCouponSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// RedeemCouponOutput はクーポン利用の出力。
type RedeemCouponOutput struct {
	CouponID   string                `json:"coupon_id"`
	Coupon     RedeemedCouponSummary `json:"coupon"`
	Resolved   *service.ResolvedCode `json:"resolved"`
	RedeemedAt time.Time             `json:"redeemed_at"`
}

// Execute はクーポンを利用する。同一 (couponId, claimantId) の組に対して
// 成功は一度きりであり、二回目以降は ErrAlreadyRedeemed を返す。
func (uc *RedeemCouponUseCase) Execute(ctx context.Context, input RedeemCouponInput) (*RedeemCouponOutput, error) {
	coupon, err := loadCouponCached(ctx, uc.store, uc.couponRepo, input.CouponID, uc.cacheTTL)
	if err != nil {
		return nil, err
	}

	now := uc.clk.Now()
	if !coupon.IsActive(now) {
		return nil, ErrCouponExpired
	}

	meta, err := json.Marshal(model.RedeemMeta{
		IP:        input.IP,
		UserAgent: input.UserAgent,
		APIKeyID:  input.APIKeyID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize redeem meta: %w", err)
	}

	record := &model.RedeemRecord{
		ID:         uuid.NewString(),
		CouponID:   coupon.ID,
		ClaimantID: input.ClaimantID,
		RedeemedAt: now,
		MetaJSON:   meta,
	}

	// 挿入成功がコード払い出しの前提条件。逆順にすると
	// 重複リクエストへ二重にコードを払い出す余地が生まれる。
	if err := uc.recordRepo.InsertIfAbsent(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyRedeemed
		}
		return nil, fmt.Errorf("failed to record redemption: %w", err)
	}

	resolved, err := service.ResolveCode(coupon, now)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCodeKind) {
			return nil, ErrInvalidCouponType
		}
		return nil, fmt.Errorf("failed to resolve coupon code: %w", err)
	}

	// イベント配信はベストエフォート。失敗しても利用自体は成立する。
	event := &model.RedeemEvent{
		ID:         uuid.NewString(),
		CouponID:   coupon.ID,
		CompanyID:  coupon.CompanyID,
		ClaimantID: input.ClaimantID,
		CodeKind:   coupon.CodeKind,
		RedeemedAt: now,
	}
	if err := uc.publisher.PublishRedeemEvent(ctx, event); err != nil {
		slog.Warn("failed to publish redeem event", "coupon_id", coupon.ID, "error", err)
	}

	return &RedeemCouponOutput{
		CouponID: coupon.ID,
		Coupon: RedeemedCouponSummary{
			Title:       coupon.Title,
			Description: coupon.Description,
			Category:    coupon.Category,
		},
		Resolved:   resolved,
		RedeemedAt: now,
	}, nil
}
