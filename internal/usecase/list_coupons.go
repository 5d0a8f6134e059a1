package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/cache"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/clock"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ListCouponsUseCase はクーポン一覧取得ユースケース。
type ListCouponsUseCase struct {
	couponRepo repository.CouponRepository
	store      *cache.Store
	clk        clock.Clock
	cacheTTL   time.Duration
}

// NewListCouponsUseCase は新しい ListCouponsUseCase を作成する。
func NewListCouponsUseCase(
	couponRepo repository.CouponRepository,
	store *cache.Store,
	clk clock.Clock,
	cacheTTL time.Duration,
) *ListCouponsUseCase {
	return &ListCouponsUseCase{
		couponRepo: couponRepo,
		store:      store,
		clk:        clk,
		cacheTTL:   cacheTTL,
	}
}

// ListCouponsInput はクーポン一覧取得の入力パラメータ。
type ListCouponsInput struct {
	Category string `json:"category"`
	Region   string `json:"region"`
	Limit    int    `json:"limit"`
}

// ListCouponsOutput はクーポン一覧取得の出力。
// Query には limit 正規化後の実効検索条件を入れて返す。
type ListCouponsOutput struct {
	Coupons []*model.Coupon  `json:"coupons"`
	Total   int              `json:"total"`
	Query   ListCouponsInput `json:"query"`
}

// Execute は検索条件に一致する有効期間内のクーポンを取得する。
// 検索結果はクエリシグネチャ単位でキャッシュされるが、
// 有効期間の判定はキャッシュ後に現在時刻で毎回評価する。
func (uc *ListCouponsUseCase) Execute(ctx context.Context, input ListCouponsInput) (*ListCouponsOutput, error) {
	limit := input.Limit
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	sig := cache.QuerySignature(map[string]string{
		"category": input.Category,
		"region":   input.Region,
		"limit":    strconv.Itoa(limit),
	})

	raw, err := uc.store.GetOrLoad(ctx, couponListKeyPrefix+sig, couponCacheScope, uc.cacheTTL, func(ctx context.Context) (string, error) {
		coupons, err := uc.couponRepo.List(ctx, repository.CouponListParams{
			Category: input.Category,
			Region:   input.Region,
			Limit:    limit,
		})
		if err != nil {
			return "", err
		}
		data, err := json.Marshal(coupons)
		if err != nil {
			return "", fmt.Errorf("failed to serialize coupons: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}

	var coupons []*model.Coupon
	if err := json.Unmarshal([]byte(raw), &coupons); err != nil {
		return nil, fmt.Errorf("failed to deserialize cached coupons: %w", err)
	}

	// 有効期間フィルタはキャッシュしない
	now := uc.clk.Now()
	active := make([]*model.Coupon, 0, len(coupons))
	for _, c := range coupons {
		if c.IsActive(now) {
			active = append(active, c)
		}
	}

	return &ListCouponsOutput{
		Coupons: active,
		Total:   len(active),
		Query: ListCouponsInput{
			Category: input.Category,
			Region:   input.Region,
			Limit:    limit,
		},
	}, nil
}
