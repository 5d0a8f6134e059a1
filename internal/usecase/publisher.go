package usecase

import (
	"context"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
)

// RedeemEventPublisher はクーポン利用イベントの配信インターフェース。
type RedeemEventPublisher interface {
	PublishRedeemEvent(ctx context.Context, event *model.RedeemEvent) error
}

// CouponEventPublisher はクーポン変更イベントの配信インターフェース。
type CouponEventPublisher interface {
	PublishCouponEvent(ctx context.Context, event *model.CouponChangeEvent) error
}

// PlanEventPublisher はプラン変更イベントの配信インターフェース。
type PlanEventPublisher interface {
	PublishPlanEvent(ctx context.Context, event *model.PlanChangeEvent) error
}
