package repository

import (
	"context"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
)

// CouponRepository はクーポンの永続化インターフェース。
type CouponRepository interface {
	// GetByID は ID でクーポンを取得する。見つからない場合は ErrNotFound を返す。
	GetByID(ctx context.Context, id string) (*model.Coupon, error)

	// List は検索条件に一致するクーポンを一覧取得する。
	List(ctx context.Context, params CouponListParams) ([]*model.Coupon, error)

	// Create はクーポンを作成する。
	Create(ctx context.Context, coupon *model.Coupon) error

	// Update はクーポンを更新する。見つからない場合は ErrNotFound を返す。
	Update(ctx context.Context, coupon *model.Coupon) error

	// Delete はクーポンを削除する。見つからない場合は ErrNotFound を返す。
	Delete(ctx context.Context, id string) error
}

// CouponListParams はクーポン一覧取得のパラメータ。
// Region 指定時は全国クーポンも対象に含める。
type CouponListParams struct {
	Category string
	Region   string
	Limit    int
}
