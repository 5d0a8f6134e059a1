package repository

import (
	"context"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
)

// RedeemRecordRepository はクーポン利用記録の永続化インターフェース。
type RedeemRecordRepository interface {
	// InsertIfAbsent は (couponId, claimantId) が未登録の場合のみ記録を挿入する。
	// 既存判定と挿入はストア側で単一の条件付き挿入として実行され、
	// 同一 claimant の同時リクエストでも成功は高々 1 件となる。
	// 既に記録がある場合は ErrDuplicate を返す。
	InsertIfAbsent(ctx context.Context, record *model.RedeemRecord) error

	// ListByCouponID はクーポンの利用記録を新しい順に取得する。
	ListByCouponID(ctx context.Context, couponID string) ([]*model.RedeemRecord, error)

	// CountByCouponID はクーポンの利用数を返す。
	CountByCouponID(ctx context.Context, couponID string) (int, error)
}
