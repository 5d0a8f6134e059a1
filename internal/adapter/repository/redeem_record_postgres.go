package repository

import (
	"context"
	"fmt"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/persistence"
)

// RedeemRecordPostgresRepository は RedeemRecordRepository の PostgreSQL 実装。
// redeem_records テーブルは UNIQUE (coupon_id, claimant_id) 制約を持つ。
type RedeemRecordPostgresRepository struct {
	db *persistence.DB
}

// NewRedeemRecordPostgresRepository は新しい RedeemRecordPostgresRepository を作成する。
func NewRedeemRecordPostgresRepository(db *persistence.DB) *RedeemRecordPostgresRepository {
	return &RedeemRecordPostgresRepository{db: db}
}

// InsertIfAbsent は (couponId, claimantId) が未登録の場合のみ記録を挿入する。
// ON CONFLICT DO NOTHING により既存判定と挿入を単一文で行うため、
// 同一 claimant の同時リクエストでも成功は高々 1 件となる。
func (r *RedeemRecordPostgresRepository) InsertIfAbsent(ctx context.Context, record *model.RedeemRecord) error {
	query := `INSERT INTO redeem_records (id, coupon_id, claimant_id, redeemed_at, meta_json)
	          VALUES (:id, :coupon_id, :claimant_id, :redeemed_at, :meta_json)
	          ON CONFLICT (coupon_id, claimant_id) DO NOTHING`

	result, err := r.db.Conn().NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("failed to insert redeem record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrDuplicate
	}

	return nil
}

// ListByCouponID はクーポンの利用記録を新しい順に取得する。
func (r *RedeemRecordPostgresRepository) ListByCouponID(ctx context.Context, couponID string) ([]*model.RedeemRecord, error) {
	query := `SELECT id, coupon_id, claimant_id, redeemed_at, meta_json
	          FROM redeem_records
	          WHERE coupon_id = $1
	          ORDER BY redeemed_at DESC`

	var records []*model.RedeemRecord
	if err := r.db.Conn().SelectContext(ctx, &records, query, couponID); err != nil {
		return nil, fmt.Errorf("failed to query redeem records: %w", err)
	}

	return records, nil
}

// CountByCouponID はクーポンの利用数を返す。
func (r *RedeemRecordPostgresRepository) CountByCouponID(ctx context.Context, couponID string) (int, error) {
	var count int
	err := r.db.Conn().GetContext(ctx, &count, `SELECT COUNT(*) FROM redeem_records WHERE coupon_id = $1`, couponID)
	if err != nil {
		return 0, fmt.Errorf("failed to count redeem records: %w", err)
	}

	return count, nil
}
