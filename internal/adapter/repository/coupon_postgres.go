package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/persistence"
)

const couponColumns = `id, company_id, title, description, category, start_date, end_date, region, code_kind, code_payload, created_at, updated_at`

// CouponPostgresRepository は CouponRepository の PostgreSQL 実装。
type CouponPostgresRepository struct {
	db *persistence.DB
}

// NewCouponPostgresRepository は新しい CouponPostgresRepository を作成する。
func NewCouponPostgresRepository(db *persistence.DB) *CouponPostgresRepository {
	return &CouponPostgresRepository{db: db}
}

// GetByID は ID でクーポンを取得する。
func (r *CouponPostgresRepository) GetByID(ctx context.Context, id string) (*model.Coupon, error) {
	query := fmt.Sprintf(`SELECT %s FROM coupons WHERE id = $1`, couponColumns)

	var coupon model.Coupon
	err := r.db.Conn().GetContext(ctx, &coupon, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return &coupon, nil
}

// List は検索条件に一致するクーポンを一覧取得する。
// Region 指定時は全国クーポンも対象に含める。
func (r *CouponPostgresRepository) List(ctx context.Context, params repository.CouponListParams) ([]*model.Coupon, error) {
	var conditions []string
	var args []interface{}
	bindIdx := 1

	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", bindIdx))
		args = append(args, params.Category)
		bindIdx++
	}

	if params.Region != "" {
		conditions = append(conditions, fmt.Sprintf("(region = $%d OR region = $%d)", bindIdx, bindIdx+1))
		args = append(args, params.Region, model.RegionNationwide)
		bindIdx += 2
	}

	whereClause := ""
	for i, c := range conditions {
		if i == 0 {
			whereClause = " WHERE " + c
		} else {
			whereClause += " AND " + c
		}
	}

	limit := params.Limit
	if limit < 1 {
		limit = 20
	}

	query := fmt.Sprintf(
		"SELECT %s FROM coupons%s ORDER BY created_at DESC LIMIT $%d",
		couponColumns, whereClause, bindIdx,
	)
	args = append(args, limit)

	var coupons []*model.Coupon
	if err := r.db.Conn().SelectContext(ctx, &coupons, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}

	return coupons, nil
}

// Create はクーポンを作成する。
func (r *CouponPostgresRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	query := `INSERT INTO coupons (id, company_id, title, description, category, start_date, end_date, region, code_kind, code_payload, created_at, updated_at)
	          VALUES (:id, :company_id, :title, :description, :category, :start_date, :end_date, :region, :code_kind, :code_payload, :created_at, :updated_at)`

	if _, err := r.db.Conn().NamedExecContext(ctx, query, coupon); err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

// Update はクーポンを更新する。
func (r *CouponPostgresRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	query := `UPDATE coupons
	          SET title = :title, description = :description, category = :category,
	              start_date = :start_date, end_date = :end_date, region = :region,
	              code_kind = :code_kind, code_payload = :code_payload, updated_at = :updated_at
	          WHERE id = :id`

	result, err := r.db.Conn().NamedExecContext(ctx, query, coupon)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete はクーポンを削除する。
func (r *CouponPostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Conn().ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
