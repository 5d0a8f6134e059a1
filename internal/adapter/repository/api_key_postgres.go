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

const apiKeyColumns = `id, company_id, tier, secret, monthly_quota, created_at, updated_at`

// ApiKeyPostgresRepository は ApiKeyRepository の PostgreSQL 実装。
type ApiKeyPostgresRepository struct {
	db *persistence.DB
}

// NewApiKeyPostgresRepository は新しい ApiKeyPostgresRepository を作成する。
func NewApiKeyPostgresRepository(db *persistence.DB) *ApiKeyPostgresRepository {
	return &ApiKeyPostgresRepository{db: db}
}

// GetBySecret は提示されたシークレットに対応する API キーを取得する。
func (r *ApiKeyPostgresRepository) GetBySecret(ctx context.Context, secret string) (*model.ApiKey, error) {
	query := fmt.Sprintf(`SELECT %s FROM api_keys WHERE secret = $1`, apiKeyColumns)

	var key model.ApiKey
	err := r.db.Conn().GetContext(ctx, &key, query, secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}

	return &key, nil
}

// GetByCompanyID は企業に紐づく API キーを取得する。
func (r *ApiKeyPostgresRepository) GetByCompanyID(ctx context.Context, companyID string) (*model.ApiKey, error) {
	query := fmt.Sprintf(`SELECT %s FROM api_keys WHERE company_id = $1`, apiKeyColumns)

	var key model.ApiKey
	err := r.db.Conn().GetContext(ctx, &key, query, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get api key by company: %w", err)
	}

	return &key, nil
}

// Create は API キーを作成する。
func (r *ApiKeyPostgresRepository) Create(ctx context.Context, key *model.ApiKey) error {
	query := `INSERT INTO api_keys (id, company_id, tier, secret, monthly_quota, created_at, updated_at)
	          VALUES (:id, :company_id, :tier, :secret, :monthly_quota, :created_at, :updated_at)`

	if _, err := r.db.Conn().NamedExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}

	return nil
}

// UpdatePlan はプラン変更に伴い tier と monthlyQuota を更新する。
func (r *ApiKeyPostgresRepository) UpdatePlan(ctx context.Context, id string, tier model.Tier, monthlyQuota int) error {
	query := `UPDATE api_keys SET tier = $1, monthly_quota = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.db.Conn().ExecContext(ctx, query, tier, monthlyQuota, id)
	if err != nil {
		return fmt.Errorf("failed to update api key plan: %w", err)
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
