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

const companyColumns = `id, name, email, logo_url, industry, stripe_customer_id, created_at, updated_at`

// CompanyPostgresRepository は CompanyRepository の PostgreSQL 実装。
type CompanyPostgresRepository struct {
	db *persistence.DB
}

// NewCompanyPostgresRepository は新しい CompanyPostgresRepository を作成する。
func NewCompanyPostgresRepository(db *persistence.DB) *CompanyPostgresRepository {
	return &CompanyPostgresRepository{db: db}
}

// GetByID は ID で企業を取得する。
func (r *CompanyPostgresRepository) GetByID(ctx context.Context, id string) (*model.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM companies WHERE id = $1`, companyColumns)

	var company model.Company
	err := r.db.Conn().GetContext(ctx, &company, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

// GetByEmail はメールアドレスで企業を取得する。
func (r *CompanyPostgresRepository) GetByEmail(ctx context.Context, email string) (*model.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM companies WHERE email = $1`, companyColumns)

	var company model.Company
	err := r.db.Conn().GetContext(ctx, &company, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company by email: %w", err)
	}

	return &company, nil
}

// Create は企業を作成する。
func (r *CompanyPostgresRepository) Create(ctx context.Context, company *model.Company) error {
	query := `INSERT INTO companies (id, name, email, logo_url, industry, stripe_customer_id, created_at, updated_at)
	          VALUES (:id, :name, :email, :logo_url, :industry, :stripe_customer_id, :created_at, :updated_at)`

	if _, err := r.db.Conn().NamedExecContext(ctx, query, company); err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	return nil
}
