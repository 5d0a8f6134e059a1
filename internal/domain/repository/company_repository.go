package repository

import (
	"context"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
)

// CompanyRepository は企業情報の永続化インターフェース。
type CompanyRepository interface {
	// GetByID は ID で企業を取得する。見つからない場合は ErrNotFound を返す。
	GetByID(ctx context.Context, id string) (*model.Company, error)

	// GetByEmail はメールアドレスで企業を取得する。見つからない場合は ErrNotFound を返す。
	GetByEmail(ctx context.Context, email string) (*model.Company, error)

	// Create は企業を作成する。
	Create(ctx context.Context, company *model.Company) error
}
