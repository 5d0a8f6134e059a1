package repository

import (
	"context"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
)

// ApiKeyRepository は API キーの永続化インターフェース。
type ApiKeyRepository interface {
	// GetBySecret は提示されたシークレットに対応する API キーを取得する。
	// 見つからない場合は ErrNotFound を返す。
	GetBySecret(ctx context.Context, secret string) (*model.ApiKey, error)

	// GetByCompanyID は企業に紐づく API キーを取得する。
	GetByCompanyID(ctx context.Context, companyID string) (*model.ApiKey, error)

	// Create は API キーを作成する。
	Create(ctx context.Context, key *model.ApiKey) error

	// UpdatePlan はプラン変更に伴い tier と monthlyQuota を更新する。
	UpdatePlan(ctx context.Context, id string, tier model.Tier, monthlyQuota int) error
}
