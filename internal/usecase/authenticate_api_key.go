package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/cache"
)

const (
	apiKeyCacheKeyPrefix = "apikey:"
	// apiKeyCacheScope は API キーキャッシュの無効化スコープ。
	// プラン変更時にスコープ単位で無効化される。
	apiKeyCacheScope = "apikeys"
)

// apiKeyCacheKey はシークレットのハッシュからキャッシュキーを導出する。
// 生のシークレットをキャッシュキーに使わない。
func apiKeyCacheKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return apiKeyCacheKeyPrefix + hex.EncodeToString(sum[:])
}

// AuthenticateAPIKeyUseCase は API キー認証ユースケース。
type AuthenticateAPIKeyUseCase struct {
	apiKeyRepo repository.ApiKeyRepository
	store      *cache.Store
	cacheTTL   time.Duration
}

// NewAuthenticateAPIKeyUseCase は新しい AuthenticateAPIKeyUseCase を作成する。
func NewAuthenticateAPIKeyUseCase(
	apiKeyRepo repository.ApiKeyRepository,
	store *cache.Store,
	cacheTTL time.Duration,
) *AuthenticateAPIKeyUseCase {
	return &AuthenticateAPIKeyUseCase{
		apiKeyRepo: apiKeyRepo,
		store:      store,
		cacheTTL:   cacheTTL,
	}
}

// Execute は提示されたシークレットを検証し、対応する API キーを返す。
// 不明なシークレットは ErrInvalidAPIKey（キャッシュには残さない）。
func (uc *AuthenticateAPIKeyUseCase) Execute(ctx context.Context, secret string) (*model.ApiKey, error) {
	if secret == "" {
		return nil, ErrInvalidAPIKey
	}

	raw, err := uc.store.GetOrLoad(ctx, apiKeyCacheKey(secret), apiKeyCacheScope, uc.cacheTTL, func(ctx context.Context) (string, error) {
		key, err := uc.apiKeyRepo.GetBySecret(ctx, secret)
		if err != nil {
			return "", err
		}
		data, err := json.Marshal(cachedApiKey{
			ID:           key.ID,
			CompanyID:    key.CompanyID,
			Tier:         key.Tier,
			MonthlyQuota: key.MonthlyQuota,
		})
		if err != nil {
			return "", fmt.Errorf("failed to serialize api key: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("failed to authenticate api key: %w", err)
	}

	var cached cachedApiKey
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, fmt.Errorf("failed to deserialize cached api key: %w", err)
	}

	return &model.ApiKey{
		ID:           cached.ID,
		CompanyID:    cached.CompanyID,
		Tier:         cached.Tier,
		MonthlyQuota: cached.MonthlyQuota,
	}, nil
}

// cachedApiKey はキャッシュに格納する API キーの表現。
// シークレット本体は格納しない。
type cachedApiKey struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"company_id"`
	Tier         model.Tier `json:"tier"`
	MonthlyQuota int        `json:"monthly_quota"`
}
