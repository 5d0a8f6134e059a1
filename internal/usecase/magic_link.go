package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/cache"
)

const (
	magicLinkKeyPrefix = "magiclink:"
	magicLinkTTL       = 15 * time.Minute
)

// IssueMagicLinkUseCase はダッシュボードログイン用マジックリンク発行ユースケース。
// トークンは TTL 付きでキャッシュに保持され、検証時に消費される。
type IssueMagicLinkUseCase struct {
	companyRepo repository.CompanyRepository
	cacheClient cache.CacheClient
	baseURL     string
}

// NewIssueMagicLinkUseCase は新しい IssueMagicLinkUseCase を作成する。
func NewIssueMagicLinkUseCase(
	companyRepo repository.CompanyRepository,
	cacheClient cache.CacheClient,
	baseURL string,
) *IssueMagicLinkUseCase {
	return &IssueMagicLinkUseCase{
		companyRepo: companyRepo,
		cacheClient: cacheClient,
		baseURL:     baseURL,
	}
}

// IssueMagicLinkInput はマジックリンク発行の入力パラメータ。
type IssueMagicLinkInput struct {
	Email string `json:"email" validate:"required,email"`
}

// IssueMagicLinkOutput はマジックリンク発行の出力。
type IssueMagicLinkOutput struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Execute はマジックリンクを発行する。未登録メールは ErrCompanyNotFound。
func (uc *IssueMagicLinkUseCase) Execute(ctx context.Context, input IssueMagicLinkInput) (*IssueMagicLinkOutput, error) {
	company, err := uc.companyRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate magic link token: %w", err)
	}
	token := hex.EncodeToString(buf)

	ttl := magicLinkTTL
	if err := uc.cacheClient.Set(ctx, magicLinkKeyPrefix+token, company.ID, &ttl); err != nil {
		return nil, fmt.Errorf("failed to store magic link token: %w", err)
	}

	return &IssueMagicLinkOutput{
		URL:       uc.baseURL + "/v1/auth/magiclink/verify?token=" + token,
		ExpiresAt: time.Now().UTC().Add(magicLinkTTL),
	}, nil
}

// VerifyMagicLinkUseCase はマジックリンク検証ユースケース。
type VerifyMagicLinkUseCase struct {
	companyRepo repository.CompanyRepository
	apiKeyRepo  repository.ApiKeyRepository
	cacheClient cache.CacheClient
}

// NewVerifyMagicLinkUseCase は新しい VerifyMagicLinkUseCase を作成する。
func NewVerifyMagicLinkUseCase(
	companyRepo repository.CompanyRepository,
	apiKeyRepo repository.ApiKeyRepository,
	cacheClient cache.CacheClient,
) *VerifyMagicLinkUseCase {
	return &VerifyMagicLinkUseCase{
		companyRepo: companyRepo,
		apiKeyRepo:  apiKeyRepo,
		cacheClient: cacheClient,
	}
}

// VerifyMagicLinkOutput はマジックリンク検証の出力。
type VerifyMagicLinkOutput struct {
	Company  *model.Company `json:"company"`
	APIKeyID string         `json:"api_key_id"`
	Tier     model.Tier     `json:"tier"`
}

// Execute はトークンを検証し、消費する。トークンは一度しか使えない。
func (uc *VerifyMagicLinkUseCase) Execute(ctx context.Context, token string) (*VerifyMagicLinkOutput, error) {
	if token == "" {
		return nil, ErrInvalidMagicToken
	}

	key := magicLinkKeyPrefix + token
	companyID, err := uc.cacheClient.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up magic link token: %w", err)
	}
	if companyID == nil {
		return nil, ErrInvalidMagicToken
	}

	// 同一トークンの並行検証では、削除に成功した一件だけを有効とする
	deleted, err := uc.cacheClient.Delete(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to consume magic link token: %w", err)
	}
	if !deleted {
		return nil, ErrInvalidMagicToken
	}

	company, err := uc.companyRepo.GetByID(ctx, *companyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidMagicToken
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	apiKey, err := uc.apiKeyRepo.GetByCompanyID(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}

	return &VerifyMagicLinkOutput{
		Company:  company,
		APIKeyID: apiKey.ID,
		Tier:     apiKey.Tier,
	}, nil
}
