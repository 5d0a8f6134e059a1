package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/clock"
)

// RegisterCompanyUseCase は企業登録ユースケース。
// 登録と同時に FREE プランの API キーを発行する。
type RegisterCompanyUseCase struct {
	companyRepo repository.CompanyRepository
	apiKeyRepo  repository.ApiKeyRepository
	clk         clock.Clock
}

// NewRegisterCompanyUseCase は新しい RegisterCompanyUseCase を作成する。
func NewRegisterCompanyUseCase(
	companyRepo repository.CompanyRepository,
	apiKeyRepo repository.ApiKeyRepository,
	clk clock.Clock,
) *RegisterCompanyUseCase {
	return &RegisterCompanyUseCase{
		companyRepo: companyRepo,
		apiKeyRepo:  apiKeyRepo,
		clk:         clk,
	}
}

// RegisterCompanyInput は企業登録の入力パラメータ。
type RegisterCompanyInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Industry string `json:"industry" validate:"max=100"`
	LogoURL  string `json:"logo_url" validate:"omitempty,url"`
}

// RegisterCompanyOutput は企業登録の出力。
// APIKeySecret はこのレスポンスでのみ平文で返される。
type RegisterCompanyOutput struct {
	Company      *model.Company `json:"company"`
	APIKeyID     string         `json:"api_key_id"`
	APIKeySecret string         `json:"api_key_secret"`
	Tier         model.Tier     `json:"tier"`
}

// Execute は企業を登録し API キーを発行する。
// 登録済みメールアドレスの場合は ErrEmailAlreadyExists。
func (uc *RegisterCompanyUseCase) Execute(ctx context.Context, input RegisterCompanyInput) (*RegisterCompanyOutput, error) {
	_, err := uc.companyRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	now := uc.clk.Now()
	company := &model.Company{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Industry:  input.Industry,
		LogoURL:   input.LogoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.companyRepo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	secret, err := newAPIKeySecret()
	if err != nil {
		return nil, err
	}
	key := &model.ApiKey{
		ID:           uuid.NewString(),
		CompanyID:    company.ID,
		Tier:         model.TierFree,
		Secret:       secret,
		MonthlyQuota: model.QuotaFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.apiKeyRepo.Create(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to create api key: %w", err)
	}

	return &RegisterCompanyOutput{
		Company:      company,
		APIKeyID:     key.ID,
		APIKeySecret: secret,
		Tier:         key.Tier,
	}, nil
}

// newAPIKeySecret は sk_ プレフィックス付きのシークレットを生成する。
func newAPIKeySecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key secret: %w", err)
	}
	return "sk_" + hex.EncodeToString(buf), nil
}
