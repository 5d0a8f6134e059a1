package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
)

// MockCouponRepository は CouponRepository のモック実装。
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) GetByID(ctx context.Context, id string) (*model.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) List(ctx context.Context, params repository.CouponListParams) ([]*model.Coupon, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRedeemRecordRepository は RedeemRecordRepository のモック実装。
type MockRedeemRecordRepository struct {
	mock.Mock
}

func (m *MockRedeemRecordRepository) InsertIfAbsent(ctx context.Context, record *model.RedeemRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRedeemRecordRepository) ListByCouponID(ctx context.Context, couponID string) ([]*model.RedeemRecord, error) {
	args := m.Called(ctx, couponID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RedeemRecord), args.Error(1)
}

func (m *MockRedeemRecordRepository) CountByCouponID(ctx context.Context, couponID string) (int, error) {
	args := m.Called(ctx, couponID)
	return args.Int(0), args.Error(1)
}

// MockApiKeyRepository は ApiKeyRepository のモック実装。
type MockApiKeyRepository struct {
	mock.Mock
}

func (m *MockApiKeyRepository) GetBySecret(ctx context.Context, secret string) (*model.ApiKey, error) {
	args := m.Called(ctx, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApiKey), args.Error(1)
}

func (m *MockApiKeyRepository) GetByCompanyID(ctx context.Context, companyID string) (*model.ApiKey, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApiKey), args.Error(1)
}

func (m *MockApiKeyRepository) Create(ctx context.Context, key *model.ApiKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockApiKeyRepository) UpdatePlan(ctx context.Context, id string, tier model.Tier, monthlyQuota int) error {
	args := m.Called(ctx, id, tier, monthlyQuota)
	return args.Error(0)
}

// MockCompanyRepository は CompanyRepository のモック実装。
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id string) (*model.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyRepository) GetByEmail(ctx context.Context, email string) (*model.Company, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyRepository) Create(ctx context.Context, company *model.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

// MockRedeemEventPublisher は RedeemEventPublisher のモック実装。
type MockRedeemEventPublisher struct {
	mock.Mock
}

func (m *MockRedeemEventPublisher) PublishRedeemEvent(ctx context.Context, event *model.RedeemEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockCouponEventPublisher は CouponEventPublisher のモック実装。
type MockCouponEventPublisher struct {
	mock.Mock
}

func (m *MockCouponEventPublisher) PublishCouponEvent(ctx context.Context, event *model.CouponChangeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockPlanEventPublisher は PlanEventPublisher のモック実装。
type MockPlanEventPublisher struct {
	mock.Mock
}

func (m *MockPlanEventPublisher) PublishPlanEvent(ctx context.Context, event *model.PlanChangeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
