package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/repository"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/clock"
)

func TestGetCouponUseCase_Execute_Found(t *testing.T) {
	mockCoupons := new(MockCouponRepository)
	clk := clock.NewFixedClock(testNow)
	uc := NewGetCouponUseCase(mockCoupons, newTestStore(), clk, 5*time.Minute)

	coupon := makeActiveCoupon(model.CodeKindStatic, "SAVE10")
	mockCoupons.On("GetByID", mock.Anything, "coupon-uuid-1").Return(coupon, nil).Once()

	output, err := uc.Execute(context.Background(), "coupon-uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "10%OFF", output.Coupon.Title)
	assert.True(t, output.Active)

	// 二回目はキャッシュヒット
	_, err = uc.Execute(context.Background(), "coupon-uuid-1")
	require.NoError(t, err)
	mockCoupons.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestGetCouponUseCase_Execute_ActiveReflectsClock(t *testing.T) {
	mockCoupons := new(MockCouponRepository)
	clk := clock.NewFixedClock(testNow)
	uc := NewGetCouponUseCase(mockCoupons, newTestStore(), clk, 5*time.Minute)

	coupon := makeActiveCoupon(model.CodeKindStatic, "SAVE10")
	coupon.EndDate = testNow.Add(30 * time.Second)
	mockCoupons.On("GetByID", mock.Anything, "coupon-uuid-1").Return(coupon, nil).Once()

	output, err := uc.Execute(context.Background(), "coupon-uuid-1")
	require.NoError(t, err)
	assert.True(t, output.Active)

	// キャッシュヒットでも有効判定は現在時刻で再評価される
	clk.Advance(1 * time.Minute)
	output, err = uc.Execute(context.Background(), "coupon-uuid-1")
	require.NoError(t, err)
	assert.False(t, output.Active)
}

func TestGetCouponUseCase_Execute_NotFoundIsNotCached(t *testing.T) {
	mockCoupons := new(MockCouponRepository)
	clk := clock.NewFixedClock(testNow)
	uc := NewGetCouponUseCase(mockCoupons, newTestStore(), clk, 5*time.Minute)

	mockCoupons.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	_, err := uc.Execute(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCouponNotFound)

	// 不在はキャッシュされず、次回も必ずリポジトリを参照する
	_, err = uc.Execute(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCouponNotFound)
	mockCoupons.AssertNumberOfCalls(t, "GetByID", 2)
}
