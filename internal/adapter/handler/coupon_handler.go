package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/k1s0-platform/system-server-go-coupon/internal/adapter/middleware"
	"github.com/k1s0-platform/system-server-go-coupon/internal/adapter/presenter"
	"github.com/k1s0-platform/system-server-go-coupon/internal/usecase"
)

// CouponHandler はクーポン関連の REST ハンドラー。
type CouponHandler struct {
	listCouponsUC  *usecase.ListCouponsUseCase
	getCouponUC    *usecase.GetCouponUseCase
	createCouponUC *usecase.CreateCouponUseCase
	updateCouponUC *usecase.UpdateCouponUseCase
	deleteCouponUC *usecase.DeleteCouponUseCase
}

// NewCouponHandler は新しい CouponHandler を作成する。
func NewCouponHandler(
	listCouponsUC *usecase.ListCouponsUseCase,
	getCouponUC *usecase.GetCouponUseCase,
	createCouponUC *usecase.CreateCouponUseCase,
	updateCouponUC *usecase.UpdateCouponUseCase,
	deleteCouponUC *usecase.DeleteCouponUseCase,
) *CouponHandler {
	return &CouponHandler{
		listCouponsUC:  listCouponsUC,
		getCouponUC:    getCouponUC,
		createCouponUC: createCouponUC,
		updateCouponUC: updateCouponUC,
		deleteCouponUC: deleteCouponUC,
	}
}

// ListCoupons は GET /v1/coupons のハンドラー。
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	input := usecase.ListCouponsInput{
		Category: c.Query("category"),
		Region:   c.Query("region"),
		Limit:    limit,
	}

	output, err := h.listCouponsUC.Execute(c.Request.Context(), input)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	presenter.Success(c, http.StatusOK, gin.H{
		"coupons": output.Coupons,
		"total":   output.Total,
		"query":   output.Query,
	})
}

// GetCoupon は GET /v1/coupons/:id のハンドラー。
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	output, err := h.getCouponUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	if !output.Active {
		presenter.Error(c, http.StatusBadRequest, presenter.CodeCouponExpired, "coupon is not in validity period")
		return
	}

	presenter.Success(c, http.StatusOK, gin.H{"coupon": output.Coupon})
}

// CreateCoupon は POST /v1/coupons のハンドラー。認証必須・非課金。
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	key, ok := middleware.APIKeyFromContext(c)
	if !ok {
		presenter.Error(c, http.StatusUnauthorized, presenter.CodeUnauthorized, "authentication required")
		return
	}

	var input usecase.CreateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeValidationError(c, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		writeValidationError(c, err)
		return
	}
	input.CompanyID = key.CompanyID

	coupon, err := h.createCouponUC.Execute(c.Request.Context(), input)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	presenter.Success(c, http.StatusCreated, gin.H{"coupon": coupon})
}

// UpdateCoupon は PUT /v1/coupons/:id のハンドラー。認証必須・非課金。
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	key, ok := middleware.APIKeyFromContext(c)
	if !ok {
		presenter.Error(c, http.StatusUnauthorized, presenter.CodeUnauthorized, "authentication required")
		return
	}

	var input usecase.UpdateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeValidationError(c, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		writeValidationError(c, err)
		return
	}
	input.CouponID = c.Param("id")
	input.CompanyID = key.CompanyID

	coupon, err := h.updateCouponUC.Execute(c.Request.Context(), input)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	presenter.Success(c, http.StatusOK, gin.H{"coupon": coupon})
}

// DeleteCoupon は DELETE /v1/coupons/:id のハンドラー。認証必須・非課金。
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	key, ok := middleware.APIKeyFromContext(c)
	if !ok {
		presenter.Error(c, http.StatusUnauthorized, presenter.CodeUnauthorized, "authentication required")
		return
	}

	if err := h.deleteCouponUC.Execute(c.Request.Context(), c.Param("id"), key.CompanyID); err != nil {
		writeUsecaseError(c, err)
		return
	}

	presenter.Success(c, http.StatusOK, gin.H{"deleted": true})
}
