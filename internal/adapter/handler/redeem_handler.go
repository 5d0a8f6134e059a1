package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/k1s0-platform/system-server-go-coupon/internal/adapter/middleware"
	"github.com/k1s0-platform/system-server-go-coupon/internal/adapter/presenter"
	"github.com/k1s0-platform/system-server-go-coupon/internal/usecase"
)

// RedeemHandler はクーポン利用の REST ハンドラー。
type RedeemHandler struct {
	redeemUC *usecase.RedeemCouponUseCase
}

// NewRedeemHandler は新しい RedeemHandler を作成する。
func NewRedeemHandler(redeemUC *usecase.RedeemCouponUseCase) *RedeemHandler {
	return &RedeemHandler{redeemUC: redeemUC}
}

// Redeem は POST /v1/redeem のハンドラー。
func (h *RedeemHandler) Redeem(c *gin.Context) {
	var req struct {
		CouponID   string `json:"coupon_id" binding:"required"`
		ClaimantID string `json:"claimant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	input := usecase.RedeemCouponInput{
		CouponID:   req.CouponID,
		ClaimantID: req.ClaimantID,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}
	if key, ok := middleware.APIKeyFromContext(c); ok {
		input.APIKeyID = key.ID
	}

	output, err := h.redeemUC.Execute(c.Request.Context(), input)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	body := gin.H{
		"coupon_id":   output.CouponID,
		"claimant_id": req.ClaimantID,
		"coupon":      output.Coupon,
		"type":        output.Resolved.Type,
		"redeemed_at": output.RedeemedAt,
	}
	if output.Resolved.Code != "" {
		body["code"] = output.Resolved.Code
	}
	if output.Resolved.RedirectURL != "" {
		body["redirect_url"] = output.Resolved.RedirectURL
	}

	presenter.Success(c, http.StatusCreated, body)
}
