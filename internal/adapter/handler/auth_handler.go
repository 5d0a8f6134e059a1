package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/k1s0-platform/system-server-go-coupon/internal/adapter/presenter"
	"github.com/k1s0-platform/system-server-go-coupon/internal/usecase"
)

// AuthHandler はマジックリンク認証の REST ハンドラー。
type AuthHandler struct {
	issueUC  *usecase.IssueMagicLinkUseCase
	verifyUC *usecase.VerifyMagicLinkUseCase
}

// NewAuthHandler は新しい AuthHandler を作成する。
func NewAuthHandler(issueUC *usecase.IssueMagicLinkUseCase, verifyUC *usecase.VerifyMagicLinkUseCase) *AuthHandler {
	return &AuthHandler{issueUC: issueUC, verifyUC: verifyUC}
}

// IssueMagicLink は POST /v1/auth/magiclink のハンドラー。
func (h *AuthHandler) IssueMagicLink(c *gin.Context) {
	var input usecase.IssueMagicLinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeValidationError(c, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		writeValidationError(c, err)
		return
	}

	output, err := h.issueUC.Execute(c.Request.Context(), input)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	presenter.Success(c, http.StatusOK, output)
}

// VerifyMagicLink は POST /v1/auth/magiclink/verify のハンドラー。
// トークンは検証成功時に消費される。
func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	output, err := h.verifyUC.Execute(c.Request.Context(), req.Token)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	if output.Company.Email != req.Email {
		presenter.Error(c, http.StatusUnauthorized, presenter.CodeInvalidMagicToken, "invalid or expired magic link token")
		return
	}

	presenter.Success(c, http.StatusOK, output)
}
