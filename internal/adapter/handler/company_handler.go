package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/k1s0-platform/system-server-go-coupon/internal/adapter/presenter"
	"github.com/k1s0-platform/system-server-go-coupon/internal/usecase"
)

// CompanyHandler は企業登録の REST ハンドラー。
type CompanyHandler struct {
	registerUC  *usecase.RegisterCompanyUseCase
	magicLinkUC *usecase.IssueMagicLinkUseCase
}

// NewCompanyHandler は新しい CompanyHandler を作成する。
func NewCompanyHandler(registerUC *usecase.RegisterCompanyUseCase, magicLinkUC *usecase.IssueMagicLinkUseCase) *CompanyHandler {
	return &CompanyHandler{registerUC: registerUC, magicLinkUC: magicLinkUC}
}

// Register は POST /v1/companies のハンドラー。
// 登録と同時に FREE プランの API キーとログイン用マジックリンクを発行する。
func (h *CompanyHandler) Register(c *gin.Context) {
	var input usecase.RegisterCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeValidationError(c, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		writeValidationError(c, err)
		return
	}

	output, err := h.registerUC.Execute(c.Request.Context(), input)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}

	body := gin.H{
		"company":        output.Company,
		"api_key_id":     output.APIKeyID,
		"api_key_secret": output.APIKeySecret,
		"tier":           output.Tier,
	}

	// マジックリンクはベストエフォートで同時発行する
	if link, err := h.magicLinkUC.Execute(c.Request.Context(), usecase.IssueMagicLinkInput{Email: output.Company.Email}); err == nil {
		body["magic_link_url"] = link.URL
	}

	presenter.Success(c, http.StatusCreated, body)
}
