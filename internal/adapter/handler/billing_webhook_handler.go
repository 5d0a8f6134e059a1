package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/k1s0-platform/system-server-go-coupon/internal/adapter/presenter"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/usecase"
)

// SignatureHeader は課金 Webhook の署名ヘッダー。
const SignatureHeader = "X-Billing-Signature"

// BillingWebhookHandler は課金サービスからの Webhook を受けるハンドラー。
// リクエストボディの HMAC-SHA256 署名を検証してからプラン変更を適用する。
type BillingWebhookHandler struct {
	applyPlanUC   *usecase.ApplyPlanChangeUseCase
	webhookSecret string
}

// NewBillingWebhookHandler は新しい BillingWebhookHandler を作成する。
func NewBillingWebhookHandler(applyPlanUC *usecase.ApplyPlanChangeUseCase, webhookSecret string) *BillingWebhookHandler {
	return &BillingWebhookHandler{
		applyPlanUC:   applyPlanUC,
		webhookSecret: webhookSecret,
	}
}

// planChangePayload は課金サービスが送信するプラン変更通知。
type planChangePayload struct {
	CompanyID string     `json:"company_id"`
	NewTier   model.Tier `json:"new_tier"`
}

// HandlePlanChange は POST /webhooks/billing のハンドラー。
func (h *BillingWebhookHandler) HandlePlanChange(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		presenter.Error(c, http.StatusBadRequest, presenter.CodeValidationError, "failed to read request body")
		return
	}

	if !h.verifySignature(body, c.GetHeader(SignatureHeader)) {
		presenter.Error(c, http.StatusUnauthorized, presenter.CodeInvalidSignature, "webhook signature mismatch")
		return
	}

	var payload planChangePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		presenter.Error(c, http.StatusBadRequest, presenter.CodeValidationError, "invalid webhook payload")
		return
	}

	input := usecase.ApplyPlanChangeInput{
		CompanyID: payload.CompanyID,
		NewTier:   payload.NewTier,
	}
	if err := validate.Struct(input); err != nil {
		writeValidationError(c, err)
		return
	}

	if err := h.applyPlanUC.Execute(c.Request.Context(), input); err != nil {
		writeUsecaseError(c, err)
		return
	}

	presenter.Success(c, http.StatusOK, gin.H{"applied": true})
}

// verifySignature はボディの HMAC-SHA256 署名を定数時間で比較する。
func (h *BillingWebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
