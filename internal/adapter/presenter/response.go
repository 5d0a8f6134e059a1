package presenter

import (
	"time"

	"github.com/gin-gonic/gin"
)

// エラーコード一覧。HTTP ステータスと組でクライアントに返される。
const (
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidAPIKey     = "INVALID_API_KEY"
	CodeQuotaExceeded     = "QUOTA_EXCEEDED"
	CodeCouponNotFound    = "COUPON_NOT_FOUND"
	CodeCouponExpired     = "COUPON_EXPIRED"
	CodeAlreadyRedeemed   = "ALREADY_REDEEMED"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeInvalidCouponType = "INVALID_COUPON_TYPE"
	CodeEmailExists       = "EMAIL_ALREADY_EXISTS"
	CodeCompanyNotFound   = "COMPANY_NOT_FOUND"
	CodeInvalidMagicToken = "INVALID_MAGIC_TOKEN"
	CodeInvalidSignature  = "INVALID_SIGNATURE"
	CodeInternalError     = "INTERNAL_ERROR"
)

// SuccessResponse は成功レスポンスの統一エンベロープ。
type SuccessResponse struct {
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse は失敗レスポンスの統一エンベロープ。
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail はエラーの詳細情報。
type ErrorDetail struct {
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Success は統一フォーマットの成功レスポンスを書き込む。
func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, SuccessResponse{
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// Error は統一フォーマットのエラーレスポンスを書き込む。
func Error(c *gin.Context, statusCode int, code, message string) {
	requestID, _ := c.Get("request_id")
	reqID, _ := requestID.(string)

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Message:   message,
			Code:      code,
			RequestID: reqID,
			Timestamp: time.Now().UTC(),
		},
	})
}
