package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/k1s0-platform/system-server-go-coupon/internal/adapter/presenter"
	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/quota"
	"github.com/k1s0-platform/system-server-go-coupon/internal/usecase"
)

// ContextKeyAPIKey は認証済み API キーを格納するコンテキストキー。
const ContextKeyAPIKey = "api_key"

// APIKeyGate は X-API-Key 認証と月次クォータ制御を行うミドルウェア。
// chargeable が true のルートでは、事前にクォータを検査し、
// ハンドラーが成功レスポンスを返した場合のみ使用量を計上する。
// エラーレスポンス（4xx/5xx）はクォータを消費しない。
type APIKeyGate struct {
	auth    *usecase.AuthenticateAPIKeyUseCase
	tracker *quota.Tracker
}

// NewAPIKeyGate は新しい APIKeyGate を作成する。
func NewAPIKeyGate(auth *usecase.AuthenticateAPIKeyUseCase, tracker *quota.Tracker) *APIKeyGate {
	return &APIKeyGate{auth: auth, tracker: tracker}
}

// Handler は認証・クォータ制御のミドルウェアを返す。
func (g *APIKeyGate) Handler(chargeable bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader("X-API-Key")
		if secret == "" {
			presenter.Error(c, http.StatusUnauthorized, presenter.CodeUnauthorized, "X-API-Key header is required")
			c.Abort()
			return
		}

		key, err := g.auth.Execute(c.Request.Context(), secret)
		if err != nil {
			if errors.Is(err, usecase.ErrInvalidAPIKey) {
				presenter.Error(c, http.StatusUnauthorized, presenter.CodeInvalidAPIKey, "invalid api key")
			} else {
				presenter.Error(c, http.StatusInternalServerError, presenter.CodeInternalError, "failed to authenticate api key")
			}
			c.Abort()
			return
		}

		if chargeable {
			usage := g.tracker.Usage(c.Request.Context(), key.ID)
			if quota.IsOverQuota(usage, key.MonthlyQuota) {
				presenter.Error(c, http.StatusTooManyRequests, presenter.CodeQuotaExceeded, "monthly quota exceeded")
				c.Abort()
				return
			}
		}

		c.Set(ContextKeyAPIKey, key)
		c.Next()

		if chargeable && c.Writer.Status() < http.StatusBadRequest {
			g.tracker.Increment(c.Request.Context(), key.ID)
		}
	}
}

// APIKeyFromContext はコンテキストから認証済み API キーを取り出す。
func APIKeyFromContext(c *gin.Context) (*model.ApiKey, bool) {
	v, ok := c.Get(ContextKeyAPIKey)
	if !ok {
		return nil, false
	}
	key, ok := v.(*model.ApiKey)
	return key, ok
}
