package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker は依存先の健全性を確認するインターフェース。
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// HealthHandler はヘルスチェックの REST ハンドラー。
type HealthHandler struct {
	appName    string
	appVersion string
	checkers   map[string]HealthChecker
}

// NewHealthHandler は新しい HealthHandler を作成する。
func NewHealthHandler(appName, appVersion string, checkers map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{
		appName:    appName,
		appVersion: appVersion,
		checkers:   checkers,
	}
}

// Healthz は GET /healthz のハンドラー。プロセスの生存確認のみ行う。
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    h.appName,
		"version": h.appVersion,
	})
}

// Readyz は GET /readyz のハンドラー。依存先への疎通を確認する。
func (h *HealthHandler) Readyz(c *gin.Context) {
	results := make(map[string]string, len(h.checkers))
	healthy := true
	for name, checker := range h.checkers {
		if err := checker.Healthy(c.Request.Context()); err != nil {
			results[name] = err.Error()
			healthy = false
		} else {
			results[name] = "ok"
		}
	}

	status := http.StatusOK
	statusText := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		statusText = "unavailable"
	}
	c.JSON(status, gin.H{
		"status":       statusText,
		"dependencies": results,
	})
}
