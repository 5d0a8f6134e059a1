package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID はリクエスト ID の伝搬に使う HTTP ヘッダー名。
const HeaderRequestID = "X-Request-ID"

// ContextKeyRequestID はリクエスト ID を格納するコンテキストキー。
// エラーエンベロープの request_id はこのキーから取り出される。
const ContextKeyRequestID = "request_id"

// RequestID はリクエストごとに一意な ID を割り当てるミドルウェア。
// 呼び出し元がヘッダーで ID を持ち込んだ場合はそれを引き継ぐ。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = "req_" + uuid.NewString()[:12]
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
