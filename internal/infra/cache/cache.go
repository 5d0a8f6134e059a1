package cache

import (
	"context"
	"fmt"
	"time"
)

// CacheClient はキャッシュクライアントのインターフェース。
type CacheClient interface {
	// Get はキーに対応する値を取得する。見つからない場合は nil を返す。
	Get(ctx context.Context, key string) (*string, error)
	// Set はキーと値をキャッシュに格納する。ttl が nil の場合は無期限。
	Set(ctx context.Context, key string, value string, ttl *time.Duration) error
	// Delete はキーを削除する。削除した場合 true を返す。
	// 戻り値の bool はワンタイムトークンの消費判定に使う。
	Delete(ctx context.Context, key string) (bool, error)
	// AddToSet は集合キーにメンバーを追加する。無効化スコープの索引に使う。
	AddToSet(ctx context.Context, key string, member string) error
	// SetMembers は集合キーの全メンバーを返す。
	SetMembers(ctx context.Context, key string) ([]string, error)
	// Healthy はキャッシュバックエンドへの接続を確認する。
	Healthy(ctx context.Context) error
}

// CacheError はキャッシュ操作のエラー。
type CacheError struct {
	Code    string
	Message string
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewConnectionError は接続エラーを生成する。
func NewConnectionError(msg string) *CacheError {
	return &CacheError{Code: "CONNECTION_ERROR", Message: msg}
}
