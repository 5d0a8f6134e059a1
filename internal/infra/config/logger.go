package config

import (
	"log/slog"
	"os"
)

// NewLogger は構造化ロガーを初期化する。
// 本番・ステージングは JSON、それ以外はテキスト形式で標準出力に書く。
// 開発環境ではデバッグレベルまで出力する。
func NewLogger(environment, appName, version, tier string) *slog.Logger {
	level := slog.LevelInfo
	if environment == "development" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}
	if environment == "production" || environment == "staging" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(
		slog.String("app", appName),
		slog.String("version", version),
		slog.String("tier", tier),
	)
}
