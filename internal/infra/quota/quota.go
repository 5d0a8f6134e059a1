package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/clock"
)

// CounterStore は使用量カウンターのバックエンド。
// 増分はストア側で不可分に実行される（呼び出し側での read-modify-write は不可）。
// キャッシュ層とは意図的に別系統とする。キャッシュは失っても再構築できるが、
// カウンターは月次課金周期に整列した有効期限を持つ。
type CounterStore interface {
	// Get はキーの現在値を返す。キーが存在しない場合は 0。
	Get(ctx context.Context, key string) (int64, error)
	// Increment はキーを不可分に +1 し、新しい値を返す。
	// 有効期限は expireAt に設定（更新）される。
	Increment(ctx context.Context, key string, expireAt time.Time) (int64, error)
	// Healthy はバックエンドへの接続を確認する。
	Healthy(ctx context.Context) error
}

// Tracker は API キーごとの月次使用量を管理する。
// カウンターは課金上の正本ではなくベストエフォートであり、
// バックエンド障害時は使用量 0 にフェイルオープンする。
type Tracker struct {
	store CounterStore
	clk   clock.Clock
}

// NewTracker は新しい Tracker を生成する。
func NewTracker(store CounterStore, clk clock.Clock) *Tracker {
	return &Tracker{store: store, clk: clk}
}

// Usage は当該 API キーの現在期間の使用量を返す。
// カウンターストア障害時はログを残して 0 を返し、リクエストを止めない。
func (t *Tracker) Usage(ctx context.Context, apiKeyID string) int64 {
	key := t.periodKey(apiKeyID)
	count, err := t.store.Get(ctx, key)
	if err != nil {
		slog.Warn("usage counter get failed, failing open to 0", "api_key_id", apiKeyID, "error", err)
		return 0
	}
	return count
}

// Increment は使用量を不可分に +1 し、新しい値を返す。
// 有効期限は翌月初（UTC）に設定され、全カウンターが課金周期に整列する。
// 障害時はログを残して 0 を返す（計上漏れは許容する）。
func (t *Tracker) Increment(ctx context.Context, apiKeyID string) int64 {
	now := t.clk.Now()
	key := t.periodKey(apiKeyID)
	count, err := t.store.Increment(ctx, key, NextMonthStart(now))
	if err != nil {
		slog.Warn("usage counter increment failed", "api_key_id", apiKeyID, "error", err)
		return 0
	}
	return count
}

// IsOverQuota は使用量がクォータに達しているかを返す。
// usage >= limit であり、ちょうど limit 件目のリクエスト自体が拒否される。
func IsOverQuota(usage int64, limit int) bool {
	return usage >= int64(limit)
}

// periodKey は (apiKeyID, 暦月) に対応するカウンターキーを返す。
func (t *Tracker) periodKey(apiKeyID string) string {
	return fmt.Sprintf("usage:%s:%s", apiKeyID, t.clk.Now().UTC().Format("2006-01"))
}

// NextMonthStart は now の翌月初（UTC 0 時）を返す。
func NextMonthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}
