package clock

import "time"

// Clock は現在時刻の供給源。テストでは固定時刻に差し替える。
type Clock interface {
	Now() time.Time
}

// SystemClock は実時刻を返す Clock 実装。
type SystemClock struct{}

// NewSystemClock は新しい SystemClock を生成する。
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock は固定時刻を返すテスト用 Clock 実装。
type FixedClock struct {
	now time.Time
}

// NewFixedClock は指定時刻で固定された FixedClock を生成する。
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	return c.now
}

// Set は固定時刻を差し替える。
func (c *FixedClock) Set(now time.Time) {
	c.now = now
}

// Advance は固定時刻を d だけ進める。
func (c *FixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
