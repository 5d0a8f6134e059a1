package quota

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	value    int64
	expireAt time.Time
}

// InMemoryCounterStore はメモリ内の CounterStore 実装。テストで使用する。
type InMemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*counter
	nowFn    func() time.Time
}

// InMemoryCounterOption は InMemoryCounterStore の設定オプション。
type InMemoryCounterOption func(*InMemoryCounterStore)

// WithNowFunc は期限判定に使う時刻関数を差し替える。
func WithNowFunc(fn func() time.Time) InMemoryCounterOption {
	return func(s *InMemoryCounterStore) {
		s.nowFn = fn
	}
}

// NewInMemoryCounterStore は新しい InMemoryCounterStore を生成する。
func NewInMemoryCounterStore(opts ...InMemoryCounterOption) *InMemoryCounterStore {
	s := &InMemoryCounterStore{
		counters: make(map[string]*counter),
		nowFn:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryCounterStore) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[key]
	if !ok || s.nowFn().After(c.expireAt) {
		return 0, nil
	}
	return c.value, nil
}

func (s *InMemoryCounterStore) Increment(_ context.Context, key string, expireAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[key]
	if !ok || s.nowFn().After(c.expireAt) {
		c = &counter{}
		s.counters[key] = c
	}
	c.value++
	c.expireAt = expireAt
	return c.value, nil
}

func (s *InMemoryCounterStore) Healthy(_ context.Context) error {
	return nil
}
