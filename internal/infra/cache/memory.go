package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt *time.Time
}

func (e *entry) isExpired() bool {
	if e.expiresAt == nil {
		return false
	}
	return time.Now().After(*e.expiresAt)
}

// InMemoryCacheClient はメモリ内キャッシュの実装。テストで使用する。
type InMemoryCacheClient struct {
	mu    sync.RWMutex
	store map[string]*entry
	sets  map[string]map[string]struct{}
}

// NewInMemoryCacheClient は新しい InMemoryCacheClient を生成する。
func NewInMemoryCacheClient() *InMemoryCacheClient {
	return &InMemoryCacheClient{
		store: make(map[string]*entry),
		sets:  make(map[string]map[string]struct{}),
	}
}

func (c *InMemoryCacheClient) Get(_ context.Context, key string) (*string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.store[key]
	if !ok || e.isExpired() {
		return nil, nil
	}
	val := e.value
	return &val, nil
}

func (c *InMemoryCacheClient) Set(_ context.Context, key string, value string, ttl *time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{value: value}
	if ttl != nil {
		exp := time.Now().Add(*ttl)
		e.expiresAt = &exp
	}
	c.store[key] = e
	return nil
}

func (c *InMemoryCacheClient) Delete(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.store[key]; ok {
		delete(c.store, key)
		return true, nil
	}
	if _, ok := c.sets[key]; ok {
		delete(c.sets, key)
		return true, nil
	}
	return false, nil
}

func (c *InMemoryCacheClient) AddToSet(_ context.Context, key string, member string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sets[key]
	if !ok {
		s = make(map[string]struct{})
		c.sets[key] = s
	}
	s[member] = struct{}{}
	return nil
}

func (c *InMemoryCacheClient) SetMembers(_ context.Context, key string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.sets[key]
	if !ok {
		return nil, nil
	}
	members := make([]string, 0, len(s))
	for m := range s {
		members = append(members, m)
	}
	return members, nil
}

func (c *InMemoryCacheClient) Healthy(_ context.Context) error {
	return nil
}
