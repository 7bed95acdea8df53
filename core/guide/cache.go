package guide

import (
	"context"
	"sync"
	"time"

	"github.com/gogf/gf/v2/frame/g"
)

// FetchFunc 指南条目的外部拉取协作方
type FetchFunc func(ctx context.Context) ([]Entry, error)

// Cache 指南条目缓存
// 进程内易失状态，TTL 过期后整体替换，绝不部分更新
// 刷新用互斥锁串行化，避免并发请求触发重复拉取（cache stampede）
type Cache struct {
	mu    sync.Mutex
	fetch FetchFunc
	ttl   time.Duration
	now   func() time.Time // 可注入的时钟，测试用

	entries   []Entry
	fetchedAt time.Time
	loaded    bool
}

func NewCache(fetch FetchFunc, ttl time.Duration) *Cache {
	return &Cache{
		fetch: fetch,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Entries 返回缓存的指南条目，过期则重新拉取
// 拉取失败时保留旧的一代数据并把错误上抛，下次调用重试
func (c *Cache) Entries(ctx context.Context) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.entries, nil
	}

	entries, err := c.fetch(ctx)
	if err != nil {
		g.Log().Errorf(ctx, "guide fetch failed, keeping previous generation: %v", err)
		return nil, err
	}

	c.entries = entries
	c.fetchedAt = c.now()
	c.loaded = true

	g.Log().Infof(ctx, "guide cache refreshed: %d entries", len(entries))
	return c.entries, nil
}

// Invalidate 强制下次调用重新拉取
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
}

// Age 返回当前一代数据的年龄；尚未加载时 ok 为 false
func (c *Cache) Age() (age time.Duration, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return 0, false
	}
	return c.now().Sub(c.fetchedAt), true
}
