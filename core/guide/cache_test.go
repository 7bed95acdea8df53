package guide

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayline/guestqa/core/errors"
)

// fakeClock 可手动推进的时钟
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCacheFetchesOnceWithinTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()

	calls := 0
	cache := NewCache(func(ctx context.Context) ([]Entry, error) {
		calls++
		return []Entry{{ID: "e1", Question: "q", Patterns: []string{"q"}, Answer: "a"}}, nil
	}, 5*time.Minute)
	cache.now = clock.Now

	entries, err := cache.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, calls)

	// TTL窗口内的第二次调用不触发拉取
	clock.Advance(4 * time.Minute)
	_, err = cache.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// 过期后重新拉取
	clock.Advance(2 * time.Minute)
	_, err = cache.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCacheFetchFailureLeavesPriorState(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()

	healthy := true
	calls := 0
	cache := NewCache(func(ctx context.Context) ([]Entry, error) {
		calls++
		if !healthy {
			return nil, errors.New(errors.ErrSourceUnavailable, "content source returned HTTP 503")
		}
		return []Entry{{ID: "e1", Question: "q", Patterns: []string{"q"}, Answer: "a"}}, nil
	}, 5*time.Minute)
	cache.now = clock.Now

	_, err := cache.Entries(ctx)
	require.NoError(t, err)

	// 过期后拉取失败：错误上抛，旧数据保留
	healthy = false
	clock.Advance(6 * time.Minute)
	_, err = cache.Entries(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSourceUnavailable))

	// 源恢复后下一次调用成功刷新
	healthy = true
	entries, err := cache.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 3, calls)
}

func TestCacheInvalidateForcesRefetch(t *testing.T) {
	ctx := context.Background()

	calls := 0
	cache := NewCache(func(ctx context.Context) ([]Entry, error) {
		calls++
		return nil, nil
	}, time.Hour)

	_, err := cache.Entries(ctx)
	require.NoError(t, err)
	_, err = cache.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	cache.Invalidate()
	_, err = cache.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCacheAge(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()

	cache := NewCache(func(ctx context.Context) ([]Entry, error) {
		return nil, nil
	}, time.Hour)
	cache.now = clock.Now

	_, ok := cache.Age()
	assert.False(t, ok)

	_, err := cache.Entries(ctx)
	require.NoError(t, err)

	clock.Advance(90 * time.Second)
	age, ok := cache.Age()
	require.True(t, ok)
	assert.Equal(t, 90*time.Second, age)
}
