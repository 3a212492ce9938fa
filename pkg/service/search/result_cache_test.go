package search

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
)

// fakeClock 可手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestResultCacheGetSet(t *testing.T) {
	cache := NewResultCache[string](ResultCacheOptions{})

	cache.Set("龙猫", "data-1", nil, 0)
	got, ok := cache.Get("龙猫", nil)
	if !ok || got != "data-1" {
		t.Fatalf("Get = %q, %v, want data-1, true", got, ok)
	}

	// 大小写、全角与多余空白都规范化为同一个键
	cache.Set("Ｔｏｔｏｒｏ  Forest", "data-2", nil, 0)
	if got, ok := cache.Get("totoro forest", nil); !ok || got != "data-2" {
		t.Errorf("规范化后的查询未命中: %q, %v", got, ok)
	}
}

func TestResultCacheFiltersAreDistinctKeys(t *testing.T) {
	cache := NewResultCache[string](ResultCacheOptions{})

	cache.Set("ghibli", "all", nil, 0)
	cache.Set("ghibli", "movies", model.SearchFilters{Type: model.EntityTypeMovie}, 0)

	if got, _ := cache.Get("ghibli", map[string]string{}); got != "all" {
		t.Errorf("空过滤条件应与未提供过滤条件等价, got %q", got)
	}
	if got, _ := cache.Get("ghibli", model.SearchFilters{Type: model.EntityTypeMovie}); got != "movies" {
		t.Errorf("不同过滤条件应是不同的缓存项, got %q", got)
	}
	if _, ok := cache.Get("ghibli", model.SearchFilters{Type: model.EntityTypeGuide}); ok {
		t.Error("未写入的过滤条件不应命中")
	}
}

func TestResultCacheEmptyQuery(t *testing.T) {
	cache := NewResultCache[string](ResultCacheOptions{})
	cache.Set("", "data", nil, 0)
	cache.Set("   ", "data", nil, 0)

	if _, ok := cache.Get("", nil); ok {
		t.Error("空查询不应命中")
	}
	if stats := cache.GetStats(); stats.Size != 0 {
		t.Errorf("空查询不应写入缓存, size = %d", stats.Size)
	}
}

func TestResultCacheHitsIncrement(t *testing.T) {
	cache := NewResultCache[string](ResultCacheOptions{})
	cache.Set("kiki", "data", nil, 0)

	first, _ := cache.Get("kiki", nil)
	hitsAfterFirst := cache.Hits("kiki", nil)
	second, _ := cache.Get("kiki", nil)
	hitsAfterSecond := cache.Hits("kiki", nil)

	if first != second {
		t.Errorf("连续两次 Get 返回不同数据: %q vs %q", first, second)
	}
	if hitsAfterSecond != hitsAfterFirst+1 {
		t.Errorf("命中计数 %d -> %d，期望加一", hitsAfterFirst, hitsAfterSecond)
	}

	// 未命中不计数
	cache.Get("missing", nil)
	if stats := cache.GetStats(); stats.TotalHits != 2 {
		t.Errorf("TotalHits = %d, want 2", stats.TotalHits)
	}
}

func TestResultCacheTTLExpiry(t *testing.T) {
	clock := newFakeClock()
	cache := NewResultCache[string](ResultCacheOptions{TTL: time.Minute, Now: clock.Now})

	cache.Set("ponyo", "short", nil, 100*time.Millisecond)
	cache.Set("porco", "default", nil, 0)

	clock.Advance(150 * time.Millisecond)
	if _, ok := cache.Get("ponyo", nil); ok {
		t.Error("超过 TTL 的缓存项应视为不存在")
	}
	if _, ok := cache.Get("porco", nil); !ok {
		t.Error("默认 TTL 的缓存项不应过期")
	}
	if stats := cache.GetStats(); stats.Size != 1 {
		t.Errorf("过期项应被惰性删除, size = %d", stats.Size)
	}

	clock.Advance(2 * time.Minute)
	if n := cache.PurgeExpired(); n != 1 {
		t.Errorf("PurgeExpired = %d, want 1", n)
	}
}

func TestResultCacheTTLExpiryRealClock(t *testing.T) {
	cache := NewResultCache[string](ResultCacheOptions{})
	cache.Set("mononoke", "data", map[string]string{}, 100*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	if _, ok := cache.Get("mononoke", nil); ok {
		t.Error("150ms 后应已过期")
	}
}

func TestResultCacheMaxSize(t *testing.T) {
	const maxSize = 5
	cache := NewResultCache[int](ResultCacheOptions{MaxSize: maxSize})

	for i := 0; i < 50; i++ {
		cache.Set(fmt.Sprintf("query-%d", i), i, nil, 0)
		if size := cache.GetStats().Size; size > maxSize {
			t.Fatalf("第 %d 次写入后 size = %d，超过上限 %d", i, size, maxSize)
		}
	}
	if _, ok := cache.Get("query-0", nil); ok {
		t.Error("最早写入的项应已被淘汰")
	}
	if v, ok := cache.Get("query-49", nil); !ok || v != 49 {
		t.Error("最新写入的项应仍然存在")
	}
}

func TestResultCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewResultCache[string](ResultCacheOptions{MaxSize: 2})
	cache.Set("a1", "a", nil, 0)
	cache.Set("b1", "b", nil, 0)
	cache.Get("a1", nil) // a1 变为最近使用
	cache.Set("c1", "c", nil, 0)

	if _, ok := cache.Get("b1", nil); ok {
		t.Error("b1 最久未使用，应被淘汰")
	}
	if _, ok := cache.Get("a1", nil); !ok {
		t.Error("a1 刚被访问过，不应被淘汰")
	}
}

func TestResultCacheClear(t *testing.T) {
	cache := NewResultCache[string](ResultCacheOptions{})
	cache.Set("arrietty", "data", nil, 0)
	cache.Get("arrietty", nil)
	cache.Clear()

	stats := cache.GetStats()
	if stats.Size != 0 || stats.TotalHits != 0 {
		t.Errorf("Clear 后 stats = %+v", stats)
	}
}

func TestResultCacheConcurrentAccess(t *testing.T) {
	cache := NewResultCache[int](ResultCacheOptions{MaxSize: 10})
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				q := fmt.Sprintf("q-%d", (g*200+i)%25)
				cache.Set(q, i, nil, 0)
				cache.Get(q, nil)
			}
		}(g)
	}
	wg.Wait()

	if size := cache.GetStats().Size; size > 10 {
		t.Errorf("并发写入后 size = %d，超过上限", size)
	}
}
