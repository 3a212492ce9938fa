/*
 * @Description: 搜索结果缓存（TTL + 容量上限 + 命中计数）
 * @Author: 安知鱼
 * @Date: 2026-09-06 15:20:44
 * @LastEditTime: 2026-10-12 10:05:19
 * @LastEditors: 安知鱼
 */
package search

import (
	"container/list"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/width"
)

const (
	DefaultResultCacheTTL     = 5 * time.Minute
	DefaultResultCacheMaxSize = 100
)

// CacheStats 缓存统计信息
type CacheStats struct {
	Size      int   `json:"size"`
	MaxSize   int   `json:"maxSize"`
	TotalHits int64 `json:"totalHits"`
}

// cacheEntry 缓存项
type cacheEntry[T any] struct {
	key       string
	data      T
	timestamp time.Time
	ttl       time.Duration
	hits      int64
}

func (e *cacheEntry[T]) expired(now time.Time) bool {
	return now.Sub(e.timestamp) > e.ttl
}

// ResultCacheOptions 缓存配置
type ResultCacheOptions struct {
	TTL     time.Duration
	MaxSize int
	// Now 用于测试注入时钟，为空时使用 time.Now
	Now func() time.Time
}

// ResultCache 以 (规范化查询词, 序列化过滤条件) 为键的结果缓存。
// 过期项在 Get 时惰性删除；超出容量时淘汰最久未使用的项。
type ResultCache[T any] struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List // 队首为最近使用
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// NewResultCache 创建结果缓存
func NewResultCache[T any](opts ResultCacheOptions) *ResultCache[T] {
	if opts.TTL <= 0 {
		opts.TTL = DefaultResultCacheTTL
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultResultCacheMaxSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ResultCache[T]{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		ttl:     opts.TTL,
		maxSize: opts.MaxSize,
		now:     opts.Now,
	}
}

// Set 写入缓存，ttl <= 0 时使用默认 TTL。空查询不缓存。
func (c *ResultCache[T]) Set(query string, data T, filters any, ttl time.Duration) {
	key, ok := cacheKey(query, filters)
	if !ok {
		return
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, exists := c.items[key]; exists {
		entry := el.Value.(*cacheEntry[T])
		entry.data = data
		entry.timestamp = now
		entry.ttl = ttl
		c.order.MoveToFront(el)
		return
	}

	if len(c.items) >= c.maxSize {
		c.removeExpiredLocked(now)
	}
	for len(c.items) >= c.maxSize {
		c.removeElementLocked(c.order.Back())
	}

	entry := &cacheEntry[T]{key: key, data: data, timestamp: now, ttl: ttl}
	c.items[key] = c.order.PushFront(entry)
}

// Get 读取缓存。未命中或已过期时返回 false，命中时该项的命中计数加一。
func (c *ResultCache[T]) Get(query string, filters any) (T, bool) {
	var zero T
	key, ok := cacheKey(query, filters)
	if !ok {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	el, exists := c.items[key]
	if !exists {
		return zero, false
	}
	entry := el.Value.(*cacheEntry[T])
	if entry.expired(c.now()) {
		c.removeElementLocked(el)
		return zero, false
	}

	entry.hits++
	c.order.MoveToFront(el)
	return entry.data, true
}

// Hits 返回某个键当前的命中次数，不存在或已过期时返回 0
func (c *ResultCache[T]) Hits(query string, filters any) int64 {
	key, ok := cacheKey(query, filters)
	if !ok {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, exists := c.items[key]; exists {
		entry := el.Value.(*cacheEntry[T])
		if !entry.expired(c.now()) {
			return entry.hits
		}
	}
	return 0
}

// Clear 清空缓存
func (c *ResultCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// PurgeExpired 主动清理所有过期项，返回清理数量
func (c *ResultCache[T]) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeExpiredLocked(c.now())
}

// GetStats 返回当前缓存项数量与所有保留项的命中总数
func (c *ResultCache[T]) GetStats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{Size: len(c.items), MaxSize: c.maxSize}
	for el := c.order.Front(); el != nil; el = el.Next() {
		stats.TotalHits += el.Value.(*cacheEntry[T]).hits
	}
	return stats
}

func (c *ResultCache[T]) removeExpiredLocked(now time.Time) int {
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*cacheEntry[T]).expired(now) {
			c.removeElementLocked(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (c *ResultCache[T]) removeElementLocked(el *list.Element) {
	if el == nil {
		return
	}
	entry := c.order.Remove(el).(*cacheEntry[T])
	delete(c.items, entry.key)
}

// NormalizeQuery 规范化查询词：全角转半角、转小写、合并空白
func NormalizeQuery(query string) string {
	q := width.Fold.String(query)
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// cacheKey 生成缓存键。未提供过滤条件时与空过滤条件等价。
func cacheKey(query string, filters any) (string, bool) {
	q := NormalizeQuery(query)
	if q == "" {
		return "", false
	}

	serialized := "{}"
	if filters != nil {
		if raw, err := json.Marshal(filters); err == nil && string(raw) != "null" {
			serialized = string(raw)
		}
	}
	return q + "\x00" + serialized, true
}
