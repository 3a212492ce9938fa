/*
 * @Description: 内存缓存服务实现（用于 Redis 不可用时的降级方案）
 * @Author: 安知鱼
 * @Date: 2026-09-08 00:00:00
 * @LastEditTime: 2026-10-09 20:45:43
 * @LastEditors: 安知鱼
 */
package utility

import (
	"context"
	"strings"
	"sync"
	"time"
)

// cacheItem 缓存项结构
type cacheItem struct {
	value      string
	expiration time.Time
	hasExpiry  bool
}

// isExpired 检查是否过期
func (item *cacheItem) isExpired(now time.Time) bool {
	return item.hasExpiry && now.After(item.expiration)
}

// MemoryCacheService 是基于内存的缓存服务实现
type MemoryCacheService struct {
	mu       sync.RWMutex
	data     map[string]*cacheItem
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCacheService 创建内存缓存服务实例，并启动每分钟一次的过期清理
func NewMemoryCacheService() *MemoryCacheService {
	svc := &MemoryCacheService{
		data:   make(map[string]*cacheItem),
		ticker: time.NewTicker(1 * time.Minute),
		done:   make(chan struct{}),
	}
	go svc.cleanupExpired()
	return svc
}

// cleanupExpired 定期清理过期的缓存项
func (s *MemoryCacheService) cleanupExpired() {
	for {
		select {
		case <-s.ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, item := range s.data {
				if item.isExpired(now) {
					delete(s.data, key)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// Stop 停止清理任务，可重复调用
func (s *MemoryCacheService) Stop() {
	s.stopOnce.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
}

func (s *MemoryCacheService) Backend() Backend { return BackendMemory }

// Set 设置缓存，expiration <= 0 表示永不过期
func (s *MemoryCacheService) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	item := &cacheItem{value: value}
	if expiration > 0 {
		item.hasExpiry = true
		item.expiration = time.Now().Add(expiration)
	}

	s.mu.Lock()
	s.data[key] = item
	s.mu.Unlock()
	return nil
}

// Get 获取缓存
func (s *MemoryCacheService) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	item, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return "", nil
	}

	if item.isExpired(time.Now()) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return "", nil
	}
	return item.value, nil
}

// Delete 删除缓存
func (s *MemoryCacheService) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

// Scan 查找匹配的键（简单实现，只支持 * 通配符）
func (s *MemoryCacheService) Scan(ctx context.Context, pattern string) ([]string, error) {
	now := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key, item := range s.data {
		if !item.isExpired(now) && matchPattern(key, pattern) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// matchPattern 简单的模式匹配（支持 * 通配符）
func matchPattern(s, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return s == pattern
	}

	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	idx := len(parts[0])

	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		pos := strings.Index(s[idx:], part)
		if pos == -1 {
			return false
		}
		idx += pos + len(part)
	}

	last := parts[len(parts)-1]
	return len(s)-idx >= len(last) && strings.HasSuffix(s, last)
}
