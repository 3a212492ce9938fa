/*
 * @Description: 搜索历史的持久化存储接口及基于缓存服务的实现
 * @Author: 安知鱼
 * @Date: 2026-09-07 16:40:02
 * @LastEditTime: 2026-10-09 21:12:30
 * @LastEditors: 安知鱼
 */
package search

import (
	"context"
	"time"

	"github.com/ghibli-db/ghibli-app/pkg/service/utility"
)

// HistoryStorage 搜索历史使用的键值存储，GetItem 在键不存在时返回空字符串
type HistoryStorage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// cacheHistoryStorage 基于 CacheService（Redis 或内存）的历史存储
type cacheHistoryStorage struct {
	cache utility.CacheService
	ttl   time.Duration
}

// NewCacheHistoryStorage 创建基于缓存服务的历史存储，ttl <= 0 表示永不过期
func NewCacheHistoryStorage(cache utility.CacheService, ttl time.Duration) HistoryStorage {
	return &cacheHistoryStorage{cache: cache, ttl: ttl}
}

func (s *cacheHistoryStorage) GetItem(ctx context.Context, key string) (string, error) {
	return s.cache.Get(ctx, key)
}

func (s *cacheHistoryStorage) SetItem(ctx context.Context, key, value string) error {
	return s.cache.Set(ctx, key, value, s.ttl)
}

func (s *cacheHistoryStorage) RemoveItem(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, key)
}
