/*
 * @Description: 键值缓存服务接口及 Redis 实现
 * @Author: 安知鱼
 * @Date: 2026-09-08 15:17:47
 * @LastEditTime: 2026-10-15 11:20:31
 * @LastEditors: 安知鱼
 */
package utility

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend 缓存服务的存储类型
type Backend string

const (
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// scanBatch 每次 SCAN 请求的建议数量
const scanBatch = 100

// CacheService 键值缓存服务，搜索历史等需要跨请求保存的数据都通过它读写
type CacheService interface {
	// Set expiration <= 0 表示永不过期
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	// Get 键不存在时返回空字符串和 nil 错误
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	// Scan 查找匹配的键，只保证支持 * 通配符
	Scan(ctx context.Context, pattern string) ([]string, error)
	Backend() Backend
}

type redisCacheService struct {
	client *redis.Client
}

// NewCacheService 基于已连接的 Redis 客户端创建缓存服务
func NewCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func (s *redisCacheService) Backend() Backend { return BackendRedis }

func (s *redisCacheService) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	if expiration < 0 {
		expiration = 0
	}
	if err := s.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *redisCacheService) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (s *redisCacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Scan 使用 SCAN 迭代，避免在生产环境中使用 KEYS
func (s *redisCacheService) Scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", pattern, err)
	}
	return keys, nil
}
