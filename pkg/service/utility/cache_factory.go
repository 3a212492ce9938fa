/*
 * @Description: 缓存服务工厂，Redis 不可用时降级为内存缓存
 * @Author: 安知鱼
 * @Date: 2026-09-08 00:00:00
 * @LastEditTime: 2026-10-15 11:24:06
 * @LastEditors: 安知鱼
 */
package utility

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// NewCacheServiceWithFallback redisClient 为 nil 或无法 ping 通时返回内存缓存。
// 内存缓存只在本进程内有效，重启后搜索历史会丢失。
func NewCacheServiceWithFallback(redisClient *redis.Client) CacheService {
	if redisClient == nil {
		log.Println("🔄 未配置 Redis，搜索历史使用内存缓存")
		return NewMemoryCacheService()
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis 不可用: %v，搜索历史降级到内存缓存", err)
		return NewMemoryCacheService()
	}

	log.Println("✅ 搜索历史使用 Redis 缓存")
	return NewCacheService(redisClient)
}
