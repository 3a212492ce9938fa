/*
 * @Description: Redis 客户端（可选，搜索历史的持久化后端）
 * @Author: 安知鱼
 * @Date: 2026-09-02 11:30:55
 * @LastEditTime: 2026-10-15 12:02:37
 * @LastEditors: 安知鱼
 */
package database

import (
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghibli-db/ghibli-app/pkg/config"
)

const (
	redisDialTimeout = 3 * time.Second
	redisIOTimeout   = time.Second
)

// NewRedisClient 根据配置创建 Redis 客户端，不发起连接。
// 未配置地址或配置无效时返回 nil，由缓存工厂降级为内存缓存。
func NewRedisClient(cfg *config.Config) *redis.Client {
	addr := cfg.GetString(config.KeyRedisAddr)
	if addr == "" {
		return nil
	}

	db := 0
	if raw := cfg.GetString(config.KeyRedisDB); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			log.Printf("⚠️  无效的 Redis.DB 值 '%s'，忽略 Redis 配置", raw)
			return nil
		}
		db = n
	}

	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.GetString(config.KeyRedisPassword),
		DB:           db,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisIOTimeout,
		WriteTimeout: redisIOTimeout,
	})
}
