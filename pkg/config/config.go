/*
 * @Description: 统一配置管理（go-ini 加载文件，环境变量覆盖）
 * @Author: 安知鱼
 * @Date: 2026-09-01 00:21:55
 * @LastEditTime: 2026-10-12 13:00:20
 * @LastEditors: 安知鱼
 */
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// DefaultConfigPath 默认配置文件路径
const DefaultConfigPath = "data/conf.ini"

// EnvPrefix 环境变量前缀，例如 GHIBLI_DATABASE_HOST
const EnvPrefix = "GHIBLI"

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug,
	KeyDBType, KeyDBHost, KeyDBPort, KeyDBUser, KeyDBPassword, KeyDBName, KeyDBDebug, KeyDBSeed,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeySearchCacheTTL, KeySearchCacheMaxSize, KeySearchPerTypeLimit, KeySearchSuggestionLimit, KeySearchIDSeed,
	KeyHistoryMaxItems,
	KeyAuthJWTSecret,
	KeyRateLimitSearchPerMinute, KeyRateLimitSearchBurst,
}

const (
	KeyServerPort    = "System.Port"
	KeyServerDebug   = "System.Debug"
	KeyDBType        = "Database.Type"
	KeyDBHost        = "Database.Host"
	KeyDBPort        = "Database.Port"
	KeyDBUser        = "Database.User"
	KeyDBPassword    = "Database.Password"
	KeyDBName        = "Database.Name"
	KeyDBDebug       = "Database.Debug"
	KeyDBSeed        = "Database.Seed"
	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"

	KeySearchCacheTTL        = "Search.CacheTTL"
	KeySearchCacheMaxSize    = "Search.CacheMaxSize"
	KeySearchPerTypeLimit    = "Search.PerTypeLimit"
	KeySearchSuggestionLimit = "Search.SuggestionLimit"
	KeySearchIDSeed          = "Search.IDSeed"
	KeyHistoryMaxItems       = "History.MaxItems"

	KeyAuthJWTSecret = "Auth.JWTSecret"

	KeyRateLimitSearchPerMinute = "RateLimit.SearchPerMinute"
	KeyRateLimitSearchBurst     = "RateLimit.SearchBurst"
)

type Config struct {
	vp *viper.Viper
}

// NewConfig 从默认路径加载配置
func NewConfig() (*Config, error) {
	return Load(DefaultConfigPath)
}

// Load 手动加载配置：先读取 ini 文件（不存在时创建默认文件），再用环境变量覆盖
func Load(filePath string) (*Config, error) {
	vp := viper.New()
	setDefaults(vp)

	// --- 步骤 1: 使用 go-ini 从文件加载配置 ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("提示: 未找到 %s，将创建默认配置文件。", filePath)
			if err := createDefaultConfigFile(filePath); err != nil {
				log.Printf("警告: 创建默认配置文件失败: %v，将仅依赖环境变量或内部默认值。", err)
			} else {
				log.Printf("✅ 已创建默认配置文件: %s", filePath)
				iniCfg, err = ini.Load(filePath)
				if err != nil {
					log.Printf("警告: 重新加载配置文件失败: %v", err)
				}
			}
		} else {
			return nil, fmt.Errorf("错误: 解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				if section.Name() == ini.DefaultSection {
					viperKey = key.Name()
				}
				// 空值不覆盖内部默认值
				if strings.TrimSpace(key.Value()) == "" {
					continue
				}
				vp.Set(viperKey, key.Value())
			}
		}
		log.Printf("从 %s 文件加载了配置。", filePath)
	}

	// --- 步骤 2: 手动检查并覆盖环境变量 ---
	envReplacer := strings.NewReplacer(".", "_")
	for _, key := range allKeys {
		envVarName := fmt.Sprintf("%s_%s", EnvPrefix, envReplacer.Replace(strings.ToUpper(key)))
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}

	log.Println("✅ 配置加载器初始化完成。")
	return &Config{vp: vp}, nil
}

// setDefaults 内部默认值，配置文件与环境变量都未提供时生效
func setDefaults(vp *viper.Viper) {
	vp.SetDefault(KeyServerPort, "8091")
	vp.SetDefault(KeyDBType, "sqlite")
	vp.SetDefault(KeyDBName, "ghibli.db")
	vp.SetDefault(KeyDBSeed, true)
	vp.SetDefault(KeySearchCacheTTL, "5m")
	vp.SetDefault(KeySearchCacheMaxSize, 100)
	vp.SetDefault(KeySearchPerTypeLimit, 50)
	vp.SetDefault(KeySearchSuggestionLimit, 5)
	vp.SetDefault(KeyHistoryMaxItems, 50)
	vp.SetDefault(KeyRateLimitSearchPerMinute, 120)
	vp.SetDefault(KeyRateLimitSearchBurst, 20)
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// GetDuration 支持 "5m"、"300s" 等写法
func (c *Config) GetDuration(key string) time.Duration {
	return c.vp.GetDuration(key)
}

// createDefaultConfigFile 创建默认的配置文件
func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	// 默认使用 SQLite，并在首次启动时写入示例数据
	defaultConfig := `[System]
Port = 8091
Debug = false

[Database]
Type = sqlite
Name = ghibli.db
Debug = false
Seed = true

# Redis 配置（可选）
# 如果不配置或留空 Addr，搜索历史将保存在内存中
[Redis]
Addr =
Password =
DB = 0

[Search]
CacheTTL = 5m
CacheMaxSize = 100
PerTypeLimit = 50
SuggestionLimit = 5
IDSeed =

[History]
MaxItems = 50

[Auth]
JWTSecret =

[RateLimit]
SearchPerMinute = 120
SearchBurst = 20
`

	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
