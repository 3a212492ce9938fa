package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "conf.ini")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("应创建默认配置文件: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{name: "端口", got: cfg.GetString(KeyServerPort), want: "8091"},
		{name: "数据库类型", got: cfg.GetString(KeyDBType), want: "sqlite"},
		{name: "写入示例数据", got: cfg.GetBool(KeyDBSeed), want: true},
		{name: "缓存 TTL", got: cfg.GetDuration(KeySearchCacheTTL), want: 5 * time.Minute},
		{name: "历史上限", got: cfg.GetInt(KeyHistoryMaxItems), want: 50},
		{name: "Redis 留空", got: cfg.GetString(KeyRedisAddr), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.ini")
	content := `[System]
Port = 9000

[Search]
CacheTTL = 30s
PerTypeLimit = 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GHIBLI_SEARCH_PERTYPELIMIT", "25")
	t.Setenv("GHIBLI_REDIS_ADDR", "127.0.0.1:6379")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.GetString(KeyServerPort); got != "9000" {
		t.Errorf("Port = %q, want 9000", got)
	}
	if got := cfg.GetDuration(KeySearchCacheTTL); got != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", got)
	}
	if got := cfg.GetInt(KeySearchPerTypeLimit); got != 25 {
		t.Errorf("环境变量应覆盖文件配置, PerTypeLimit = %d", got)
	}
	if got := cfg.GetString(KeyRedisAddr); got != "127.0.0.1:6379" {
		t.Errorf("Redis.Addr = %q", got)
	}
	if got := cfg.GetInt(KeySearchSuggestionLimit); got != 5 {
		t.Errorf("未配置的键应使用默认值, SuggestionLimit = %d", got)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.ini")
	if err := os.WriteFile(path, []byte("[System\nPort = 1"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("格式错误的配置文件应返回错误")
	}
}
