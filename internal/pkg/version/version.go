/*
 * @Description: 构建版本信息
 * @Author: 安知鱼
 * @Date: 2026-09-26 09:40:12
 * @LastEditTime: 2026-10-15 11:02:45
 * @LastEditors: 安知鱼
 */
package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// 构建时通过 ldflags 注入，例如 -X github.com/ghibli-db/ghibli-app/internal/pkg/version.Version=v1.0.0
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// ModulePath 本项目的模块路径
const ModulePath = "github.com/ghibli-db/ghibli-app"

// BuildInfo 包含构建信息
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"goVersion"`
	Dirty     bool   `json:"dirty"`
}

var readBuildInfo = sync.OnceValue(func() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info
})

func vcsSetting(key string) string {
	info := readBuildInfo()
	if info == nil {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

func injected(v, unset string) bool {
	return v != "" && v != unset
}

// GetVersion 返回应用版本号，优先使用 ldflags 注入的值
func GetVersion() string {
	if injected(Version, "dev") {
		return Version
	}
	info := readBuildInfo()
	if info == nil {
		return "dev"
	}
	// 作为依赖被其他模块引入时，取依赖中记录的版本
	if info.Path != ModulePath {
		for _, dep := range info.Deps {
			if dep.Path == ModulePath {
				return dep.Version
			}
		}
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	return "dev"
}

// GetCommit 返回短 commit hash
func GetCommit() string {
	if injected(Commit, "unknown") {
		return Commit
	}
	rev := vcsSetting("vcs.revision")
	if rev == "" {
		return "unknown"
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	return rev
}

// GetBuildDate 返回构建时间
func GetBuildDate() string {
	if injected(Date, "unknown") {
		return Date
	}
	raw := vcsSetting("vcs.time")
	if raw == "" {
		return "unknown"
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(time.DateTime)
	}
	return raw
}

// GetBuildInfo 返回详细的构建信息
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   GetVersion(),
		Commit:    GetCommit(),
		Date:      GetBuildDate(),
		GoVersion: runtime.Version(),
		Dirty:     vcsSetting("vcs.modified") == "true",
	}
}

// GetVersionString 返回启动日志中使用的版本字符串
func GetVersionString() string {
	info := GetBuildInfo()
	var b strings.Builder
	b.WriteString(info.Version)
	if info.Commit != "unknown" {
		b.WriteString(", commit " + info.Commit)
		if info.Dirty {
			b.WriteString("-dirty")
		}
	}
	if info.Date != "unknown" {
		b.WriteString(", built at " + info.Date)
	}
	return b.String()
}
