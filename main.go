/*
 * @Description: 程序入口
 * @Author: 安知鱼
 * @Date: 2026-09-17 00:21:55
 * @LastEditTime: 2026-10-15 12:19:06
 * @LastEditors: 安知鱼
 */
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ghibli-db/ghibli-app/cmd/server"
	"github.com/ghibli-db/ghibli-app/internal/pkg/auth"
	"github.com/ghibli-db/ghibli-app/pkg/config"
	"github.com/ghibli-db/ghibli-app/pkg/idgen"
)

// @title           Ghibli App API
// @version         1.0
// @description     吉卜力影片资料库搜索接口文档

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8091
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 在请求头中添加 Bearer Token，格式为: Bearer {token}
func main() {
	var issueToken string
	var tokenTTL time.Duration
	var genSeed bool
	flag.StringVar(&issueToken, "issue-admin-token", "", "为指定名称签发管理员 Token 并退出")
	flag.DurationVar(&tokenTTL, "token-ttl", auth.DefaultTokenTTL, "管理员 Token 有效期")
	flag.BoolVar(&genSeed, "gen-id-seed", false, "生成一个可用于 Search.IDSeed 的随机种子并退出")
	flag.Parse()

	if genSeed {
		seed, err := idgen.GenerateRandomSeed()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(seed)
		return
	}

	if issueToken != "" {
		cfg, err := config.NewConfig()
		if err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
		token, err := auth.GenerateToken(issueToken, tokenTTL, []byte(cfg.GetString(config.KeyAuthJWTSecret)))
		if err != nil {
			log.Fatalf("签发管理员 Token 失败: %v", err)
		}
		fmt.Println(token)
		return
	}

	app, cleanup, err := server.NewApp()
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}
	defer cleanup()
	defer app.Stop()

	app.PrintBanner()

	if err := app.Run(); err != nil {
		log.Fatalf("应用运行失败: %v", err)
	}
}
