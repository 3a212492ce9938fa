/*
 * @Description: 应用装配：配置、数据库、缓存、搜索服务、路由与定时任务
 * @Author: 安知鱼
 * @Date: 2026-09-17 10:35:28
 * @LastEditTime: 2026-10-15 16:15:28
 * @LastEditors: 安知鱼
 */
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ghibli-db/ghibli-app/internal/app/middleware"
	"github.com/ghibli-db/ghibli-app/internal/app/task"
	"github.com/ghibli-db/ghibli-app/internal/infra/persistence/database"
	"github.com/ghibli-db/ghibli-app/internal/infra/persistence/sqlrepo"
	"github.com/ghibli-db/ghibli-app/internal/infra/router"
	"github.com/ghibli-db/ghibli-app/internal/pkg/version"
	"github.com/ghibli-db/ghibli-app/pkg/config"
	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
	search_handler "github.com/ghibli-db/ghibli-app/pkg/handler/search"
	version_handler "github.com/ghibli-db/ghibli-app/pkg/handler/version"
	"github.com/ghibli-db/ghibli-app/pkg/idgen"
	"github.com/ghibli-db/ghibli-app/pkg/service/search"
	"github.com/ghibli-db/ghibli-app/pkg/service/utility"
)

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg       *config.Config
	engine    *gin.Engine
	scheduler *task.Scheduler
	sqlDB     *sql.DB
	searchSvc *search.SearchService
	history   *search.HistoryStore
	cacheSvc  utility.CacheService
}

func (a *App) PrintBanner() {
	banner := `

       ██████╗ ██╗  ██╗██╗██████╗ ██╗     ██╗
      ██╔════╝ ██║  ██║██║██╔══██╗██║     ██║
      ██║  ███╗███████║██║██████╔╝██║     ██║
      ██║   ██║██╔══██║██║██╔══██╗██║     ██║
      ╚██████╔╝██║  ██║██║██████╔╝███████╗██║
       ╚═════╝ ╚═╝  ╚═╝╚═╝╚═════╝ ╚══════╝╚═╝

`
	log.Println(banner)
	log.Println("--------------------------------------------------------")
	log.Printf(" Ghibli App - Version: %s", version.GetVersionString())
	log.Println("--------------------------------------------------------")
}

func NewApp() (*App, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	if err := idgen.InitSqidsEncoderWithSeed(cfg.GetString(config.KeySearchIDSeed)); err != nil {
		return nil, nil, err
	}

	sqlDB, dialect, err := database.NewSQLDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("创建数据库连接池失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := database.Bootstrap(ctx, sqlDB, dialect, cfg.GetBool(config.KeyDBSeed)); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("初始化资料库失败: %w", err)
	}

	redisClient := database.NewRedisClient(cfg)
	cacheSvc := utility.NewCacheServiceWithFallback(redisClient)

	// --- 搜索服务 ---
	catalogRepo := sqlrepo.NewCatalogRepository(sqlDB, dialect)
	cacheTTL := cfg.GetDuration(config.KeySearchCacheTTL)
	resultCache := search.NewResultCache[*model.SearchResponse](search.ResultCacheOptions{
		TTL:     cacheTTL,
		MaxSize: cfg.GetInt(config.KeySearchCacheMaxSize),
	})
	searchSvc := search.NewSearchService(catalogRepo, resultCache, search.Options{
		PerTypeLimit:    cfg.GetInt(config.KeySearchPerTypeLimit),
		SuggestionLimit: cfg.GetInt(config.KeySearchSuggestionLimit),
		CacheTTL:        cacheTTL,
	})
	history := search.NewHistoryStore(search.NewCacheHistoryStorage(cacheSvc, 0), search.HistoryOptions{
		MaxItems: cfg.GetInt(config.KeyHistoryMaxItems),
	})

	// --- 定时任务 ---
	scheduler := task.NewScheduler(
		task.NewPurgeExpiredCacheJob(searchSvc),
		task.NewHistoryStatsReportJob(history, cacheSvc),
	)

	// --- HTTP ---
	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.Cors())

	jwtSecret := cfg.GetString(config.KeyAuthJWTSecret)
	if jwtSecret == "" {
		log.Println("⚠️  未配置 Auth.JWTSecret，缓存管理接口将拒绝所有请求")
	}
	historyBackend := string(cacheSvc.Backend())
	appRouter := router.NewRouter(
		search_handler.NewHandler(searchSvc, history, historyBackend),
		version_handler.NewHandler(dialect, historyBackend),
		middleware.NewMiddleware(jwtSecret),
		middleware.SearchRateLimit(
			cfg.GetInt(config.KeyRateLimitSearchPerMinute),
			cfg.GetInt(config.KeyRateLimitSearchBurst),
		),
	)
	appRouter.Setup(engine)

	app := &App{
		cfg:       cfg,
		engine:    engine,
		scheduler: scheduler,
		sqlDB:     sqlDB,
		searchSvc: searchSvc,
		history:   history,
		cacheSvc:  cacheSvc,
	}

	cleanup := func() {
		log.Println("执行清理操作：关闭数据库连接...")
		sqlDB.Close()

		if mem, ok := cacheSvc.(*utility.MemoryCacheService); ok {
			mem.Stop()
		}
		closeRedis(redisClient)
	}

	return app, cleanup, nil
}

func closeRedis(client *redis.Client) {
	if client != nil {
		log.Println("关闭 Redis 连接...")
		client.Close()
	}
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

func (a *App) SearchService() *search.SearchService {
	return a.searchSvc
}

func (a *App) HistoryStore() *search.HistoryStore {
	return a.history
}

func (a *App) Run() error {
	if err := a.scheduler.RegisterJobs(); err != nil {
		return err
	}
	a.scheduler.Start()

	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8091"
	}
	fmt.Printf("应用程序启动成功，正在监听端口: %s\n", port)

	return a.engine.Run(":" + port)
}

func (a *App) Stop() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		log.Println("任务调度器已停止。")
	}
}
