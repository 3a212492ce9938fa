/*
 * @Description: 路由注册
 * @Author: 安知鱼
 * @Date: 2026-09-16 11:30:55
 * @LastEditTime: 2026-10-14 18:26:37
 * @LastEditors: 安知鱼
 */
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ghibli-db/ghibli-app/internal/app/middleware"
	search_handler "github.com/ghibli-db/ghibli-app/pkg/handler/search"
	version_handler "github.com/ghibli-db/ghibli-app/pkg/handler/version"
)

// NoCacheMiddleware 全局反缓存中间件，确保所有API响应都不会被CDN缓存
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	searchHandler  *search_handler.Handler
	versionHandler *version_handler.Handler
	mw             *middleware.Middleware
	searchLimit    gin.HandlerFunc
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
// searchLimit 为公开搜索接口的限流中间件。
func NewRouter(
	searchHandler *search_handler.Handler,
	versionHandler *version_handler.Handler,
	mw *middleware.Middleware,
	searchLimit gin.HandlerFunc,
) *Router {
	return &Router{
		searchHandler:  searchHandler,
		versionHandler: versionHandler,
		mw:             mw,
		searchLimit:    searchLimit,
	}
}

// Setup 将所有路由注册到 Gin 引擎。
func (r *Router) Setup(engine *gin.Engine) {
	apiGroup := engine.Group("/api")
	apiGroup.Use(NoCacheMiddleware())

	r.registerSearchRoutes(apiGroup)
	r.registerVersionRoutes(apiGroup)
}

func (r *Router) registerSearchRoutes(api *gin.RouterGroup) {
	// --- 前台公开接口 ---
	searchPublic := api.Group("/public/search").Use(r.searchLimit)
	{
		// 搜索: GET /api/public/search?q=关键词&type=movie&page=1&limit=20&highlight=1
		searchPublic.GET("", r.searchHandler.Search)
		searchPublic.GET("/suggestions", r.searchHandler.Suggestions)
		searchPublic.GET("/history", r.searchHandler.GetHistory)
		searchPublic.DELETE("/history", r.searchHandler.RemoveHistory)
		searchPublic.DELETE("/history/all", r.searchHandler.ClearHistory)
		searchPublic.GET("/popular", r.searchHandler.Popular)
		searchPublic.GET("/stats", r.searchHandler.Stats)
	}

	// --- 后台管理接口 ---
	searchAdmin := api.Group("/search").Use(r.mw.AdminAuth())
	{
		searchAdmin.GET("/cache/stats", r.searchHandler.CacheStats)
		searchAdmin.DELETE("/cache", r.searchHandler.ClearCache)
	}
}

func (r *Router) registerVersionRoutes(api *gin.RouterGroup) {
	api.GET("/public/version", r.versionHandler.GetVersion)
}
