/*
 * @Description: 搜索处理器
 * @Author: 安知鱼
 * @Date: 2026-09-15 10:00:00
 * @LastEditTime: 2026-10-14 17:31:09
 * @LastEditors: 安知鱼
 */
package search

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
	"github.com/ghibli-db/ghibli-app/pkg/response"
	"github.com/ghibli-db/ghibli-app/pkg/service/search"
)

const (
	// ClientCookieName 标识访客的 Cookie，用于区分各自的搜索历史
	ClientCookieName = "ghibli_client_id"
	clientCookieAge  = 365 * 24 * 60 * 60

	defaultHistoryLimit  = 10
	defaultPopularLimit  = 10
	defaultPopularMin    = 2
	maxSuggestionResults = 10
)

type Handler struct {
	searchService *search.SearchService
	history       *search.HistoryStore
	cacheBackend  string
}

// NewHandler cacheBackend 为历史存储使用的缓存类型，仅用于管理接口展示
func NewHandler(searchService *search.SearchService, history *search.HistoryStore, cacheBackend string) *Handler {
	return &Handler{
		searchService: searchService,
		history:       history,
		cacheBackend:  cacheBackend,
	}
}

// clientID 读取访客 ID，没有或不合法时签发新的
func (h *Handler) clientID(c *gin.Context) string {
	if id, err := c.Cookie(ClientCookieName); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ClientCookieName, id, clientCookieAge, "/", "", false, true)
	return id
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

func queryBool(c *gin.Context, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// parseRequest 从查询参数构造搜索请求，tags 以逗号分隔
func parseRequest(c *gin.Context) *model.SearchRequest {
	req := &model.SearchRequest{
		Query:     c.Query("q"),
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", search.DefaultPageSize),
		Highlight: queryBool(c, "highlight"),
		Filters: model.SearchFilters{
			Type:     model.EntityType(strings.TrimSpace(c.Query("type"))),
			Year:     queryInt(c, "year", 0),
			Director: strings.TrimSpace(c.Query("director")),
			Language: strings.TrimSpace(c.Query("language")),
		},
	}
	for _, tag := range strings.Split(c.Query("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			req.Filters.Tags = append(req.Filters.Tags, tag)
		}
	}
	return req
}

// Search 搜索接口
// @Summary      搜索
// @Description  搜索电影、角色、影评、观影指南与媒体资源
// @Tags         搜索
// @Produce      json
// @Param        q          query  string  true   "搜索关键词"
// @Param        type       query  string  false  "类型：movie/character/review/guide/media/all"
// @Param        year       query  int     false  "上映年份"
// @Param        director   query  string  false  "导演"
// @Param        tags       query  string  false  "标签，逗号分隔"
// @Param        language   query  string  false  "语言"
// @Param        page       query  int     false  "页码"  default(1)
// @Param        limit      query  int     false  "每页数量"  default(20)
// @Param        highlight  query  bool    false  "是否返回高亮片段"
// @Success      200  {object}  response.Response  "搜索成功"
// @Failure      500  {object}  response.Response  "搜索失败"
// @Router       /public/search [get]
func (h *Handler) Search(c *gin.Context) {
	req := parseRequest(c)
	clientID := h.clientID(c)

	result, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		log.Printf("[错误] 搜索 %q 失败: %v", req.Query, err)
		response.Fail(c, http.StatusInternalServerError, "搜索失败，请稍后再试")
		return
	}

	// 只记录第一页的有效搜索，翻页不重复计数
	_, validType := model.ParseEntityType(string(result.Filters.Type))
	if result.Page == 1 && validType && utf8.RuneCountInString(result.Query) >= search.MinQueryLength {
		h.record(c, clientID, result)
	}

	response.Success(c, result, "搜索成功")
}

func (h *Handler) record(c *gin.Context, clientID string, result *model.SearchResponse) {
	ctx := c.Request.Context()
	total := result.Total
	category := string(result.Filters.Type)

	if err := h.history.AddToHistory(ctx, result.Query, &total, category); err != nil {
		log.Printf("[警告] 记录全站搜索历史失败: %v", err)
	}
	if err := h.history.WithClient(clientID).AddToHistory(ctx, result.Query, &total, category); err != nil {
		log.Printf("[警告] 记录访客搜索历史失败: %v", err)
	}
}

// Suggestions 搜索建议：访客自己的历史在前，资料库标题在后
// @Summary      搜索建议
// @Tags         搜索
// @Produce      json
// @Param        q  query  string  true  "输入中的关键词"
// @Success      200  {object}  response.Response  "获取成功"
// @Router       /public/search/suggestions [get]
func (h *Handler) Suggestions(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	clientID := h.clientID(c)

	suggestions := []string{}
	seen := make(map[string]struct{})
	add := func(items []string) {
		for _, s := range items {
			key := search.NormalizeQuery(s)
			if _, ok := seen[key]; ok || key == "" {
				continue
			}
			if len(suggestions) >= maxSuggestionResults {
				return
			}
			seen[key] = struct{}{}
			suggestions = append(suggestions, s)
		}
	}

	if q != "" {
		fromHistory, _ := h.history.WithClient(clientID).GetSuggestions(c.Request.Context(), q, 0)
		add(fromHistory)
		add(h.searchService.SuggestTitles(c.Request.Context(), q))
	}

	response.Success(c, suggestions, "获取搜索建议成功")
}

// GetHistory 访客最近的搜索记录
// @Summary      搜索历史
// @Tags         搜索
// @Produce      json
// @Param        limit  query  int  false  "条数"  default(10)
// @Success      200  {object}  response.Response  "获取成功"
// @Router       /public/search/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	limit := queryInt(c, "limit", defaultHistoryLimit)
	items, _ := h.history.WithClient(h.clientID(c)).GetHistory(c.Request.Context(), limit)
	response.Success(c, items, "获取搜索历史成功")
}

// RemoveHistory 删除访客历史中的某个查询
// @Summary      删除一条搜索历史
// @Tags         搜索
// @Produce      json
// @Param        q  query  string  true  "要删除的查询词"
// @Success      200  {object}  response.Response  "删除成功"
// @Failure      400  {object}  response.Response  "缺少查询词"
// @Router       /public/search/history [delete]
func (h *Handler) RemoveHistory(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		response.Fail(c, http.StatusBadRequest, "缺少要删除的查询词")
		return
	}
	if err := h.history.WithClient(h.clientID(c)).RemoveFromHistory(c.Request.Context(), q); err != nil {
		response.Fail(c, http.StatusInternalServerError, "搜索历史暂不可用")
		return
	}
	response.Success(c, nil, "删除成功")
}

// ClearHistory 清空访客的搜索历史
// @Summary      清空搜索历史
// @Tags         搜索
// @Produce      json
// @Success      200  {object}  response.Response  "清空成功"
// @Router       /public/search/history/all [delete]
func (h *Handler) ClearHistory(c *gin.Context) {
	if err := h.history.WithClient(h.clientID(c)).ClearHistory(c.Request.Context()); err != nil {
		response.Fail(c, http.StatusInternalServerError, "搜索历史暂不可用")
		return
	}
	response.Success(c, nil, "清空成功")
}

// Popular 全站热门搜索
// @Summary      热门搜索
// @Tags         搜索
// @Produce      json
// @Param        limit     query  int  false  "条数"  default(10)
// @Param        minCount  query  int  false  "最少搜索次数"  default(2)
// @Success      200  {object}  response.Response  "获取成功"
// @Router       /public/search/popular [get]
func (h *Handler) Popular(c *gin.Context) {
	limit := queryInt(c, "limit", defaultPopularLimit)
	minCount := queryInt(c, "minCount", defaultPopularMin)
	items, _ := h.history.GetPopularSearches(c.Request.Context(), limit, minCount)
	response.Success(c, items, "获取热门搜索成功")
}

// Stats 全站搜索统计
// @Summary      搜索统计
// @Tags         搜索
// @Produce      json
// @Success      200  {object}  response.Response  "获取成功"
// @Router       /public/search/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, _ := h.history.GetSearchStats(c.Request.Context())
	response.Success(c, stats, "获取搜索统计成功")
}

// CacheStatsResponse 缓存管理接口的返回结构
type CacheStatsResponse struct {
	search.CacheStats
	HistoryBackend string `json:"historyBackend"`
}

// CacheStats 搜索结果缓存统计（管理员）
// @Summary      缓存统计
// @Tags         搜索管理
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response  "获取成功"
// @Router       /search/cache/stats [get]
func (h *Handler) CacheStats(c *gin.Context) {
	response.Success(c, CacheStatsResponse{
		CacheStats:     h.searchService.CacheStats(),
		HistoryBackend: h.cacheBackend,
	}, "获取缓存统计成功")
}

// ClearCache 清空搜索结果缓存（管理员）
// @Summary      清空缓存
// @Tags         搜索管理
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response  "清空成功"
// @Router       /search/cache [delete]
func (h *Handler) ClearCache(c *gin.Context) {
	h.searchService.ClearCache()
	log.Println("[管理] 搜索结果缓存已清空")
	response.Success(c, nil, "缓存已清空")
}
