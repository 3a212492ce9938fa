/*
 * @Description: 搜索服务 - 多类型并发检索、打分、合并排序与分页
 * @Author: 安知鱼
 * @Date: 2026-09-10 10:00:00
 * @LastEditTime: 2026-10-14 15:22:34
 * @LastEditors: 安知鱼
 */
package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/ghibli-db/ghibli-app/internal/pkg/parser"
	"github.com/ghibli-db/ghibli-app/internal/pkg/strutil"
	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
	"github.com/ghibli-db/ghibli-app/pkg/domain/repository"
	"github.com/ghibli-db/ghibli-app/pkg/idgen"
)

const (
	// MinQueryLength 查询词（去除首尾空白后）的最少字符数
	MinQueryLength = 2
	// DefaultPageSize 默认每页条数
	DefaultPageSize = 20
	// MaxPageSize 每页条数上限
	MaxPageSize = 50

	DefaultPerTypeLimit    = 50
	DefaultSuggestionLimit = 5

	descriptionLength = 200
)

// ErrAllSourcesFailed 所有类型的候选记录都获取失败
var ErrAllSourcesFailed = errors.New("all search sources failed")

// Options 搜索服务配置
type Options struct {
	PerTypeLimit    int
	SuggestionLimit int
	CacheTTL        time.Duration
}

// SearchService 搜索服务
type SearchService struct {
	repo            repository.CatalogRepository
	cache           *ResultCache[*model.SearchResponse]
	perTypeLimit    int
	suggestionLimit int
	cacheTTL        time.Duration
}

// NewSearchService 创建搜索服务实例
func NewSearchService(repo repository.CatalogRepository, cache *ResultCache[*model.SearchResponse], opts Options) *SearchService {
	if opts.PerTypeLimit <= 0 {
		opts.PerTypeLimit = DefaultPerTypeLimit
	}
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = DefaultSuggestionLimit
	}
	if cache == nil {
		cache = NewResultCache[*model.SearchResponse](ResultCacheOptions{TTL: opts.CacheTTL})
	}
	return &SearchService{
		repo:            repo,
		cache:           cache,
		perTypeLimit:    opts.PerTypeLimit,
		suggestionLimit: opts.SuggestionLimit,
		cacheTTL:        opts.CacheTTL,
	}
}

// cacheFilters 参与缓存键计算的全部条件
type cacheFilters struct {
	model.SearchFilters
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Search 执行搜索。
// 查询词过短或类型过滤无效时返回空结果；单个类型获取失败只会让该类型没有结果，
// 只有所有类型都失败时才返回 ErrAllSourcesFailed。
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	page, limit := normalizePaging(req.Page, req.Limit)
	query := strings.TrimSpace(req.Query)
	filters := req.Filters

	if utf8.RuneCountInString(query) < MinQueryLength {
		return model.EmptySearchResponse(query, filters, page, limit), nil
	}

	entityType, ok := model.ParseEntityType(string(filters.Type))
	if !ok {
		return model.EmptySearchResponse(query, filters, page, limit), nil
	}
	if entityType == model.EntityTypeAll {
		filters.Type = ""
	}

	key := cacheFilters{SearchFilters: filters, Page: page, Limit: limit}
	if cached, hit := s.cache.Get(query, key); hit {
		return withHighlight(cached, query, req.Highlight), nil
	}

	merged, failed, err := s.fetchAll(ctx, query, &filters)
	if err != nil {
		return nil, err
	}

	total := len(merged)
	pageResults := pageSlice(merged, page, limit)

	resp := &model.SearchResponse{
		Results:     pageResults,
		Total:       total,
		Query:       query,
		Filters:     filters,
		Suggestions: s.suggest(ctx, query),
		Facets:      buildFacets(merged),
		Page:        page,
		Limit:       limit,
		TotalPages:  (total + limit - 1) / limit,
	}

	// 部分类型失败的结果不缓存，下次请求重新获取
	if failed == 0 {
		s.cache.Set(query, resp, key, s.cacheTTL)
	}
	return withHighlight(resp, query, req.Highlight), nil
}

// fetchAll 并发获取各类型候选记录并打分，合并后按相关度稳定降序排序
func (s *SearchService) fetchAll(ctx context.Context, query string, filters *model.SearchFilters) ([]*model.SearchResult, int, error) {
	var types []model.EntityType
	for _, t := range model.AllEntityTypes {
		if filters.Includes(t) {
			types = append(types, t)
		}
	}

	branches := make([][]*model.SearchResult, len(types))
	errs := make([]error, len(types))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range types {
		g.Go(func() error {
			results, err := s.fetchType(gctx, t, query, filters)
			if err != nil {
				log.Printf("[警告] 搜索 %s 失败，该类型不返回结果: %v", t, err)
				errs[i] = fmt.Errorf("%s: %w", t, err)
				return nil
			}
			branches[i] = results
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(types) {
		return nil, failed, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(errs...))
	}

	// 按固定的类型顺序拼接，保证同分结果的先后与完成顺序无关
	var merged []*model.SearchResult
	for _, results := range branches {
		for _, r := range results {
			if r.RelevanceScore > 0 {
				merged = append(merged, r)
			}
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RelevanceScore > merged[j].RelevanceScore
	})
	return merged, failed, nil
}

func (s *SearchService) fetchType(ctx context.Context, t model.EntityType, query string, filters *model.SearchFilters) ([]*model.SearchResult, error) {
	var results []*model.SearchResult
	switch t {
	case model.EntityTypeMovie:
		movies, err := s.repo.FindMovies(ctx, query, filters, s.perTypeLimit)
		if err != nil {
			return nil, err
		}
		for _, m := range movies {
			results = append(results, movieResult(m, query))
		}
	case model.EntityTypeCharacter:
		characters, err := s.repo.FindCharacters(ctx, query, filters, s.perTypeLimit)
		if err != nil {
			return nil, err
		}
		for _, c := range characters {
			results = append(results, characterResult(c, query))
		}
	case model.EntityTypeReview:
		reviews, err := s.repo.FindReviews(ctx, query, filters, s.perTypeLimit)
		if err != nil {
			return nil, err
		}
		for _, r := range reviews {
			results = append(results, reviewResult(r, query))
		}
	case model.EntityTypeGuide:
		guides, err := s.repo.FindGuides(ctx, query, filters, s.perTypeLimit)
		if err != nil {
			return nil, err
		}
		for _, g := range guides {
			results = append(results, guideResult(g, query))
		}
	case model.EntityTypeMedia:
		media, err := s.repo.FindMedia(ctx, query, filters, s.perTypeLimit)
		if err != nil {
			return nil, err
		}
		for _, m := range media {
			results = append(results, mediaResult(m, query))
		}
	default:
		return nil, fmt.Errorf("未知的搜索类型: %s", t)
	}
	return results, nil
}

// suggest 尽力而为的标题建议，失败时返回空列表
func (s *SearchService) suggest(ctx context.Context, query string) []string {
	suggestions := []string{}
	titles, err := s.repo.SuggestTitles(ctx, query, s.suggestionLimit*2)
	if err != nil {
		log.Printf("[警告] 获取搜索建议失败: %v", err)
		return suggestions
	}

	seen := make(map[string]struct{})
	for _, title := range titles {
		key := NormalizeQuery(title)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, title)
		if len(suggestions) >= s.suggestionLimit {
			break
		}
	}
	return suggestions
}

// SuggestTitles 供建议接口使用的标题建议
func (s *SearchService) SuggestTitles(ctx context.Context, query string) []string {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []string{}
	}
	return s.suggest(ctx, query)
}

// CacheStats 返回结果缓存统计
func (s *SearchService) CacheStats() CacheStats {
	return s.cache.GetStats()
}

// ClearCache 清空结果缓存
func (s *SearchService) ClearCache() {
	s.cache.Clear()
}

// PurgeExpiredCache 清理过期的缓存结果，返回清理数量
func (s *SearchService) PurgeExpiredCache() int {
	return s.cache.PurgeExpired()
}

// withHighlight 需要高亮时返回带高亮信息的副本，缓存中的结果保持不变
func withHighlight(resp *model.SearchResponse, query string, highlight bool) *model.SearchResponse {
	if !highlight || len(resp.Results) == 0 {
		return resp
	}
	cp := *resp
	cp.Results = make([]*model.SearchResult, len(resp.Results))
	for i, r := range resp.Results {
		cp.Results[i] = HighlightResult(r, query)
	}
	return &cp
}

// pageSlice 返回第 page 页的副本，超出末页时返回空切片；先比较页数再相乘，避免 page 极大时溢出
func pageSlice(results []*model.SearchResult, page, limit int) []*model.SearchResult {
	total := len(results)
	totalPages := (total + limit - 1) / limit
	if page-1 >= totalPages {
		return []*model.SearchResult{}
	}
	start := (page - 1) * limit
	end := min(start+limit, total)
	out := make([]*model.SearchResult, end-start)
	copy(out, results[start:end])
	return out
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func movieResult(m *model.Movie, query string) *model.SearchResult {
	id := publicID(m.ID, model.EntityTypeMovie)
	subtitle := m.OriginalTitle
	if m.Year > 0 {
		subtitle = joinNonEmpty(" · ", strconv.Itoa(m.Year), m.Director)
	}
	return &model.SearchResult{
		ID:             id,
		Type:           model.EntityTypeMovie,
		Title:          m.Title,
		Subtitle:       subtitle,
		Description:    strutil.Truncate(m.Synopsis, descriptionLength),
		ImageURL:       m.PosterURL,
		URL:            "/movies/" + id,
		RelevanceScore: Score(query, m.Title, m.OriginalTitle, m.EnglishTitle, m.Synopsis, m.Director),
		Metadata: model.MovieMetadata{
			Year:          m.Year,
			Director:      m.Director,
			Duration:      m.Duration,
			Rating:        m.Rating,
			OriginalTitle: m.OriginalTitle,
			Tags:          m.Tags,
		},
	}
}

func characterResult(c *model.Character, query string) *model.SearchResult {
	id := publicID(c.ID, model.EntityTypeCharacter)
	return &model.SearchResult{
		ID:             id,
		Type:           model.EntityTypeCharacter,
		Title:          c.Name,
		Subtitle:       joinNonEmpty(" · ", c.JapaneseName, c.MovieTitle),
		Description:    strutil.Truncate(c.Description, descriptionLength),
		ImageURL:       c.ImageURL,
		URL:            "/characters/" + id,
		RelevanceScore: Score(query, c.Name, c.JapaneseName, c.Description, c.VoiceActor),
		Metadata: model.CharacterMetadata{
			MovieTitle: c.MovieTitle,
			VoiceActor: c.VoiceActor,
		},
	}
}

func reviewResult(r *model.Review, query string) *model.SearchResult {
	id := publicID(r.ID, model.EntityTypeReview)
	content := parser.HTMLToText(r.Content)
	return &model.SearchResult{
		ID:             id,
		Type:           model.EntityTypeReview,
		Title:          r.Title,
		Subtitle:       joinNonEmpty(" · ", r.Author, r.MovieTitle),
		Description:    strutil.Truncate(content, descriptionLength),
		URL:            "/reviews/" + id,
		RelevanceScore: Score(query, r.Title, content, r.Author),
		Metadata: model.ReviewMetadata{
			Author:     r.Author,
			Rating:     r.Rating,
			MovieTitle: r.MovieTitle,
			Language:   r.Language,
		},
	}
}

func guideResult(g *model.Guide, query string) *model.SearchResult {
	id := publicID(g.ID, model.EntityTypeGuide)
	content := parser.MarkdownToText(g.Content)
	description := g.Summary
	if description == "" {
		description = content
	}
	return &model.SearchResult{
		ID:             id,
		Type:           model.EntityTypeGuide,
		Title:          g.Title,
		Subtitle:       g.Author,
		Description:    strutil.Truncate(description, descriptionLength),
		ImageURL:       g.CoverURL,
		URL:            "/guides/" + id,
		RelevanceScore: Score(query, g.Title, g.Summary, content, g.Author),
		Metadata: model.GuideMetadata{
			Author:      g.Author,
			Tags:        g.Tags,
			ReadingTime: g.ReadingTime,
		},
	}
}

func mediaResult(m *model.Media, query string) *model.SearchResult {
	id := publicID(m.ID, model.EntityTypeMedia)
	return &model.SearchResult{
		ID:             id,
		Type:           model.EntityTypeMedia,
		Title:          m.Title,
		Subtitle:       joinNonEmpty(" · ", m.Kind, m.MovieTitle),
		Description:    strutil.Truncate(m.Description, descriptionLength),
		ImageURL:       m.ThumbnailURL,
		URL:            "/media/" + id,
		RelevanceScore: Score(query, m.Title, m.Description),
		Metadata: model.MediaMetadata{
			Kind:       m.Kind,
			Language:   m.Language,
			MovieTitle: m.MovieTitle,
			Tags:       m.Tags,
		},
	}
}

// publicID 编码失败时退回数据库 ID
func publicID(dbID uint, entityType model.EntityType) string {
	id, err := idgen.GeneratePublicID(dbID, entityType)
	if err != nil {
		return strconv.FormatUint(uint64(dbID), 10)
	}
	return id
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
