/*
 * @Description: 搜索历史：最近搜索、热门搜索、搜索建议与统计
 * @Author: 安知鱼
 * @Date: 2026-09-07 15:02:47
 * @LastEditTime: 2026-10-13 09:55:21
 * @LastEditors: 安知鱼
 */
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
)

const (
	// DefaultHistoryKey 全站搜索历史的存储键，单个访客的历史在其后追加 ":<clientID>"
	DefaultHistoryKey = "ghibli:search:history"
	// DefaultHistoryMaxItems 每个历史最多保留的条目数
	DefaultHistoryMaxItems = 50

	defaultPopularLimit    = 10
	defaultSuggestionLimit = 5
	topCategoryLimit       = 5
)

var (
	// ErrHistoryUnavailable 底层存储读写失败
	ErrHistoryUnavailable = errors.New("search history storage unavailable")
	// ErrHistoryCorrupted 持久化的历史数据无法解析
	ErrHistoryCorrupted = errors.New("search history data corrupted")
)

// HistoryOptions 搜索历史配置
type HistoryOptions struct {
	Key      string
	MaxItems int
	Now      func() time.Time
}

// HistoryStore 有上限的搜索历史，最新的条目在最前。
// 读取失败或数据损坏时记录警告并按空历史处理，同时返回对应的错误供调用方判断。
type HistoryStore struct {
	storage  HistoryStorage
	key      string
	maxItems int
	now      func() time.Time
	// 同一个 store 派生出的所有访客视图共用这把锁
	mu *sync.Mutex
}

// NewHistoryStore 创建搜索历史
func NewHistoryStore(storage HistoryStorage, opts HistoryOptions) *HistoryStore {
	if opts.Key == "" {
		opts.Key = DefaultHistoryKey
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultHistoryMaxItems
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &HistoryStore{
		storage:  storage,
		key:      opts.Key,
		maxItems: opts.MaxItems,
		now:      opts.Now,
		mu:       &sync.Mutex{},
	}
}

// WithClient 返回某个访客自己的历史视图；clientID 为空时返回全站历史本身
func (s *HistoryStore) WithClient(clientID string) *HistoryStore {
	if clientID == "" {
		return s
	}
	view := *s
	view.key = s.key + ":" + clientID
	return &view
}

// Key 返回当前视图的存储键
func (s *HistoryStore) Key() string {
	return s.key
}

// AddToHistory 追加一条搜索记录，不去重；超出上限时丢弃最旧的条目。
// 空查询被忽略；category 为空或无法识别时记为 "all"。
func (s *HistoryStore) AddToHistory(ctx context.Context, query string, resultCount *int, category string) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 读取失败时已记录警告，按空历史继续写入
	items, _ := s.load(ctx)

	item := model.SearchHistoryItem{
		Query:     query,
		Timestamp: s.now().UnixMilli(),
		Category:  normalizeCategory(category),
	}
	if resultCount != nil {
		n := *resultCount
		item.ResultCount = &n
	}

	items = append([]model.SearchHistoryItem{item}, items...)
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}
	return s.save(ctx, items)
}

// GetHistory 返回最近的搜索记录，limit <= 0 时返回全部
func (s *HistoryStore) GetHistory(ctx context.Context, limit int) ([]model.SearchHistoryItem, error) {
	s.mu.Lock()
	items, err := s.load(ctx)
	s.mu.Unlock()

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, err
}

// GetPopularSearches 按查询词聚合计数，过滤掉次数少于 minCount 的查询，按次数降序返回。
// 次数相同时最近搜索过的在前；分类取该查询最近一次使用的分类。
func (s *HistoryStore) GetPopularSearches(ctx context.Context, limit, minCount int) ([]model.PopularSearchItem, error) {
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	if minCount <= 0 {
		minCount = 1
	}

	s.mu.Lock()
	items, err := s.load(ctx)
	s.mu.Unlock()

	index := make(map[string]int)
	var grouped []model.PopularSearchItem
	for _, item := range items {
		if i, ok := index[item.Query]; ok {
			grouped[i].Count++
			continue
		}
		index[item.Query] = len(grouped)
		grouped = append(grouped, model.PopularSearchItem{Query: item.Query, Count: 1, Category: item.Category})
	}

	popular := make([]model.PopularSearchItem, 0, len(grouped))
	for _, g := range grouped {
		if g.Count >= minCount {
			popular = append(popular, g)
		}
	}
	sort.SliceStable(popular, func(i, j int) bool { return popular[i].Count > popular[j].Count })
	if len(popular) > limit {
		popular = popular[:limit]
	}
	return popular, err
}

// GetSuggestions 返回包含 prefix 的历史查询，去重，最近的在前
func (s *HistoryStore) GetSuggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	needle := NormalizeQuery(prefix)
	if needle == "" {
		return []string{}, nil
	}

	s.mu.Lock()
	items, err := s.load(ctx)
	s.mu.Unlock()

	seen := make(map[string]struct{})
	suggestions := []string{}
	for _, item := range items {
		normalized := NormalizeQuery(item.Query)
		if !strings.Contains(normalized, needle) {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		suggestions = append(suggestions, item.Query)
		if len(suggestions) >= limit {
			break
		}
	}
	return suggestions, err
}

// RemoveFromHistory 删除所有与 query 完全相同的记录
func (s *HistoryStore) RemoveFromHistory(ctx context.Context, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if item.Query != query {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return s.save(ctx, kept)
}

// ClearHistory 清空历史
func (s *HistoryStore) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.RemoveItem(ctx, s.key); err != nil {
		log.Printf("[警告] 清空搜索历史失败 (key: %s): %v", s.key, err)
		return fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	return nil
}

// GetSearchStats 计算历史的聚合统计。
// 日均搜索次数按最早一条记录至今的天数计算，不足一天按一天算。
func (s *HistoryStore) GetSearchStats(ctx context.Context) (*model.SearchStats, error) {
	s.mu.Lock()
	items, err := s.load(ctx)
	s.mu.Unlock()

	stats := &model.SearchStats{TopCategories: []model.CategoryCount{}}
	if len(items) == 0 {
		return stats, err
	}

	unique := make(map[string]struct{})
	categoryIndex := make(map[string]int)
	oldest := items[0].Timestamp
	for _, item := range items {
		unique[item.Query] = struct{}{}
		if item.Timestamp < oldest {
			oldest = item.Timestamp
		}
		if item.Category == "" {
			continue
		}
		if i, ok := categoryIndex[item.Category]; ok {
			stats.TopCategories[i].Count++
			continue
		}
		categoryIndex[item.Category] = len(stats.TopCategories)
		stats.TopCategories = append(stats.TopCategories, model.CategoryCount{Category: item.Category, Count: 1})
	}

	stats.TotalSearches = len(items)
	stats.UniqueQueries = len(unique)

	days := float64(s.now().UnixMilli()-oldest) / float64(24*time.Hour/time.Millisecond)
	if days < 1 {
		days = 1
	}
	stats.AverageSearchesPerDay = float64(stats.TotalSearches) / days

	sort.SliceStable(stats.TopCategories, func(i, j int) bool {
		return stats.TopCategories[i].Count > stats.TopCategories[j].Count
	})
	if len(stats.TopCategories) > topCategoryLimit {
		stats.TopCategories = stats.TopCategories[:topCategoryLimit]
	}
	return stats, err
}

// load 读取并校验历史，调用方需持有锁。出错时返回空历史。
func (s *HistoryStore) load(ctx context.Context) ([]model.SearchHistoryItem, error) {
	raw, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		log.Printf("[警告] 读取搜索历史失败 (key: %s): %v", s.key, err)
		return []model.SearchHistoryItem{}, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	if raw == "" {
		return []model.SearchHistoryItem{}, nil
	}

	var stored []model.SearchHistoryItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Printf("[警告] 搜索历史数据已损坏，按空历史处理 (key: %s): %v", s.key, err)
		return []model.SearchHistoryItem{}, fmt.Errorf("%w: %v", ErrHistoryCorrupted, err)
	}

	items := make([]model.SearchHistoryItem, 0, len(stored))
	for _, item := range stored {
		if strings.TrimSpace(item.Query) == "" {
			continue
		}
		item.Category = normalizeCategory(item.Category)
		items = append(items, item)
	}
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}
	return items, nil
}

// save 序列化并写回历史，调用方需持有锁
func (s *HistoryStore) save(ctx context.Context, items []model.SearchHistoryItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("序列化搜索历史失败: %w", err)
	}
	if err := s.storage.SetItem(ctx, s.key, string(raw)); err != nil {
		log.Printf("[警告] 写入搜索历史失败 (key: %s): %v", s.key, err)
		return fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	return nil
}

// normalizeCategory 空值或无法识别的分类统一记为 "all"
func normalizeCategory(category string) string {
	t, ok := model.ParseEntityType(category)
	if !ok {
		return string(model.EntityTypeAll)
	}
	return string(t)
}
