/*
 * @Description: 搜索相关的数据模型
 * @Author: 安知鱼
 * @Date: 2026-09-02 10:00:00
 * @LastEditTime: 2026-10-12 21:18:40
 * @LastEditors: 安知鱼
 */
package model

// EntityType 可被搜索的内容类型
type EntityType string

const (
	EntityTypeMovie     EntityType = "movie"
	EntityTypeCharacter EntityType = "character"
	EntityTypeReview    EntityType = "review"
	EntityTypeGuide     EntityType = "guide"
	EntityTypeMedia     EntityType = "media"

	// EntityTypeAll 仅用于过滤条件与历史分类，表示不限类型
	EntityTypeAll EntityType = "all"
)

// AllEntityTypes 按固定顺序列出所有可搜索类型，合并结果时以此顺序作为同分时的先后
var AllEntityTypes = []EntityType{
	EntityTypeMovie,
	EntityTypeCharacter,
	EntityTypeReview,
	EntityTypeGuide,
	EntityTypeMedia,
}

// Valid 判断是否为可搜索的具体类型
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeMovie, EntityTypeCharacter, EntityTypeReview, EntityTypeGuide, EntityTypeMedia:
		return true
	}
	return false
}

// ParseEntityType 解析过滤条件中的类型，空字符串与 "all" 都表示不限类型
func ParseEntityType(s string) (EntityType, bool) {
	t := EntityType(s)
	if s == "" || t == EntityTypeAll {
		return EntityTypeAll, true
	}
	return t, t.Valid()
}

// ResultMetadata 是搜索结果附带的类型专属信息，每种类型对应一种结构
type ResultMetadata interface {
	EntityType() EntityType
}

// MovieMetadata 电影结果的附加信息
type MovieMetadata struct {
	Year          int      `json:"year,omitempty"`
	Director      string   `json:"director,omitempty"`
	Duration      int      `json:"duration,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	OriginalTitle string   `json:"originalTitle,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

func (MovieMetadata) EntityType() EntityType { return EntityTypeMovie }

// CharacterMetadata 角色结果的附加信息
type CharacterMetadata struct {
	MovieTitle string `json:"movieTitle,omitempty"`
	VoiceActor string `json:"voiceActor,omitempty"`
}

func (CharacterMetadata) EntityType() EntityType { return EntityTypeCharacter }

// ReviewMetadata 影评结果的附加信息
type ReviewMetadata struct {
	Author     string  `json:"author,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
	MovieTitle string  `json:"movieTitle,omitempty"`
	Language   string  `json:"language,omitempty"`
}

func (ReviewMetadata) EntityType() EntityType { return EntityTypeReview }

// GuideMetadata 观影指南结果的附加信息
type GuideMetadata struct {
	Author      string   `json:"author,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ReadingTime int      `json:"readingTime,omitempty"`
}

func (GuideMetadata) EntityType() EntityType { return EntityTypeGuide }

// MediaMetadata 媒体资源（原声、画集、预告片等）结果的附加信息
type MediaMetadata struct {
	Kind       string   `json:"kind,omitempty"`
	Language   string   `json:"language,omitempty"`
	MovieTitle string   `json:"movieTitle,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

func (MediaMetadata) EntityType() EntityType { return EntityTypeMedia }

// SearchResult 单条搜索结果，每次请求临时构造，不持久化
type SearchResult struct {
	ID             string           `json:"id"`
	Type           EntityType       `json:"type"`
	Title          string           `json:"title"`
	Subtitle       string           `json:"subtitle,omitempty"`
	Description    string           `json:"description,omitempty"`
	ImageURL       string           `json:"imageUrl,omitempty"`
	URL            string           `json:"url"`
	RelevanceScore float64          `json:"relevanceScore"`
	Metadata       ResultMetadata   `json:"metadata,omitempty"`
	Highlight      *ResultHighlight `json:"highlight,omitempty"`
}

// ResultHighlight 服务端生成的高亮片段（HTML 安全）
type ResultHighlight struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
}

// SearchFilters 搜索过滤条件
type SearchFilters struct {
	Type     EntityType `json:"type,omitempty"`
	Year     int        `json:"year,omitempty"`
	Director string     `json:"director,omitempty"`
	Tags     []string   `json:"tags,omitempty"`
	Language string     `json:"language,omitempty"`
}

// Includes 判断某个类型是否在本次搜索范围内
func (f *SearchFilters) Includes(t EntityType) bool {
	if f == nil || f.Type == "" || f.Type == EntityTypeAll {
		return true
	}
	return f.Type == t
}

// SearchRequest 定义了搜索请求的参数
type SearchRequest struct {
	Query     string        `json:"q"`
	Filters   SearchFilters `json:"filters"`
	Page      int           `json:"page"`
	Limit     int           `json:"limit"`
	Highlight bool          `json:"highlight"`
}

// FacetBucket 聚合统计中的一个取值
type FacetBucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SearchFacets 搜索结果的分面统计，用于前端过滤器
type SearchFacets struct {
	Types     map[EntityType]int `json:"types"`
	Years     []FacetBucket      `json:"years"`
	Directors []FacetBucket      `json:"directors"`
	Tags      []FacetBucket      `json:"tags"`
}

// SearchResponse 定义了搜索接口的返回结构
type SearchResponse struct {
	Results     []*SearchResult `json:"results"`
	Total       int             `json:"total"`
	Query       string          `json:"query"`
	Filters     SearchFilters   `json:"filters"`
	Suggestions []string        `json:"suggestions"`
	Facets      *SearchFacets   `json:"facets"`
	Page        int             `json:"page"`
	Limit       int             `json:"limit"`
	TotalPages  int             `json:"totalPages"`
}

// EmptySearchResponse 构造一个合法但为空的搜索结果
func EmptySearchResponse(query string, filters SearchFilters, page, limit int) *SearchResponse {
	return &SearchResponse{
		Results:     []*SearchResult{},
		Total:       0,
		Query:       query,
		Filters:     filters,
		Suggestions: []string{},
		Facets: &SearchFacets{
			Types:     map[EntityType]int{},
			Years:     []FacetBucket{},
			Directors: []FacetBucket{},
			Tags:      []FacetBucket{},
		},
		Page:  page,
		Limit: limit,
	}
}
