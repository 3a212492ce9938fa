/*
 * @Description: 搜索历史相关的数据模型
 * @Author: 安知鱼
 * @Date: 2026-09-03 09:12:40
 * @LastEditTime: 2026-10-09 11:40:02
 * @LastEditors: 安知鱼
 */
package model

// SearchHistoryItem 一条搜索历史，Timestamp 为毫秒时间戳
type SearchHistoryItem struct {
	Query       string `json:"query"`
	Timestamp   int64  `json:"timestamp"`
	ResultCount *int   `json:"resultCount,omitempty"`
	Category    string `json:"category,omitempty"`
}

// PopularSearchItem 热门搜索，由历史按查询词聚合得出
type PopularSearchItem struct {
	Query    string `json:"query"`
	Count    int    `json:"count"`
	Category string `json:"category,omitempty"`
}

// CategoryCount 分类使用次数
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// SearchStats 搜索历史的聚合统计
type SearchStats struct {
	TotalSearches         int             `json:"totalSearches"`
	UniqueQueries         int             `json:"uniqueQueries"`
	AverageSearchesPerDay float64         `json:"averageSearchesPerDay"`
	TopCategories         []CategoryCount `json:"topCategories"`
}
