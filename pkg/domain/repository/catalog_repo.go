/*
 * @Description: 影片资料库数据仓库接口
 * @Author: 安知鱼
 * @Date: 2026-09-02 10:35:12
 * @LastEditTime: 2026-10-08 16:05:47
 * @LastEditors: 安知鱼
 */
package repository

import (
	"context"

	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
)

// CatalogRepository 定义了搜索所需的候选记录查询接口。
// 每个方法返回与查询词可能相关的记录，最多 limit 条；打分与排序由搜索服务负责。
type CatalogRepository interface {
	FindMovies(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.Movie, error)
	FindCharacters(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.Character, error)
	FindReviews(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.Review, error)
	FindGuides(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.Guide, error)
	FindMedia(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.Media, error)
	// SuggestTitles 返回标题中包含查询词的电影、指南标题，用于搜索建议
	SuggestTitles(ctx context.Context, query string, limit int) ([]string, error)
}
