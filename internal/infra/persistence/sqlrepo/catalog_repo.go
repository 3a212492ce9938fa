/*
 * @Description: 基于 database/sql 的影片资料库仓库实现
 * @Author: 安知鱼
 * @Date: 2026-09-04 09:12:40
 * @LastEditTime: 2026-10-12 20:41:18
 * @LastEditors: 安知鱼
 */
package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ghibli-db/ghibli-app/internal/infra/persistence/database"
	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
	"github.com/ghibli-db/ghibli-app/pkg/domain/repository"
)

type catalogRepository struct {
	db      *sql.DB
	dialect string
}

// NewCatalogRepository 是 catalogRepository 的构造函数
func NewCatalogRepository(db *sql.DB, dialect string) repository.CatalogRepository {
	return &catalogRepository{db: db, dialect: dialect}
}

// whereBuilder 拼接 WHERE 子句，统一使用 ? 占位符，执行前再按方言改写
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// likeEscape 使用 ! 作为转义符，三种方言对它的字面写法一致
const likeEscape = " ESCAPE '!'"

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern 构造按字面匹配 s 的 LIKE 模式
func containsPattern(s string) string {
	return "%" + likeReplacer.Replace(s) + "%"
}

// matchTerms 任意一个词命中任意一列即作为候选，相关度由搜索服务计算
func (w *whereBuilder) matchTerms(query string, columns ...string) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return
	}
	var ors []string
	for _, term := range terms {
		pattern := containsPattern(term)
		for _, col := range columns {
			ors = append(ors, "LOWER("+col+") LIKE ?"+likeEscape)
			w.args = append(w.args, pattern)
		}
	}
	w.clauses = append(w.clauses, "("+strings.Join(ors, " OR ")+")")
}

func (w *whereBuilder) tags(tags []string) {
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			w.add("tags LIKE ?"+likeEscape, containsPattern(","+tag+","))
		}
	}
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (r *catalogRepository) query(ctx context.Context, base string, w *whereBuilder, order string, limit int) (*sql.Rows, error) {
	q := base + w.sql() + " ORDER BY " + order + " LIMIT ?"
	args := append(w.args, limit)
	return r.db.QueryContext(ctx, database.Rebind(r.dialect, q), args...)
}

func (r *catalogRepository) FindMovies(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.Movie, error) {
	w := &whereBuilder{}
	w.matchTerms(query, "title", "original_title", "english_title", "synopsis", "director")
	if filters != nil {
		if filters.Year > 0 {
			w.add("year = ?", filters.Year)
		}
		if d := strings.TrimSpace(filters.Director); d != "" {
			w.add("director = ?", d)
		}
		w.tags(filters.Tags)
	}

	rows, err := r.query(ctx, `SELECT id, title, original_title, english_title, COALESCE(synopsis, ''), director,
		year, duration, rating, poster_url, tags FROM movies`, w, "rating DESC, id ASC", limit)
	if err != nil {
		return nil, fmt.Errorf("查询电影失败: %w", err)
	}
	defer rows.Close()

	var movies []*model.Movie
	for rows.Next() {
		m := &model.Movie{}
		var tags string
		if err := rows.Scan(&m.ID, &m.Title, &m.OriginalTitle, &m.EnglishTitle, &m.Synopsis, &m.Director,
			&m.Year, &m.Duration, &m.Rating, &m.PosterURL, &tags); err != nil {
			return nil, fmt.Errorf("读取电影记录失败: %w", err)
		}
		m.Tags = database.SplitTags(tags)
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (r *catalogRepository) FindCharacters(ctx context.Context, query string, _ *model.SearchFilters, limit int) ([]*model.Character, error) {
	w := &whereBuilder{}
	w.matchTerms(query, "name", "japanese_name", "description", "movie_title")

	rows, err := r.query(ctx, `SELECT id, name, japanese_name, COALESCE(description, ''), voice_actor, movie_title, image_url
		FROM characters`, w, "id ASC", limit)
	if err != nil {
		return nil, fmt.Errorf("查询角色失败: %w", err)
	}
	defer rows.Close()

	var characters []*model.Character
	for rows.Next() {
		c := &model.Character{}
		if err := rows.Scan(&c.ID, &c.Name, &c.JapaneseName, &c.Description, &c.VoiceActor, &c.MovieTitle, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("读取角色记录失败: %w", err)
		}
		characters = append(characters, c)
	}
	return characters, rows.Err()
}

func (r *catalogRepository) FindReviews(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.Review, error) {
	w := &whereBuilder{}
	w.matchTerms(query, "title", "content", "movie_title")
	if filters != nil && filters.Language != "" {
		w.add("language = ?", filters.Language)
	}

	rows, err := r.query(ctx, `SELECT id, title, COALESCE(content, ''), author, rating, movie_title, language
		FROM reviews`, w, "created_at DESC, id ASC", limit)
	if err != nil {
		return nil, fmt.Errorf("查询影评失败: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		rv := &model.Review{}
		if err := rows.Scan(&rv.ID, &rv.Title, &rv.Content, &rv.Author, &rv.Rating, &rv.MovieTitle, &rv.Language); err != nil {
			return nil, fmt.Errorf("读取影评记录失败: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *catalogRepository) FindGuides(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.Guide, error) {
	w := &whereBuilder{}
	w.matchTerms(query, "title", "summary", "content")
	if filters != nil {
		w.tags(filters.Tags)
	}

	rows, err := r.query(ctx, `SELECT id, title, COALESCE(summary, ''), COALESCE(content, ''), author, tags, cover_url, reading_time
		FROM guides`, w, "id ASC", limit)
	if err != nil {
		return nil, fmt.Errorf("查询指南失败: %w", err)
	}
	defer rows.Close()

	var guides []*model.Guide
	for rows.Next() {
		g := &model.Guide{}
		var tags string
		if err := rows.Scan(&g.ID, &g.Title, &g.Summary, &g.Content, &g.Author, &tags, &g.CoverURL, &g.ReadingTime); err != nil {
			return nil, fmt.Errorf("读取指南记录失败: %w", err)
		}
		g.Tags = database.SplitTags(tags)
		guides = append(guides, g)
	}
	return guides, rows.Err()
}

func (r *catalogRepository) FindMedia(ctx context.Context, query string, filters *model.SearchFilters, limit int) ([]*model.Media, error) {
	w := &whereBuilder{}
	w.matchTerms(query, "title", "description", "movie_title")
	if filters != nil {
		if filters.Language != "" {
			w.add("language = ?", filters.Language)
		}
		w.tags(filters.Tags)
	}

	rows, err := r.query(ctx, `SELECT id, title, COALESCE(description, ''), kind, thumbnail_url, language, tags, movie_title
		FROM media`, w, "id ASC", limit)
	if err != nil {
		return nil, fmt.Errorf("查询媒体资源失败: %w", err)
	}
	defer rows.Close()

	var items []*model.Media
	for rows.Next() {
		m := &model.Media{}
		var tags string
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Kind, &m.ThumbnailURL, &m.Language, &tags, &m.MovieTitle); err != nil {
			return nil, fmt.Errorf("读取媒体记录失败: %w", err)
		}
		m.Tags = database.SplitTags(tags)
		items = append(items, m)
	}
	return items, rows.Err()
}

// SuggestTitles 电影标题在前，指南标题在后
func (r *catalogRepository) SuggestTitles(ctx context.Context, query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return []string{}, nil
	}
	pattern := containsPattern(strings.ToLower(query))

	q := `SELECT title FROM (
			SELECT title, 0 AS src, id FROM movies WHERE LOWER(title) LIKE ? ESCAPE '!'
			UNION ALL
			SELECT title, 1 AS src, id FROM guides WHERE LOWER(title) LIKE ? ESCAPE '!'
		) t ORDER BY src, id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, database.Rebind(r.dialect, q), pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("查询标题建议失败: %w", err)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("读取标题建议失败: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}
