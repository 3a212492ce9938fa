package sqlrepo

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ghibli-db/ghibli-app/internal/infra/persistence/database"
	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
	"github.com/ghibli-db/ghibli-app/pkg/domain/repository"
)

func newSeededRepo(t *testing.T) repository.CatalogRepository {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.Bootstrap(context.Background(), db, database.DialectSQLite, true); err != nil {
		t.Fatalf("初始化数据库失败: %v", err)
	}
	return NewCatalogRepository(db, database.DialectSQLite)
}

func TestFindMovies(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		query   string
		filters *model.SearchFilters
		want    []string
	}{
		{name: "中文片名", query: "千与千寻", want: []string{"千与千寻"}},
		{name: "英文片名忽略大小写", query: "SPIRITED away", want: []string{"千与千寻"}},
		{name: "按年份过滤", query: "宫崎骏", filters: &model.SearchFilters{Year: 1988}, want: []string{"龙猫"}},
		{name: "按导演过滤", query: "战争", filters: &model.SearchFilters{Director: "高畑勋"}, want: []string{"萤火虫之墓"}},
		{name: "按标签过滤", query: "宫崎骏", filters: &model.SearchFilters{Tags: []string{"爱情"}}, want: []string{"哈尔的移动城堡"}},
		{name: "无匹配", query: "不存在的电影", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies, err := repo.FindMovies(ctx, tt.query, tt.filters, 50)
			if err != nil {
				t.Fatal(err)
			}
			if len(movies) != len(tt.want) {
				t.Fatalf("got %d movies, want %d", len(movies), len(tt.want))
			}
			for i, m := range movies {
				if m.Title != tt.want[i] {
					t.Errorf("movies[%d] = %q, want %q", i, m.Title, tt.want[i])
				}
			}
		})
	}
}

func TestFindMoviesLimitAndTags(t *testing.T) {
	repo := newSeededRepo(t)
	movies, err := repo.FindMovies(context.Background(), "宫崎骏", nil, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != 3 {
		t.Fatalf("limit 未生效: %d", len(movies))
	}
	// 按评分降序
	if movies[0].Title != "千与千寻" {
		t.Errorf("movies[0] = %q", movies[0].Title)
	}
	if len(movies[0].Tags) != 3 || movies[0].Tags[0] != "奇幻" {
		t.Errorf("标签解析错误: %v", movies[0].Tags)
	}
}

func TestFindOtherTypes(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	t.Run("角色", func(t *testing.T) {
		chars, err := repo.FindCharacters(ctx, "千与千寻", nil, 50)
		if err != nil {
			t.Fatal(err)
		}
		if len(chars) != 3 {
			t.Errorf("got %d characters, want 3", len(chars))
		}
	})

	t.Run("影评按语言过滤", func(t *testing.T) {
		reviews, err := repo.FindReviews(ctx, "princess castle", &model.SearchFilters{Language: "en"}, 50)
		if err != nil {
			t.Fatal(err)
		}
		if len(reviews) != 2 {
			t.Errorf("got %d reviews, want 2", len(reviews))
		}
		reviews, err = repo.FindReviews(ctx, "princess castle", &model.SearchFilters{Language: "zh"}, 50)
		if err != nil {
			t.Fatal(err)
		}
		if len(reviews) != 0 {
			t.Errorf("got %d zh reviews, want 0", len(reviews))
		}
	})

	t.Run("指南匹配正文", func(t *testing.T) {
		guides, err := repo.FindGuides(ctx, "道后温泉", nil, 50)
		if err != nil {
			t.Fatal(err)
		}
		if len(guides) != 1 || guides[0].Title != "千与千寻观影指南" {
			t.Errorf("guides = %v", guides)
		}
	})

	t.Run("媒体按标签过滤", func(t *testing.T) {
		media, err := repo.FindMedia(ctx, "龙猫 哈尔", &model.SearchFilters{Tags: []string{"美术"}}, 50)
		if err != nil {
			t.Fatal(err)
		}
		if len(media) != 2 {
			t.Errorf("got %d media, want 2", len(media))
		}
	})
}

func TestSuggestTitles(t *testing.T) {
	repo := newSeededRepo(t)
	titles, err := repo.SuggestTitles(context.Background(), "千与千寻", 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"千与千寻", "千与千寻观影指南"}
	if len(titles) != len(want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, titles[i], want[i])
		}
	}

	empty, err := repo.SuggestTitles(context.Background(), "  ", 5)
	if err != nil || len(empty) != 0 {
		t.Errorf("空查询应返回空列表, got %v %v", empty, err)
	}
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "龙猫", want: "%龙猫%"},
		{in: "100%", want: "%100!%%"},
		{in: "a_b", want: "%a!_b%"},
		{in: "hey!", want: "%hey!!%"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := containsPattern(tt.in); got != tt.want {
				t.Errorf("containsPattern(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWildcardsMatchLiterally(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	for _, q := range []string{"_", "__", "%", "%_%"} {
		t.Run(q, func(t *testing.T) {
			movies, err := repo.FindMovies(ctx, q, nil, 50)
			if err != nil {
				t.Fatal(err)
			}
			if len(movies) != 0 {
				t.Errorf("通配符应按字面匹配, got %d movies", len(movies))
			}
			media, err := repo.FindMedia(ctx, q, &model.SearchFilters{Tags: []string{"_"}}, 50)
			if err != nil {
				t.Fatal(err)
			}
			if len(media) != 0 {
				t.Errorf("got %d media", len(media))
			}
			titles, err := repo.SuggestTitles(ctx, q, 5)
			if err != nil {
				t.Fatal(err)
			}
			if len(titles) != 0 {
				t.Errorf("SuggestTitles(%q) = %v", q, titles)
			}
		})
	}
}
