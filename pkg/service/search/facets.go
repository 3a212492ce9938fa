/*
 * @Description: 搜索结果分面统计
 * @Author: 安知鱼
 * @Date: 2026-09-09 11:26:05
 * @LastEditTime: 2026-10-11 17:02:48
 * @LastEditors: 安知鱼
 */
package search

import (
	"sort"
	"strconv"

	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
)

// maxFacetBuckets 每个分面最多返回的取值数量
const maxFacetBuckets = 10

// buildFacets 基于合并后（分页前）的完整结果集计算分面
func buildFacets(results []*model.SearchResult) *model.SearchFacets {
	types := make(map[model.EntityType]int)
	years := newFacetCounter()
	directors := newFacetCounter()
	tags := newFacetCounter()

	for _, r := range results {
		types[r.Type]++
		switch md := r.Metadata.(type) {
		case model.MovieMetadata:
			if md.Year > 0 {
				years.add(strconv.Itoa(md.Year))
			}
			directors.add(md.Director)
			tags.add(md.Tags...)
		case model.GuideMetadata:
			tags.add(md.Tags...)
		case model.MediaMetadata:
			tags.add(md.Tags...)
		}
	}

	return &model.SearchFacets{
		Types:     types,
		Years:     years.buckets(),
		Directors: directors.buckets(),
		Tags:      tags.buckets(),
	}
}

type facetCounter struct {
	counts map[string]int
}

func newFacetCounter() *facetCounter {
	return &facetCounter{counts: make(map[string]int)}
}

func (f *facetCounter) add(values ...string) {
	for _, v := range values {
		if v != "" {
			f.counts[v]++
		}
	}
}

// buckets 按次数降序、取值升序返回，最多 maxFacetBuckets 个
func (f *facetCounter) buckets() []model.FacetBucket {
	out := make([]model.FacetBucket, 0, len(f.counts))
	for v, n := range f.counts {
		out = append(out, model.FacetBucket{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > maxFacetBuckets {
		out = out[:maxFacetBuckets]
	}
	return out
}
