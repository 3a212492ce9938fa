/*
 * @Description: 相关度打分
 * @Author: 安知鱼
 * @Date: 2026-09-04 14:02:10
 * @LastEditTime: 2026-10-10 09:31:25
 * @LastEditors: 安知鱼
 */
package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// 各匹配方式的得分
const (
	ScoreExact        = 100.0
	ScorePrefix       = 80.0
	ScoreSubstring    = 60.0
	ScoreTokenOverlap = 40.0
)

// Score 计算查询词与若干候选文本字段的相关度。
// 每个非空字段单独打分后累加，因此多个字段命中时总分可以超过 100。
// 空查询或没有候选字段时返回 0。
func Score(query string, fields ...string) float64 {
	if strings.TrimSpace(query) == "" || len(fields) == 0 {
		return 0
	}

	fold := cases.Fold()
	q := fold.String(query)
	queryTokens := strings.Fields(q)

	total := 0.0
	for _, field := range fields {
		if field == "" {
			continue
		}
		total += scoreField(q, queryTokens, fold.String(field))
	}
	return total
}

// scoreField 对单个已折叠大小写的字段打分
func scoreField(q string, queryTokens []string, text string) float64 {
	switch {
	case text == q:
		return ScoreExact
	case strings.HasPrefix(text, q):
		return ScorePrefix
	case strings.Contains(text, q):
		return ScoreSubstring
	}

	if len(queryTokens) == 0 {
		return 0
	}

	// 词元重叠：查询词元与文本词元互相包含即视为命中。
	// 单字符词元会命中大量无关词，这是现有行为，暂不调整公式。
	textTokens := strings.Fields(text)
	matched := 0
	for _, qt := range queryTokens {
		for _, tt := range textTokens {
			if strings.Contains(tt, qt) || strings.Contains(qt, tt) {
				matched++
				break
			}
		}
	}
	return ScoreTokenOverlap * float64(matched) / float64(len(queryTokens))
}
