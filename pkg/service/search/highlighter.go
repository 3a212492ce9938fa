/*
 * @Description: 搜索关键词高亮、摘要片段与匹配统计
 * @Author: 安知鱼
 * @Date: 2026-09-05 10:11:38
 * @LastEditTime: 2026-10-11 22:40:16
 * @LastEditors: 安知鱼
 */
package search

import (
	"html"
	"sort"
	"strings"
	"unicode"

	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
)

// DefaultHighlightClass 默认的高亮样式类名
const DefaultHighlightClass = "search-highlight"

const (
	ellipsis      = "..."
	snippetLength = 160
	snippetRadius = 40
)

type highlightOptions struct {
	class string
}

// HighlightOption 高亮选项
type HighlightOption func(*highlightOptions)

// WithHighlightClass 自定义 <mark> 的 class
func WithHighlightClass(class string) HighlightOption {
	return func(o *highlightOptions) {
		if class != "" {
			o.class = class
		}
	}
}

// MatchStats 查询词在文本中的匹配统计，位置以字符（rune）为单位
type MatchStats struct {
	TotalMatches   int   `json:"totalMatches"`
	ExactMatches   int   `json:"exactMatches"`
	MatchPositions []int `json:"matchPositions"`
}

// span 表示 rune 下标区间 [start, end)
type span struct {
	start, end int
}

// Highlight 将 text 中与 query 各个词匹配的片段包裹为 <mark>。
// 只有 query 为空串时原样返回 text（不做转义），空文本返回空串。
// 其余情况下所有文本片段都先经过 HTML 转义再拼接标签，原文中的 < > 不会以字面形式出现在结果里。
func Highlight(text, query string, opts ...HighlightOption) string {
	if query == "" {
		return text
	}
	if text == "" {
		return ""
	}
	if strings.TrimSpace(query) == "" {
		return html.EscapeString(text)
	}

	o := highlightOptions{class: DefaultHighlightClass}
	for _, opt := range opts {
		opt(&o)
	}

	runes := []rune(text)
	spans := findTermSpans(foldRunes(runes), queryTerms(query))
	if len(spans) == 0 {
		return html.EscapeString(text)
	}

	openTag := `<mark class="` + html.EscapeString(o.class) + `">`
	var b strings.Builder
	b.Grow(len(text) + len(spans)*(len(openTag)+7))

	last := 0
	for _, sp := range spans {
		b.WriteString(html.EscapeString(string(runes[last:sp.start])))
		b.WriteString(openTag)
		b.WriteString(html.EscapeString(string(runes[sp.start:sp.end])))
		b.WriteString("</mark>")
		last = sp.end
	}
	b.WriteString(html.EscapeString(string(runes[last:])))
	return b.String()
}

// GetSnippet 截取以首个匹配为中心的摘要片段。
// 结果最多 maxLength 个字符，加上省略号后不超过 maxLength+3；未找到匹配时从文本开头截取。
func GetSnippet(text, query string, maxLength, contextRadius int) string {
	if text == "" {
		return ""
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return text
	}

	runes := []rune(text)
	n := len(runes)
	if maxLength <= 0 || n <= maxLength {
		return text
	}
	if contextRadius < 0 {
		contextRadius = 0
	}

	folded := foldRunes(runes)
	needle := foldRunes([]rune(q))
	matchStart, matchLen := -1, 0
	if idx := indexRunes(folded, 0, needle); idx >= 0 {
		matchStart, matchLen = idx, len(needle)
	} else if spans := findTermSpans(folded, queryTerms(query)); len(spans) > 0 {
		matchStart, matchLen = spans[0].start, spans[0].end-spans[0].start
	}

	if matchStart < 0 {
		return string(runes[:maxLength]) + ellipsis
	}

	start, end := snippetWindow(n, matchStart, matchLen, maxLength, contextRadius)
	leading := start > 0
	if leading && end < n {
		if maxLength > len(ellipsis) {
			// 两端都需要省略号时，正文少留 3 个字符，使总长度仍不超过 maxLength+3
			start, end = snippetWindow(n, matchStart, matchLen, maxLength-len(ellipsis), contextRadius)
		} else {
			// 正文放不下两个省略号，只保留结尾的
			leading = false
		}
	}

	var b strings.Builder
	if leading {
		b.WriteString(ellipsis)
	}
	b.WriteString(string(runes[start:end]))
	if end < n {
		b.WriteString(ellipsis)
	}
	return b.String()
}

// snippetWindow 计算长度为 size 的窗口，尽量让匹配前保留 contextRadius 个字符
func snippetWindow(n, matchStart, matchLen, size, contextRadius int) (int, int) {
	if size < 1 {
		size = 1
	}
	start := matchStart - contextRadius
	if start < 0 {
		start = 0
	}
	// 匹配的结尾必须落在窗口内
	if matchStart+matchLen > start+size {
		start = matchStart + matchLen - size
	}
	if start > matchStart {
		start = matchStart
	}
	end := start + size
	if end > n {
		end = n
		start = end - size
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// GetMatchStats 统计 query 在 text 中的不区分大小写出现次数。
// ExactMatches 只统计整词（前后不是字母数字）或整串相等的匹配。
func GetMatchStats(text, query string) MatchStats {
	stats := MatchStats{MatchPositions: []int{}}
	q := strings.TrimSpace(query)
	if text == "" || q == "" {
		return stats
	}

	runes := []rune(text)
	folded := foldRunes(runes)
	needle := foldRunes([]rune(q))

	for pos := indexRunes(folded, 0, needle); pos >= 0; pos = indexRunes(folded, pos+len(needle), needle) {
		stats.TotalMatches++
		stats.MatchPositions = append(stats.MatchPositions, pos)
		if isWholeWord(runes, pos, pos+len(needle)) {
			stats.ExactMatches++
		}
	}
	return stats
}

// HighlightResult 返回单条结果的高亮副本，不修改缓存中的原始结果
func HighlightResult(result *model.SearchResult, query string) *model.SearchResult {
	cp := *result
	cp.Highlight = &model.ResultHighlight{Title: Highlight(result.Title, query)}
	if result.Description != "" {
		cp.Highlight.Description = Highlight(result.Description, query)
		cp.Highlight.Snippet = Highlight(GetSnippet(result.Description, query, snippetLength, snippetRadius), query)
	}
	return &cp
}

// queryTerms 拆分查询词，去重后按长度降序，保证较长的词优先匹配
func queryTerms(query string) [][]rune {
	seen := make(map[string]struct{})
	var terms [][]rune
	for _, f := range strings.Fields(query) {
		folded := string(foldRunes([]rune(f)))
		if _, ok := seen[folded]; ok {
			continue
		}
		seen[folded] = struct{}{}
		terms = append(terms, []rune(folded))
	}
	sort.SliceStable(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })
	return terms
}

// findTermSpans 单次从左到右扫描，返回互不重叠的匹配区间（按出现顺序）
func findTermSpans(text []rune, terms [][]rune) []span {
	if len(terms) == 0 {
		return nil
	}
	var spans []span
	for i := 0; i < len(text); {
		matched := 0
		for _, term := range terms {
			if hasRunesAt(text, i, term) {
				matched = len(term)
				break
			}
		}
		if matched > 0 {
			spans = append(spans, span{start: i, end: i + matched})
			i += matched
			continue
		}
		i++
	}
	return spans
}

func foldRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func hasRunesAt(text []rune, at int, term []rune) bool {
	if len(term) == 0 || at+len(term) > len(text) {
		return false
	}
	for j, r := range term {
		if text[at+j] != r {
			return false
		}
	}
	return true
}

func indexRunes(text []rune, from int, needle []rune) int {
	for i := from; i+len(needle) <= len(text); i++ {
		if hasRunesAt(text, i, needle) {
			return i
		}
	}
	return -1
}

func isWholeWord(runes []rune, start, end int) bool {
	if start > 0 && isWordRune(runes[start-1]) {
		return false
	}
	if end < len(runes) && isWordRune(runes[end]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
