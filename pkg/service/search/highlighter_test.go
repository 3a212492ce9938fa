package search

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  string
	}{
		{
			name:  "空查询原样返回",
			text:  "<b>龙猫</b>",
			query: "",
			want:  "<b>龙猫</b>",
		},
		{
			name:  "空白查询也要转义",
			text:  "<b>龙猫</b>",
			query: "  ",
			want:  "&lt;b&gt;龙猫&lt;/b&gt;",
		},
		{
			name:  "空文本",
			text:  "",
			query: "龙猫",
			want:  "",
		},
		{
			name:  "中文匹配",
			text:  "我的邻居龙猫",
			query: "龙猫",
			want:  `我的邻居<mark class="search-highlight">龙猫</mark>`,
		},
		{
			name:  "大小写不敏感且保留原文大小写",
			text:  "My Neighbor Totoro",
			query: "totoro",
			want:  `My Neighbor <mark class="search-highlight">Totoro</mark>`,
		},
		{
			name:  "多次出现",
			text:  "ponyo, Ponyo!",
			query: "ponyo",
			want:  `<mark class="search-highlight">ponyo</mark>, <mark class="search-highlight">Ponyo</mark>!`,
		},
		{
			name:  "多个词按出现顺序高亮",
			text:  "Castle in the Sky",
			query: "sky castle",
			want:  `<mark class="search-highlight">Castle</mark> in the <mark class="search-highlight">Sky</mark>`,
		},
		{
			name:  "未匹配时仍然转义",
			text:  `a < b & "c"`,
			query: "zzz",
			want:  "a &lt; b &amp; &#34;c&#34;",
		},
		{
			name:  "匹配内容包含特殊字符",
			text:  "Tom & Jerry",
			query: "&",
			want:  `Tom <mark class="search-highlight">&amp;</mark> Jerry`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Highlight(tt.text, tt.query); got != tt.want {
				t.Errorf("Highlight(%q, %q) = %q, want %q", tt.text, tt.query, got, tt.want)
			}
		})
	}
}

func TestHighlightCustomClass(t *testing.T) {
	got := Highlight("Kiki", "kiki", WithHighlightClass("hl"))
	want := `<mark class="hl">Kiki</mark>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = Highlight("Kiki", "kiki", WithHighlightClass(`x" onclick="alert(1)`))
	if strings.Contains(got, `" onclick="`) {
		t.Errorf("class 属性未被转义: %q", got)
	}
}

func TestHighlightEscapesScript(t *testing.T) {
	texts := []string{
		"<script>alert('xss')</script>",
		"前缀<script>document.cookie</script>后缀",
		"<SCRIPT src=x></SCRIPT> script",
	}
	queries := []string{"script", "alert", "<script>", "x", "后缀", "s c", " ", "\t", " \n "}

	for _, text := range texts {
		for _, q := range queries {
			out := Highlight(text, q)
			if strings.Contains(strings.ToLower(out), "<script") {
				t.Errorf("Highlight(%q, %q) 输出包含未转义的 script 标签: %q", text, q, out)
			}
			stripped := strings.NewReplacer(`<mark class="search-highlight">`, "", "</mark>", "").Replace(out)
			if strings.ContainsAny(stripped, "<>") {
				t.Errorf("Highlight(%q, %q) 输出中除高亮标签外还有字面 < 或 >: %q", text, q, out)
			}
		}
	}
}

func TestGetSnippet(t *testing.T) {
	long := strings.Repeat("风之谷的故事发生在未来。", 10) + "娜乌西卡驾驶滑翔翼飞过腐海" + strings.Repeat("巨神兵与王虫的传说。", 10)

	tests := []struct {
		name  string
		text  string
		query string
	}{
		{name: "中间匹配", text: long, query: "娜乌西卡"},
		{name: "开头匹配", text: "娜乌西卡" + long, query: "娜乌西卡"},
		{name: "结尾匹配", text: long + "娜乌西卡", query: "娜乌西卡"},
		{name: "大小写不同", text: strings.Repeat("lorem ipsum ", 20) + "Nausicaa " + strings.Repeat("dolor sit ", 20), query: "nausicaa"},
		{name: "无匹配", text: long, query: "不存在的词"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSnippet(tt.text, tt.query, 50, 20)
			if n := utf8.RuneCountInString(got); n > 53 {
				t.Errorf("片段长度 %d 超过 53: %q", n, got)
			}
			if strings.Contains(strings.ToLower(tt.text), strings.ToLower(tt.query)) &&
				!strings.Contains(strings.ToLower(got), strings.ToLower(tt.query)) {
				t.Errorf("片段 %q 不包含查询词 %q", got, tt.query)
			}
		})
	}
}

func TestGetSnippetTinyMaxLength(t *testing.T) {
	text := strings.Repeat("风之谷", 10) + "龙猫" + strings.Repeat("天空之城", 10)
	for maxLength := 1; maxLength <= 6; maxLength++ {
		for _, radius := range []int{0, 1, 5} {
			got := GetSnippet(text, "龙猫", maxLength, radius)
			if n := utf8.RuneCountInString(got); n > maxLength+3 {
				t.Errorf("GetSnippet(maxLength=%d, radius=%d) = %q，长度 %d 超过 %d", maxLength, radius, got, n, maxLength+3)
			}
		}
	}
}

func TestGetSnippetPassthrough(t *testing.T) {
	if got := GetSnippet("", "龙猫", 50, 20); got != "" {
		t.Errorf("空文本应返回空串, got %q", got)
	}
	if got := GetSnippet("短文本", "", 50, 20); got != "短文本" {
		t.Errorf("空查询应原样返回, got %q", got)
	}
	if got := GetSnippet("短文本龙猫", "龙猫", 50, 20); got != "短文本龙猫" {
		t.Errorf("未超长的文本应原样返回, got %q", got)
	}
	long := strings.Repeat("a", 100)
	if got := GetSnippet(long, "zzz", 50, 20); got != strings.Repeat("a", 50)+"..." {
		t.Errorf("无匹配时应从开头截取, got %q", got)
	}
}

func TestGetMatchStats(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		query     string
		total     int
		exact     int
		positions []int
	}{
		{name: "空查询", text: "totoro", query: "", total: 0, exact: 0, positions: []int{}},
		{name: "空文本", text: "", query: "totoro", total: 0, exact: 0, positions: []int{}},
		{name: "整词与词内匹配", text: "Totoro and totoros", query: "totoro", total: 2, exact: 1, positions: []int{0, 11}},
		{name: "整串相等", text: "龙猫", query: "龙猫", total: 1, exact: 1, positions: []int{0}},
		{name: "中文位置按字符计", text: "我的邻居龙猫，龙猫", query: "龙猫", total: 2, exact: 1, positions: []int{4, 7}},
		{name: "无匹配", text: "Ponyo", query: "kiki", total: 0, exact: 0, positions: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetMatchStats(tt.text, tt.query)
			if got.TotalMatches != tt.total || got.ExactMatches != tt.exact {
				t.Errorf("GetMatchStats(%q, %q) = total %d exact %d, want total %d exact %d",
					tt.text, tt.query, got.TotalMatches, got.ExactMatches, tt.total, tt.exact)
			}
			if len(got.MatchPositions) != got.TotalMatches {
				t.Errorf("位置数量 %d 与匹配总数 %d 不一致", len(got.MatchPositions), got.TotalMatches)
			}
			if !equalInts(got.MatchPositions, tt.positions) {
				t.Errorf("位置 = %v, want %v", got.MatchPositions, tt.positions)
			}
		})
	}
}

func TestHighlightResult(t *testing.T) {
	original := &model.SearchResult{Title: "Spirited Away", Description: "A girl <wanders> into the spirit world."}
	got := HighlightResult(original, "spirit")

	if original.Highlight != nil {
		t.Fatal("HighlightResult 不应修改原始结果")
	}
	if got.Highlight == nil {
		t.Fatal("缺少高亮信息")
	}
	if want := `<mark class="search-highlight">Spirit</mark>ed Away`; got.Highlight.Title != want {
		t.Errorf("标题高亮 = %q, want %q", got.Highlight.Title, want)
	}
	if strings.Contains(got.Highlight.Description, "<wanders>") {
		t.Errorf("描述未转义: %q", got.Highlight.Description)
	}
}

func TestHighlightPerformance(t *testing.T) {
	text := strings.Repeat("千与千寻讲述了少女千寻误入神灵世界的故事，Spirited Away is a 2001 film. ", 200)
	start := time.Now()
	out := Highlight(text, "千寻 spirited")
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("高亮 %d 个字符耗时 %v，超过 100ms", utf8.RuneCountInString(text), elapsed)
	}
	if !strings.Contains(out, "<mark") {
		t.Error("应包含高亮标签")
	}
}

func BenchmarkHighlight(b *testing.B) {
	text := strings.Repeat("Howl's Moving Castle 哈尔的移动城堡 ", 100)
	for i := 0; i < b.N; i++ {
		Highlight(text, "castle 城堡")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
