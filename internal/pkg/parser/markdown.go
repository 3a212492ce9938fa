/*
 * @Description: Markdown 渲染与纯文本提取
 * @Author: 安知鱼
 * @Date: 2026-09-06 15:57:23
 * @LastEditTime: 2026-10-08 15:57:28
 * @LastEditors: 安知鱼
 */
package parser

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var mdParser goldmark.Markdown
var policy *bluemonday.Policy

func init() {
	// 观影指南只用到常见的 GFM 语法
	mdParser = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(), // 原始 HTML 交给 bluemonday 清理
		),
	)

	policy = bluemonday.UGCPolicy()
	policy.AllowElements("table", "thead", "tbody", "tr", "th", "td")
}

// MarkdownToHTML 将 Markdown 字符串转换为安全的 HTML 字符串
func MarkdownToHTML(mdContent string) (string, error) {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(mdContent), &buf); err != nil {
		return "", err
	}
	return policy.Sanitize(buf.String()), nil
}

// MarkdownToText 将 Markdown 渲染后去掉所有标签，得到纯文本。
// 渲染失败时退回原文，保证搜索仍能在原始内容上匹配。
func MarkdownToText(mdContent string) string {
	if mdContent == "" {
		return ""
	}
	rendered, err := MarkdownToHTML(mdContent)
	if err != nil {
		return collapseSpaces(mdContent)
	}
	return HTMLToText(rendered)
}
