/*
 * @Description: HTML 转纯文本
 * @Author: 安知鱼
 * @Date: 2026-09-06 16:10:36
 * @LastEditTime: 2026-10-08 16:10:41
 * @LastEditors: 安知鱼
 */
package parser

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripTagsPolicy *bluemonday.Policy

func init() {
	// StripTagsPolicy 会移除所有的HTML标签
	stripTagsPolicy = bluemonday.StripTagsPolicy()
}

// StripHTML 接受一个HTML字符串，返回一个去除了所有标签的字符串（实体仍保持转义）。
func StripHTML(htmlContent string) string {
	return stripTagsPolicy.Sanitize(htmlContent)
}

// HTMLToText 去除标签、还原实体并合并空白，得到可用于打分与高亮的纯文本
func HTMLToText(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}
	return collapseSpaces(html.UnescapeString(StripHTML(htmlContent)))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
