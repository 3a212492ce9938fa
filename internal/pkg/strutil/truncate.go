/*
 * @Description: 字符串截断
 * @Author: 安知鱼
 * @Date: 2026-09-10 16:10:53
 * @LastEditTime: 2026-10-08 16:10:58
 * @LastEditors: 安知鱼
 */
package strutil

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis 截断后追加的省略号
const Ellipsis = "..."

// Truncate 按字符数截断UTF-8字符串，超出时去掉末尾空白并追加省略号。
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}

	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:maxLength]), isSpace) + Ellipsis
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '　'
}
