/*
 * @Description: 影片资料库的记录模型（由数据仓库返回，供搜索打分使用）
 * @Author: 安知鱼
 * @Date: 2026-09-02 10:20:00
 * @LastEditTime: 2026-10-08 16:02:11
 * @LastEditors: 安知鱼
 */
package model

import "time"

// Movie 电影
type Movie struct {
	ID            uint
	Title         string // 中文片名
	OriginalTitle string // 日文原名
	EnglishTitle  string
	Synopsis      string
	Director      string
	Year          int
	Duration      int // 分钟
	Rating        float64
	PosterURL     string
	Tags          []string
	CreatedAt     time.Time
}

// Character 角色
type Character struct {
	ID           uint
	Name         string
	JapaneseName string
	Description  string
	VoiceActor   string
	MovieTitle   string
	ImageURL     string
}

// Review 影评，Content 为 HTML
type Review struct {
	ID         uint
	Title      string
	Content    string
	Author     string
	Rating     float64
	MovieTitle string
	Language   string
	CreatedAt  time.Time
}

// Guide 观影指南，Content 为 Markdown
type Guide struct {
	ID          uint
	Title       string
	Summary     string
	Content     string
	Author      string
	Tags        []string
	CoverURL    string
	ReadingTime int
}

// Media 媒体资源
type Media struct {
	ID           uint
	Title        string
	Description  string
	Kind         string // soundtrack / artbook / trailer / wallpaper
	ThumbnailURL string
	Language     string
	Tags         []string
	MovieTitle   string
}
