/*
 * @Description: 首次启动时写入的示例资料库数据
 * @Author: 安知鱼
 * @Date: 2026-09-03 17:40:12
 * @LastEditTime: 2026-10-11 10:22:05
 * @LastEditors: 安知鱼
 */
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
)

type seedMovie struct {
	title, original, english, synopsis, director string
	year, duration                              int
	rating                                      float64
	tags                                        []string
}

var seedMovies = []seedMovie{
	{"风之谷", "風の谷のナウシカ", "Nausicaä of the Valley of the Wind", "在被腐海吞噬的世界里，风之谷的少女娜乌西卡试图让人类与王虫共存。", "宫崎骏", 1984, 117, 8.6, []string{"奇幻", "科幻", "环保"}},
	{"天空之城", "天空の城ラピュタ", "Castle in the Sky", "少年巴鲁与少女希达为寻找漂浮在空中的拉普达城展开冒险。", "宫崎骏", 1986, 124, 9.1, []string{"冒险", "奇幻"}},
	{"龙猫", "となりのトトロ", "My Neighbor Totoro", "小月和小梅搬到乡下，在森林里遇见了神奇的龙猫。", "宫崎骏", 1988, 86, 9.2, []string{"奇幻", "家庭", "治愈"}},
	{"萤火虫之墓", "火垂るの墓", "Grave of the Fireflies", "战争末期，清太与妹妹节子在废墟中相依为命。", "高畑勋", 1988, 89, 8.7, []string{"战争", "剧情"}},
	{"魔女宅急便", "魔女の宅急便", "Kiki's Delivery Service", "十三岁的见习魔女琪琪独自来到海边小城，开了一家飞行快递店。", "宫崎骏", 1989, 103, 8.6, []string{"奇幻", "成长"}},
	{"幽灵公主", "もののけ姫", "Princess Mononoke", "受到诅咒的少年阿席达卡在森林众神与人类的战争中寻找和解之道。", "宫崎骏", 1997, 134, 8.9, []string{"奇幻", "冒险", "环保"}},
	{"千与千寻", "千と千尋の神隠し", "Spirited Away", "少女千寻误入神灵世界，在汤屋中工作以拯救变成猪的父母。", "宫崎骏", 2001, 125, 9.4, []string{"奇幻", "冒险", "成长"}},
	{"哈尔的移动城堡", "ハウルの動く城", "Howl's Moving Castle", "被诅咒变成老婆婆的苏菲走进了魔法师哈尔的移动城堡。", "宫崎骏", 2004, 119, 9.1, []string{"奇幻", "爱情"}},
	{"悬崖上的金鱼姬", "崖の上のポニョ", "Ponyo", "想要成为人类的金鱼公主波妞与小男孩宗介的故事。", "宫崎骏", 2008, 101, 8.5, []string{"奇幻", "家庭"}},
	{"借东西的小人阿莉埃蒂", "借りぐらしのアリエッティ", "The Secret World of Arrietty", "住在地板下的小人少女阿莉埃蒂与人类少年翔的相遇。", "米林宏昌", 2010, 94, 8.8, []string{"奇幻", "治愈"}},
}

var seedCharacters = [][6]string{
	// name, japanese name, description, voice actor, movie, image
	{"娜乌西卡", "ナウシカ", "风之谷的公主，能与王虫沟通。", "岛本须美", "风之谷", ""},
	{"希达", "シータ", "拥有飞行石的少女，拉普达王族的后裔。", "横泽启子", "天空之城", ""},
	{"龙猫", "トトロ", "住在大樟树里的森林守护者。", "高木均", "龙猫", ""},
	{"琪琪", "キキ", "骑着扫帚送快递的见习魔女。", "高山南", "魔女宅急便", ""},
	{"千寻", "千尋", "误入神灵世界的十岁少女，在汤屋里改名为小千。", "柊瑠美", "千与千寻", ""},
	{"白龙", "ハク", "汤屋婆婆的弟子，真实身份是琥珀川的河神。", "入野自由", "千与千寻", ""},
	{"无脸男", "カオナシ", "戴着面具、沉默寡言的神灵，会吞下他人的声音。", "中村彰男", "千与千寻", ""},
	{"哈尔", "ハウル", "英俊而任性的魔法师，拥有会移动的城堡。", "木村拓哉", "哈尔的移动城堡", ""},
}

type seedReview struct {
	title, content, author, movie, language string
	rating                                  float64
}

var seedReviews = []seedReview{
	{"重看千与千寻", "<p>每一次重看<b>千与千寻</b>都会发现新的细节，汤屋就是一个小社会。</p>", "小林", "千与千寻", "zh", 9.5},
	{"童年的夏天", "<p>龙猫让人想起夏天的稻田和雨中的公交站。</p>", "阿杰", "龙猫", "zh", 9.0},
	{"A forest of gods", "<p>Princess Mononoke refuses easy villains; every side of the war has its reasons.</p>", "Sam", "幽灵公主", "en", 9.0},
	{"Castle in the Sky still soars", "<p>The robots of Laputa remain the most melancholic machines in animation.</p>", "Robin", "天空之城", "en", 8.5},
}

type seedGuide struct {
	title, summary, content, author, cover string
	tags                                   []string
	readingTime                            int
}

var seedGuides = []seedGuide{
	{"千与千寻观影指南", "从汤屋到海上电车，梳理影片中的隐喻。", "## 汤屋\n\n**汤屋** 的原型之一是道后温泉。\n\n## 海上电车\n\n千寻独自乘坐电车前往钱婆婆家。", "影迷研究社", "", []string{"奇幻", "解读"}, 8},
	{"宫崎骏的飞行情结", "几乎每一部作品里都有飞行的场景。", "- 风之谷的滑翔翼\n- 天空之城的飞行石\n- 魔女宅急便的扫帚", "小林", "", []string{"导演", "解读"}, 5},
	{"吉卜力入门片单", "第一次看吉卜力，从这几部开始。", "1. 龙猫\n2. 魔女宅急便\n3. 千与千寻", "阿杰", "", []string{"片单"}, 3},
}

type seedMedia struct {
	title, description, kind, language, movie string
	tags                                      []string
}

var seedMediaItems = []seedMedia{
	{"千与千寻 原声带", "久石让作曲，收录《那个夏天》等曲目。", "soundtrack", "ja", "千与千寻", []string{"配乐", "久石让"}},
	{"龙猫 画集", "收录龙猫的美术设定与背景原画。", "artbook", "ja", "龙猫", []string{"美术"}},
	{"天空之城 预告片", "Castle in the Sky official trailer.", "trailer", "en", "天空之城", []string{"预告"}},
	{"哈尔的移动城堡 壁纸", "移动城堡在山间行走的高清壁纸。", "wallpaper", "zh", "哈尔的移动城堡", []string{"美术"}},
}

// JoinTags 将标签编码为 ",a,b," 的存储格式
func JoinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

// SplitTags 解析 ",a,b," 存储格式
func SplitTags(stored string) []string {
	var tags []string
	for _, t := range strings.Split(stored, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Seed 在电影表为空时写入示例数据
func Seed(ctx context.Context, db *sql.DB, dialect string) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		return fmt.Errorf("统计电影数量失败: %w", err)
	}
	if count > 0 {
		log.Println("  ✓ 资料库已有数据，跳过示例数据写入")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, Rebind(dialect, query), args...)
		return err
	}

	for _, m := range seedMovies {
		if err := exec(`INSERT INTO movies (title, original_title, english_title, synopsis, director, year, duration, rating, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.title, m.original, m.english, m.synopsis, m.director, m.year, m.duration, m.rating, JoinTags(m.tags)); err != nil {
			return fmt.Errorf("写入电影 %s 失败: %w", m.title, err)
		}
	}
	for _, c := range seedCharacters {
		if err := exec(`INSERT INTO characters (name, japanese_name, description, voice_actor, movie_title, image_url)
			VALUES (?, ?, ?, ?, ?, ?)`, c[0], c[1], c[2], c[3], c[4], c[5]); err != nil {
			return fmt.Errorf("写入角色 %s 失败: %w", c[0], err)
		}
	}
	for _, r := range seedReviews {
		if err := exec(`INSERT INTO reviews (title, content, author, rating, movie_title, language)
			VALUES (?, ?, ?, ?, ?, ?)`, r.title, r.content, r.author, r.rating, r.movie, r.language); err != nil {
			return fmt.Errorf("写入影评 %s 失败: %w", r.title, err)
		}
	}
	for _, g := range seedGuides {
		if err := exec(`INSERT INTO guides (title, summary, content, author, tags, cover_url, reading_time)
			VALUES (?, ?, ?, ?, ?, ?, ?)`, g.title, g.summary, g.content, g.author, JoinTags(g.tags), g.cover, g.readingTime); err != nil {
			return fmt.Errorf("写入指南 %s 失败: %w", g.title, err)
		}
	}
	for _, m := range seedMediaItems {
		if err := exec(`INSERT INTO media (title, description, kind, language, movie_title, tags)
			VALUES (?, ?, ?, ?, ?, ?)`, m.title, m.description, m.kind, m.language, m.movie, JoinTags(m.tags)); err != nil {
			return fmt.Errorf("写入媒体 %s 失败: %w", m.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交示例数据失败: %w", err)
	}
	log.Printf("✅ 已写入示例数据：%d 部电影，%d 个角色，%d 篇影评，%d 篇指南，%d 个媒体资源",
		len(seedMovies), len(seedCharacters), len(seedReviews), len(seedGuides), len(seedMediaItems))
	return nil
}
