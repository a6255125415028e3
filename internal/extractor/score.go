package extractor

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// datePathRe 路径中的 /YYYY/MM/DD/ 日期段
var datePathRe = regexp.MustCompile(`/\d{4}/\d{2}/\d{2}/`)

// 评分权重
const (
	scoreSweetSpot   = 3.0  // 25-140字符
	scoreShortTitle  = 1.0  // 15-24字符
	scoreLongTitle   = -1.0 // 超过140字符
	scoreHeading     = 4.0
	scoreGoodArea    = 2.0
	scoreBadArea     = -4.0
	scoreArticleLink = 1.0
)

// Signals 单个链接的评分信号
type Signals struct {
	TextLength int  // 标题rune数
	InHeading  bool // 位于h1/h2/h3内
	Good       bool // 位于main/article内
	Bad        bool // 位于nav/footer/header/aside内
	URL        string
}

// Score 计算启发式得分,只用于同一页面内的相对排序
func Score(s Signals) float64 {
	score := 0.0

	switch {
	case s.TextLength >= 25 && s.TextLength <= 140:
		score += scoreSweetSpot
	case s.TextLength >= 15 && s.TextLength < 25:
		score += scoreShortTitle
	case s.TextLength > 140:
		score += scoreLongTitle
	}

	if s.InHeading {
		score += scoreHeading
	}
	if s.Good {
		score += scoreGoodArea
	}
	if s.Bad {
		score += scoreBadArea
	}

	if IsProbablyArticleURL(s.URL) {
		score += scoreArticleLink
	}

	return score
}

// IsProbablyArticleURL 弱信号: 路径含日期段,或路径较长(>25)且至少两个斜杠
// 长度按解码后路径的字符数计,非ASCII路径不按百分号编码后的字节数放大
func IsProbablyArticleURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if datePathRe.MatchString(u.EscapedPath()) {
		return true
	}
	return utf8.RuneCountInString(u.Path) > 25 && strings.Count(u.Path, "/") >= 2
}
