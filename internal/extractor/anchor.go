package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MinTitleLength 标题折叠空白后的最短字符数(按rune计)
const MinTitleLength = 12

// junkTextRe 样板链接文本(菜单、订阅、法律声明等),整串匹配,不区分大小写
// 允许前后带标点或箭头,如 "Read more »";任何语言的字母或数字都不会被当作标点
var junkTextRe = regexp.MustCompile(`(?i)^[^\p{L}\p{N}]*(?:` +
	`read more|more|continue reading|listen|watch|subscribe|sign in|sign up|log in|register|` +
	`privacy|privacy policy|cookies|cookie policy|cookie settings|` +
	`terms|terms of use|terms of service|terms and conditions|` +
	`contact|contact us|about|about us|help|advert|advertisement` +
	`)[^\p{L}\p{N}]*$`)

// ResolveAnchorText 从链接元素推导标题文本
// 优先级:
//  1. 后代h1-h3中第一个非空文本
//  2. title属性,其次aria-label属性
//  3. 元素全部可见文本
//
// 结果折叠空白;过短或命中样板短语时返回ok=false,调用方应跳过该链接
func ResolveAnchorText(a *goquery.Selection) (text string, ok bool) {
	text = collapseWhitespace(rawAnchorText(a))
	if utf8.RuneCountInString(text) < MinTitleLength {
		return "", false
	}
	if IsJunkText(text) {
		return "", false
	}
	return text, true
}

// IsJunkText 判断文本是否为样板链接文本
func IsJunkText(text string) bool {
	return junkTextRe.MatchString(text)
}

func rawAnchorText(a *goquery.Selection) string {
	var heading string
	a.Find("h1, h2, h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		heading = collapseWhitespace(visibleText(h))
		return heading == ""
	})
	if heading != "" {
		return heading
	}

	for _, attr := range []string{"title", "aria-label"} {
		if v, exists := a.Attr(attr); exists && strings.TrimSpace(v) != "" {
			return v
		}
	}

	return visibleText(a)
}

// visibleText 拼接选中节点下所有文本节点,文本节点之间以空格分隔
// 跳过script/style/noscript/template
func visibleText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
