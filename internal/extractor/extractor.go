package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
)

// DefaultMaxItems 每个来源默认保留的候选数
const DefaultMaxItems = 40

// selectorPasses 多轮选择器,从结构最明确到最宽泛
// 前面的轮次产出足够多时跳过后续轮次
var selectorPasses = []string{
	"h1 a[href], h2 a[href], h3 a[href]",
	"article a[href]",
	"main a[href]",
	"a[href]",
}

// Candidate 候选标题链接
type Candidate struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// scoredCandidate 带内部得分的候选,得分不离开本包
type scoredCandidate struct {
	Candidate
	score float64
}

// Filters 来源级URL过滤规则
type Filters struct {
	Allow *regexp.Regexp // 非nil时URL必须匹配
	Deny  *regexp.Regexp // 匹配即丢弃
}

// CompileFilters 编译allow/deny正则,空串表示不设置
// 正则来自可信配置,编译失败直接返回错误
func CompileFilters(allow, deny string) (Filters, error) {
	var f Filters
	var err error
	if allow != "" {
		if f.Allow, err = regexp.Compile(allow); err != nil {
			return Filters{}, fmt.Errorf("allow_url_regex无效 %q: %w", allow, err)
		}
	}
	if deny != "" {
		if f.Deny, err = regexp.Compile(deny); err != nil {
			return Filters{}, fmt.Errorf("deny_url_regex无效 %q: %w", deny, err)
		}
	}
	return f, nil
}

// Pass 判断URL是否通过过滤
func (f Filters) Pass(u string) bool {
	if f.Deny != nil && f.Deny.MatchString(u) {
		return false
	}
	if f.Allow != nil && !f.Allow.MatchString(u) {
		return false
	}
	return true
}

// Options 抽取参数
type Options struct {
	MaxItems int
	Filters  Filters
}

// Result 单页抽取结果
type Result struct {
	Candidates []Candidate

	// 以下字段用于日志
	PassesRun int // 实际执行的轮数
	Links     int // 遍历到的链接数(含重复)
	Scored    int // 去重前参与评分的候选数
}

// Extractor 单页候选抽取器,无状态,可重复使用
type Extractor struct {
	opts Options
}

// New 创建抽取器
func New(opts Options) *Extractor {
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	return &Extractor{opts: opts}
}

// MaxItems 返回生效的候选上限
func (e *Extractor) MaxItems() int {
	return e.opts.MaxItems
}

// Extract 从HTML中抽取候选标题并排序
// 空输入或非HTML输入返回零个候选,不视为错误
func (e *Extractor) Extract(htmlText, baseURL string) Result {
	var res Result
	if strings.TrimSpace(htmlText) == "" {
		return res
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return res
	}

	base := documentBase(doc, baseURL)
	seen := make(map[uint64]struct{})
	scored := make([]scoredCandidate, 0, e.opts.MaxItems*2)
	last := len(selectorPasses) - 1

	for i, sel := range selectorPasses {
		res.PassesRun++
		doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
			res.Links++
			if c, ok := e.candidate(a, base, seen); ok {
				scored = append(scored, c)
			}
		})

		if i < last && len(scored) >= e.opts.MaxItems*2 {
			break
		}
	}

	res.Scored = len(scored)
	res.Candidates = RankCandidates(scored, e.opts.MaxItems)
	return res
}

// candidate 处理单个链接,不合格时返回ok=false
func (e *Extractor) candidate(a *goquery.Selection, base string, seen map[uint64]struct{}) (scoredCandidate, bool) {
	href, exists := a.Attr("href")
	if !exists || strings.TrimSpace(href) == "" {
		return scoredCandidate{}, false
	}

	title, ok := ResolveAnchorText(a)
	if !ok {
		return scoredCandidate{}, false
	}

	u := NormalizeURL(ResolveURL(base, href))
	if !IsHTTPURL(u) {
		return scoredCandidate{}, false
	}
	if !e.opts.Filters.Pass(u) {
		return scoredCandidate{}, false
	}

	fp := Fingerprint(u, title)
	if _, dup := seen[fp]; dup {
		return scoredCandidate{}, false
	}
	seen[fp] = struct{}{}

	node := a.Get(0)
	score := Score(Signals{
		TextLength: utf8.RuneCountInString(title),
		InHeading:  HasHeadingAncestor(node),
		Good:       HasGoodAncestor(node),
		Bad:        HasBadAncestor(node),
		URL:        u,
	})

	return scoredCandidate{
		Candidate: Candidate{Title: title, URL: u},
		score:     score,
	}, true
}

// Fingerprint 页面内去重键: hash(规范化URL, 小写标题)
func Fingerprint(normalizedURL, title string) uint64 {
	return xxhash.Sum64String(normalizedURL + "||" + strings.ToLower(title))
}

// documentBase 文档中存在<base href>时以其(相对页面URL解析后)作为解析基准
func documentBase(doc *goquery.Document, pageURL string) string {
	href, exists := doc.Find("base[href]").First().Attr("href")
	if !exists || strings.TrimSpace(href) == "" {
		return pageURL
	}
	resolved := ResolveURL(pageURL, href)
	if !IsHTTPURL(resolved) {
		return pageURL
	}
	return resolved
}

// ExtractCandidates 便捷函数,等价于 New(opts).Extract(htmlText, baseURL).Candidates
func ExtractCandidates(htmlText, baseURL string, opts Options) []Candidate {
	return New(opts).Extract(htmlText, baseURL).Candidates
}
