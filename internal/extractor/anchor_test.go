package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstAnchor 解析HTML片段并返回第一个<a>
func firstAnchor(t *testing.T, fragment string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	a := doc.Find("a").First()
	require.Equal(t, 1, a.Length(), "片段中没有<a>")
	return a
}

func TestResolveAnchorText(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
		wantOK   bool
	}{
		{
			name:     "优先使用后代标题",
			fragment: `<a href="/x"><h2>  Big   headline about things </h2><p>summary paragraph text</p></a>`,
			want:     "Big headline about things",
			wantOK:   true,
		},
		{
			name:     "空标题时回退到title属性",
			fragment: `<a href="/x" title="Fallback title attribute"><h3> </h3>short</a>`,
			want:     "Fallback title attribute",
			wantOK:   true,
		},
		{
			name:     "title属性",
			fragment: `<a href="/x" title="A title attribute headline"><img src="x.png"></a>`,
			want:     "A title attribute headline",
			wantOK:   true,
		},
		{
			name:     "aria-label属性",
			fragment: `<a href="/x" aria-label="  Labelled   by aria attribute "><svg></svg></a>`,
			want:     "Labelled by aria attribute",
			wantOK:   true,
		},
		{
			name:     "可见文本以空格拼接",
			fragment: `<a href="/x"><span>Breaking:</span><span>Markets rally today</span></a>`,
			want:     "Breaking: Markets rally today",
			wantOK:   true,
		},
		{
			name:     "跳过script内容",
			fragment: `<a href="/x">Council approves budget<script>var tracking = 1;</script></a>`,
			want:     "Council approves budget",
			wantOK:   true,
		},
		{
			name:     "折叠换行和制表符",
			fragment: "<a href=\"/x\">\n\tLocal\n\n  election   results\t</a>",
			want:     "Local election results",
			wantOK:   true,
		},
		{
			name:     "恰好12个字符",
			fragment: `<a href="/x">abcdefghijkl</a>`,
			want:     "abcdefghijkl",
			wantOK:   true,
		},
		{
			name:     "11个字符被拒绝",
			fragment: `<a href="/x">abcdefghijk</a>`,
			wantOK:   false,
		},
		{
			name:     "按字符而不是字节计数",
			fragment: `<a href="/x">ééééééééééé</a>`,
			wantOK:   false,
		},
		{
			name:     "Read more被拒绝",
			fragment: `<article><h2><a href="/x">Read More</a></h2></article>`,
			wantOK:   false,
		},
		{
			name:     "Continue reading被拒绝",
			fragment: `<a href="/x">Continue reading</a>`,
			wantOK:   false,
		},
		{
			name:     "带箭头的样板文本被拒绝",
			fragment: `<a href="/x">Terms of Service »</a>`,
			wantOK:   false,
		},
		{
			name:     "Cookie设置被拒绝",
			fragment: `<a href="/x">COOKIE SETTINGS</a>`,
			wantOK:   false,
		},
		{
			name:     "非拉丁标题带样板词后缀保留",
			fragment: `<a href="/x">Новости политики сегодня More</a>`,
			want:     "Новости политики сегодня More",
			wantOK:   true,
		},
		{
			name:     "只是包含样板词的标题保留",
			fragment: `<a href="/x">Read more about the election</a>`,
			want:     "Read more about the election",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveAnchorText(firstAnchor(t, tt.fragment))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestIsJunkText(t *testing.T) {
	junk := []string{"Read more", "read more", "READ MORE", "More", "Subscribe", "Sign in", "Log in",
		"Privacy Policy", "Cookies", "Contact us", "About", "Help", "Advertisement", "» Read more",
		"— About —", "→ More", "Read more…"}
	for _, s := range junk {
		assert.True(t, IsJunkText(s), s)
	}

	kept := []string{"Read more about the election", "Helpful tips for winter", "About last night's vote",
		"Новости политики сегодня More", "日本の政治ニュース速報 Read more", "北京新闻最新消息 — About",
		"2024 Subscribe", "Ελληνικά νέα σήμερα » Help"}
	for _, s := range kept {
		assert.False(t, IsJunkText(s), s)
	}
}
