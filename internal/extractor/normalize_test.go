package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		href string
		want string
	}{
		{"根相对路径", "https://example.com/home", "/news/story", "https://example.com/news/story"},
		{"同级相对路径", "https://example.com/home", "story", "https://example.com/story"},
		{"目录相对路径", "https://example.com/news/", "story", "https://example.com/news/story"},
		{"协议相对路径", "https://example.com/", "//cdn.example.org/a", "https://cdn.example.org/a"},
		{"绝对URL不变", "https://example.com/", "http://other.org/x?y=1", "http://other.org/x?y=1"},
		{"href两侧空白", "https://example.com/", "  /trim  ", "https://example.com/trim"},
		{"base无法解析时原样返回", "http://[::1", "/a", "/a"},
		{"href无法解析时原样返回", "https://example.com/", "http://[::1", "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(tt.base, tt.href))
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"去掉fragment", "https://example.com/a#section", "https://example.com/a"},
		{"去掉utm参数", "https://example.com/a?utm_source=x&id=1", "https://example.com/a?id=1"},
		{"utm参数不区分大小写", "https://example.com/a?UTM_Medium=y&id=1", "https://example.com/a?id=1"},
		{"去掉fbclid", "https://example.com/a?fbclid=abc&page=2", "https://example.com/a?page=2"},
		{"去掉gclid", "https://example.com/a?GCLID=abc", "https://example.com/a"},
		{"保留其他参数顺序", "https://example.com/a?z=1&utm_term=q&a=2", "https://example.com/a?z=1&a=2"},
		{"保留原始编码", "https://example.com/a?q=caf%C3%A9&b=%20c&utm_id=1", "https://example.com/a?q=caf%C3%A9&b=%20c"},
		{"只有追踪参数时去掉问号", "https://example.com/a?utm_source=a&utm_medium=b", "https://example.com/a"},
		{"空查询串", "https://example.com/a?", "https://example.com/a"},
		{"无需处理", "https://example.com/news/story", "https://example.com/news/story"},
		{"非http协议原样保留", "mailto:someone@example.com", "mailto:someone@example.com"},
		{"无法解析时原样返回", "http://[::1", "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURL(tt.input)
			assert.Equal(t, tt.want, got)
			// 幂等
			assert.Equal(t, got, NormalizeURL(got))
		})
	}
}

func TestIsHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/a", true},
		{"http://example.com/a", true},
		{"HTTPS://example.com/a", true},
		{"javascript:void(0)", false},
		{"mailto:a@b.c", false},
		{"/relative/path", false},
		{"http://[::1", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHTTPURL(tt.url))
		})
	}
}
