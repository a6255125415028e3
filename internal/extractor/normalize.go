package extractor

import (
	"net/url"
	"strings"
)

// trackingPrefix 以此前缀开头的查询参数会被剔除
const trackingPrefix = "utm_"

// trackingParams 需要剔除的广告点击追踪参数
var trackingParams = map[string]struct{}{
	"fbclid": {},
	"gclid":  {},
}

// ResolveURL 将href按base解析为绝对URL
// 任一方解析失败时原样返回href(fail open),后续由协议检查过滤
func ResolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// NormalizeURL 规范化URL用于比较和去重:
//   - 去掉fragment
//   - 去掉utm_*、fbclid、gclid查询参数(键名不区分大小写)
//
// 其余参数保持原始顺序和编码。解析失败时原样返回。
// 对已规范化的URL再次调用不会产生变化。
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Fragment = ""
	u.RawFragment = ""

	if u.RawQuery != "" {
		u.RawQuery = stripTrackingParams(u.RawQuery)
	}
	u.ForceQuery = false

	return u.String()
}

// stripTrackingParams 按'&'切分原始查询串,只保留非追踪参数
// 不做解码再编码,保证剩余参数逐字节不变
func stripTrackingParams(rawQuery string) string {
	parts := strings.Split(rawQuery, "&")
	kept := parts[:0]
	for _, part := range parts {
		key, _, _ := strings.Cut(part, "=")
		if isTrackingParam(key) {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "&")
}

func isTrackingParam(key string) bool {
	key = strings.ToLower(key)
	if strings.HasPrefix(key, trackingPrefix) {
		return true
	}
	_, ok := trackingParams[key]
	return ok
}

// IsHTTPURL 检查URL协议是否为http或https
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
