package fetchers

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RecoveryAshes/HeadlineFind/internal/models"
	"github.com/RecoveryAshes/HeadlineFind/internal/utils"
	"github.com/gocolly/colly/v2"
)

// StaticFetcher 使用Colly直接请求首页
// 每个来源只访问一个URL,不跟随页面内链接
type StaticFetcher struct {
	opts    Options
	headers models.HeaderProvider
	client  *http.Client
}

// NewStaticFetcher 创建静态获取器
func NewStaticFetcher(opts Options, headers models.HeaderProvider) *StaticFetcher {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = def.MaxBodySize
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = def.BackoffBase
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = def.MaxBackoff
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	client := &http.Client{
		Transport: &decodingTransport{
			base: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: opts.InsecureSkipVerify,
				},
			},
		},
		Timeout: opts.Timeout,
	}
	if opts.InsecureSkipVerify {
		utils.Debugf("静态获取器: TLS证书验证已禁用")
	}

	return &StaticFetcher{
		opts:    opts,
		headers: headers,
		client:  client,
	}
}

// Fetch 获取首页,429/5xx和网络错误按指数退避重试
func (sf *StaticFetcher) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	var lastErr error
	for attempt := 0; attempt <= sf.opts.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, retryAfter, err := sf.fetchOnce(ctx, targetURL)
		if err == nil {
			page.Attempts = attempt + 1
			return page, nil
		}
		lastErr = err

		if !retryable(err) || attempt == sf.opts.Retries {
			break
		}

		wait := sf.backoff(attempt, retryAfter)
		utils.Warnf("获取失败 [%s]: %v, %.1f秒后重试 (%d/%d)",
			targetURL, err, wait.Seconds(), attempt+1, sf.opts.Retries)
		if err := utils.SleepContext(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// Close 释放空闲连接
func (sf *StaticFetcher) Close() error {
	sf.client.CloseIdleConnections()
	return nil
}

// fetchOnce 单次请求,返回服务端要求的Retry-After(若有)
func (sf *StaticFetcher) fetchOnce(ctx context.Context, targetURL string) (*Page, time.Duration, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(sf.opts.MaxBodySize),
	)
	c.SetClient(sf.client)

	var headers http.Header
	if sf.headers != nil {
		h, err := sf.headers.GetHeaders()
		if err != nil {
			return nil, 0, fmt.Errorf("获取HTTP头部失败: %w", err)
		}
		headers = h
	}

	var (
		page       *Page
		pageErr    error
		retryAfter time.Duration
	)

	c.OnRequest(func(r *colly.Request) {
		for name, values := range headers {
			if len(values) > 0 {
				r.Headers.Set(name, values[0])
			}
		}
		utils.Debugf("请求: %s", r.URL.String())
	})

	c.OnResponse(func(r *colly.Response) {
		contentType := r.Headers.Get("Content-Type")
		if !isHTMLContentType(contentType) {
			pageErr = fmt.Errorf("%w: %q [%s]", ErrNotHTML, contentType, targetURL)
			return
		}

		page = &Page{
			URL:         targetURL,
			FinalURL:    r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: contentType,
			HTML:        string(r.Body),
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			pageErr = &StatusError{URL: targetURL, StatusCode: r.StatusCode}
			if r.Headers != nil {
				retryAfter = parseRetryAfter(r.Headers.Get("Retry-After"))
			}
			return
		}
		pageErr = fmt.Errorf("请求失败 [%s]: %w", targetURL, err)
	})

	if err := c.Visit(targetURL); err != nil && pageErr == nil {
		pageErr = fmt.Errorf("请求失败 [%s]: %w", targetURL, err)
	}
	if pageErr != nil {
		return nil, retryAfter, pageErr
	}
	if page == nil {
		return nil, 0, fmt.Errorf("请求失败 [%s]: 没有收到响应", targetURL)
	}
	return page, 0, nil
}

// backoff min(MaxBackoff, base*2^attempt) 加最多半个base的抖动
// 服务端给出Retry-After时优先使用(同样受MaxBackoff限制)
func (sf *StaticFetcher) backoff(attempt int, retryAfter time.Duration) time.Duration {
	return backoffDelay(sf.opts, attempt, retryAfter)
}

func backoffDelay(opts Options, attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return min(retryAfter, opts.MaxBackoff)
	}
	d := opts.BackoffBase << attempt
	if d <= 0 || d > opts.MaxBackoff {
		d = opts.MaxBackoff
	}
	if half := int64(opts.BackoffBase / 2); half > 0 {
		d += time.Duration(rand.Int64N(half))
	}
	return d
}

// retryable 状态码429/5xx或网络层错误
func retryable(err error) bool {
	if errors.Is(err, ErrNotHTML) || errors.Is(err, ErrResourcesExhausted) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}

func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// isHTMLContentType text/html 或 application/xhtml+xml
func isHTMLContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
