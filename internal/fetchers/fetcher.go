package fetchers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RecoveryAshes/HeadlineFind/internal/models"
)

var (
	// ErrNotHTML 响应的Content-Type不是HTML
	ErrNotHTML = errors.New("响应不是HTML")

	// ErrResourcesExhausted 系统资源不足,拒绝启动浏览器
	ErrResourcesExhausted = errors.New("系统资源不足")
)

// StatusError 非2xx响应
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d [%s]", e.StatusCode, e.URL)
}

// Retryable 429和5xx值得重试
func (e *StatusError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// Page 获取到的首页
type Page struct {
	URL         string // 请求的URL
	FinalURL    string // 跟随重定向后的URL,作为链接解析基准
	StatusCode  int
	ContentType string
	HTML        string
	Attempts    int
}

// BaseURL 解析相对链接时使用的基准URL
func (p *Page) BaseURL() string {
	if p.FinalURL != "" {
		return p.FinalURL
	}
	return p.URL
}

// Fetcher 首页获取器
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
	Close() error
}

// Options 获取器通用配置
type Options struct {
	Mode    models.FetchMode
	Timeout time.Duration
	Retries int

	// 静态模式
	InsecureSkipVerify bool
	MaxBodySize        int
	BackoffBase        time.Duration
	MaxBackoff         time.Duration

	// 动态模式
	Headless      bool
	RenderWait    time.Duration
	MinMemoryMB   uint64
	MaxCPUPercent float64
}

// DefaultOptions 默认配置
func DefaultOptions() Options {
	return Options{
		Mode:          models.ModeStatic,
		Timeout:       20 * time.Second,
		Retries:       2,
		MaxBodySize:   10 * 1024 * 1024,
		BackoffBase:   time.Second,
		MaxBackoff:    60 * time.Second,
		Headless:      true,
		RenderWait:    2 * time.Second,
		MinMemoryMB:   512,
		MaxCPUPercent: 95,
	}
}

// New 按模式创建获取器
func New(opts Options, headers models.HeaderProvider) (Fetcher, error) {
	switch opts.Mode {
	case models.ModeStatic, "":
		return NewStaticFetcher(opts, headers), nil
	case models.ModeDynamic:
		monitor := NewResourceMonitor(ResourceMonitorConfig{
			MinAvailableMemory: opts.MinMemoryMB * 1024 * 1024,
			MaxCPUPercent:      opts.MaxCPUPercent,
		})
		return NewDynamicFetcher(opts, headers, monitor), nil
	default:
		return nil, fmt.Errorf("不支持的获取模式: %q", opts.Mode)
	}
}
