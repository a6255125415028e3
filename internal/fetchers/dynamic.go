package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/RecoveryAshes/HeadlineFind/internal/models"
	"github.com/RecoveryAshes/HeadlineFind/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DynamicFetcher 用无头浏览器渲染首页后取DOM
// 适用于标题由JavaScript插入的站点,一次只渲染一个页面
type DynamicFetcher struct {
	opts    Options
	headers models.HeaderProvider
	monitor *ResourceMonitor

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewDynamicFetcher 创建动态获取器,浏览器在第一次Fetch时启动
func NewDynamicFetcher(opts Options, headers models.HeaderProvider, monitor *ResourceMonitor) *DynamicFetcher {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
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
	return &DynamicFetcher{
		opts:    opts,
		headers: headers,
		monitor: monitor,
	}
}

// Fetch 渲染首页,429/5xx和浏览器错误按指数退避重试
func (df *DynamicFetcher) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	df.mu.Lock()
	defer df.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt <= df.opts.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := df.fetchOnce(ctx, targetURL)
		if err == nil {
			page.Attempts = attempt + 1
			return page, nil
		}
		lastErr = err

		if !retryable(err) || attempt == df.opts.Retries {
			break
		}

		wait := backoffDelay(df.opts, attempt, 0)
		utils.Warnf("渲染失败 [%s]: %v, %.1f秒后重试 (%d/%d)",
			targetURL, err, wait.Seconds(), attempt+1, df.opts.Retries)
		if err := utils.SleepContext(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// fetchOnce 打开新标签页,导航、等待加载和渲染,返回渲染后的HTML
// 主文档响应非2xx时返回 *StatusError
func (df *DynamicFetcher) fetchOnce(ctx context.Context, targetURL string) (*Page, error) {
	if err := df.ensureBrowser(ctx); err != nil {
		return nil, err
	}

	tab, err := df.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("创建标签页失败: %w", err)
	}
	defer func() {
		if err := tab.Close(); err != nil {
			utils.Debugf("关闭标签页失败: %v", err)
		}
	}()

	tabCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	page := tab.Context(tabCtx).Timeout(df.opts.Timeout)

	if err := df.applyHeaders(page); err != nil {
		return nil, err
	}

	// 重定向响应不触发该事件,第一个主框架文档响应即最终页面
	statusCh := make(chan int, 1)
	waitDocument := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		status, ok := documentStatus(e, page.FrameID)
		if ok {
			statusCh <- status
		}
		return ok
	})
	go waitDocument()

	if err := page.Navigate(targetURL); err != nil {
		return nil, fmt.Errorf("导航失败 [%s]: %w", targetURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("等待页面加载失败 [%s]: %w", targetURL, err)
	}

	statusCode := 0
	select {
	case statusCode = <-statusCh:
	default:
		utils.Debugf("未收到主文档响应状态: %s", targetURL)
	}
	if err := checkDocumentStatus(targetURL, statusCode); err != nil {
		return nil, err
	}

	if err := utils.SleepContext(ctx, df.opts.RenderWait); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("读取页面HTML失败 [%s]: %w", targetURL, err)
	}

	finalURL := targetURL
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	utils.Debugf("页面渲染完成: %s (HTTP %d, %d 字节)", finalURL, statusCode, len(html))
	return &Page{
		URL:         targetURL,
		FinalURL:    finalURL,
		StatusCode:  statusCode,
		ContentType: "text/html",
		HTML:        html,
	}, nil
}

// documentStatus 只取主框架的文档响应
func documentStatus(e *proto.NetworkResponseReceived, frameID proto.PageFrameID) (int, bool) {
	if e == nil || e.Response == nil || e.Type != proto.NetworkResourceTypeDocument {
		return 0, false
	}
	if frameID != "" && e.FrameID != frameID {
		return 0, false
	}
	return e.Response.Status, true
}

// checkDocumentStatus 状态未知(0)时放行,其余非2xx视为失败
func checkDocumentStatus(targetURL string, status int) error {
	if status == 0 || (status >= 200 && status < 300) {
		return nil
	}
	return &StatusError{URL: targetURL, StatusCode: status}
}

// Close 关闭浏览器并清理用户数据目录
func (df *DynamicFetcher) Close() error {
	df.mu.Lock()
	defer df.mu.Unlock()

	var err error
	if df.browser != nil {
		err = df.browser.Close()
		df.browser = nil
		utils.Debugf("浏览器已关闭")
	}
	if df.launcher != nil {
		df.launcher.Cleanup()
		df.launcher = nil
	}
	return err
}

// ensureBrowser 首次调用时检查资源并启动浏览器
func (df *DynamicFetcher) ensureBrowser(ctx context.Context) error {
	if df.browser != nil {
		return nil
	}

	if df.monitor != nil {
		if _, err := df.monitor.Check(ctx); err != nil {
			return err
		}
	}

	l := launcher.New().
		Headless(df.opts.Headless).
		Set("ignore-certificate-errors")

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return fmt.Errorf("连接浏览器失败: %w", err)
	}

	df.launcher = l
	df.browser = browser
	utils.Infof("浏览器已启动 (headless=%v)", df.opts.Headless)
	return nil
}

// applyHeaders User-Agent走专门的覆盖接口,其余作为额外头部
func (df *DynamicFetcher) applyHeaders(page *rod.Page) error {
	if df.headers == nil {
		return nil
	}
	headers, err := df.headers.GetHeaders()
	if err != nil {
		return fmt.Errorf("获取HTTP头部失败: %w", err)
	}

	if ua := headers.Get("User-Agent"); ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
			return fmt.Errorf("设置User-Agent失败: %w", err)
		}
	}

	dict := extraHeaderDict(headers)
	if len(dict) == 0 {
		return nil
	}
	if _, err := page.SetExtraHeaders(dict); err != nil {
		return fmt.Errorf("设置请求头部失败: %w", err)
	}
	return nil
}

// extraHeaderDict 转为rod需要的 [name, value, name, value...]
// User-Agent和Accept-Encoding由浏览器自己管理
func extraHeaderDict(headers http.Header) []string {
	dict := make([]string, 0, len(headers)*2)
	for name, values := range headers {
		switch http.CanonicalHeaderKey(name) {
		case "User-Agent", "Accept-Encoding":
			continue
		}
		if len(values) > 0 {
			dict = append(dict, name, values[0])
		}
	}
	return dict
}
