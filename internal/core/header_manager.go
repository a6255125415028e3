package core

import (
	"net/http"
	"sync"

	"github.com/RecoveryAshes/HeadlineFind/internal/config"
	"github.com/RecoveryAshes/HeadlineFind/internal/models"
	"github.com/RecoveryAshes/HeadlineFind/internal/utils"
)

const (
	// DefaultUserAgent 默认User-Agent
	DefaultUserAgent = "Mozilla/5.0 (compatible; LocalHeadlineBot/0.1)"

	// DefaultAccept 只接受HTML首页
	DefaultAccept = "text/html,application/xhtml+xml"

	// DefaultAcceptLanguage 默认语言偏好
	DefaultAcceptLanguage = "en-US,en;q=0.8,nl;q=0.7"
)

// HeaderManager 合并首页请求头部: 默认 < 配置文件 < 命令行
// 实现 models.HeaderProvider
type HeaderManager struct {
	defaults http.Header
	config   http.Header
	cli      http.Header

	validator    *utils.HeaderValidator
	redactor     *utils.HeaderRedactor
	configLoader *config.HeaderConfigLoader

	once    sync.Once
	loadErr error
}

// NewHeaderManager 创建头部管理器
// configFile 为空时使用 configs/headers.yaml,cliHeaders 为 -H 传入的 "Name: Value" 列表
func NewHeaderManager(configFile string, cliHeaders []string) (*HeaderManager, error) {
	cli, err := models.CliHeaders(cliHeaders).Parse()
	if err != nil {
		return nil, err
	}

	return &HeaderManager{
		defaults:     defaultHeaders(),
		config:       make(http.Header),
		cli:          cli,
		validator:    utils.NewHeaderValidator(),
		redactor:     utils.NewHeaderRedactor(),
		configLoader: config.NewHeaderConfigLoader(configFile),
	}, nil
}

func defaultHeaders() http.Header {
	return http.Header{
		"User-Agent":      []string{DefaultUserAgent},
		"Accept":          []string{DefaultAccept},
		"Accept-Language": []string{DefaultAcceptLanguage},
		"Accept-Encoding": []string{"gzip, deflate, br"},
	}
}

// LoadConfig 加载头部配置文件,只执行一次
func (hm *HeaderManager) LoadConfig() error {
	hm.once.Do(func() {
		headerConfig, err := hm.configLoader.LoadConfig()
		if err != nil {
			utils.Errorf("加载HTTP头部配置失败: %v", err)
			hm.loadErr = err
			return
		}

		for name, value := range headerConfig.Headers {
			hm.config.Set(name, value)
		}
		if len(hm.config) > 0 {
			utils.Debugf("加载了%d个HTTP头部配置: %s", len(hm.config), hm.redactor.RedactToString(hm.config))
		}
	})
	return hm.loadErr
}

// Validate 依次验证默认、配置文件、命令行头部
func (hm *HeaderManager) Validate() error {
	layers := []struct {
		name    string
		headers http.Header
	}{
		{"默认", hm.defaults},
		{"配置文件", hm.config},
		{"命令行", hm.cli},
	}
	for _, layer := range layers {
		if err := hm.validator.Validate(layer.headers); err != nil {
			utils.Errorf("%s头部验证失败: %v", layer.name, err)
			return err
		}
	}
	return nil
}

// MergedHeaders 按优先级合并,后者整体覆盖同名头部
func (hm *HeaderManager) MergedHeaders() http.Header {
	result := make(http.Header, len(hm.defaults)+len(hm.config)+len(hm.cli))
	for _, layer := range []http.Header{hm.defaults, hm.config, hm.cli} {
		for name, values := range layer {
			result[name] = append([]string(nil), values...)
		}
	}
	return result
}

// SafeHeaders 脱敏后的合并结果,用于日志
func (hm *HeaderManager) SafeHeaders() map[string]string {
	return hm.redactor.Redact(hm.MergedHeaders())
}

// GetHeaders 实现 HeaderProvider
func (hm *HeaderManager) GetHeaders() (http.Header, error) {
	if err := hm.LoadConfig(); err != nil {
		return nil, err
	}
	if err := hm.Validate(); err != nil {
		return nil, err
	}
	return hm.MergedHeaders(), nil
}
