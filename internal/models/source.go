package models

import (
	"fmt"
	"strings"

	"github.com/RecoveryAshes/HeadlineFind/internal/extractor"
)

// SourceConfig 单个新闻首页来源
// 每次运行加载一次,之后只读
type SourceConfig struct {
	Name          string `mapstructure:"name" json:"name" yaml:"name"`
	URL           string `mapstructure:"url" json:"url" yaml:"url"`
	AllowURLRegex string `mapstructure:"allow_url_regex" json:"allow_url_regex,omitempty" yaml:"allow_url_regex,omitempty"`
	DenyURLRegex  string `mapstructure:"deny_url_regex" json:"deny_url_regex,omitempty" yaml:"deny_url_regex,omitempty"`
	Category      string `mapstructure:"category" json:"category,omitempty" yaml:"category,omitempty"`
}

// SourcesFile sources.yaml 的结构
type SourcesFile struct {
	Sources []SourceConfig `mapstructure:"sources" yaml:"sources"`
}

// Validate 检查必填字段与URL格式
func (s *SourceConfig) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("来源缺少name字段 (url=%q)", s.URL)
	}
	if err := ValidateURL(s.URL); err != nil {
		return fmt.Errorf("来源 %s 的url无效: %w", s.Name, err)
	}
	return nil
}

// Filters 编译来源的allow/deny正则
// 正则无效时返回 *ConfigError
func (s *SourceConfig) Filters() (extractor.Filters, error) {
	f, err := extractor.CompileFilters(s.AllowURLRegex, s.DenyURLRegex)
	if err != nil {
		return extractor.Filters{}, &ConfigError{
			FilePath: "source:" + s.Name,
			Cause:    err,
		}
	}
	return f, nil
}
