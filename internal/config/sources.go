package config

import (
	"errors"
	"fmt"

	"github.com/RecoveryAshes/HeadlineFind/internal/extractor"
	"github.com/RecoveryAshes/HeadlineFind/internal/models"
	"github.com/RecoveryAshes/HeadlineFind/internal/utils"
	"github.com/spf13/viper"
)

// DefaultSourcesFile 默认来源列表路径
const DefaultSourcesFile = "sources.yaml"

// ErrNoSources 来源文件中没有任何来源
var ErrNoSources = errors.New("来源文件中没有配置任何来源")

// Source 已校验的来源及其编译后的过滤规则
type Source struct {
	models.SourceConfig
	Filters extractor.Filters
}

// SourcesLoader sources.yaml 加载器
type SourcesLoader struct {
	path string
}

// NewSourcesLoader 创建加载器,路径为空时使用默认路径
func NewSourcesLoader(path string) *SourcesLoader {
	if path == "" {
		path = DefaultSourcesFile
	}
	return &SourcesLoader{path: path}
}

// Path 来源文件路径
func (sl *SourcesLoader) Path() string {
	return sl.path
}

// Load 读取并校验全部来源
// 任何来源字段缺失或正则无效都会使整个加载失败
func (sl *SourcesLoader) Load() ([]Source, error) {
	if err := checkFileSize(sl.path); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(sl.path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, &models.ConfigError{FilePath: sl.path, Cause: err}
	}

	var file models.SourcesFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, &models.ConfigError{
			FilePath: sl.path,
			Cause:    fmt.Errorf("来源列表绑定失败: %w", err),
		}
	}
	if len(file.Sources) == 0 {
		return nil, ErrNoSources
	}

	sources := make([]Source, 0, len(file.Sources))
	names := make(map[string]int, len(file.Sources))
	for i, sc := range file.Sources {
		if err := sc.Validate(); err != nil {
			return nil, &models.ConfigError{
				FilePath: sl.path,
				Cause:    fmt.Errorf("第%d个来源: %w", i+1, err),
			}
		}
		filters, err := sc.Filters()
		if err != nil {
			return nil, err
		}
		if prev, dup := names[sc.Name]; dup {
			utils.Warnf("来源名称重复: %s (第%d个与第%d个)", sc.Name, prev, i+1)
		}
		names[sc.Name] = i + 1

		sources = append(sources, Source{SourceConfig: sc, Filters: filters})
	}

	utils.Infof("从 %s 加载了 %d 个来源", sl.path, len(sources))
	return sources, nil
}
