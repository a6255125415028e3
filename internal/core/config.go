package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/HeadlineFind/internal/fetchers"
	"github.com/RecoveryAshes/HeadlineFind/internal/models"
	"github.com/RecoveryAshes/HeadlineFind/internal/utils"
	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	Scrape  ScrapeConfig  `mapstructure:"scrape"`
	Output  OutputConfig  `mapstructure:"output"`
	Dynamic DynamicConfig `mapstructure:"dynamic"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ScrapeConfig 抓取配置
type ScrapeConfig struct {
	Sources            string  `mapstructure:"sources"`
	PerSite            int     `mapstructure:"per_site"`
	Sleep              float64 `mapstructure:"sleep"`   // 秒
	Timeout            float64 `mapstructure:"timeout"` // 秒
	Retries            int     `mapstructure:"retries"`
	Mode               string  `mapstructure:"mode"`
	HeadersFile        string  `mapstructure:"headers_file"`
	InsecureSkipVerify bool    `mapstructure:"insecure_skip_verify"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	Path       string `mapstructure:"path"`
	ArchiveDir string `mapstructure:"archive_dir"`
	Format     string `mapstructure:"format"`
	Report     string `mapstructure:"report"`
	Progress   bool   `mapstructure:"progress"`
}

// DynamicConfig 动态模式配置
type DynamicConfig struct {
	Headless      bool    `mapstructure:"headless"`
	RenderWait    float64 `mapstructure:"render_wait"` // 秒
	MinMemoryMB   uint64  `mapstructure:"min_memory_mb"`
	MaxCPUPercent float64 `mapstructure:"max_cpu_percent"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// LoadConfig 加载配置文件,未指定路径时在 ./configs、.、~/.headlinefind 中查找 config.yaml
// 找不到配置文件时使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".headlinefind"))
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &models.ConfigError{FilePath: configPath, Cause: fmt.Errorf("读取配置文件失败: %w", err)}
		}
	} else {
		utils.Debugf("使用配置文件: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("scrape.sources", "sources.yaml")
	v.SetDefault("scrape.per_site", 25)
	v.SetDefault("scrape.sleep", 1.0)
	v.SetDefault("scrape.timeout", 20.0)
	v.SetDefault("scrape.retries", 2)
	v.SetDefault("scrape.mode", string(models.ModeStatic))
	v.SetDefault("scrape.headers_file", "configs/headers.yaml")
	v.SetDefault("scrape.insecure_skip_verify", false)

	v.SetDefault("output.path", "data/headlines_latest.jsonl")
	v.SetDefault("output.archive_dir", "data/archive")
	v.SetDefault("output.format", string(models.FormatJSONL))
	v.SetDefault("output.report", "")
	v.SetDefault("output.progress", true)

	v.SetDefault("dynamic.headless", true)
	v.SetDefault("dynamic.render_wait", 2.0)
	v.SetDefault("dynamic.min_memory_mb", 512)
	v.SetDefault("dynamic.max_cpu_percent", 95.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)
}

// RunConfig 转为一次运行的参数
func (c *Config) RunConfig() models.RunConfig {
	return models.RunConfig{
		SourcesFile:   c.Scrape.Sources,
		OutPath:       c.Output.Path,
		ArchiveDir:    c.Output.ArchiveDir,
		ReportPath:    c.Output.Report,
		Format:        models.OutputFormat(c.Output.Format),
		Mode:          models.FetchMode(c.Scrape.Mode),
		PerSite:       c.Scrape.PerSite,
		Sleep:         seconds(c.Scrape.Sleep),
		Timeout:       seconds(c.Scrape.Timeout),
		Retries:       c.Scrape.Retries,
		Headless:      c.Dynamic.Headless,
		RenderWait:    seconds(c.Dynamic.RenderWait),
		MinMemoryMB:   c.Dynamic.MinMemoryMB,
		MaxCPUPercent: c.Dynamic.MaxCPUPercent,
		Progress:      c.Output.Progress,
	}
}

// FetcherOptions 转为获取器配置
func (c *Config) FetcherOptions(rc models.RunConfig) fetchers.Options {
	opts := fetchers.DefaultOptions()
	opts.Mode = rc.Mode
	opts.Timeout = rc.Timeout
	opts.Retries = rc.Retries
	opts.InsecureSkipVerify = c.Scrape.InsecureSkipVerify
	opts.Headless = rc.Headless
	opts.RenderWait = rc.RenderWait
	opts.MinMemoryMB = rc.MinMemoryMB
	opts.MaxCPUPercent = rc.MaxCPUPercent
	return opts
}

// LogConfig 转为日志配置
func (c *Config) LogConfig() utils.LogConfig {
	return utils.LogConfig{
		Level:      c.Logging.Level,
		LogDir:     c.Logging.LogDir,
		MaxSize:    c.Logging.Rotation.MaxSize,
		MaxBackups: c.Logging.Rotation.MaxBackups,
		MaxAge:     c.Logging.Rotation.MaxAge,
		Compress:   c.Logging.Rotation.Compress,
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
