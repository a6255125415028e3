package models

import (
	"fmt"
	"time"
)

// FetchMode 首页获取方式
type FetchMode string

const (
	ModeStatic  FetchMode = "static"  // colly直接请求
	ModeDynamic FetchMode = "dynamic" // 无头浏览器渲染
)

// OutputFormat 输出格式
type OutputFormat string

const (
	FormatJSONL OutputFormat = "jsonl"
	FormatJSON  OutputFormat = "json"
)

// RunConfig 一次抓取运行的参数
type RunConfig struct {
	SourcesFile string       `json:"sources_file"`
	OutPath     string       `json:"out_path"`
	ArchiveDir  string       `json:"archive_dir,omitempty"` // 为空时不写归档
	ReportPath  string       `json:"report_path,omitempty"`
	Format      OutputFormat `json:"format"`
	Mode        FetchMode    `json:"mode"`

	PerSite int           `json:"per_site"` // 每个来源保留的候选数
	Sleep   time.Duration `json:"sleep"`    // 来源之间的间隔
	Timeout time.Duration `json:"timeout"`  // 单次请求超时
	Retries int           `json:"retries"`  // 429/5xx重试次数

	// 动态模式
	Headless      bool          `json:"headless"`
	RenderWait    time.Duration `json:"render_wait"`
	MinMemoryMB   uint64        `json:"min_memory_mb"`
	MaxCPUPercent float64       `json:"max_cpu_percent"`

	Progress bool `json:"progress"`
}

// Validate 验证配置
func (c *RunConfig) Validate() error {
	if c.SourcesFile == "" {
		return fmt.Errorf("未指定来源文件")
	}
	if c.OutPath == "" {
		return fmt.Errorf("未指定输出路径")
	}
	if c.PerSite < 1 || c.PerSite > 1000 {
		return fmt.Errorf("每站候选数必须在1-1000之间")
	}
	if c.Sleep < 0 {
		return fmt.Errorf("来源间隔不能为负数")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("请求超时必须大于0")
	}
	if c.Retries < 0 || c.Retries > 10 {
		return fmt.Errorf("重试次数必须在0-10之间")
	}
	switch c.Format {
	case FormatJSONL, FormatJSON:
	default:
		return fmt.Errorf("不支持的输出格式: %q (可选 jsonl, json)", c.Format)
	}
	switch c.Mode {
	case ModeStatic, ModeDynamic:
	default:
		return fmt.Errorf("不支持的获取模式: %q (可选 static, dynamic)", c.Mode)
	}
	return nil
}
