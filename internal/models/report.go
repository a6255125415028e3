package models

import (
	"encoding/json"
	"time"
)

// SourceStatus 单个来源的处理结果
type SourceStatus string

const (
	SourceOK      SourceStatus = "ok"      // 获取并抽取成功(可能为0条)
	SourceFailed  SourceStatus = "failed"  // 获取失败
	SourceSkipped SourceStatus = "skipped" // 运行被取消,未处理
)

// SourceResult 单个来源的统计
type SourceResult struct {
	Name       string       `json:"name"`
	URL        string       `json:"url"`
	FinalURL   string       `json:"final_url,omitempty"`
	Status     SourceStatus `json:"status"`
	Count      int          `json:"count"`
	Links      int          `json:"links"`
	PassesRun  int          `json:"passes_run"`
	Error      string       `json:"error,omitempty"`
	DurationMS int64        `json:"duration_ms"`
}

// RunSummary 运行报告
type RunSummary struct {
	RunID     string    `json:"run_id"`
	Mode      FetchMode `json:"mode"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  float64   `json:"duration"` // 秒

	TotalSources  int `json:"total_sources"`
	FailedSources int `json:"failed_sources"`
	TotalItems    int `json:"total_items"` // 合并去重前
	MergedItems   int `json:"merged_items"`

	Sources []SourceResult `json:"sources"`

	OutPath     string `json:"out_path"`
	ArchivePath string `json:"archive_path,omitempty"`
}

// ToJSON 序列化为JSON
func (r *RunSummary) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *RunSummary) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
