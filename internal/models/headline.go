package models

import (
	"time"

	"github.com/RecoveryAshes/HeadlineFind/internal/extractor"
)

// TimestampLayout 输出中使用的UTC时间格式
const TimestampLayout = "2006-01-02T15:04:05Z"

// Headline 输出记录: 候选标题 + 来源信息
type Headline struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	SourceName   string `json:"source_name"`
	SourceHome   string `json:"source_home"`
	Category     string `json:"category,omitempty"`
	ScrapedAtUTC string `json:"scraped_at_utc"`
	RunID        string `json:"run_id"`
}

// NewHeadline 为候选附加来源信息
func NewHeadline(c extractor.Candidate, src SourceConfig, scrapedAt time.Time, runID string) Headline {
	return Headline{
		Title:        c.Title,
		URL:          c.URL,
		SourceName:   src.Name,
		SourceHome:   src.URL,
		Category:     src.Category,
		ScrapedAtUTC: scrapedAt.UTC().Format(TimestampLayout),
		RunID:        runID,
	}
}

// HeadlineURL 供 extractor.MergeSources 使用的URL访问器
func HeadlineURL(h Headline) string {
	return h.URL
}

// HeadlineDocument JSON格式输出的顶层结构
type HeadlineDocument struct {
	GeneratedAtUTC string     `json:"generated_at_utc"`
	RunID          string     `json:"run_id"`
	Items          []Headline `json:"items"`
}
