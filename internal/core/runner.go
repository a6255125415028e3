package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/RecoveryAshes/HeadlineFind/internal/config"
	"github.com/RecoveryAshes/HeadlineFind/internal/extractor"
	"github.com/RecoveryAshes/HeadlineFind/internal/fetchers"
	"github.com/RecoveryAshes/HeadlineFind/internal/models"
	"github.com/RecoveryAshes/HeadlineFind/internal/utils"
	"github.com/schollz/progressbar/v3"
)

// Runner 按顺序抓取所有来源并写出结果
type Runner struct {
	cfg     models.RunConfig
	fetcher fetchers.Fetcher
	runID   string

	// Now 时间来源,测试中可替换
	Now func() time.Time

	// Progress 进度条输出,为nil时不显示
	Progress io.Writer
}

// NewRunner 创建运行器
func NewRunner(cfg models.RunConfig, fetcher fetchers.Fetcher) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("运行参数无效: %w", err)
	}
	if fetcher == nil {
		return nil, errors.New("未提供获取器")
	}
	return &Runner{
		cfg:     cfg,
		fetcher: fetcher,
		runID:   models.NewRunID(),
		Now:     time.Now,
	}, nil
}

// RunID 本次运行的ID,写入每条结果
func (r *Runner) RunID() string {
	return r.runID
}

// Run 依次处理每个来源: 获取 → 抽取 → 附加来源信息 → 等待间隔
// 单个来源失败只记录警告;ctx取消后剩余来源标记为skipped,已得到的结果仍会写出
func (r *Runner) Run(ctx context.Context, sources []config.Source) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		RunID:        r.runID,
		Mode:         r.cfg.Mode,
		StartTime:    r.Now(),
		TotalSources: len(sources),
		Sources:      make([]models.SourceResult, 0, len(sources)),
		OutPath:      r.cfg.OutPath,
	}

	utils.Infof("🚀 开始抓取: %d个来源, 模式: %s, 运行ID: %s", len(sources), r.cfg.Mode, r.runID)

	var bar *progressbar.ProgressBar
	if r.Progress != nil && r.cfg.Progress {
		bar = utils.NewProgressBar(r.Progress, len(sources), "抓取首页")
	}

	perSource := make([][]models.Headline, 0, len(sources))
	for i, src := range sources {
		if ctx.Err() != nil {
			summary.Sources = append(summary.Sources, models.SourceResult{
				Name:   src.Name,
				URL:    src.URL,
				Status: models.SourceSkipped,
			})
			continue
		}

		result, items := r.scrapeSource(ctx, src)
		summary.Sources = append(summary.Sources, result)
		summary.TotalItems += len(items)
		if result.Status == models.SourceFailed {
			summary.FailedSources++
		}
		perSource = append(perSource, items)

		if bar != nil {
			_ = bar.Add(1)
		}

		// 最后一个来源之后不等待
		if i < len(sources)-1 && r.cfg.Sleep > 0 {
			_ = utils.SleepContext(ctx, r.cfg.Sleep)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	merged := extractor.MergeSources(perSource, models.HeadlineURL)
	summary.MergedItems = len(merged)

	writer := utils.NewHeadlineWriter(r.cfg.Format, r.runID)
	writer.Now = r.Now
	if err := writer.WriteFile(r.cfg.OutPath, merged); err != nil {
		return summary, fmt.Errorf("写入结果失败: %w", err)
	}
	if r.cfg.ArchiveDir != "" {
		path, err := writer.WriteArchive(r.cfg.ArchiveDir, merged)
		if err != nil {
			return summary, fmt.Errorf("写入归档失败: %w", err)
		}
		summary.ArchivePath = path
	}

	summary.EndTime = r.Now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime).Seconds()

	if err := utils.NewReporter(r.cfg.ReportPath).GenerateReport(summary); err != nil {
		return summary, fmt.Errorf("生成报告失败: %w", err)
	}

	utils.Infof("✅ 抓取完成: %d条(合并前%d条), 失败来源: %d/%d, 耗时%.2f秒",
		summary.MergedItems, summary.TotalItems, summary.FailedSources, summary.TotalSources, summary.Duration)

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("抓取被中断: %w", err)
	}
	return summary, nil
}

// scrapeSource 处理单个来源,获取失败时返回空列表
func (r *Runner) scrapeSource(ctx context.Context, src config.Source) (models.SourceResult, []models.Headline) {
	start := time.Now()
	result := models.SourceResult{
		Name:   src.Name,
		URL:    src.URL,
		Status: models.SourceOK,
	}

	page, err := r.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		result.Status = models.SourceFailed
		if ctx.Err() != nil {
			result.Status = models.SourceSkipped
		}
		result.Error = err.Error()
		result.DurationMS = time.Since(start).Milliseconds()
		utils.Warnf("获取来源失败 [%s] %s: %v", src.Name, src.URL, err)
		return result, nil
	}
	result.FinalURL = page.FinalURL

	ex := extractor.New(extractor.Options{
		MaxItems: r.cfg.PerSite,
		Filters:  src.Filters,
	})
	res := ex.Extract(page.HTML, page.BaseURL())

	scrapedAt := r.Now()
	items := make([]models.Headline, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		items = append(items, models.NewHeadline(c, src.SourceConfig, scrapedAt, r.runID))
	}

	result.Count = len(items)
	result.Links = res.Links
	result.PassesRun = res.PassesRun
	result.DurationMS = time.Since(start).Milliseconds()
	utils.Infof("[%s] %d条候选 (链接%d, 轮数%d)", src.Name, len(items), res.Links, res.PassesRun)
	return result, items
}
