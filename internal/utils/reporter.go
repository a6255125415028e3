package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/RecoveryAshes/HeadlineFind/internal/models"
	"github.com/schollz/progressbar/v3"
)

// Reporter 运行报告生成器
type Reporter struct {
	path string
}

// NewReporter 创建报告生成器,path为空时不写报告
func NewReporter(path string) *Reporter {
	return &Reporter{path: path}
}

// Enabled 是否配置了报告路径
func (r *Reporter) Enabled() bool {
	return r.path != ""
}

// GenerateReport 将运行摘要写为JSON
func (r *Reporter) GenerateReport(summary *models.RunSummary) error {
	if !r.Enabled() {
		return nil
	}
	if err := EnsureParentDir(r.path); err != nil {
		return err
	}

	data, err := summary.ToJSON()
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}
	if err := os.WriteFile(r.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	Infof("✅ 报告已生成: %s", r.path)
	return nil
}

// PrintSummary 输出一行人类可读的运行结果
func PrintSummary(w io.Writer, summary *models.RunSummary) {
	fmt.Fprintf(w, "Wrote %d headlines to %s", summary.MergedItems, summary.OutPath)
	if summary.FailedSources > 0 {
		fmt.Fprintf(w, " (%d/%d sources failed)", summary.FailedSources, summary.TotalSources)
	}
	fmt.Fprintln(w)
}

// NewProgressBar 创建进度条,输出到w
func NewProgressBar(w io.Writer, max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("sites"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
