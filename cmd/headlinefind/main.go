package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/RecoveryAshes/HeadlineFind/internal/config"
	"github.com/RecoveryAshes/HeadlineFind/internal/core"
	"github.com/RecoveryAshes/HeadlineFind/internal/fetchers"
	"github.com/RecoveryAshes/HeadlineFind/internal/models"
	"github.com/RecoveryAshes/HeadlineFind/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 退出码
const (
	exitError     = 1
	exitNoSources = 2
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// HTTP头部参数
	headers        []string
	validateConfig bool

	// 抓取参数
	sourcesFile string
	outPath     string
	archiveDir  string
	perSite     int
	sleepSecs   float64
	format      string
	mode        string
	timeoutSecs float64
	retries     int
	reportPath  string
	noProgress  bool
)

// appConfig 由PersistentPreRunE加载
var appConfig *core.Config

var rootCmd = &cobra.Command{
	Use:   "headlinefind",
	Short: "新闻首页标题链接抓取工具",
	Long: `HeadlineFind - 从新闻网站首页抓取候选标题链接

按 sources.yaml 中的顺序逐个获取首页,识别其中的标题链接,
附加来源信息后合并去重,写入最新文件和按日期归档的快照。

示例:
  # 使用默认的 sources.yaml
  headlinefind

  # 每站20条,输出JSON文档
  headlinefind --per-site 20 --format json --out data/latest.json

  # 付费墙站点传入Cookie
  headlinefind -H "Cookie: session=..."

  # 对本地HTML文件运行抽取
  headlinefind extract page.html --base-url https://example.com/

  # 验证配置
  headlinefind --validate-config

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		appConfig = cfg

		logConfig := cfg.LogConfig()
		if logLevel != "" {
			logConfig.Level = logLevel
		} else if verbose {
			logConfig.Level = "debug"
		}
		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Debug("详细模式已启用")
		}
		return nil
	},
	RunE: runScrape,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "HeadlineFind %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "构建时间: %s\n", BuildTime)
	},
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	headerManager, err := core.NewHeaderManager(appConfig.Scrape.HeadersFile, headers)
	if err != nil {
		return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
	}

	rc := appConfig.RunConfig()
	applyFlags(cmd, &rc)

	if validateConfig {
		return runValidateConfig(cmd.OutOrStdout(), headerManager, rc)
	}

	if err := ValidateFlags(rc); err != nil {
		return err
	}

	sources, err := config.NewSourcesLoader(rc.SourcesFile).Load()
	if err != nil {
		return err
	}

	// 提前加载并验证头部,错误在开始抓取前暴露
	if _, err := headerManager.GetHeaders(); err != nil {
		return fmt.Errorf("HTTP头部配置无效: %w", err)
	}
	utils.Debugf("HTTP头部: %v", headerManager.SafeHeaders())

	fetcher, err := fetchers.New(appConfig.FetcherOptions(rc), headerManager)
	if err != nil {
		return err
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			utils.Warnf("关闭获取器失败: %v", err)
		}
	}()

	runner, err := core.NewRunner(rc, fetcher)
	if err != nil {
		return err
	}
	if rc.Progress {
		runner.Progress = cmd.ErrOrStderr()
	}

	summary, err := runner.Run(ctx, sources)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		utils.Warn("收到中断信号,已写出部分结果")
	}
	utils.PrintSummary(cmd.OutOrStdout(), summary)
	return err
}

// applyFlags 显式指定的命令行参数覆盖配置文件
func applyFlags(cmd *cobra.Command, rc *models.RunConfig) {
	flags := cmd.Flags()
	if flags.Changed("sources") {
		rc.SourcesFile = sourcesFile
	}
	if flags.Changed("out") {
		rc.OutPath = outPath
		if !flags.Changed("format") {
			rc.Format = utils.FormatFromPath(outPath, rc.Format)
		}
	}
	if flags.Changed("archive-dir") {
		rc.ArchiveDir = archiveDir
	}
	if flags.Changed("per-site") {
		rc.PerSite = perSite
	}
	if flags.Changed("sleep") {
		rc.Sleep = time.Duration(sleepSecs * float64(time.Second))
	}
	if flags.Changed("format") {
		rc.Format = models.OutputFormat(format)
	}
	if flags.Changed("mode") {
		rc.Mode = models.FetchMode(mode)
	}
	if flags.Changed("timeout") {
		rc.Timeout = time.Duration(timeoutSecs * float64(time.Second))
	}
	if flags.Changed("retries") {
		rc.Retries = retries
	}
	if flags.Changed("report") {
		rc.ReportPath = reportPath
	}
	if noProgress {
		rc.Progress = false
	}
}

// runValidateConfig 加载并验证头部与来源配置,不发起请求
func runValidateConfig(w io.Writer, hm *core.HeaderManager, rc models.RunConfig) error {
	utils.Info("🔍 验证配置...")

	if err := ValidateFlags(rc); err != nil {
		return err
	}
	if _, err := hm.GetHeaders(); err != nil {
		return fmt.Errorf("HTTP头部配置验证失败: %w", err)
	}
	sources, err := config.NewSourcesLoader(rc.SourcesFile).Load()
	if err != nil {
		return err
	}

	safeHeaders := hm.SafeHeaders()
	names := make([]string, 0, len(safeHeaders))
	for name := range safeHeaders {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "✅ 配置验证通过")
	fmt.Fprintf(w, "来源 (%d个):\n", len(sources))
	for _, src := range sources {
		fmt.Fprintf(w, "  %s: %s\n", src.Name, src.URL)
	}
	fmt.Fprintf(w, "HTTP头部 (%d个):\n", len(names))
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, safeHeaders[name])
	}
	return nil
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// HTTP头部参数
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.PersistentFlags().BoolVar(&validateConfig, "validate-config", false, "验证配置文件后退出")

	// 抓取参数
	rootCmd.Flags().StringVar(&sourcesFile, "sources", config.DefaultSourcesFile, "来源列表文件")
	rootCmd.Flags().StringVar(&outPath, "out", "data/headlines_latest.jsonl", "最新结果输出路径")
	rootCmd.Flags().StringVar(&archiveDir, "archive-dir", "data/archive", "按日期归档的目录,为空时不归档")
	rootCmd.Flags().IntVar(&perSite, "per-site", 25, "每个来源保留的候选数")
	rootCmd.Flags().Float64Var(&sleepSecs, "sleep", 1.0, "来源之间的间隔(秒)")
	rootCmd.Flags().StringVar(&format, "format", string(models.FormatJSONL), "输出格式 (jsonl|json)")
	rootCmd.Flags().StringVarP(&mode, "mode", "m", string(models.ModeStatic), "获取模式 (static|dynamic)")
	rootCmd.Flags().Float64Var(&timeoutSecs, "timeout", 20, "单次请求超时(秒)")
	rootCmd.Flags().IntVar(&retries, "retries", 2, "429/5xx重试次数")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "运行报告输出路径 (JSON)")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "不显示进度条")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newExtractCmd())
}

// exitCode 没有来源时返回2,其余错误返回1
func exitCode(err error) int {
	if errors.Is(err, config.ErrNoSources) {
		return exitNoSources
	}
	return exitError
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(exitCode(err))
	}
}
