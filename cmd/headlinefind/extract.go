package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/RecoveryAshes/HeadlineFind/internal/extractor"
	"github.com/spf13/cobra"
)

// extractOptions extract 子命令参数
type extractOptions struct {
	baseURL  string
	allow    string
	deny     string
	maxItems int
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <file.html|->",
		Short: "对本地HTML文件运行标题抽取,结果以JSON输出到标准输出",
		Long: `对本地保存的首页HTML运行标题抽取,不发起任何网络请求。
文件名为 "-" 时从标准输入读取。`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "页面URL,用于解析相对链接 (必需)")
	cmd.Flags().StringVar(&opts.allow, "allow", "", "URL必须匹配的正则")
	cmd.Flags().StringVar(&opts.deny, "deny", "", "URL匹配即丢弃的正则")
	cmd.Flags().IntVar(&opts.maxItems, "max-items", extractor.DefaultMaxItems, "保留的候选数")
	_ = cmd.MarkFlagRequired("base-url")

	return cmd
}

func runExtract(stdin io.Reader, stdout io.Writer, path string, opts *extractOptions) error {
	if err := ValidateBaseURL(opts.baseURL); err != nil {
		return err
	}
	if err := ValidateMaxItems(opts.maxItems); err != nil {
		return err
	}

	filters, err := extractor.CompileFilters(opts.allow, opts.deny)
	if err != nil {
		return err
	}

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("读取HTML失败: %w", err)
	}

	candidates := extractor.ExtractCandidates(string(data), opts.baseURL, extractor.Options{
		MaxItems: opts.maxItems,
		Filters:  filters,
	})
	if candidates == nil {
		candidates = []extractor.Candidate{}
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(candidates)
}
