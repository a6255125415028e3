package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/RecoveryAshes/HeadlineFind/internal/config"
	"github.com/go-rod/rod/lib/launcher"
)

func main() {
	fmt.Println("==============================================")
	fmt.Println("  HeadlineFind 环境验证")
	fmt.Println("==============================================")
	fmt.Println()

	allOK := true

	fmt.Printf("✅ Go版本: %s\n", runtime.Version())
	fmt.Printf("✅ 操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// dynamic模式需要本地Chromium,缺失时rod会在首次使用时下载
	if path, ok := launcher.LookPath(); ok {
		fmt.Printf("✅ 浏览器: %s\n", path)
	} else {
		fmt.Println("⚠️  未找到Chrome/Chromium - dynamic模式首次运行时会自动下载")
	}

	fmt.Println()
	fmt.Println("检查项目文件...")
	if _, err := os.Stat("go.mod"); err != nil {
		fmt.Println("❌ go.mod文件不存在,请在项目根目录运行")
		allOK = false
	}

	requiredDirs := []string{
		"cmd/headlinefind",
		"internal/core",
		"internal/extractor",
		"internal/fetchers",
		"internal/utils",
		"internal/models",
		"configs",
	}
	for _, dir := range requiredDirs {
		if _, err := os.Stat(dir); err == nil {
			fmt.Printf("✅ %s/\n", dir)
		} else {
			fmt.Printf("❌ %s/ 不存在\n", dir)
			allOK = false
		}
	}

	// 来源文件可以正常加载
	if sources, err := config.NewSourcesLoader(config.DefaultSourcesFile).Load(); err != nil {
		fmt.Printf("❌ %s: %v\n", config.DefaultSourcesFile, err)
		allOK = false
	} else {
		fmt.Printf("✅ %s: %d个来源\n", config.DefaultSourcesFile, len(sources))
	}

	fmt.Println()
	fmt.Println("==============================================")
	if allOK {
		fmt.Println("✅ 环境验证通过!")
		fmt.Println()
		fmt.Println("下一步:")
		fmt.Println("  1. 运行 'go build -o headlinefind ./cmd/headlinefind' 构建项目")
		fmt.Println("  2. 运行 './headlinefind --validate-config' 检查配置")
		fmt.Println("  3. 运行 './headlinefind' 开始抓取")
		os.Exit(0)
	}
	fmt.Println("❌ 环境验证失败,请解决上述问题。")
	os.Exit(1)
}
