package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RecoveryAshes/HeadlineFind/internal/models"
)

// ArchivePath 归档快照路径: <dir>/headlines_YYYY-MM-DD.<ext>,日期取UTC
func ArchivePath(dir string, at time.Time, format models.OutputFormat) string {
	day := at.UTC().Format("2006-01-02")
	return filepath.Join(dir, fmt.Sprintf("headlines_%s.%s", day, format))
}

// FormatFromPath 根据扩展名推断输出格式,无法推断时返回fallback
func FormatFromPath(path string, fallback models.OutputFormat) models.OutputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return models.FormatJSONL
	case ".json":
		return models.FormatJSON
	default:
		return fallback
	}
}

// EnsureParentDir 创建文件所在目录
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败 [%s]: %w", dir, err)
	}
	return nil
}

// ValidateURL 验证URL格式
func ValidateURL(rawURL string) error {
	return models.ValidateURL(rawURL)
}

// SleepContext 等待d,ctx取消时提前返回ctx.Err()
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
