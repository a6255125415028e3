package main

import (
	"fmt"
	"time"

	"github.com/RecoveryAshes/HeadlineFind/internal/models"
)

// maxTimeout 单次请求超时上限
const maxTimeout = 5 * time.Minute

// ValidateFlags 验证合并后的运行参数
func ValidateFlags(rc models.RunConfig) error {
	if err := rc.Validate(); err != nil {
		return fmt.Errorf("参数无效: %w", err)
	}
	if rc.Timeout > maxTimeout {
		return fmt.Errorf("请求超时不能超过%.0f秒,当前值: %.1f", maxTimeout.Seconds(), rc.Timeout.Seconds())
	}
	return nil
}

// ValidateMaxItems 验证 extract 子命令的 --max-items
func ValidateMaxItems(n int) error {
	if n < 1 || n > 1000 {
		return fmt.Errorf("候选数必须在1-1000之间,当前值: %d", n)
	}
	return nil
}

// ValidateBaseURL 验证 extract 子命令的 --base-url
func ValidateBaseURL(rawURL string) error {
	if err := models.ValidateURL(rawURL); err != nil {
		return fmt.Errorf("无效的基准URL: %w", err)
	}
	return nil
}
