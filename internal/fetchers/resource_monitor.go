package fetchers

import (
	"context"
	"fmt"
	"time"

	"github.com/RecoveryAshes/HeadlineFind/internal/utils"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceMonitorConfig 资源检查阈值,零值表示不检查该项
type ResourceMonitorConfig struct {
	MinAvailableMemory uint64  // 最少可用内存(字节)
	MaxCPUPercent      float64 // CPU使用率上限(%)
	CPUSampleInterval  time.Duration
}

// ResourceStatus 一次采样结果
type ResourceStatus struct {
	TotalMemory     uint64
	AvailableMemory uint64
	CPUPercent      float64
}

// ResourceMonitor 启动无头浏览器前检查系统余量
type ResourceMonitor struct {
	config ResourceMonitorConfig

	// 便于测试替换
	sampleMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	sampleCPU    func(ctx context.Context, interval time.Duration) (float64, error)
}

// NewResourceMonitor 创建资源监控器
func NewResourceMonitor(config ResourceMonitorConfig) *ResourceMonitor {
	if config.CPUSampleInterval <= 0 {
		config.CPUSampleInterval = 200 * time.Millisecond
	}
	return &ResourceMonitor{
		config:       config,
		sampleMemory: mem.VirtualMemoryWithContext,
		sampleCPU: func(ctx context.Context, interval time.Duration) (float64, error) {
			percents, err := cpu.PercentWithContext(ctx, interval, false)
			if err != nil {
				return 0, err
			}
			if len(percents) == 0 {
				return 0, nil
			}
			return percents[0], nil
		},
	}
}

// Check 采样内存与CPU,低于阈值时返回包装了ErrResourcesExhausted的错误
// 采样本身失败时只记录警告,不阻止启动
func (rm *ResourceMonitor) Check(ctx context.Context) (ResourceStatus, error) {
	var status ResourceStatus

	if vm, err := rm.sampleMemory(ctx); err != nil {
		utils.Warnf("获取系统内存失败: %v", err)
	} else {
		status.TotalMemory = vm.Total
		status.AvailableMemory = vm.Available
		if rm.config.MinAvailableMemory > 0 && vm.Available < rm.config.MinAvailableMemory {
			return status, fmt.Errorf("%w: 可用内存 %.0fMB 低于 %.0fMB", ErrResourcesExhausted,
				toMB(vm.Available), toMB(rm.config.MinAvailableMemory))
		}
	}

	if rm.config.MaxCPUPercent > 0 {
		pct, err := rm.sampleCPU(ctx, rm.config.CPUSampleInterval)
		if err != nil {
			utils.Warnf("获取CPU使用率失败: %v", err)
		} else {
			status.CPUPercent = pct
			if pct > rm.config.MaxCPUPercent {
				return status, fmt.Errorf("%w: CPU使用率 %.1f%% 超过 %.1f%%", ErrResourcesExhausted,
					pct, rm.config.MaxCPUPercent)
			}
		}
	}

	utils.Debugf("资源检查通过: 可用内存 %.0fMB / %.0fMB, CPU %.1f%%",
		toMB(status.AvailableMemory), toMB(status.TotalMemory), status.CPUPercent)
	return status, nil
}

func toMB(b uint64) float64 {
	return float64(b) / (1024 * 1024)
}
