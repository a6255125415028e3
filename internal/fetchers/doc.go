// Package fetchers 提供新闻首页的静态和动态获取功能
//
// # 概述
//
// 每个来源只请求一个URL(首页),不跟随页面内链接,也不下载子资源。
// 获取结果 Page 携带跟随重定向后的最终URL,抽取器以它作为相对链接的解析基准。
//
// # 核心组件
//
// ## StaticFetcher
//
// 基于Colly的静态获取器。每次尝试使用独立的Collector,共享同一个http.Client。
//   - 429/5xx和网络错误按指数退避重试: min(MaxBackoff, BackoffBase×2^n) + 抖动
//   - 服务端返回Retry-After时优先使用
//   - Content-Type不是HTML时返回 ErrNotHTML,不重试
//   - br/gzip/deflate 在Transport层透明解压
//
//	f := NewStaticFetcher(opts, headerManager)
//	defer f.Close()
//	page, err := f.Fetch(ctx, "https://www.bbc.com/news")
//
// ## DynamicFetcher
//
// 基于go-rod的动态获取器,适用于标题由JavaScript插入的站点。
// 浏览器在第一次Fetch时启动,启动前由ResourceMonitor检查可用内存和CPU,
// 资源不足时返回 ErrResourcesExhausted。一次只渲染一个标签页。
//
// ## ResourceMonitor
//
// 使用gopsutil采样系统可用内存与CPU使用率,阈值为零时跳过对应检查。
//
// # 错误处理
//
// 获取失败不会中断整次运行: 调用方记录警告并把该来源视为0条结果。
package fetchers
