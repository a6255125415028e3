// Package extractor 从新闻首页HTML中识别候选标题链接
//
// # 流程
//
// 对一个页面按四轮选择器逐步放宽地遍历链接:
//
//	h1/h2/h3 内的链接 → article 内 → main 内 → 全部链接
//
// 每个链接依次经过:
//   - 标题解析 (ResolveAnchorText): 后代标题 > title/aria-label > 可见文本,过短或样板文本丢弃
//   - URL解析与规范化 (ResolveURL, NormalizeURL): 去fragment和追踪参数
//   - 协议检查 (仅http/https) 与来源级allow/deny正则
//   - 页面内指纹去重 (Fingerprint)
//   - 评分 (Score): 标题长度、标题标签、正文/菜单区域、URL形态
//
// 非最后一轮结束时,若候选数已达到 2×MaxItems,后续更宽泛的轮次被跳过。
// 最后由 RankCandidates 按URL去重(高分优先)、排序并截断。
//
// 跨来源合并使用 MergeSources,同一URL保留最先处理的来源。
//
// 使用示例:
//
//	filters, err := extractor.CompileFilters(src.AllowURLRegex, src.DenyURLRegex)
//	if err != nil { /* 配置错误 */ }
//	ex := extractor.New(extractor.Options{MaxItems: 25, Filters: filters})
//	res := ex.Extract(html, src.URL)
//	for _, c := range res.Candidates {
//	    fmt.Println(c.Title, c.URL)
//	}
//
// 本包不做网络I/O,不保存跨调用状态。
package extractor
