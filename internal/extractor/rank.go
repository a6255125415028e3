package extractor

import "sort"

// RankCandidates 按URL二次去重并排序截断
//   - 同一URL保留得分严格更高者,得分相同时保留先出现者
//   - 按得分降序,同分保持插入顺序
//   - 截断到maxItems,丢弃得分
func RankCandidates(scored []scoredCandidate, maxItems int) []Candidate {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	sorted := make([]scoredCandidate, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].score > sorted[j].score
	})

	out := make([]Candidate, 0, min(len(sorted), maxItems))
	seenURL := make(map[string]struct{}, len(sorted))
	for _, c := range sorted {
		if len(out) >= maxItems {
			break
		}
		if _, dup := seenURL[c.URL]; dup {
			continue
		}
		seenURL[c.URL] = struct{}{}
		out = append(out, c.Candidate)
	}
	return out
}

// MergeSources 跨来源合并: 按来源顺序拼接,按规范化URL去重
// 同一URL出现在多个来源时保留最先处理的来源,与得分无关
// (与单页内"高分优先"的规则不同,有意保留)
func MergeSources[T any](lists [][]T, urlOf func(T) string) []T {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	out := make([]T, 0, total)
	seen := make(map[string]struct{}, total)
	for _, l := range lists {
		for _, item := range l {
			u := NormalizeURL(urlOf(item))
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
