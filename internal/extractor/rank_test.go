package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sc(title, url string, score float64) scoredCandidate {
	return scoredCandidate{Candidate: Candidate{Title: title, URL: url}, score: score}
}

func TestRankCandidates(t *testing.T) {
	t.Run("同URL保留高分", func(t *testing.T) {
		got := RankCandidates([]scoredCandidate{
			sc("low", "https://a/1", 1),
			sc("high", "https://a/1", 5),
		}, 10)
		assert.Equal(t, []Candidate{{Title: "high", URL: "https://a/1"}}, got)
	})

	t.Run("同URL同分保留先出现者", func(t *testing.T) {
		got := RankCandidates([]scoredCandidate{
			sc("first", "https://a/1", 3),
			sc("second", "https://a/1", 3),
		}, 10)
		assert.Equal(t, []Candidate{{Title: "first", URL: "https://a/1"}}, got)
	})

	t.Run("同分保持插入顺序", func(t *testing.T) {
		got := RankCandidates([]scoredCandidate{
			sc("a", "https://a/a", 2),
			sc("b", "https://a/b", 4),
			sc("c", "https://a/c", 2),
			sc("d", "https://a/d", 4),
		}, 10)
		assert.Equal(t, []string{"https://a/b", "https://a/d", "https://a/a", "https://a/c"}, urls(got))
	})

	t.Run("截断", func(t *testing.T) {
		got := RankCandidates([]scoredCandidate{
			sc("a", "https://a/a", 1),
			sc("b", "https://a/b", 2),
			sc("c", "https://a/c", 3),
		}, 2)
		assert.Equal(t, []string{"https://a/c", "https://a/b"}, urls(got))
	})

	t.Run("上限非正数时使用默认值", func(t *testing.T) {
		in := make([]scoredCandidate, 0, DefaultMaxItems+5)
		for i := 0; i < DefaultMaxItems+5; i++ {
			in = append(in, sc("t", "https://a/"+string(rune('A'+i)), 0))
		}
		assert.Len(t, RankCandidates(in, 0), DefaultMaxItems)
	})

	t.Run("不修改输入", func(t *testing.T) {
		in := []scoredCandidate{sc("a", "https://a/a", 1), sc("b", "https://a/b", 2)}
		RankCandidates(in, 10)
		assert.Equal(t, "a", in[0].Title)
	})

	t.Run("空输入", func(t *testing.T) {
		assert.Empty(t, RankCandidates(nil, 5))
	})
}

func TestMergeSources(t *testing.T) {
	type item struct {
		Source string
		URL    string
	}
	urlOf := func(i item) string { return i.URL }

	first := []item{
		{"BBC", "https://news.example/a"},
		{"BBC", "https://news.example/b"},
	}
	second := []item{
		{"Reuters", "https://news.example/a?utm_source=feed"},
		{"Reuters", "https://news.example/c"},
		{"Reuters", "https://news.example/b#top"},
	}

	got := MergeSources([][]item{first, second}, urlOf)

	assert.Equal(t, []item{
		{"BBC", "https://news.example/a"},
		{"BBC", "https://news.example/b"},
		{"Reuters", "https://news.example/c"},
	}, got)

	assert.Empty(t, MergeSources[item](nil, urlOf))
}
