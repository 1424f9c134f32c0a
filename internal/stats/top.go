package stats

import (
	"sort"

	"github.com/verte-zerg/kanatype/internal/model"
)

// TopKanaByFrequency returns the top N kana by total keystrokes.
func TopKanaByFrequency(aggs []model.KanaAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.KanaAggregate, len(aggs))
	copy(items, aggs)
	total := func(a model.KanaAggregate) int { return a.Correct + a.Incorrect }
	sort.Slice(items, func(i, j int) bool {
		if total(items[i]) == total(items[j]) {
			return items[i].Kana < items[j].Kana
		}
		return total(items[i]) > total(items[j])
	})
	n = min(n, len(items))
	out := make([]string, 0, n)
	for _, item := range items[:n] {
		out = append(out, item.Kana)
	}
	return out
}
