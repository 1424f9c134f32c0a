package stats

import (
	"sort"

	"github.com/verte-zerg/kanatype/internal/model"
)

// SelectWeakKana selects the lowest-accuracy kana from aggregates.
func SelectWeakKana(aggs []model.KanaAggregate, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	if len(aggs) == 0 {
		return weakSet
	}
	candidates := make([]model.KanaAggregate, len(aggs))
	copy(candidates, aggs)
	sort.Slice(candidates, func(i, j int) bool {
		ai := kanaAccuracy(candidates[i])
		aj := kanaAccuracy(candidates[j])
		if ai == aj {
			return candidates[i].Kana < candidates[j].Kana
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, c := range candidates[:top] {
		if c.Kana != "" {
			weakSet[c.Kana] = struct{}{}
		}
	}
	return weakSet
}

func kanaAccuracy(agg model.KanaAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
