package stats

import (
	"testing"

	"github.com/verte-zerg/kanatype/internal/model"
)

func TestTopKanaByFrequency(t *testing.T) {
	aggs := []model.KanaAggregate{
		{Kana: "し", Correct: 3, Incorrect: 1},
		{Kana: "か", Correct: 2, Incorrect: 2},
		{Kana: "ん", Correct: 1, Incorrect: 0},
	}
	top := TopKanaByFrequency(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 kana, got %d", len(top))
	}
	if top[0] != "か" || top[1] != "し" {
		t.Fatalf("unexpected order: %v", top)
	}
}

func TestSelectWeakKana(t *testing.T) {
	aggs := []model.KanaAggregate{
		{Kana: "か", Correct: 9, Incorrect: 1},
		{Kana: "ん", Correct: 1, Incorrect: 3},
		{Kana: "っ", Correct: 2, Incorrect: 2},
		{Kana: "あ", Correct: 0, Incorrect: 0},
	}
	weak := SelectWeakKana(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak kana, got %v", weak)
	}
	for _, k := range []string{"ん", "っ"} {
		if _, ok := weak[k]; !ok {
			t.Fatalf("expected %q in weak set %v", k, weak)
		}
	}
	if got := SelectWeakKana(nil, 3); len(got) != 0 {
		t.Fatalf("expected empty set for no aggregates")
	}
}
