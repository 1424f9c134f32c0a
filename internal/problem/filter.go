package problem

import (
	"github.com/samber/lo"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/romaji"
)

// Typeable reports whether every unit of the problem can be typed on an ASCII
// keyboard. Kanji left behind by a bad reading fails this check.
func Typeable(p model.Problem) bool {
	units := romaji.Segment(p.Kana)
	if len(units) == 0 {
		return false
	}
	return lo.EveryBy(units, func(u romaji.Unit) bool {
		return lo.SomeBy(u.Spellings, isPrintableASCII)
	})
}

// Filter keeps only typeable problems.
func Filter(problems []model.Problem) []model.Problem {
	return lo.Filter(problems, func(p model.Problem, _ int) bool {
		return Typeable(p)
	})
}

func isPrintableASCII(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < ' ' || s[i] > '~' {
			return false
		}
	}
	return true
}
