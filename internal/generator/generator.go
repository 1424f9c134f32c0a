// Package generator picks problems for a practice run.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/romaji"
)

// Generator produces randomized problem sequences.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick selects problems uniformly.
func (g *Generator) Pick(problems []model.Problem, count int) []model.Problem {
	if len(problems) == 0 {
		return nil
	}
	result := make([]model.Problem, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, problems[g.rnd.Intn(len(problems))])
	}
	return result
}

// PickWeighted selects problems with a bias toward weak kana.
func (g *Generator) PickWeighted(problems []model.Problem, count int, weakSet map[string]struct{}, factor float64) []model.Problem {
	if len(problems) == 0 {
		return nil
	}
	weights := make([]float64, len(problems))
	total := 0.0
	for i, p := range problems {
		weakCount := 0
		for _, u := range romaji.Segment(p.Kana) {
			if _, ok := weakSet[u.Kana]; ok {
				weakCount++
			}
		}
		w := 1.0 + float64(weakCount)*factor
		weights[i] = w
		total += w
	}

	result := make([]model.Problem, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(problems) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, problems[idx])
	}
	return result
}
