package problem

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/kanatype/internal/model"
)

const sentenceEnd = "。"

// AlignSentences pairs the sentences of a text with the sentences of its kana
// reading. Both are split on the ideographic full stop; the counts must agree.
func AlignSentences(display, kana string) ([]model.Problem, error) {
	displayParts := sentences(display)
	kanaParts := sentences(kana)
	if len(displayParts) != len(kanaParts) {
		return nil, fmt.Errorf("sentence count mismatch: %d in text, %d in reading", len(displayParts), len(kanaParts))
	}
	problems := make([]model.Problem, len(displayParts))
	for i := range displayParts {
		problems[i] = model.Problem{
			Display: displayParts[i] + sentenceEnd,
			Kana:    kanaParts[i] + sentenceEnd,
		}
	}
	return problems, nil
}

func sentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	var out []string
	for _, part := range strings.Split(text, sentenceEnd) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
