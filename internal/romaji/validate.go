package romaji

import (
	"strings"

	"github.com/samber/lo"
)

// Result is the outcome of validating typed input against a unit.
type Result int

const (
	// Incorrect means no accepted spelling starts with the input.
	Incorrect Result = iota
	// InProgress means the input is a prefix of an accepted spelling, or matches
	// one exactly while a longer spelling is still reachable.
	InProgress
	// Correct means the input completes the unit.
	Correct
)

func (r Result) String() string {
	switch r {
	case Correct:
		return "correct"
	case InProgress:
		return "in-progress"
	default:
		return "incorrect"
	}
}

// Validate judges typed input against the accepted spellings of one unit.
func Validate(typed string, accepted []string) Result {
	candidates := lo.Filter(accepted, func(s string, _ int) bool {
		return strings.HasPrefix(s, typed)
	})
	if len(candidates) == 0 {
		return Incorrect
	}
	if !lo.Contains(candidates, typed) {
		return InProgress
	}
	if lo.SomeBy(candidates, func(s string) bool { return len(s) > len(typed) }) {
		return InProgress
	}
	return Correct
}
