package romaji

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/text/width"
)

// Unit is one typeable segment of a kana string.
type Unit struct {
	// Kana is the grapheme as it appears in the source text.
	Kana string
	// Romaji is the canonical spelling. Once the unit is completed it holds
	// the spelling that was actually typed.
	Romaji string
	// Spellings lists every accepted spelling, table order first.
	Spellings []string
	Role      Role
	Completed bool
}

// Default returns the unit's first table spelling.
func (u Unit) Default() string {
	if len(u.Spellings) == 0 {
		return ""
	}
	return u.Spellings[0]
}

// Segment splits kana into units. Two-character table keys win over single
// characters; characters with no table entry become literal units.
func Segment(kana string) []Unit {
	chars := []rune(kana)
	units := make([]Unit, 0, len(chars))
	for i := 0; i < len(chars); {
		key, spells, n := resolve(chars, i)
		u := Unit{
			Kana:      key,
			Romaji:    spells[0],
			Spellings: spells,
			Role:      RoleOf(key),
		}
		if next := i + n; next < len(chars) {
			_, following, _ := resolve(chars, next)
			switch u.Role {
			case RoleGeminate:
				applyGeminate(&u, following)
			case RoleNasal:
				applyNasal(&u, following)
			}
		}
		units = append(units, u)
		i += n
	}
	return units
}

func resolve(chars []rune, i int) (string, []string, int) {
	if i+1 < len(chars) {
		pair := string(chars[i : i+2])
		if s, ok := Lookup(pair); ok {
			return pair, s, 2
		}
	}
	single := string(chars[i])
	if s, ok := Lookup(single); ok {
		return single, s, 1
	}
	return single, []string{width.Fold.String(single)}, 1
}

// applyGeminate spells the marker as the doubled consonant of the next unit.
func applyGeminate(u *Unit, following []string) {
	letters := lo.FilterMap(following, func(s string, _ int) (string, bool) {
		l := firstLetter(s)
		return l, l != ""
	})
	if len(letters) == 0 {
		return
	}
	u.Romaji = letters[0]
	u.Spellings = lo.Uniq(append(u.Spellings, letters...))
}

// applyNasal switches to the doubled spelling when a single letter would be
// swallowed by the next syllable.
func applyNasal(u *Unit, following []string) {
	if !RequiresDoubleNasal(following) {
		return
	}
	doubled := strings.Repeat(u.Default(), 2)
	if lo.Contains(u.Spellings, doubled) {
		u.Romaji = doubled
	}
}

func firstLetter(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return ""
	}
	return s[:size]
}
