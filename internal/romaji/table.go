// Package romaji segments kana into typeable units and validates romaji input.
package romaji

import (
	"strings"

	"golang.org/x/text/width"
)

// Role classifies a table entry for the segmenter's post-processing rules.
type Role int

const (
	// RolePlain is an ordinary unit typed by one of its spellings.
	RolePlain Role = iota
	// RoleGeminate doubles the consonant of the unit that follows it.
	RoleGeminate
	// RoleNasal is the moraic nasal, whose spelling depends on what follows.
	RoleNasal
)

// spellings maps a hiragana grapheme to its accepted romaji, canonical first.
// Katakana and half-width keys are folded to hiragana before lookup.
var spellings = map[string][]string{
	"あ": {"a"}, "い": {"i", "yi"}, "う": {"u", "wu", "whu"}, "え": {"e"}, "お": {"o"},
	"か": {"ka", "ca"}, "き": {"ki"}, "く": {"ku", "cu", "qu"}, "け": {"ke"}, "こ": {"ko", "co"},
	"さ": {"sa"}, "し": {"shi", "si", "ci"}, "す": {"su"}, "せ": {"se", "ce"}, "そ": {"so"},
	"た": {"ta"}, "ち": {"chi", "ti"}, "つ": {"tsu", "tu"}, "て": {"te"}, "と": {"to"},
	"な": {"na"}, "に": {"ni"}, "ぬ": {"nu"}, "ね": {"ne"}, "の": {"no"},
	"は": {"ha"}, "ひ": {"hi"}, "ふ": {"fu", "hu"}, "へ": {"he"}, "ほ": {"ho"},
	"ま": {"ma"}, "み": {"mi"}, "む": {"mu"}, "め": {"me"}, "も": {"mo"},
	"や": {"ya"}, "ゆ": {"yu"}, "よ": {"yo"},
	"ら": {"ra"}, "り": {"ri"}, "る": {"ru"}, "れ": {"re"}, "ろ": {"ro"},
	"わ": {"wa"}, "ゐ": {"wyi"}, "ゑ": {"wye"}, "を": {"wo"},

	"が": {"ga"}, "ぎ": {"gi"}, "ぐ": {"gu"}, "げ": {"ge"}, "ご": {"go"},
	"ざ": {"za"}, "じ": {"ji", "zi"}, "ず": {"zu"}, "ぜ": {"ze"}, "ぞ": {"zo"},
	"だ": {"da"}, "ぢ": {"di", "dzi"}, "づ": {"du", "dzu"}, "で": {"de"}, "ど": {"do"},
	"ば": {"ba"}, "び": {"bi"}, "ぶ": {"bu"}, "べ": {"be"}, "ぼ": {"bo"},
	"ぱ": {"pa"}, "ぴ": {"pi"}, "ぷ": {"pu"}, "ぺ": {"pe"}, "ぽ": {"po"},

	"ん": {"n", "nn", "xn"},
	"っ": {"xtu", "xtsu", "ltu", "ltsu"},
	"ー": {"-"},

	"ぁ": {"xa", "la"}, "ぃ": {"xi", "li"}, "ぅ": {"xu", "lu"}, "ぇ": {"xe", "le"}, "ぉ": {"xo", "lo"},
	"ゃ": {"xya", "lya"}, "ゅ": {"xyu", "lyu"}, "ょ": {"xyo", "lyo"}, "ゎ": {"xwa", "lwa"},

	"きゃ": {"kya"}, "きゅ": {"kyu"}, "きょ": {"kyo"},
	"しゃ": {"sha", "sya"}, "しゅ": {"shu", "syu"}, "しょ": {"sho", "syo"},
	"ちゃ": {"cha", "tya", "cya"}, "ちゅ": {"chu", "tyu", "cyu"}, "ちょ": {"cho", "tyo", "cyo"},
	"にゃ": {"nya"}, "にゅ": {"nyu"}, "にょ": {"nyo"},
	"ひゃ": {"hya"}, "ひゅ": {"hyu"}, "ひょ": {"hyo"},
	"みゃ": {"mya"}, "みゅ": {"myu"}, "みょ": {"myo"},
	"りゃ": {"rya"}, "りゅ": {"ryu"}, "りょ": {"ryo"},
	"ぎゃ": {"gya"}, "ぎゅ": {"gyu"}, "ぎょ": {"gyo"},
	"じゃ": {"ja", "jya", "zya"}, "じゅ": {"ju", "jyu", "zyu"}, "じょ": {"jo", "jyo", "zyo"},
	"ぢゃ": {"dya"}, "ぢゅ": {"dyu"}, "ぢょ": {"dyo"},
	"びゃ": {"bya"}, "びゅ": {"byu"}, "びょ": {"byo"},
	"ぴゃ": {"pya"}, "ぴゅ": {"pyu"}, "ぴょ": {"pyo"},

	"しぇ": {"she", "sye"}, "ちぇ": {"che", "tye", "cye"}, "じぇ": {"je", "jye", "zye"},
	"うぃ": {"wi", "uxi"}, "うぇ": {"we", "uxe"}, "うぉ": {"wo", "who", "uxo"},
	"てぃ": {"thi", "texi"}, "でぃ": {"dhi", "dexi"},
	"てゅ": {"thu", "texyu"}, "でゅ": {"dhu", "dexyu"},
	"とぅ": {"twu", "toxu"}, "どぅ": {"dwu", "doxu"},
	"つぁ": {"tsa", "tsuxa"}, "つぃ": {"tsi", "tsuxi"}, "つぇ": {"tse", "tsuxe"}, "つぉ": {"tso", "tsuxo"},
	"ふぁ": {"fa", "fwa", "huxa"}, "ふぃ": {"fi", "fwi", "huxi"}, "ふぇ": {"fe", "fwe", "huxe"}, "ふぉ": {"fo", "fwo", "huxo"},
	"ふゅ": {"fyu", "huxyu"},
	"ゔぁ": {"va"}, "ゔぃ": {"vi"}, "ゔ": {"vu"}, "ゔぇ": {"ve"}, "ゔぉ": {"vo"},
	"いぇ": {"ye", "ixe"},
	"くぁ": {"kwa", "qa"}, "ぐぁ": {"gwa"},

	"。": {"."}, "、": {","}, "「": {"["}, "」": {"]"}, "・": {"/"}, "〜": {"~"},
}

var roles = map[string]Role{
	"っ": RoleGeminate,
	"ん": RoleNasal,
}

// nasalFollowers are the leading letters after which a single-letter nasal
// would be read as part of the next syllable.
var nasalFollowers = map[byte]struct{}{
	'a': {}, 'i': {}, 'u': {}, 'e': {}, 'o': {}, 'y': {}, 'n': {},
}

// Lookup returns the accepted spellings for a kana grapheme, canonical first.
// The returned slice is a copy. A missing key means the grapheme has no
// table entry and should be typed literally.
func Lookup(kana string) ([]string, bool) {
	s, ok := spellings[normalize(kana)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(s))
	copy(out, s)
	return out, true
}

// RoleOf reports the role of a kana grapheme.
func RoleOf(kana string) Role {
	return roles[normalize(kana)]
}

// RequiresDoubleNasal reports whether a moraic nasal placed before a unit with
// these spellings has to be typed with the doubled form.
func RequiresDoubleNasal(next []string) bool {
	for _, s := range next {
		if s == "" {
			continue
		}
		if _, ok := nasalFollowers[s[0]]; ok {
			return true
		}
	}
	return false
}

// Katakana ァ..ヶ sits 0x60 above the matching hiragana.
const (
	katakanaFirst = 'ァ'
	katakanaLast  = 'ヶ'
	kanaOffset    = 0x60
)

// normalize folds half-width katakana to full width and katakana to hiragana.
func normalize(s string) string {
	return toHiragana(width.Fold.String(s))
}

func toHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= katakanaFirst && r <= katakanaLast {
			return r - kanaOffset
		}
		return r
	}, s)
}
