package problem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/kanatype/internal/model"
)

func writeBank(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "problems.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write bank: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeBank(t, `
[[category]]
name = "animals"

[[category.problem]]
display = "猫"
kana = "ねこ"

[[category.problem]]
display = "犬"
kana = "いぬ"

[[category]]
name = "empty"
`)
	categories, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "animals" {
		t.Fatalf("unexpected categories: %+v", categories)
	}
	if got := categories[0].Problems; len(got) != 2 || got[1] != (model.Problem{Display: "犬", Kana: "いぬ"}) {
		t.Fatalf("unexpected problems: %+v", got)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := LoadFile(writeBank(t, "")); err == nil {
		t.Fatalf("expected error for empty bank")
	}
	if _, err := LoadFile(writeBank(t, "[[category]]\n[[category.problem]]\nkana = \"ねこ\"\n")); err == nil {
		t.Fatalf("expected error for unnamed category")
	}
	if _, err := LoadFile(writeBank(t, "not = [valid")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSelect(t *testing.T) {
	categories := Builtin()
	all, err := Select(categories, "")
	if err != nil {
		t.Fatalf("select all: %v", err)
	}
	total := 0
	for _, c := range categories {
		total += len(c.Problems)
	}
	if len(all) != total {
		t.Fatalf("expected %d problems, got %d", total, len(all))
	}
	words, err := Select(categories, "Words")
	if err != nil || len(words) != 8 {
		t.Fatalf("expected 8 words, got %d (%v)", len(words), err)
	}
	_, err = Select(categories, "kanji")
	if err == nil || !strings.Contains(err.Error(), "proverbs") {
		t.Fatalf("expected unknown category error listing names, got %v", err)
	}
}

func TestNames(t *testing.T) {
	got := strings.Join(Names(Builtin()), ",")
	if got != "proverbs,sentences,symbols,words" {
		t.Fatalf("unexpected names: %s", got)
	}
}

func TestBuiltinIsCopied(t *testing.T) {
	b := Builtin()
	b[0].Problems[0].Kana = "x"
	if Builtin()[0].Problems[0].Kana == "x" {
		t.Fatalf("builtin bank was mutated")
	}
}

func TestFilterDropsUntypeable(t *testing.T) {
	problems := []model.Problem{
		{Display: "桜", Kana: "さくら"},
		{Display: "価格は$1,000です。", Kana: "かかくは$1,000です。"},
		{Display: "価格", Kana: "価格"},
		{Display: "", Kana: ""},
		{Display: "ＨＥＬＬＯ", Kana: "ＨＥＬＬＯ　ＷＯＲＬＤ！"},
	}
	got := Filter(problems)
	if len(got) != 3 {
		t.Fatalf("expected 3 typeable problems, got %+v", got)
	}
	if got[2].Display != "ＨＥＬＬＯ" {
		t.Fatalf("full-width problem should stay typeable: %+v", got)
	}
}

func TestBuiltinProblemsTypeable(t *testing.T) {
	for _, c := range Builtin() {
		for _, p := range c.Problems {
			if !Typeable(p) {
				t.Errorf("%s: %q is not typeable", c.Name, p.Kana)
			}
		}
	}
}

func TestAlignSentences(t *testing.T) {
	got, err := AlignSentences("日本は島国です。首都は東京。 ", "にほんはしまぐにです。しゅとはとうきょう。")
	if err != nil {
		t.Fatalf("AlignSentences failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 problems, got %+v", got)
	}
	if got[1].Display != "首都は東京。" || got[1].Kana != "しゅとはとうきょう。" {
		t.Fatalf("unexpected second problem: %+v", got[1])
	}
	if _, err := AlignSentences("一。二。", "いち。"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestExists(t *testing.T) {
	ok, err := Exists(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil || ok {
		t.Fatalf("expected missing file, got %v %v", ok, err)
	}
	ok, err = Exists(writeBank(t, ""))
	if err != nil || !ok {
		t.Fatalf("expected existing file, got %v %v", ok, err)
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "problems.toml")
	categories := Append(nil, "animals", []model.Problem{{Display: "猫", Kana: "ねこ"}})
	categories = Append(categories, "Animals", []model.Problem{{Display: "犬", Kana: "いぬ"}})
	categories = Append(categories, "food", []model.Problem{{Display: "寿司", Kana: "すし"}})
	if err := SaveFile(path, categories); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(loaded) != 2 || len(loaded[0].Problems) != 2 {
		t.Fatalf("unexpected categories: %+v", loaded)
	}
	if loaded[0].Problems[1].Kana != "いぬ" || loaded[1].Name != "food" {
		t.Fatalf("unexpected content: %+v", loaded)
	}
}

func TestAppendDoesNotAlias(t *testing.T) {
	base := []Category{{Name: "words", Problems: []model.Problem{{Kana: "あ"}}}}
	_ = Append(base, "words", []model.Problem{{Kana: "い"}})
	if len(base[0].Problems) != 1 {
		t.Fatalf("Append modified its input")
	}
}
