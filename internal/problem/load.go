package problem

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"

	"github.com/verte-zerg/kanatype/internal/model"
)

// AllCategories selects every category.
const AllCategories = "all"

type bankFile struct {
	Category []Category `toml:"category"`
}

// LoadFile reads a TOML problem bank:
//
//	[[category]]
//	name = "words"
//	[[category.problem]]
//	display = "桜"
//	kana = "さくら"
func LoadFile(path string) ([]Category, error) {
	var bank bankFile
	if _, err := toml.DecodeFile(path, &bank); err != nil {
		return nil, fmt.Errorf("failed to decode problem bank: %w", err)
	}
	categories := make([]Category, 0, len(bank.Category))
	for _, c := range bank.Category {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("problem bank %s: category without a name", path)
		}
		problems := lo.Filter(c.Problems, func(p model.Problem, _ int) bool {
			return strings.TrimSpace(p.Kana) != ""
		})
		if len(problems) == 0 {
			continue
		}
		categories = append(categories, Category{Name: name, Problems: problems})
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("problem bank is empty")
	}
	return categories, nil
}

// Select returns the problems of the named category, or of every category
// when name is empty or "all".
func Select(categories []Category, name string) ([]model.Problem, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" || name == AllCategories {
		return lo.FlatMap(categories, func(c Category, _ int) []model.Problem {
			return c.Problems
		}), nil
	}
	for _, c := range categories {
		if strings.ToLower(c.Name) == name {
			return c.Problems, nil
		}
	}
	return nil, fmt.Errorf("unknown category %q (available: %s)", name, strings.Join(Names(categories), ", "))
}

// Names returns the sorted category names.
func Names(categories []Category) []string {
	names := lo.Map(categories, func(c Category, _ int) string { return c.Name })
	sort.Strings(names)
	return names
}

// Exists reports whether path points to an existing file.
func Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat problem bank: %w", err)
	}
	return true, nil
}
