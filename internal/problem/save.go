package problem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/kanatype/internal/model"
)

// SaveFile writes categories as a TOML problem bank, replacing path atomically.
func SaveFile(path string, categories []Category) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create problem bank dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "problems-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp problem bank: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := toml.NewEncoder(tmpFile).Encode(bankFile{Category: categories}); err != nil {
		return fmt.Errorf("failed to encode problem bank: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close problem bank: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write problem bank: %w", err)
	}
	return nil
}

// Append adds problems to the named category, creating it when missing.
func Append(categories []Category, name string, problems []model.Problem) []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	for i, c := range out {
		if strings.EqualFold(c.Name, name) {
			merged := make([]model.Problem, 0, len(c.Problems)+len(problems))
			merged = append(merged, c.Problems...)
			out[i].Problems = append(merged, problems...)
			return out
		}
	}
	return append(out, Category{Name: name, Problems: problems})
}
