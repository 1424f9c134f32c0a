package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/kanatype/internal/config"
	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/problem"
	"github.com/verte-zerg/kanatype/internal/store"
)

func TestValidateConfig(t *testing.T) {
	good := model.Config{Count: 10, WeakTop: 8, WeakFactor: 2, WeakWindow: 20}
	if err := validateConfig(good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := []model.Config{
		{Count: 0},
		{Count: 1, WeakTop: -1},
		{Count: 1, WeakFactor: -0.5},
		{Count: 1, WeakWindow: -1},
	}
	for _, cfg := range bad {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestDefaultConfigTemplateUncommented(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
	if cfg.Practice.Count == nil || *cfg.Practice.Count != defaultCount {
		t.Fatalf("unexpected count: %v", cfg.Practice.Count)
	}
	if cfg.Practice.MistakePolicy == nil || *cfg.Practice.MistakePolicy != defaultMistakePolicy {
		t.Fatalf("unexpected mistake policy: %v", cfg.Practice.MistakePolicy)
	}
}

func TestLoadCategoriesFallsBackToBuiltin(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	categories, err := loadCategories("")
	if err != nil {
		t.Fatalf("loadCategories failed: %v", err)
	}
	if len(categories) != len(problem.Builtin()) {
		t.Fatalf("expected built-in bank, got %d categories", len(categories))
	}
	if _, err := loadCategories(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing explicit bank")
	}
}

func TestCurveKana(t *testing.T) {
	got := curveKana("きゃし、きゃ", nil)
	if strings.Join(got, " ") != "きゃ し" {
		t.Fatalf("unexpected kana: %v", got)
	}
	aggs := []model.KanaAggregate{
		{Kana: "か", Correct: 10},
		{Kana: "し", Correct: 3},
	}
	if got := curveKana("", aggs); len(got) != 2 || got[0] != "か" {
		t.Fatalf("unexpected fallback kana: %v", got)
	}
}

func TestPrintStats(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "kanatype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()

	var out bytes.Buffer
	cfg := model.StatsConfig{CurveWindow: 5}
	if err := printStats(context.Background(), &out, st, cfg, 40); err != nil {
		t.Fatalf("printStats failed: %v", err)
	}
	if !strings.Contains(out.String(), "No sessions") {
		t.Fatalf("expected empty notice, got %q", out.String())
	}

	at := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	_, err = st.InsertSession(context.Background(), model.SessionStats{
		StartedAt:     at,
		EndedAt:       at.Add(time.Minute),
		Category:      "words",
		Problems:      2,
		MistakePolicy: "reset",
		Correct:       50,
		Incorrect:     5,
		DurationMs:    60000,
	}, []model.KanaStats{{Kana: "か", Correct: 20, Incorrect: 2, LatencySumMs: 3000, LatencyCount: 15}})
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	out.Reset()
	if err := printStats(context.Background(), &out, st, cfg, 40); err != nil {
		t.Fatalf("printStats failed: %v", err)
	}
	if !strings.Contains(out.String(), "か") || !strings.Contains(out.String(), "Per-Kana Curves") {
		t.Fatalf("unexpected stats output: %s", out.String())
	}
}
