package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/kanatype/internal/generator"
	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/session"
	"github.com/verte-zerg/kanatype/internal/store"
)

func newTestModel(t *testing.T, problems []model.Problem, count int) (*Model, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "kanatype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	cfg := model.Config{Category: "words", Count: count}
	m := NewModel(cfg, st, generator.NewWithSeed(1), problems, session.ResetPending, nil, false)
	return m, st
}

func sendKeys(m *Model, keys string) {
	for _, r := range keys {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModelCompletesRunAndStoresSession(t *testing.T) {
	m, st := newTestModel(t, []model.Problem{{Display: "桜", Kana: "さくら"}}, 2)
	sendKeys(m, "saku")
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	sendKeys(m, "rasakura")

	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{Category: "words"})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 stored session, got %d", len(sessions))
	}
	if sessions[0].Correct != 12 || sessions[0].Incorrect != 1 {
		t.Fatalf("unexpected stored counts: %+v", sessions[0])
	}
	if !m.hasLast {
		t.Fatalf("expected last-session stats after run")
	}
	if m.index != 0 || m.started || m.sess.Typed() != "" {
		t.Fatalf("expected a fresh run after completion")
	}
	aggs, err := st.GetWeakKana(context.Background(), 5, "words")
	if err != nil {
		t.Fatalf("weak kana: %v", err)
	}
	if len(aggs) != 3 {
		t.Fatalf("expected stats for 3 kana, got %+v", aggs)
	}
}

func TestModelSkipAdvances(t *testing.T) {
	m, st := newTestModel(t, []model.Problem{{Kana: "あ"}}, 2)
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.index != 1 {
		t.Fatalf("expected skip to advance, index %d", m.index)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("skipped run must not be stored, got %d", len(sessions))
	}
}

func TestModelRejectedKeyFlag(t *testing.T) {
	m, _ := newTestModel(t, []model.Problem{{Kana: "か"}}, 1)
	sendKeys(m, "x")
	if !m.rejected {
		t.Fatalf("expected rejected flag after wrong key")
	}
	sendKeys(m, "k")
	if m.rejected {
		t.Fatalf("expected rejected flag cleared after accepted key")
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, []model.Problem{{Kana: "か"}}, 1)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestModelViewShowsProblem(t *testing.T) {
	m, _ := newTestModel(t, []model.Problem{{Display: "桜", Kana: "さくら"}}, 1)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	out := m.View()
	if !containsAll(out, []string{"桜", "さくら", "Problem 1/1", "skip problem"}) {
		t.Fatalf("view missing expected content: %s", out)
	}
}
