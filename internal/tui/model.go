// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kanatype/internal/generator"
	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/problem"
	"github.com/verte-zerg/kanatype/internal/session"
	statsPkg "github.com/verte-zerg/kanatype/internal/stats"
	"github.com/verte-zerg/kanatype/internal/store"
)

type kanaStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

type keyMap struct {
	Skip key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Skip, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Skip: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "skip problem")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config            model.Config
	store             *store.Store
	gen               *generator.Generator
	problems          []model.Problem
	policy            session.MistakePolicy
	weakSet           map[string]struct{}
	weakNoticePrinted bool

	keys keyMap
	help help.Model

	width  int
	height int

	queue    []model.Problem
	index    int
	sess     *session.Session
	rejected bool

	started    bool
	startedAt  time.Time
	completed  int
	correct    int
	incorrect  int
	durationMs int64
	kanaStats  map[string]*kanaStat

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM       float64
	allAcc       float64
	allCorrect   int
	allIncorrect int
	allDuration  int64
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentUnitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	inputStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#E8C468")).Bold(true)
	cursorStyle      = currentUnitStyle.Underline(true)
	missStyle        = incorrectStyle.Underline(true)
	displayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	kanaStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, store *store.Store, gen *generator.Generator, problems []model.Problem, policy session.MistakePolicy, weakSet map[string]struct{}, weakNoticePrinted bool) *Model {
	m := &Model{
		config:            cfg,
		store:             store,
		gen:               gen,
		problems:          problems,
		policy:            policy,
		weakSet:           weakSet,
		weakNoticePrinted: weakNoticePrinted,
		keys:              defaultKeyMap(),
		help:              help.New(),
	}
	m.resetRun()
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Skip):
			m.advance()
			return m, nil
		}
		switch msg.Type {
		case tea.KeySpace:
			m.handleRunes([]rune{' '})
		case tea.KeyRunes:
			m.handleRunes(msg.Runes)
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.sess == nil {
		return ""
	}
	p := m.sess.Problem()
	current, future := m.sess.Upcoming()
	styledRunes := buildStyledRunes(m.sess.Typed(), m.sess.Pending(), current, future, m.rejected)
	header := displayStyle.Render(p.Display) + "\n" + kanaStyle.Render(p.Kana) + "\n\n"
	if m.width == 0 || m.height == 0 {
		return header + renderStyledRunes(styledRunes)
	}
	contentWidth := max(int(float64(m.width)*0.70), 1)
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(header + wrapped)
	footer := m.renderFooter()
	if footer == "" || m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 2
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	helpLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.help.View(m.keys))
	return body + "\n" + footerLine + "\n" + helpLine
}

func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		if !m.started {
			m.started = true
			m.startedAt = time.Now()
		}
		m.rejected = !m.sess.SubmitKey(string(r))
		if m.sess.Finished() {
			m.finishProblem()
		}
	}
}

func (m *Model) finishProblem() {
	m.completed++
	m.correct += utf8.RuneCountInString(m.sess.Typed())
	m.incorrect += m.sess.Mistakes()
	m.durationMs += m.sess.Elapsed().Milliseconds()
	for _, ks := range m.sess.KanaStats() {
		entry := m.kanaEntry(ks.Kana)
		entry.correct += ks.Correct
		entry.incorrect += ks.Incorrect
		entry.latencySumMs += ks.LatencySumMs
		entry.latencyCount += ks.LatencyCount
	}
	m.advance()
}

// advance moves to the next problem, closing the run after the last one.
func (m *Model) advance() {
	m.rejected = false
	m.index++
	if m.index < len(m.queue) {
		m.sess.Load(m.queue[m.index])
		return
	}
	m.finishRun()
	m.resetRun()
}

func (m *Model) kanaEntry(kana string) *kanaStat {
	if m.kanaStats == nil {
		m.kanaStats = map[string]*kanaStat{}
	}
	entry, ok := m.kanaStats[kana]
	if !ok {
		entry = &kanaStat{}
		m.kanaStats[kana] = entry
	}
	return entry
}

func (m *Model) loadFooterStats() {
	ctx := context.Background()
	sessions, err := m.store.ListSessions(ctx, model.StatsConfig{Category: m.category()})
	if err != nil {
		logErrf("failed to load session stats: %v\n", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	wpm, _, acc := statsPkg.SessionMetrics(last.Correct, last.Incorrect, last.DurationMs)
	m.lastWPM = wpm
	m.lastAcc = acc
	m.hasLast = true

	for _, s := range sessions {
		m.allCorrect += s.Correct
		m.allIncorrect += s.Incorrect
		m.allDuration += s.DurationMs
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	wpm, _, acc := statsPkg.SessionMetrics(m.allCorrect, m.allIncorrect, m.allDuration)
	m.allWPM = wpm
	m.allAcc = acc
}

func (m *Model) renderFooter() string {
	if len(m.queue) == 0 {
		return ""
	}
	segments := []string{
		fmt.Sprintf("Problem %d/%d", min(m.index+1, len(m.queue)), len(m.queue)),
		fmt.Sprintf("Mistakes %d", m.incorrect+m.sess.Mistakes()),
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100))
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc*100))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) resetRun() {
	m.started = false
	m.startedAt = time.Time{}
	m.completed = 0
	m.correct = 0
	m.incorrect = 0
	m.durationMs = 0
	m.kanaStats = map[string]*kanaStat{}
	m.rejected = false

	m.queue = m.generateQueue()
	m.index = 0
	if len(m.queue) == 0 {
		m.sess = nil
		return
	}
	m.sess = session.New(m.queue[0], session.WithMistakePolicy(m.policy))
}

func (m *Model) generateQueue() []model.Problem {
	if m.config.FocusWeak && len(m.weakSet) > 0 {
		return m.gen.PickWeighted(m.problems, m.config.Count, m.weakSet, m.config.WeakFactor)
	}
	return m.gen.Pick(m.problems, m.config.Count)
}

func (m *Model) category() string {
	if m.config.Category == "" {
		return problem.AllCategories
	}
	return m.config.Category
}

func (m *Model) finishRun() {
	if !m.started || m.completed == 0 {
		return
	}
	endedAt := time.Now()
	stats := model.SessionStats{
		StartedAt:     m.startedAt,
		EndedAt:       endedAt,
		Category:      m.category(),
		Problems:      m.completed,
		MistakePolicy: m.policy.String(),
		Correct:       m.correct,
		Incorrect:     m.incorrect,
		DurationMs:    m.durationMs,
	}

	kanaStats := make([]model.KanaStats, 0, len(m.kanaStats))
	for kana, entry := range m.kanaStats {
		kanaStats = append(kanaStats, model.KanaStats{
			Kana:         kana,
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}

	ctx := context.Background()
	if _, err := m.store.InsertSession(ctx, stats, kanaStats); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
	wpm, _, acc := statsPkg.SessionMetrics(stats.Correct, stats.Incorrect, stats.DurationMs)
	m.lastWPM = wpm
	m.lastAcc = acc
	m.hasLast = true
	m.allCorrect += stats.Correct
	m.allIncorrect += stats.Incorrect
	m.allDuration += stats.DurationMs
	m.recomputeAllTime()

	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) refreshWeakSet() {
	ctx := context.Background()
	aggs, err := m.store.GetWeakKana(ctx, m.config.WeakWindow, m.category())
	if err != nil {
		logErrf("failed to load weak kana: %v\n", err)
		return
	}
	if len(aggs) == 0 {
		if !m.weakNoticePrinted {
			logErrln("no stats available for weak-kana focus yet; using uniform selection")
			m.weakNoticePrinted = true
		}
		m.weakSet = map[string]struct{}{}
		return
	}
	m.weakSet = statsPkg.SelectWeakKana(aggs, m.config.WeakTop)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
