// Package session drives one typing problem keystroke by keystroke.
package session

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/romaji"
	"github.com/verte-zerg/kanatype/internal/stats"
)

// MistakePolicy decides what happens to pending input after a rejected key.
type MistakePolicy int

const (
	// ResetPending clears pending input, so the unit is retyped from scratch.
	ResetPending MistakePolicy = iota
	// KeepPending leaves pending input untouched; only the bad key is dropped.
	KeepPending
)

func (p MistakePolicy) String() string {
	if p == KeepPending {
		return "keep"
	}
	return "reset"
}

// ParseMistakePolicy parses "reset" or "keep".
func ParseMistakePolicy(s string) (MistakePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reset":
		return ResetPending, nil
	case "keep":
		return KeepPending, nil
	default:
		return ResetPending, fmt.Errorf("unknown mistake policy %q (want reset or keep)", s)
	}
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the wall clock used for timing.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithMistakePolicy sets the pending-input policy for rejected keys.
func WithMistakePolicy(p MistakePolicy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

type unitStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// Session holds the typing state of a single problem. It is not safe for
// concurrent use.
type Session struct {
	now    func() time.Time
	policy MistakePolicy

	problem  model.Problem
	units    []romaji.Unit
	cursor   int
	pending  string
	finished bool
	mistakes int

	started    bool
	startedAt  time.Time
	elapsed    time.Duration
	prevKeyAt  time.Time
	unitTotals map[string]*unitStat
}

// New creates a session for the problem.
func New(p model.Problem, opts ...Option) *Session {
	s := &Session{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.Load(p)
	return s
}

// Load replaces the current problem and resets all counters.
func (s *Session) Load(p model.Problem) {
	s.problem = p
	s.units = romaji.Segment(p.Kana)
	s.cursor = 0
	s.pending = ""
	s.finished = len(s.units) == 0
	s.mistakes = 0
	s.started = false
	s.startedAt = time.Time{}
	s.elapsed = 0
	s.prevKeyAt = time.Time{}
	s.unitTotals = map[string]*unitStat{}
}

// SubmitKey feeds one key to the session. It returns false when the key was
// rejected; rejected keys only bump the mistake count.
func (s *Session) SubmitKey(key string) bool {
	if s.finished || key == "" {
		return true
	}
	now := s.now()
	if !s.started {
		s.started = true
		s.startedAt = now
	}

	// A pending single-letter nasal may be resolved once, after which the key
	// is retried against the next unit.
	for retried := false; ; retried = true {
		unit := &s.units[s.cursor]
		attempt := s.pending + key
		switch romaji.Validate(attempt, unit.Spellings) {
		case romaji.Correct:
			s.recordHit(unit.Kana, now)
			s.complete(attempt, now)
			return true
		case romaji.InProgress:
			s.recordHit(unit.Kana, now)
			s.pending = attempt
			if s.cursor == len(s.units)-1 && unit.Role == romaji.RoleNasal && attempt == unit.Default() {
				s.complete(attempt, now)
			}
			return true
		}
		if !retried && s.nasalEndsHere(key) {
			s.complete(s.pending, now)
			continue
		}
		s.recordMiss(unit.Kana)
		return false
	}
}

// nasalEndsHere reports whether a pending single-letter nasal should be
// completed because key starts the next unit instead.
func (s *Session) nasalEndsHere(key string) bool {
	unit := s.units[s.cursor]
	if unit.Role != romaji.RoleNasal || s.pending != unit.Default() {
		return false
	}
	if s.cursor+1 >= len(s.units) {
		return false
	}
	next := s.units[s.cursor+1].Spellings
	if romaji.RequiresDoubleNasal(next) {
		return false
	}
	return lo.SomeBy(next, func(sp string) bool { return strings.HasPrefix(sp, key) })
}

func (s *Session) complete(typed string, now time.Time) {
	if s.cursor >= len(s.units) {
		panic("session: cursor advanced past the last unit")
	}
	unit := &s.units[s.cursor]
	if unit.Completed {
		panic(fmt.Sprintf("session: unit %d (%q) completed twice", s.cursor, unit.Kana))
	}
	unit.Romaji = typed
	unit.Completed = true
	s.pending = ""
	s.cursor++
	if s.cursor == len(s.units) {
		s.finished = true
		s.elapsed = now.Sub(s.startedAt)
	}
}

func (s *Session) recordHit(kana string, now time.Time) {
	entry := s.unitEntry(kana)
	entry.correct++
	if !s.prevKeyAt.IsZero() {
		entry.latencySumMs += now.Sub(s.prevKeyAt).Milliseconds()
		entry.latencyCount++
	}
	s.prevKeyAt = now
}

// Every rejected key counts once, whether or not input was pending.
func (s *Session) recordMiss(kana string) {
	s.mistakes++
	s.unitEntry(kana).incorrect++
	if s.policy == ResetPending {
		s.pending = ""
	}
}

func (s *Session) unitEntry(kana string) *unitStat {
	entry, ok := s.unitTotals[kana]
	if !ok {
		entry = &unitStat{}
		s.unitTotals[kana] = entry
	}
	return entry
}

// Problem returns the loaded problem.
func (s *Session) Problem() model.Problem {
	return s.problem
}

// Units returns a copy of the segmented units.
func (s *Session) Units() []romaji.Unit {
	out := make([]romaji.Unit, len(s.units))
	copy(out, s.units)
	return out
}

// Cursor returns the index of the unit being typed.
func (s *Session) Cursor() int {
	return s.cursor
}

// Pending returns the keys typed toward the current unit.
func (s *Session) Pending() string {
	return s.pending
}

// Finished reports whether every unit has been typed.
func (s *Session) Finished() bool {
	return s.finished
}

// Mistakes returns the number of rejected keys.
func (s *Session) Mistakes() int {
	return s.mistakes
}

// Started reports whether any key has been submitted.
func (s *Session) Started() bool {
	return s.started
}

// Elapsed returns time from the first key to completion, or to now while the
// problem is still being typed.
func (s *Session) Elapsed() time.Duration {
	switch {
	case s.finished:
		return s.elapsed
	case s.started:
		return s.now().Sub(s.startedAt)
	default:
		return 0
	}
}

// Typed returns the romaji of completed units.
func (s *Session) Typed() string {
	return joinRomaji(s.units[:s.cursor])
}

// Full returns the romaji of all units, typed spellings for completed units
// and canonical spellings for the rest.
func (s *Session) Full() string {
	return joinRomaji(s.units)
}

// Remaining returns the romaji still to be typed.
func (s *Session) Remaining() string {
	current, future := s.Upcoming()
	return current + future
}

// Upcoming splits the remaining romaji into the rest of the current unit and
// the canonical romaji of the units after it.
func (s *Session) Upcoming() (current, future string) {
	if s.finished {
		return "", ""
	}
	unit := s.units[s.cursor]
	current = unit.Romaji
	if s.pending != "" {
		current = ""
		best, ok := lo.Find(append([]string{unit.Romaji}, unit.Spellings...), func(sp string) bool {
			return strings.HasPrefix(sp, s.pending)
		})
		if ok {
			current = best[len(s.pending):]
		}
	}
	return current, joinRomaji(s.units[s.cursor+1:])
}

// Metrics returns words per minute and accuracy (0-1) for a finished problem.
func (s *Session) Metrics() (wpm, accuracy float64) {
	if !s.finished {
		return 0, 0
	}
	typed := utf8.RuneCountInString(s.Typed())
	wpm, _, accuracy = stats.SessionMetrics(typed, s.mistakes, s.elapsed.Milliseconds())
	return wpm, accuracy
}

// KanaStats returns per-kana keystroke stats sorted by kana.
func (s *Session) KanaStats() []model.KanaStats {
	out := make([]model.KanaStats, 0, len(s.unitTotals))
	for kana, entry := range s.unitTotals {
		out = append(out, model.KanaStats{
			Kana:         kana,
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kana < out[j].Kana })
	return out
}

func joinRomaji(units []romaji.Unit) string {
	var b strings.Builder
	for _, u := range units {
		b.WriteString(u.Romaji)
	}
	return b.String()
}
