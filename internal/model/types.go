// Package model defines shared data structures.
package model

import "time"

// Problem is one prompt: the text shown to the user and its kana reading.
type Problem struct {
	Display string `toml:"display"`
	Kana    string `toml:"kana"`
}

// Config defines practice settings.
type Config struct {
	Category      string
	Count         int
	ProblemsPath  string
	MistakePolicy string
	FocusWeak     bool
	WeakTop       int
	WeakFactor    float64
	WeakWindow    int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Category    string
	Since       *time.Time
	Last        int
	CurveWindow int
	Kana        string
}

// SessionStats captures a completed practice run.
type SessionStats struct {
	StartedAt     time.Time
	EndedAt       time.Time
	Category      string
	Problems      int
	MistakePolicy string
	Correct       int
	Incorrect     int
	DurationMs    int64
}

// KanaStats stores per-kana stats for a session.
type KanaStats struct {
	Kana         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// KanaAggregate aggregates kana stats across sessions.
type KanaAggregate struct {
	Kana         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Correct    int
	Incorrect  int
	DurationMs int64
}
