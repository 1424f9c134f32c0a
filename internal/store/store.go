// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/kanatype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for practice runs and per-kana stats.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			category TEXT NOT NULL,
			problems INTEGER NOT NULL,
			mistake_policy TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_kana_stats (
			session_id INTEGER NOT NULL,
			kana TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (session_id, kana)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_kana_stats_kana ON session_kana_stats(kana);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed run and its per-kana stats.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats, kana []model.KanaStats) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, category, problems, mistake_policy, correct, incorrect, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		stats.Category,
		stats.Problems,
		stats.MistakePolicy,
		stats.Correct,
		stats.Incorrect,
		stats.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(kana) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_kana_stats (session_id, kana, correct, incorrect, latency_sum_ms, latency_count)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, ks := range kana {
			if _, err = stmt.ExecContext(ctx, id, ks.Kana, ks.Correct, ks.Incorrect, ks.LatencySumMs, ks.LatencyCount); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetWeakKana aggregates kana stats over the most recent sessions.
func (s *Store) GetWeakKana(ctx context.Context, window int, category string) ([]model.KanaAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR category = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT ks.kana, SUM(ks.correct) AS correct, SUM(ks.incorrect) AS incorrect,
		SUM(ks.latency_sum_ms) AS latency_sum_ms, SUM(ks.latency_count) AS latency_count
	FROM session_kana_stats ks
	JOIN recent_sessions r ON r.id = ks.session_id
	GROUP BY ks.kana`

	return s.queryKanaAggregates(ctx, query, category, category, window)
}

// ListSessions returns session aggregates filtered by stats config.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, cfg.Category)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, correct, incorrect, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Correct, &agg.Incorrect, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListKanaAggregatesForSessions aggregates per-kana stats across sessions.
func (s *Store) ListKanaAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.KanaAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(sessionIDs)
	query := fmt.Sprintf(`SELECT kana, SUM(correct) AS correct, SUM(incorrect) AS incorrect,
		SUM(latency_sum_ms) AS latency_sum_ms, SUM(latency_count) AS latency_count
		FROM session_kana_stats
		WHERE session_id IN (%s)
		GROUP BY kana`, placeholders)
	return s.queryKanaAggregates(ctx, query, args...)
}

// ListKanaStatsForSessions returns per-session stats for selected kana.
func (s *Store) ListKanaStatsForSessions(ctx context.Context, sessionIDs []int64, kana []string) (map[int64]map[string]model.KanaAggregate, error) {
	result := map[int64]map[string]model.KanaAggregate{}
	if len(sessionIDs) == 0 || len(kana) == 0 {
		return result, nil
	}
	idPlaceholders, args := inClause(sessionIDs)
	kanaPlaceholders, kanaArgs := inClause(kana)
	args = append(args, kanaArgs...)

	query := fmt.Sprintf(`SELECT session_id, kana, correct, incorrect, latency_sum_ms, latency_count
		FROM session_kana_stats
		WHERE session_id IN (%s) AND kana IN (%s)`, idPlaceholders, kanaPlaceholders)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	for rows.Next() {
		var sessionID int64
		var agg model.KanaAggregate
		if err := rows.Scan(&sessionID, &agg.Kana, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		if _, ok := result[sessionID]; !ok {
			result[sessionID] = map[string]model.KanaAggregate{}
		}
		result[sessionID][agg.Kana] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) queryKanaAggregates(ctx context.Context, query string, args ...any) ([]model.KanaAggregate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.KanaAggregate
	for rows.Next() {
		var agg model.KanaAggregate
		if err := rows.Scan(&agg.Kana, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func inClause[T any](values []T) (string, []any) {
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}
	return strings.Join(placeholders, ","), args
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}
