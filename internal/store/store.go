// Package store keeps the run log of the current process in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/verte-zerg/stamina/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store wraps SQLite access for run data.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and applies migrations. Use MemoryPath
// for a log that disappears with the process.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Every new connection to :memory: is a different database.
	db.SetMaxOpenConns(1)
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			difficulty INTEGER NOT NULL,
			sequence_length INTEGER NOT NULL,
			characters_typed INTEGER NOT NULL,
			errors_count INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_letter_stats (
			run_id INTEGER NOT NULL,
			letter TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (run_id, letter)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_run_letter_stats_letter ON run_letter_stats(letter);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// InsertRun stores a completed run and its per-letter stats.
func (s *Store) InsertRun(ctx context.Context, run model.RunStats, letters []model.LetterStats) (id int64, err error) {
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
		`INSERT INTO runs (started_at, ended_at, difficulty, sequence_length, characters_typed, errors_count, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Format(time.RFC3339Nano),
		run.EndedAt.Format(time.RFC3339Nano),
		run.Difficulty,
		run.SequenceLength,
		run.CharactersTyped,
		run.ErrorsCount,
		run.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(letters) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO run_letter_stats (run_id, letter, correct, incorrect, latency_sum_ms, latency_count)
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
		for _, ls := range letters {
			if _, err = stmt.ExecContext(ctx, id, ls.Letter, ls.Correct, ls.Incorrect, ls.LatencySumMs, ls.LatencyCount); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns all runs in completion order.
func (s *Store) ListRuns(ctx context.Context) ([]model.RunAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ended_at, difficulty, characters_typed, errors_count, duration_ms
		 FROM runs
		 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunAggregate
	for rows.Next() {
		var agg model.RunAggregate
		var endedAt string
		if err := rows.Scan(&agg.RunID, &endedAt, &agg.Difficulty, &agg.CharactersTyped, &agg.ErrorsCount, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		runs = append(runs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// LetterAggregates sums letter stats over the most recent window runs.
// A window of 0 or less covers every run.
func (s *Store) LetterAggregates(ctx context.Context, window int) ([]model.LetterAggregate, error) {
	limit := window
	if limit <= 0 {
		limit = -1
	}
	query := `WITH recent_runs AS (
		SELECT id FROM runs
		ORDER BY id DESC
		LIMIT ?
	)
	SELECT ls.letter, SUM(ls.correct), SUM(ls.incorrect),
		SUM(ls.latency_sum_ms), SUM(ls.latency_count)
	FROM run_letter_stats ls
	JOIN recent_runs r ON r.id = ls.run_id
	GROUP BY ls.letter
	ORDER BY ls.letter`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LetterAggregate
	for rows.Next() {
		var agg model.LetterAggregate
		if err := rows.Scan(&agg.Letter, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountRuns returns the number of recorded runs.
func (s *Store) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
