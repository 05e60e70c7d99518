// Package storage persists level progress and finished runs in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/milk9111/slingshot/session"
)

// FirstLevel is always unlocked.
const FirstLevel = 1

var ErrInvalidLevel = errors.New("storage: invalid level")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run is one finished session.
type Run struct {
	ID              int64
	Level           int
	Outcome         session.Outcome
	Score           int
	ProjectilesLeft int
	Duration        time.Duration
	Journal         []session.Signal
	CreatedAt       time.Time
}

// NewRun captures a finished session as a Run ready to record.
func NewRun(snap session.Snapshot, journal []session.Signal) Run {
	return Run{
		Level:           snap.Level,
		Outcome:         snap.Outcome,
		Score:           snap.Score,
		ProjectilesLeft: snap.ProjectilesRemaining,
		Duration:        snap.Elapsed,
		Journal:         journal,
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS progress (
			level INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			projectiles_left INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			journal BLOB,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level);

		CREATE TABLE IF NOT EXISTS best_scores (
			level INTEGER PRIMARY KEY,
			score INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// UnlockedLevels returns the unlocked level ids in ascending order. The first
// level is unlocked even on an empty database.
func (s *Store) UnlockedLevels(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT level FROM progress ORDER BY level")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	levels := []int{}
	hasFirst := false
	for rows.Next() {
		var level int
		if err := rows.Scan(&level); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if level == FirstLevel {
			hasFirst = true
		}
		levels = append(levels, level)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	if !hasFirst {
		levels = append([]int{FirstLevel}, levels...)
	}
	return levels, nil
}

// IsUnlocked reports whether level can be played.
func (s *Store) IsUnlocked(ctx context.Context, level int) (bool, error) {
	if level == FirstLevel {
		return true, nil
	}
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM progress WHERE level = ?", level).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	return n > 0, nil
}

// Unlock adds level to the unlocked set. Unlocking twice is a no-op.
func (s *Store) Unlock(ctx context.Context, level int) error {
	if level < FirstLevel {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	if _, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO progress (level) VALUES (?)", level); err != nil {
		return fmt.Errorf("storage: cannot unlock level %d: %w", level, err)
	}
	return nil
}

// CompleteLevel unlocks the level after level, unless level was the last.
// It reports whether a new level became available.
func (s *Store) CompleteLevel(ctx context.Context, level, maxLevel int) (bool, error) {
	next := level + 1
	if next > maxLevel {
		return false, nil
	}
	unlocked, err := s.IsUnlocked(ctx, next)
	if err != nil {
		return false, err
	}
	if unlocked {
		return false, nil
	}
	if err := s.Unlock(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// ResetProgress locks every level but the first.
func (s *Store) ResetProgress(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM progress"); err != nil {
		return fmt.Errorf("storage: cannot reset progress: %w", err)
	}
	return nil
}

// RecordRun stores a finished run with its journal and, for a win, raises
// the level's best score. Returns the ID of the inserted record.
func (s *Store) RecordRun(ctx context.Context, run Run) (int64, error) {
	journal, err := msgpack.Marshal(run.Journal)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode journal: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (level, outcome, score, projectiles_left, duration_ms, journal)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.Level, run.Outcome.String(), run.Score, run.ProjectilesLeft, run.Duration.Milliseconds(), journal,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	if run.Outcome == session.OutcomeWon {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO best_scores (level, score) VALUES (?, ?)
			 ON CONFLICT(level) DO UPDATE SET
			   score = max(score, excluded.score),
			   updated_at = CURRENT_TIMESTAMP`,
			run.Level, run.Score,
		)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot update best score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

// Runs returns the most recent runs, newest first, journals decoded.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, level, outcome, score, projectiles_left, duration_ms, journal, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			outcome    string
			durationMS int64
			journal    []byte
			createdAt  any
		)
		if err := rows.Scan(&run.ID, &run.Level, &outcome, &run.Score, &run.ProjectilesLeft, &durationMS, &journal, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		run.Outcome = session.ParseOutcome(outcome)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		if len(journal) > 0 {
			if err := msgpack.Unmarshal(journal, &run.Journal); err != nil {
				return nil, fmt.Errorf("storage: cannot decode journal of run %d: %w", run.ID, err)
			}
		}
		run.CreatedAt = parseTime(createdAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// BestScore returns the best winning score for level, or 0.
func (s *Store) BestScore(ctx context.Context, level int) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT score FROM best_scores WHERE level = ?", level).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// parseTime handles the driver returning either time.Time or text.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
