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

	"github.com/verte-zerg/tuitrace/internal/letters"
	"github.com/verte-zerg/tuitrace/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for attempts and letter progress.
type Store struct {
	db  *sql.DB
	now func() time.Time
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
	store := &Store{db: db, now: time.Now}
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
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			letter_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			canvas_w REAL NOT NULL,
			canvas_h REAL NOT NULL,
			points INTEGER NOT NULL,
			strokes INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			tier INTEGER NOT NULL,
			coverage REAL NOT NULL,
			precision REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS progress (
			letter_id TEXT PRIMARY KEY,
			high_score INTEGER NOT NULL DEFAULT 0,
			unlocked INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_ended_at ON attempts(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_letter_id ON attempts(letter_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAttempt stores a scored attempt.
func (s *Store) InsertAttempt(ctx context.Context, a model.AttemptStats) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (run_id, letter_id, kind, started_at, ended_at, canvas_w, canvas_h, points, strokes, accuracy, tier, coverage, precision)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.RunID,
		a.LetterID,
		a.Kind,
		a.StartedAt.Format(time.RFC3339Nano),
		a.EndedAt.Format(time.RFC3339Nano),
		a.Canvas.Width,
		a.Canvas.Height,
		a.Points,
		a.Strokes,
		a.Accuracy,
		a.Tier,
		a.Coverage,
		a.Precision,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAttempts returns attempt aggregates filtered by stats config, oldest first.
func (s *Store) ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, cfg.Kind)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, letter_id, started_at, ended_at, accuracy, tier
		FROM attempts
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []model.AttemptAggregate
	for rows.Next() {
		var agg model.AttemptAggregate
		var startedAt, endedAt string
		if err := rows.Scan(&agg.AttemptID, &agg.LetterID, &startedAt, &endedAt, &agg.Accuracy, &agg.Tier); err != nil {
			return nil, err
		}
		start, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, err
		}
		end, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = end
		agg.DurationMs = end.Sub(start).Milliseconds()
		attempts = append(attempts, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// LetterAggregates aggregates attempts per letter across the given attempt ids.
func (s *Store) LetterAggregates(ctx context.Context, attemptIDs []int64) ([]model.LetterAggregate, error) {
	if len(attemptIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(attemptIDs))
	args := make([]any, len(attemptIDs))
	for i, id := range attemptIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT letter_id, COUNT(*) AS attempts, SUM(accuracy) AS accuracy_sum, MAX(tier) AS best_tier
		FROM attempts
		WHERE id IN (%s)
		GROUP BY letter_id`, strings.Join(placeholders, ","))
	return s.queryLetterAggregates(ctx, query, args...)
}

// GetWeakLetters aggregates per-letter accuracy over the most recent attempts.
func (s *Store) GetWeakLetters(ctx context.Context, window int, kind string) ([]model.LetterAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent AS (
		SELECT id FROM attempts
		WHERE (? = '' OR kind = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT a.letter_id, COUNT(*) AS attempts, SUM(a.accuracy) AS accuracy_sum, MAX(a.tier) AS best_tier
	FROM attempts a
	JOIN recent r ON r.id = a.id
	GROUP BY a.letter_id`
	return s.queryLetterAggregates(ctx, query, kind, kind, window)
}

func (s *Store) queryLetterAggregates(ctx context.Context, query string, args ...any) ([]model.LetterAggregate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
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
		if err := rows.Scan(&agg.LetterID, &agg.Attempts, &agg.AccuracySum, &agg.BestTier); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// HighScore returns the best stored tier for a letter, 0 if none.
func (s *Store) HighScore(ctx context.Context, letterID string) (int, error) {
	var tier int
	err := s.db.QueryRowContext(ctx, `SELECT high_score FROM progress WHERE letter_id = ?`, letterID).Scan(&tier)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return tier, nil
}

// SetHighScoreIfHigher stores tier when it beats the current best and reports whether it did.
func (s *Store) SetHighScoreIfHigher(ctx context.Context, letterID string, tier int) (bool, error) {
	if tier <= 0 {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO progress (letter_id, high_score, unlocked, updated_at)
		 VALUES (?, ?, 0, ?)
		 ON CONFLICT(letter_id) DO UPDATE SET high_score = excluded.high_score, updated_at = excluded.updated_at
		 WHERE excluded.high_score > progress.high_score`,
		letterID, tier, s.now().Format(time.RFC3339Nano))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsUnlocked reports whether a letter has been unlocked.
func (s *Store) IsUnlocked(ctx context.Context, letterID string) (bool, error) {
	var unlocked bool
	err := s.db.QueryRowContext(ctx, `SELECT unlocked FROM progress WHERE letter_id = ?`, letterID).Scan(&unlocked)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return unlocked, nil
}

// UnlockNext unlocks the letter following letterID in set.
func (s *Store) UnlockNext(ctx context.Context, set *letters.Set, letterID string) error {
	next, ok := set.Next(letterID)
	if !ok {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress (letter_id, high_score, unlocked, updated_at)
		 VALUES (?, 0, 1, ?)
		 ON CONFLICT(letter_id) DO UPDATE SET unlocked = 1, updated_at = excluded.updated_at`,
		next.ID, s.now().Format(time.RFC3339Nano))
	return err
}

// ListProgress returns every stored progress record keyed by letter id.
func (s *Store) ListProgress(ctx context.Context) (map[string]model.LetterProgress, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT letter_id, high_score, unlocked, updated_at FROM progress`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[string]model.LetterProgress{}
	for rows.Next() {
		var p model.LetterProgress
		var updatedAt string
		if err := rows.Scan(&p.LetterID, &p.HighScore, &p.Unlocked, &updatedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, err
		}
		p.UpdatedAt = parsed
		result[p.LetterID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ResetProgress clears best scores and unlocks. Attempt history is kept.
func (s *Store) ResetProgress(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM progress`)
	return err
}
