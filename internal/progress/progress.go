// Package progress applies scored attempts to best-score and unlock records.
package progress

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/verte-zerg/tuitrace/internal/letters"
	"github.com/verte-zerg/tuitrace/internal/model"
)

// Tracker persists per-letter best tiers and unlock state.
type Tracker interface {
	HighScore(ctx context.Context, letterID string) (int, error)
	SetHighScoreIfHigher(ctx context.Context, letterID string, tier int) (bool, error)
	IsUnlocked(ctx context.Context, letterID string) (bool, error)
	UnlockNext(ctx context.Context, set *letters.Set, letterID string) error
}

// Outcome reports what Apply changed.
type Outcome struct {
	Improved  bool
	Previous  int
	Unlocked  string
	HighScore int
}

// Apply records a score for a letter. Only tiers above zero count; a new best
// tier also unlocks the following letter.
func Apply(ctx context.Context, t Tracker, set *letters.Set, letterID string, result model.ScoreResult) (Outcome, error) {
	prev, err := t.HighScore(ctx, letterID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to read high score: %w", err)
	}
	out := Outcome{Previous: prev, HighScore: prev}
	if result.Tier <= 0 {
		return out, nil
	}
	improved, err := t.SetHighScoreIfHigher(ctx, letterID, result.Tier)
	if err != nil {
		return out, fmt.Errorf("failed to update high score: %w", err)
	}
	if !improved {
		return out, nil
	}
	out.Improved = true
	out.HighScore = result.Tier
	if next, ok := set.Next(letterID); ok {
		unlocked, err := t.IsUnlocked(ctx, next.ID)
		if err != nil {
			return out, fmt.Errorf("failed to read unlock state: %w", err)
		}
		if err := t.UnlockNext(ctx, set, letterID); err != nil {
			return out, fmt.Errorf("failed to unlock next letter: %w", err)
		}
		if !unlocked {
			out.Unlocked = next.ID
		}
	}
	return out, nil
}

// Unlocked returns the ids of unlocked letters in set order. The first letter is always unlocked.
func Unlocked(ctx context.Context, t Tracker, set *letters.Set) ([]string, error) {
	ids := set.IDs()
	out := make([]string, 0, len(ids))
	for i, id := range ids {
		if i == 0 {
			out = append(out, id)
			continue
		}
		ok, err := t.IsUnlocked(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// UnlockedOfKind returns the unlocked ids whose kind matches, in set order.
// Unlock state is always judged on the full set; an empty kind matches every letter.
func UnlockedOfKind(ctx context.Context, t Tracker, set *letters.Set, kind string) ([]string, error) {
	ids, err := Unlocked(ctx, t, set)
	if err != nil || kind == "" {
		return ids, err
	}
	return lo.Filter(ids, func(id string, _ int) bool {
		l, err := set.Get(id)
		return err == nil && l.Kind == kind
	}), nil
}

// Memory is an in-process Tracker used when progress is not saved.
type Memory struct {
	mu       sync.Mutex
	scores   map[string]int
	unlocked map[string]bool
}

// NewMemory returns an empty in-memory tracker.
func NewMemory() *Memory {
	return &Memory{scores: map[string]int{}, unlocked: map[string]bool{}}
}

// HighScore implements Tracker.
func (m *Memory) HighScore(_ context.Context, letterID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scores[letterID], nil
}

// SetHighScoreIfHigher implements Tracker.
func (m *Memory) SetHighScoreIfHigher(_ context.Context, letterID string, tier int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tier <= m.scores[letterID] {
		return false, nil
	}
	m.scores[letterID] = tier
	return true, nil
}

// IsUnlocked implements Tracker.
func (m *Memory) IsUnlocked(_ context.Context, letterID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unlocked[letterID], nil
}

// UnlockNext implements Tracker.
func (m *Memory) UnlockNext(_ context.Context, set *letters.Set, letterID string) error {
	next, ok := set.Next(letterID)
	if !ok {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unlocked[next.ID] = true
	return nil
}
