package stats

import (
	"context"

	"github.com/samber/lo"

	"github.com/verte-zerg/tuitrace/internal/model"
	"github.com/verte-zerg/tuitrace/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Attempts         []model.AttemptAggregate
	WindowAttemptIDs []int64
	LetterAggsAll    []model.LetterAggregate
	LetterAggsWindow []model.LetterAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	attempts, err := st.ListAttempts(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(attempts) > cfg.Last {
		attempts = attempts[len(attempts)-cfg.Last:]
	}

	allIDs := attemptIDs(attempts)
	windowIDs := allIDs
	if cfg.CurveWindow > 0 && len(allIDs) > cfg.CurveWindow {
		windowIDs = allIDs[len(allIDs)-cfg.CurveWindow:]
	}
	aggsAll, err := st.LetterAggregates(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	aggsWindow, err := st.LetterAggregates(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Attempts:         attempts,
		WindowAttemptIDs: windowIDs,
		LetterAggsAll:    aggsAll,
		LetterAggsWindow: aggsWindow,
	}, nil
}

func attemptIDs(attempts []model.AttemptAggregate) []int64 {
	return lo.Map(attempts, func(a model.AttemptAggregate, _ int) int64 { return a.AttemptID })
}
