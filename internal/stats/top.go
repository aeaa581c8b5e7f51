package stats

import (
	"sort"

	"github.com/samber/lo"

	"github.com/verte-zerg/tuitrace/internal/model"
)

// TopLettersByAttempts returns the n most practiced letter ids.
func TopLettersByAttempts(aggs []model.LetterAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.LetterAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Attempts == items[j].Attempts {
			return items[i].LetterID < items[j].LetterID
		}
		return items[i].Attempts > items[j].Attempts
	})
	if n > len(items) {
		n = len(items)
	}
	return lo.Map(items[:n], func(a model.LetterAggregate, _ int) string { return a.LetterID })
}
