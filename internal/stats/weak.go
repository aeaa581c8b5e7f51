package stats

import (
	"sort"

	"github.com/verte-zerg/tuitrace/internal/model"
)

// SelectWeakLetters selects the letters with the lowest average accuracy.
func SelectWeakLetters(aggs []model.LetterAggregate, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	if len(aggs) == 0 {
		return weakSet
	}
	candidates := make([]model.LetterAggregate, len(aggs))
	copy(candidates, aggs)
	sort.Slice(candidates, func(i, j int) bool {
		ai := AverageAccuracy(candidates[i])
		aj := AverageAccuracy(candidates[j])
		if ai == aj {
			return candidates[i].LetterID < candidates[j].LetterID
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, c := range candidates[:top] {
		weakSet[c.LetterID] = struct{}{}
	}
	return weakSet
}
