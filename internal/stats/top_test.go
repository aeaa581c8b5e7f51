package stats

import (
	"testing"

	"github.com/verte-zerg/tuitrace/internal/model"
)

func TestTopLettersByAttempts(t *testing.T) {
	aggs := []model.LetterAggregate{
		{LetterID: "ba", Attempts: 4},
		{LetterID: "alif", Attempts: 4},
		{LetterID: "jim", Attempts: 1},
	}
	top := TopLettersByAttempts(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 letters, got %d", len(top))
	}
	if top[0] != "alif" || top[1] != "ba" {
		t.Fatalf("unexpected order: %v", top)
	}
}

func TestSelectWeakLetters(t *testing.T) {
	aggs := []model.LetterAggregate{
		{LetterID: "alif", Attempts: 2, AccuracySum: 190},
		{LetterID: "ba", Attempts: 2, AccuracySum: 80},
		{LetterID: "jim", Attempts: 1, AccuracySum: 55},
	}
	weak := SelectWeakLetters(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak letters, got %v", weak)
	}
	if _, ok := weak["ba"]; !ok {
		t.Fatalf("expected ba to be weak: %v", weak)
	}
	if _, ok := weak["jim"]; !ok {
		t.Fatalf("expected jim to be weak: %v", weak)
	}
	if all := SelectWeakLetters(aggs, 0); len(all) != 3 {
		t.Fatalf("expected every letter when top is 0, got %v", all)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.AttemptAggregate{
		{LetterID: "alif", Accuracy: 90, Tier: 3},
		{LetterID: "alif", Accuracy: 50, Tier: 0},
		{LetterID: "ba", Accuracy: 70, Tier: 2},
	})
	if s.Attempts != 3 || s.Letters != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.AvgAccuracy != 70 || s.BestAccuracy != 90 {
		t.Fatalf("unexpected accuracy: %+v", s)
	}
	if s.TierCounts != [4]int{1, 0, 1, 1} {
		t.Fatalf("unexpected tier counts: %v", s.TierCounts)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}
