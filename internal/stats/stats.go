// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/tuitrace/internal/model"
	"github.com/verte-zerg/tuitrace/internal/scoring"
)

const (
	sparkChars  = " .:-=+*#%@"
	sparkLength = 40
)

// Summary holds headline numbers for a list of attempts.
type Summary struct {
	Attempts     int
	Letters      int
	AvgAccuracy  float64
	BestAccuracy float64
	TierCounts   [4]int
}

// Summarize computes headline numbers for attempts.
func Summarize(attempts []model.AttemptAggregate) Summary {
	var s Summary
	if len(attempts) == 0 {
		return s
	}
	seen := map[string]struct{}{}
	var total float64
	for _, a := range attempts {
		total += a.Accuracy
		if a.Accuracy > s.BestAccuracy {
			s.BestAccuracy = a.Accuracy
		}
		tier := a.Tier
		if tier < 0 {
			tier = 0
		}
		if tier > 3 {
			tier = 3
		}
		s.TierCounts[tier]++
		seen[a.LetterID] = struct{}{}
	}
	s.Attempts = len(attempts)
	s.Letters = len(seen)
	s.AvgAccuracy = total / float64(len(attempts))
	return s
}

// AverageAccuracy returns the mean accuracy of an aggregate, 0 without attempts.
func AverageAccuracy(agg model.LetterAggregate) float64 {
	if agg.Attempts <= 0 {
		return 0
	}
	return agg.AccuracySum / float64(agg.Attempts)
}

func recentAccuracies(attempts []model.AttemptAggregate, n int) []float64 {
	if len(attempts) > n {
		attempts = attempts[len(attempts)-n:]
	}
	out := make([]float64, len(attempts))
	for i, a := range attempts {
		out[i] = a.Accuracy
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := seriesMinMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for attempts.
func RenderSummary(w io.Writer, attempts []model.AttemptAggregate) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	s := Summarize(attempts)
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", s.Attempts),
		fmt.Sprintf("Letters practiced: %d", s.Letters),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("Best Accuracy: %.1f%%", s.BestAccuracy),
		fmt.Sprintf("Stars: %s %d  %s %d  %s %d  %s %d",
			scoring.Stars(3), s.TierCounts[3],
			scoring.Stars(2), s.TierCounts[2],
			scoring.Stars(1), s.TierCounts[1],
			scoring.Stars(0), s.TierCounts[0]),
		"Trend: " + Sparkline(recentAccuracies(attempts, sparkLength)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints the accuracy learning curve.
func RenderCurves(w io.Writer, attempts []model.AttemptAggregate, window int) error {
	return RenderCurvesWithSize(w, attempts, window, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints the accuracy learning curve sized to a given total width.
func RenderCurvesWithSize(w io.Writer, attempts []model.AttemptAggregate, window, totalWidth, height int, useColor bool) error {
	if len(attempts) == 0 {
		return nil
	}
	accs := make([]float64, len(attempts))
	tiers := make([]float64, len(attempts))
	for i, a := range attempts {
		accs[i] = a.Accuracy
		tiers[i] = float64(a.Tier)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curve", []Series{
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
		{Name: "Stars", Values: MovingAverage(tiers, window)},
	}, width, height, useColor)
}

// LetterRow is one line of the per-letter table.
type LetterRow struct {
	LetterID    string
	Label       string
	Attempts    int
	AvgAccuracy float64
	BestTier    int
}

// LetterRows builds table rows sorted by lowest average accuracy. labels maps ids to display names.
func LetterRows(aggs []model.LetterAggregate, labels map[string]string) []LetterRow {
	rows := make([]LetterRow, 0, len(aggs))
	for _, agg := range aggs {
		label := labels[agg.LetterID]
		if label == "" {
			label = agg.LetterID
		}
		rows = append(rows, LetterRow{
			LetterID:    agg.LetterID,
			Label:       label,
			Attempts:    agg.Attempts,
			AvgAccuracy: AverageAccuracy(agg),
			BestTier:    agg.BestTier,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AvgAccuracy == rows[j].AvgAccuracy {
			return rows[i].LetterID < rows[j].LetterID
		}
		return rows[i].AvgAccuracy < rows[j].AvgAccuracy
	})
	return rows
}

// RenderLetterTable prints per-letter aggregates.
func RenderLetterTable(w io.Writer, aggs []model.LetterAggregate, labels map[string]string) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No letter stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Letter (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Letter", "Attempts", "Avg Accuracy", "Best"}
	tableRows := make([][]string, 0, len(aggs))
	for _, r := range LetterRows(aggs, labels) {
		tableRows = append(tableRows, []string{
			r.Label,
			fmt.Sprintf("%d", r.Attempts),
			fmt.Sprintf("%.1f%%", r.AvgAccuracy),
			scoring.Stars(r.BestTier),
		})
	}
	for _, line := range formatTable(headers, tableRows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
