package scoring

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/tuitrace/internal/model"
)

func pt(x, y float64, start bool) model.PathPoint {
	return model.PathPoint{Point: model.Point{X: x, Y: y}, IsStrokeStart: start}
}

var (
	alif   = model.Path{pt(0.5, 0.15, true), pt(0.5, 0.85, false)}
	canvas = model.Size{Width: 350, Height: 350}
)

func TestScoreEmptyInputs(t *testing.T) {
	user := model.Path{pt(175, 50, true), pt(175, 300, false)}
	if got := Score(nil, user, canvas); got != (model.ScoreResult{}) {
		t.Fatalf("expected zero result for empty reference, got %+v", got)
	}
	if got := Score(alif, nil, canvas); got != (model.ScoreResult{}) {
		t.Fatalf("expected zero result for empty user path, got %+v", got)
	}
	if got := Score(alif, user, model.Size{Width: 0, Height: 350}); got != (model.ScoreResult{}) {
		t.Fatalf("expected zero result for degenerate canvas, got %+v", got)
	}
}

func TestScoreOffCanvasUserPath(t *testing.T) {
	user := model.Path{pt(-50, -50, true), pt(-10, -80, false)}
	if got := Score(alif, user, canvas); got != (model.ScoreResult{}) {
		t.Fatalf("expected zero result when nothing lands on the canvas, got %+v", got)
	}
}

func TestScorePerfectOverlap(t *testing.T) {
	user := Denormalize(alif, canvas)
	b := Evaluate(alif, user, canvas)
	if b.Coverage != 1 || b.Precision != 1 {
		t.Fatalf("expected full coverage and precision, got %.3f / %.3f", b.Coverage, b.Precision)
	}
	if b.RawScore != 100 {
		t.Fatalf("expected raw score 100, got %.3f", b.RawScore)
	}
	if b.Result.AccuracyPercent != 100 || b.Result.Tier != 3 {
		t.Fatalf("unexpected result: %+v", b.Result)
	}
}

func TestScoreAlifScenario(t *testing.T) {
	abs := Denormalize(alif, canvas)
	if abs[0].X != 175 || abs[0].Y != 52.5 || abs[1].Y != 297.5 || !abs[0].IsStrokeStart {
		t.Fatalf("unexpected denormalized path: %+v", abs)
	}

	traced := model.Path{pt(175, 50, true), pt(175, 300, false)}
	b := Evaluate(alif, traced, canvas)
	if b.Coverage < 0.99 {
		t.Fatalf("expected coverage near 1, got %.3f", b.Coverage)
	}
	if b.Result.Tier != 3 {
		t.Fatalf("expected tier 3, got %+v", b.Result)
	}

	scribble := model.Path{pt(20, 320, true), pt(120, 320, false)}
	got := Score(alif, scribble, canvas)
	if got.AccuracyPercent != 0 || got.Tier != 0 {
		t.Fatalf("expected zero score for unrelated scribble, got %+v", got)
	}
}

func TestScoreStrayMarksLowerPrecision(t *testing.T) {
	user := model.Path{pt(175, 50, true), pt(175, 300, false)}
	onShape := append(user.Clone(), pt(175, 120, true), pt(175, 140, false))
	stray := append(user.Clone(), pt(20, 20, true), pt(120, 20, false))

	base := Evaluate(alif, onShape, canvas)
	noisy := Evaluate(alif, stray, canvas)
	if noisy.Precision >= base.Precision {
		t.Fatalf("expected stray marks to lower precision: %.3f vs %.3f", noisy.Precision, base.Precision)
	}
	if noisy.Coverage != base.Coverage {
		t.Fatalf("expected stray marks to leave coverage alone: %.3f vs %.3f", noisy.Coverage, base.Coverage)
	}
}

func TestScoreMoreOverlapNeverLowersAccuracy(t *testing.T) {
	half := model.Path{pt(175, 50, true), pt(175, 120, false)}
	more := model.Path{pt(175, 50, true), pt(175, 200, false)}
	full := model.Path{pt(175, 50, true), pt(175, 300, false)}
	a := Score(alif, half, canvas).AccuracyPercent
	b := Score(alif, more, canvas).AccuracyPercent
	c := Score(alif, full, canvas).AccuracyPercent
	if a > b || b > c {
		t.Fatalf("expected non-decreasing accuracy, got %.2f %.2f %.2f", a, b, c)
	}
}

func TestScoreBounds(t *testing.T) {
	paths := []model.Path{
		{pt(175, 50, true)},
		{pt(175, 50, true), pt(175, 300, false)},
		{pt(0, 0, true), pt(349, 349, false), pt(0, 349, true), pt(349, 0, false)},
	}
	for i, p := range paths {
		got := Score(alif, p, canvas)
		if got.AccuracyPercent < 0 || got.AccuracyPercent > 100 || math.IsNaN(got.AccuracyPercent) {
			t.Fatalf("path %d: accuracy out of bounds: %v", i, got.AccuracyPercent)
		}
		if got.Tier < 0 || got.Tier > 3 {
			t.Fatalf("path %d: tier out of bounds: %d", i, got.Tier)
		}
	}
}

func TestTierFor(t *testing.T) {
	cases := []struct {
		accuracy float64
		tier     int
	}{
		{100, 3},
		{85, 3},
		{84.9, 2},
		{70, 2},
		{69.99, 1},
		{60, 1},
		{59.9, 0},
		{0, 0},
	}
	for _, tc := range cases {
		if got := TierFor(tc.accuracy); got != tc.tier {
			t.Fatalf("TierFor(%v) = %d, want %d", tc.accuracy, got, tc.tier)
		}
	}
}

func TestStars(t *testing.T) {
	if got := Stars(2); got != "★★☆" {
		t.Fatalf("unexpected stars: %q", got)
	}
	if got := Stars(7); got != "★★★" {
		t.Fatalf("expected clamp to 3 stars, got %q", got)
	}
	if got := Stars(-1); got != "☆☆☆" {
		t.Fatalf("expected clamp to 0 stars, got %q", got)
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	Score(alif, Denormalize(alif, canvas), canvas)
	if !strings.Contains(buf.String(), "scored attempt") {
		t.Fatalf("expected debug log, got %q", buf.String())
	}

	SetLogger(nil)
	buf.Reset()
	Score(alif, Denormalize(alif, canvas), canvas)
	if buf.Len() != 0 {
		t.Fatalf("expected silent logger after reset, got %q", buf.String())
	}
}

func TestEvaluateGrid(t *testing.T) {
	user := Denormalize(alif, canvas)
	coarse := EvaluateGrid(alif, user, canvas, 10)
	if coarse.GridSize != 10 || coarse.Result.AccuracyPercent != 100 {
		t.Fatalf("unexpected coarse breakdown: %+v", coarse.Result)
	}
	// 0.15..0.85 of 10 rows covers rows 1..8.
	if coarse.RefCells != 8 {
		t.Fatalf("expected 8 reference cells on a 10 grid, got %d", coarse.RefCells)
	}
	if def := EvaluateGrid(alif, user, canvas, 0); def.GridSize != 35 {
		t.Fatalf("expected default grid, got %d", def.GridSize)
	}
}
