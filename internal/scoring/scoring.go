// Package scoring compares a traced path against a letter's reference path.
package scoring

import (
	"math"

	"github.com/verte-zerg/tuitrace/internal/model"
	"github.com/verte-zerg/tuitrace/internal/raster"
)

const (
	coverageWeight  = 0.9
	precisionWeight = 0.1
	// Freehand tracing rarely covers every reference cell; the raw blend is scaled up.
	amplification = 2.5
	maxAccuracy   = 100.0
)

// Tier thresholds, highest first.
const (
	ThreeStars = 85.0
	TwoStars   = 70.0
	OneStar    = 60.0
)

// Breakdown holds the intermediate values of an evaluation.
type Breakdown struct {
	Result      model.ScoreResult
	Coverage    float64
	Precision   float64
	RawScore    float64
	RefCells    int
	UserCells   int
	SharedCells int
	GridSize    int
	Ref         raster.CellSet
	User        raster.CellSet
}

// Score rates a user path drawn on a canvas of the given size against a normalized reference path.
func Score(ref, user model.Path, size model.Size) model.ScoreResult {
	return Evaluate(ref, user, size).Result
}

// Evaluate scores the paths and keeps the coverage and precision terms.
func Evaluate(ref, user model.Path, size model.Size) Breakdown {
	return EvaluateGrid(ref, user, size, raster.DefaultGridSize)
}

// EvaluateGrid is Evaluate on a gridSize×gridSize cell grid.
// Non-positive sizes use the default grid.
func EvaluateGrid(ref, user model.Path, size model.Size, gridSize int) Breakdown {
	if gridSize <= 0 {
		gridSize = raster.DefaultGridSize
	}
	b := Breakdown{GridSize: gridSize}
	abs := Denormalize(ref, size)
	if len(abs) == 0 || len(user) == 0 {
		Logger().Debug("empty path", "ref_points", len(abs), "user_points", len(user))
		return b
	}

	b.Ref = raster.Rasterize(abs, size, b.GridSize)
	b.User = raster.Rasterize(user, size, b.GridSize)
	b.RefCells = b.Ref.Len()
	b.UserCells = b.User.Len()
	if b.RefCells == 0 || b.UserCells == 0 {
		Logger().Debug("no covered cells", "ref_cells", b.RefCells, "user_cells", b.UserCells,
			"width", size.Width, "height", size.Height)
		return b
	}

	b.SharedCells = b.Ref.Intersect(b.User).Len()
	b.Coverage = float64(b.SharedCells) / float64(b.RefCells)
	b.Precision = float64(b.SharedCells) / float64(b.UserCells)
	b.RawScore = (b.Coverage*coverageWeight + b.Precision*precisionWeight) * 100
	accuracy := math.Min(maxAccuracy, b.RawScore*amplification)
	b.Result = model.ScoreResult{
		AccuracyPercent: accuracy,
		Tier:            TierFor(accuracy),
	}

	Logger().Debug("scored attempt",
		"ref_cells", b.RefCells,
		"user_cells", b.UserCells,
		"shared", b.SharedCells,
		"coverage", b.Coverage,
		"precision", b.Precision,
		"accuracy", accuracy,
		"tier", b.Result.Tier,
	)
	return b
}

// Denormalize maps a unit-square path onto a canvas, keeping stroke breaks.
func Denormalize(path model.Path, size model.Size) model.Path {
	out := make(model.Path, len(path))
	for i, p := range path {
		out[i] = model.PathPoint{
			Point:         model.Point{X: p.X * size.Width, Y: p.Y * size.Height},
			IsStrokeStart: p.IsStrokeStart,
		}
	}
	return out
}

// TierFor maps an accuracy percentage to a 0-3 star tier.
func TierFor(accuracy float64) int {
	switch {
	case accuracy >= ThreeStars:
		return 3
	case accuracy >= TwoStars:
		return 2
	case accuracy >= OneStar:
		return 1
	default:
		return 0
	}
}

// Stars renders a tier as filled and empty stars.
func Stars(tier int) string {
	if tier < 0 {
		tier = 0
	}
	if tier > 3 {
		tier = 3
	}
	out := make([]rune, 0, 3)
	for i := 0; i < 3; i++ {
		if i < tier {
			out = append(out, '★')
		} else {
			out = append(out, '☆')
		}
	}
	return string(out)
}
