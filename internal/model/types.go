// Package model defines shared data structures.
package model

import "time"

// Point is a 2D coordinate, normalized (0-1) or in canvas pixels.
type Point struct {
	X float64
	Y float64
}

// Lerp interpolates between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// PathPoint is a single sample on a stroke.
type PathPoint struct {
	Point
	// IsStrokeStart marks a pen-lift: no segment joins this point to the previous one.
	IsStrokeStart bool
}

// Path is an ordered sequence of stroke samples.
type Path []PathPoint

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Strokes counts the disconnected strokes in the path.
func (p Path) Strokes() int {
	count := 0
	for i, pt := range p {
		if i == 0 || pt.IsStrokeStart {
			count++
		}
	}
	return count
}

// Size is a canvas size in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Valid reports whether both dimensions are strictly positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// ScoreResult is the outcome of a single check action.
type ScoreResult struct {
	AccuracyPercent float64
	Tier            int
}

// Config defines practice settings.
type Config struct {
	Letter      string
	Kind        string
	LettersFile string
	FocusWeak   bool
	WeakTop     int
	WeakFactor  float64
	WeakWindow  int
	NoSave      bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Kind        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// AttemptStats captures a scored tracing attempt.
type AttemptStats struct {
	RunID     string
	LetterID  string
	Kind      string
	StartedAt time.Time
	EndedAt   time.Time
	Canvas    Size
	Points    int
	Strokes   int
	Accuracy  float64
	Tier      int
	Coverage  float64
	Precision float64
}

// AttemptAggregate summarizes an attempt for reporting.
type AttemptAggregate struct {
	AttemptID  int64
	LetterID   string
	EndedAt    time.Time
	Accuracy   float64
	Tier       int
	DurationMs int64
}

// LetterAggregate aggregates attempts across a letter.
type LetterAggregate struct {
	LetterID    string
	Attempts    int
	AccuracySum float64
	BestTier    int
}

// LetterProgress is the persisted progression record for a letter.
type LetterProgress struct {
	LetterID  string
	HighScore int
	Unlocked  bool
	UpdatedAt time.Time
}
