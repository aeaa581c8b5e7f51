// Package attempt tracks a single tracing attempt from first stroke to score.
package attempt

import (
	"errors"
	"time"

	"github.com/verte-zerg/tuitrace/internal/model"
	"github.com/verte-zerg/tuitrace/internal/scoring"
)

// State is the lifecycle stage of an attempt.
type State int

const (
	Idle State = iota
	Drawing
	ReadyToCheck
	Scored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case ReadyToCheck:
		return "ready"
	case Scored:
		return "scored"
	default:
		return "unknown"
	}
}

// ErrNotReady is returned by Check outside the ReadyToCheck state.
var ErrNotReady = errors.New("attempt is not ready to check")

// Attempt accumulates pointer input and scores it on demand.
type Attempt struct {
	state     State
	path      model.Path
	startedAt time.Time
	result    scoring.Breakdown
	now       func() time.Time
}

// New returns an idle attempt.
func New() *Attempt {
	return &Attempt{now: time.Now}
}

// State returns the current lifecycle stage.
func (a *Attempt) State() State {
	return a.state
}

// StartedAt returns when the first stroke of the attempt began.
func (a *Attempt) StartedAt() time.Time {
	return a.startedAt
}

// Begin handles pointer-down: it starts a new stroke at p.
// A new stroke after a check discards the previous path and result.
func (a *Attempt) Begin(p model.Point) {
	if a.state == Scored {
		a.reset()
	}
	if len(a.path) == 0 {
		a.startedAt = a.now()
	}
	a.state = Drawing
	a.path = append(a.path, model.PathPoint{Point: p, IsStrokeStart: true})
}

// Extend handles pointer-drag. Points arriving outside a stroke are ignored.
func (a *Attempt) Extend(p model.Point) {
	if a.state != Drawing {
		return
	}
	last := a.path[len(a.path)-1]
	if last.Point == p {
		return
	}
	a.path = append(a.path, model.PathPoint{Point: p})
}

// End handles pointer-up.
func (a *Attempt) End() {
	if a.state == Drawing {
		a.state = ReadyToCheck
	}
}

// Check scores a snapshot of the path against ref. It runs at most once per
// ReadyToCheck state.
func (a *Attempt) Check(ref model.Path, size model.Size) (scoring.Breakdown, error) {
	if a.state != ReadyToCheck {
		return scoring.Breakdown{}, ErrNotReady
	}
	a.result = scoring.Evaluate(ref, a.Snapshot(), size)
	a.state = Scored
	return a.result, nil
}

// Result returns the last score, valid in the Scored state.
func (a *Attempt) Result() (scoring.Breakdown, bool) {
	return a.result, a.state == Scored
}

// Clear discards all input and returns to Idle.
func (a *Attempt) Clear() {
	a.reset()
}

// Snapshot returns a copy of the user path.
func (a *Attempt) Snapshot() model.Path {
	return a.path.Clone()
}

func (a *Attempt) reset() {
	a.state = Idle
	a.path = nil
	a.startedAt = time.Time{}
	a.result = scoring.Breakdown{}
}
