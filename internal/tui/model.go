// Package tui provides the Bubble Tea tracing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/tuitrace/internal/attempt"
	"github.com/verte-zerg/tuitrace/internal/braille"
	"github.com/verte-zerg/tuitrace/internal/generator"
	"github.com/verte-zerg/tuitrace/internal/letters"
	"github.com/verte-zerg/tuitrace/internal/model"
	"github.com/verte-zerg/tuitrace/internal/progress"
	"github.com/verte-zerg/tuitrace/internal/scoring"
	statsPkg "github.com/verte-zerg/tuitrace/internal/stats"
)

// Recorder stores finished attempts and reports weak letters.
type Recorder interface {
	InsertAttempt(ctx context.Context, a model.AttemptStats) (int64, error)
	GetWeakLetters(ctx context.Context, window int, kind string) ([]model.LetterAggregate, error)
}

const (
	referenceLayer = 0
	userLayer      = 1
)

// Model implements the Bubble Tea tracing UI.
type Model struct {
	config            model.Config
	set               *letters.Set
	tracker           progress.Tracker
	recorder          Recorder
	picker            *generator.Picker
	weakSet           map[string]struct{}
	weakNoticePrinted bool
	runID             string

	width  int
	height int
	layout layout

	letter   letters.Letter
	unlocked []string
	best     int
	attempt  *attempt.Attempt
	notice   string
	now      func() time.Time
}

var (
	referenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a tracing TUI model. recorder may be nil to skip saving attempts.
func NewModel(cfg model.Config, set *letters.Set, tracker progress.Tracker, recorder Recorder, picker *generator.Picker, weakSet map[string]struct{}, weakNoticePrinted bool) *Model {
	m := &Model{
		config:            cfg,
		set:               set,
		tracker:           tracker,
		recorder:          recorder,
		picker:            picker,
		weakSet:           weakSet,
		weakNoticePrinted: weakNoticePrinted,
		runID:             uuid.NewString(),
		layout:            computeLayout(0, 0),
		attempt:           attempt.New(),
		now:               time.Now,
	}
	m.refreshUnlocked()
	m.letter = m.initialLetter()
	m.loadBest()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter", " ":
			m.check()
		case "x", "backspace":
			m.attempt.Clear()
			m.notice = ""
		case "n":
			m.step(1)
		case "p":
			m.step(-1)
		case "r":
			m.switchLetter(m.pickNext())
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	header := headerStyle.Render(fitLabel(letterLabel(m.letter), m.layout.cols))
	canvas := m.renderCanvas()
	body := lipgloss.JoinVertical(lipgloss.Left, header, "", canvas)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return body + "\n" + footer
	}
	top := lipgloss.PlaceHorizontal(m.width, lipgloss.Left, indent(body, m.layout.offX))
	return top + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) resize(width, height int) {
	next := computeLayout(width, height)
	if next.cols != m.layout.cols || next.rows != m.layout.rows {
		if m.attempt.State() != attempt.Idle {
			m.notice = "canvas resized; attempt cleared"
		}
		m.attempt.Clear()
	}
	m.width = width
	m.height = height
	m.layout = next
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p, inside := m.layout.toCanvas(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return
		}
		if m.attempt.State() == attempt.Scored {
			m.notice = ""
		}
		m.attempt.Begin(p)
	case tea.MouseActionMotion:
		m.attempt.Extend(p)
	case tea.MouseActionRelease:
		if m.attempt.State() == attempt.Drawing {
			m.attempt.Extend(p)
		}
		m.attempt.End()
	}
}

func (m *Model) check() {
	size := m.layout.canvasSize()
	b, err := m.attempt.Check(m.letter.Path, size)
	if err != nil {
		if errors.Is(err, attempt.ErrNotReady) {
			m.notice = "draw the letter first"
			return
		}
		logErrf("failed to score attempt: %v\n", err)
		return
	}
	m.recordAttempt(b, size)

	outcome, err := progress.Apply(context.Background(), m.tracker, m.set, m.letter.ID, b.Result)
	if err != nil {
		logErrf("failed to update progress: %v\n", err)
	}
	m.best = outcome.HighScore
	m.notice = ""
	if outcome.Improved {
		m.notice = "new best!"
	}
	if outcome.Unlocked != "" {
		m.refreshUnlocked()
		if next, err := m.set.Get(outcome.Unlocked); err == nil {
			m.notice = fmt.Sprintf("unlocked %s", letterLabel(next))
		}
	}
	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) recordAttempt(b scoring.Breakdown, size model.Size) {
	if m.recorder == nil {
		return
	}
	path := m.attempt.Snapshot()
	stats := model.AttemptStats{
		RunID:     m.runID,
		LetterID:  m.letter.ID,
		Kind:      m.letter.Kind,
		StartedAt: m.attempt.StartedAt(),
		EndedAt:   m.now(),
		Canvas:    size,
		Points:    len(path),
		Strokes:   path.Strokes(),
		Accuracy:  b.Result.AccuracyPercent,
		Tier:      b.Result.Tier,
		Coverage:  b.Coverage,
		Precision: b.Precision,
	}
	if _, err := m.recorder.InsertAttempt(context.Background(), stats); err != nil {
		logErrf("failed to save attempt: %v\n", err)
	}
}

func (m *Model) renderCanvas() string {
	c := braille.New(m.layout.cols, m.layout.rows, 2)
	size := m.layout.canvasSize()
	drawPath(c, referenceLayer, scoring.Denormalize(m.letter.Path, size))
	drawPath(c, userLayer, m.attempt.Snapshot())
	return c.Render([]lipgloss.Style{referenceStyle, userStyle})
}

// drawPath draws every stroke of an absolute dot-space path.
func drawPath(c *braille.Canvas, layer int, path model.Path) {
	for i, p := range path {
		x, y := int(p.X), int(p.Y)
		if i == 0 || p.IsStrokeStart {
			c.Set(layer, x, y)
			continue
		}
		prev := path[i-1]
		c.Line(layer, int(prev.X), int(prev.Y), x, y)
	}
}

func (m *Model) step(dir int) {
	if len(m.unlocked) == 0 {
		return
	}
	idx := 0
	for i, id := range m.unlocked {
		if id == m.letter.ID {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(m.unlocked)) % len(m.unlocked)
	m.switchLetter(m.unlocked[idx])
}

func (m *Model) switchLetter(id string) {
	if id == "" {
		return
	}
	l, err := m.set.Get(id)
	if err != nil {
		logErrf("failed to switch letter: %v\n", err)
		return
	}
	m.letter = l
	m.attempt.Clear()
	m.notice = ""
	m.loadBest()
}

func (m *Model) initialLetter() letters.Letter {
	if m.config.Letter != "" {
		l, err := m.set.Get(m.config.Letter)
		if err == nil {
			return l
		}
		logErrf("failed to select letter: %v\n", err)
	}
	if id := m.pickNext(); id != "" {
		if l, err := m.set.Get(id); err == nil {
			return l
		}
	}
	return m.set.First()
}

func (m *Model) pickNext() string {
	if m.config.FocusWeak && len(m.weakSet) > 0 {
		return m.picker.PickOther(m.unlocked, m.letter.ID, m.weakSet, m.config.WeakFactor)
	}
	return m.picker.PickOther(m.unlocked, m.letter.ID, nil, 0)
}

// refreshUnlocked reloads the practice pool: unlocked letters of the configured kind.
func (m *Model) refreshUnlocked() {
	ids, err := progress.UnlockedOfKind(context.Background(), m.tracker, m.set, m.config.Kind)
	if err != nil {
		logErrf("failed to load unlocked letters: %v\n", err)
		ids = nil
	}
	if len(ids) == 0 {
		ids = []string{m.set.First().ID}
	}
	m.unlocked = ids
}

func (m *Model) loadBest() {
	best, err := m.tracker.HighScore(context.Background(), m.letter.ID)
	if err != nil {
		logErrf("failed to load high score: %v\n", err)
		return
	}
	m.best = best
}

func (m *Model) refreshWeakSet() {
	if m.recorder == nil {
		return
	}
	aggs, err := m.recorder.GetWeakLetters(context.Background(), m.config.WeakWindow, m.config.Kind)
	if err != nil {
		logErrf("failed to load weak letters: %v\n", err)
		return
	}
	if len(aggs) == 0 {
		if !m.weakNoticePrinted {
			logErrln("no stats available for weak-letter focus yet; picking uniformly")
			m.weakNoticePrinted = true
		}
		m.weakSet = map[string]struct{}{}
		return
	}
	m.weakSet = statsPkg.SelectWeakLetters(aggs, m.config.WeakTop)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
