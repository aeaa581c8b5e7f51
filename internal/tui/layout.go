package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuitrace/internal/attempt"
	"github.com/verte-zerg/tuitrace/internal/braille"
	"github.com/verte-zerg/tuitrace/internal/letters"
	"github.com/verte-zerg/tuitrace/internal/model"
	"github.com/verte-zerg/tuitrace/internal/scoring"
)

const (
	headerLines   = 2
	footerLines   = 2
	defaultRows   = 18
	maxCanvasRows = 30
	minCanvasRows = 4
)

// layout places a square braille canvas on screen. Terminal cells hold 2×4
// dots, so cols = 2*rows keeps the dot area square.
type layout struct {
	cols int
	rows int
	offX int
	offY int
}

func computeLayout(width, height int) layout {
	if width <= 0 || height <= 0 {
		return layout{cols: defaultRows * 2, rows: defaultRows, offY: headerLines}
	}
	rows := min(height-headerLines-footerLines, maxCanvasRows)
	rows = max(rows, minCanvasRows)
	cols := rows * 2
	if cols > width {
		cols = width
		rows = max(cols/2, 1)
		cols = rows * 2
	}
	return layout{
		cols: cols,
		rows: rows,
		offX: max((width-cols)/2, 0),
		offY: headerLines,
	}
}

func (l layout) canvasSize() model.Size {
	return model.Size{
		Width:  float64(l.cols * braille.DotsX),
		Height: float64(l.rows * braille.DotsY),
	}
}

// toCanvas maps a terminal cell to the dot at its center.
func (l layout) toCanvas(x, y int) (model.Point, bool) {
	col, row := x-l.offX, y-l.offY
	p := model.Point{
		X: float64(col*braille.DotsX + braille.DotsX/2),
		Y: float64(row*braille.DotsY + braille.DotsY/2),
	}
	inside := col >= 0 && row >= 0 && col < l.cols && row < l.rows
	return p, inside
}

func letterLabel(l letters.Letter) string {
	if l.Glyph == "" {
		return l.Name
	}
	return l.Name + " " + l.Glyph
}

// fitLabel truncates s to width display cells.
func fitLabel(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func indent(s string, n int) string {
	if n <= 0 {
		return s
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("%d/%d unlocked", len(m.unlocked), m.set.Len())}
	switch m.attempt.State() {
	case attempt.Idle:
		segments = append(segments, "draw with the mouse")
	case attempt.Drawing:
		segments = append(segments, "drawing…")
	case attempt.ReadyToCheck:
		segments = append(segments, "enter to check")
	case attempt.Scored:
		if b, ok := m.attempt.Result(); ok {
			segments = append(segments, fmt.Sprintf("Accuracy %.1f%% %s", b.Result.AccuracyPercent, scoring.Stars(b.Result.Tier)))
		}
	}
	segments = append(segments, "Best "+scoring.Stars(m.best))
	footer := footerStyle.Render(strings.Join(segments, "  ·  "))
	keys := footerStyle.Render("enter check  x clear  n/p next/prev  r random  esc quit")
	if m.notice != "" {
		keys = noticeStyle.Render(m.notice)
	}
	return footer + "\n" + keys
}
