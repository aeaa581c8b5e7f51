package braille

import (
	"strings"
	"testing"
)

func TestSetAndCell(t *testing.T) {
	c := New(2, 1, 2)
	c.Set(0, 0, 0)
	c.Set(1, 1, 3)
	mask, top := c.Cell(0, 0)
	if mask != 0x81 || top != 1 {
		t.Fatalf("unexpected cell: mask=%#x top=%d", mask, top)
	}
	if mask, top := c.Cell(1, 0); mask != 0 || top != -1 {
		t.Fatalf("expected empty cell, got mask=%#x top=%d", mask, top)
	}
	c.Set(0, 99, 0)
	c.Set(5, 0, 0)
	if mask, _ := c.Cell(1, 0); mask != 0 {
		t.Fatalf("expected out-of-range dots to be ignored")
	}
}

func TestLineCoversEndpoints(t *testing.T) {
	var got [][2]int
	Walk(0, 0, 3, 1, func(x, y int) {
		got = append(got, [2]int{x, y})
	})
	if got[0] != [2]int{0, 0} || got[len(got)-1] != [2]int{3, 1} {
		t.Fatalf("unexpected walk: %v", got)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 points, got %d", len(got))
	}
}

func TestRenderAndClear(t *testing.T) {
	c := New(3, 2, 1)
	if c.DotWidth() != 6 || c.DotHeight() != 8 {
		t.Fatalf("unexpected dot size %dx%d", c.DotWidth(), c.DotHeight())
	}
	c.Line(0, 0, 0, 5, 0)
	out := c.Render(nil)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != strings.Repeat(string(Rune(0x09)), 3) {
		t.Fatalf("unexpected top row %q", lines[0])
	}
	c.Clear(0)
	if mask, _ := c.Cell(0, 0); mask != 0 {
		t.Fatalf("expected cleared layer")
	}
}
