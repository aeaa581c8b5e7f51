// Package braille draws dot graphics onto terminal cells using braille patterns.
package braille

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Each terminal cell holds a 2×4 block of dots.
const (
	DotsX = 2
	DotsY = 4
)

var dotMasks = [DotsX][DotsY]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Canvas is a cols×rows block of braille cells with independent drawing layers.
// Higher layers take the cell's style when several layers share a cell.
type Canvas struct {
	cols   int
	rows   int
	layers [][]uint8
}

// New returns a blank canvas.
func New(cols, rows, layers int) *Canvas {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	if layers < 1 {
		layers = 1
	}
	c := &Canvas{cols: cols, rows: rows, layers: make([][]uint8, layers)}
	for i := range c.layers {
		c.layers[i] = make([]uint8, cols*rows)
	}
	return c
}

// Cols returns the width in terminal cells.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the height in terminal cells.
func (c *Canvas) Rows() int { return c.rows }

// DotWidth returns the width in dots.
func (c *Canvas) DotWidth() int { return c.cols * DotsX }

// DotHeight returns the height in dots.
func (c *Canvas) DotHeight() int { return c.rows * DotsY }

// Set turns on the dot at (x, y) in a layer. Out-of-range dots are ignored.
func (c *Canvas) Set(layer, x, y int) {
	if layer < 0 || layer >= len(c.layers) || x < 0 || y < 0 {
		return
	}
	col, row := x/DotsX, y/DotsY
	if col >= c.cols || row >= c.rows {
		return
	}
	c.layers[layer][row*c.cols+col] |= dotMasks[x%DotsX][y%DotsY]
}

// Line draws a straight run of dots from (x0, y0) to (x1, y1).
func (c *Canvas) Line(layer, x0, y0, x1, y1 int) {
	Walk(x0, y0, x1, y1, func(x, y int) {
		c.Set(layer, x, y)
	})
}

// Clear blanks a layer.
func (c *Canvas) Clear(layer int) {
	if layer < 0 || layer >= len(c.layers) {
		return
	}
	for i := range c.layers[layer] {
		c.layers[layer][i] = 0
	}
}

// Cell returns the combined dot mask of a cell and the highest layer drawing in it, or -1.
func (c *Canvas) Cell(col, row int) (uint8, int) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0, -1
	}
	var mask uint8
	top := -1
	for i, layer := range c.layers {
		m := layer[row*c.cols+col]
		if m == 0 {
			continue
		}
		mask |= m
		top = i
	}
	return mask, top
}

// Render draws the canvas one line per row. styles[i] colors cells whose top layer is i;
// missing styles render plain.
func (c *Canvas) Render(styles []lipgloss.Style) string {
	lines := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		var b strings.Builder
		for col := 0; col < c.cols; col++ {
			mask, top := c.Cell(col, row)
			ch := string(Rune(mask))
			if top >= 0 && top < len(styles) {
				ch = styles[top].Render(ch)
			}
			b.WriteString(ch)
		}
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Rune maps a dot mask to its braille character.
func Rune(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

// Walk visits every integer point on the line from (x0, y0) to (x1, y1), endpoints included.
func Walk(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
