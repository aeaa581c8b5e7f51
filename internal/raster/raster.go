// Package raster converts stroke paths into sets of occupied grid cells.
package raster

import (
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/tuitrace/internal/model"
)

// DefaultGridSize is the number of cells per axis used for scoring.
const DefaultGridSize = 35

// Cell identifies a grid cell by column and row.
type Cell struct {
	Col int
	Row int
}

// CellSet is a deduplicated set of grid cells.
type CellSet map[Cell]struct{}

// Add inserts a cell.
func (s CellSet) Add(c Cell) {
	s[c] = struct{}{}
}

// Has reports whether the cell is in the set.
func (s CellSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of distinct cells.
func (s CellSet) Len() int {
	return len(s)
}

// Intersect returns the cells present in both sets.
func (s CellSet) Intersect(other CellSet) CellSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := CellSet{}
	for c := range small {
		if large.Has(c) {
			out.Add(c)
		}
	}
	return out
}

// Cells returns the cells sorted by row, then column.
func (s CellSet) Cells() []Cell {
	out := make([]Cell, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row == out[j].Row {
			return out[i].Col < out[j].Col
		}
		return out[i].Row < out[j].Row
	})
	return out
}

// Rasterize marks every grid cell touched by the path on a canvas of the given size.
// Segments are sampled roughly every half cell; pairs whose second point starts a
// new stroke are not joined. Off-canvas samples are dropped.
func Rasterize(path model.Path, size model.Size, gridSize int) CellSet {
	cells := CellSet{}
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	if !size.Valid() || len(path) == 0 {
		return cells
	}

	g := grid{
		size:  gridSize,
		cellW: size.Width / float64(gridSize),
		cellH: size.Height / float64(gridSize),
	}
	g.mark(cells, path[0].Point)

	step := math.Min(g.cellW, g.cellH) / 2
	for i := 0; i+1 < len(path); i++ {
		next := path[i+1]
		if next.IsStrokeStart {
			continue
		}
		from := path[i].Point
		length := math.Hypot(next.X-from.X, next.Y-from.Y)
		if math.IsNaN(length) || math.IsInf(length, 0) {
			g.mark(cells, next.Point)
			continue
		}
		a, b, ok := g.clip(from, next.Point, size)
		if !ok {
			continue
		}
		steps := int(math.Hypot(b.X-a.X, b.Y-a.Y)/step) + 1
		for k := 0; k <= steps; k++ {
			g.mark(cells, a.Lerp(b, float64(k)/float64(steps)))
		}
	}
	return cells
}

// clip trims a→b to the canvas grown by one cell on every side, so far
// off-canvas endpoints cost no more samples than the canvas itself.
// It reports false when the segment misses that rectangle.
func (g grid) clip(a, b model.Point, size model.Size) (model.Point, model.Point, bool) {
	minX, minY := -g.cellW, -g.cellH
	maxX, maxY := size.Width+g.cellW, size.Height+g.cellH
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X - minX},
		{dx, maxX - a.X},
		{-dy, a.Y - minY},
		{dy, maxY - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return a.Lerp(b, t0), a.Lerp(b, t1), true
}

type grid struct {
	size  int
	cellW float64
	cellH float64
}

func (g grid) mark(cells CellSet, p model.Point) {
	c, ok := g.cellAt(p)
	if ok {
		cells.Add(c)
	}
}

func (g grid) cellAt(p model.Point) (Cell, bool) {
	col := math.Floor(p.X / g.cellW)
	row := math.Floor(p.Y / g.cellH)
	if math.IsNaN(col) || math.IsNaN(row) {
		return Cell{}, false
	}
	if col < 0 || row < 0 || col >= float64(g.size) || row >= float64(g.size) {
		return Cell{}, false
	}
	return Cell{Col: int(col), Row: int(row)}, true
}

// Render draws a gridSize×gridSize text map of the sets: '#' both, 'r' reference only,
// 'u' user only, '.' empty.
func Render(ref, user CellSet, gridSize int) string {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	var b strings.Builder
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			c := Cell{Col: col, Row: row}
			inRef, inUser := ref.Has(c), user.Has(c)
			switch {
			case inRef && inUser:
				b.WriteByte('#')
			case inRef:
				b.WriteByte('r')
			case inUser:
				b.WriteByte('u')
			default:
				b.WriteByte('.')
			}
		}
		if row < gridSize-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
