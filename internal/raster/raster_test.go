package raster

import (
	"strings"
	"testing"

	"github.com/verte-zerg/tuitrace/internal/model"
)

func pt(x, y float64, start bool) model.PathPoint {
	return model.PathPoint{Point: model.Point{X: x, Y: y}, IsStrokeStart: start}
}

func TestRasterizeDegenerateInputs(t *testing.T) {
	path := model.Path{pt(10, 10, true), pt(50, 50, false)}
	cases := []struct {
		name string
		path model.Path
		size model.Size
	}{
		{name: "empty path", path: nil, size: model.Size{Width: 100, Height: 100}},
		{name: "zero width", path: path, size: model.Size{Width: 0, Height: 100}},
		{name: "negative height", path: path, size: model.Size{Width: 100, Height: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Rasterize(tc.path, tc.size, 10); got.Len() != 0 {
				t.Fatalf("expected empty set, got %d cells", got.Len())
			}
		})
	}
}

func TestRasterizeSinglePoint(t *testing.T) {
	size := model.Size{Width: 100, Height: 100}
	cells := Rasterize(model.Path{pt(42, 17, true)}, size, 10)
	if cells.Len() != 1 || !cells.Has(Cell{Col: 4, Row: 1}) {
		t.Fatalf("unexpected cells: %v", cells.Cells())
	}
	off := Rasterize(model.Path{pt(-1, 17, true)}, size, 10)
	if off.Len() != 0 {
		t.Fatalf("expected off-canvas point to be dropped, got %v", off.Cells())
	}
	edge := Rasterize(model.Path{pt(100, 50, true)}, size, 10)
	if edge.Len() != 0 {
		t.Fatalf("expected point on the far edge to be dropped, got %v", edge.Cells())
	}
}

func TestRasterizeVerticalStroke(t *testing.T) {
	size := model.Size{Width: 350, Height: 350}
	path := model.Path{pt(175, 52.5, true), pt(175, 297.5, false)}
	cells := Rasterize(path, size, DefaultGridSize)
	if cells.Len() != 25 {
		t.Fatalf("expected 25 cells, got %d: %v", cells.Len(), cells.Cells())
	}
	for _, c := range cells.Cells() {
		if c.Col != 17 {
			t.Fatalf("expected column 17, got %+v", c)
		}
		if c.Row < 5 || c.Row > 29 {
			t.Fatalf("row out of expected range: %+v", c)
		}
	}
}

func TestRasterizeStrokeBreak(t *testing.T) {
	size := model.Size{Width: 100, Height: 100}
	path := model.Path{
		pt(5, 5, true),
		pt(5, 25, false),
		pt(85, 25, true),
		pt(85, 45, false),
	}
	cells := Rasterize(path, size, 10)
	if cells.Len() != 6 {
		t.Fatalf("expected 6 cells, got %d: %v", cells.Len(), cells.Cells())
	}
	for _, c := range cells.Cells() {
		if c.Col != 0 && c.Col != 8 {
			t.Fatalf("unexpected connecting cell %+v", c)
		}
	}
}

func TestRasterizeFirstPointWithoutStartFlag(t *testing.T) {
	size := model.Size{Width: 100, Height: 100}
	flagged := Rasterize(model.Path{pt(5, 5, true), pt(45, 5, false)}, size, 10)
	unflagged := Rasterize(model.Path{pt(5, 5, false), pt(45, 5, false)}, size, 10)
	if flagged.Len() != unflagged.Len() || flagged.Len() != 5 {
		t.Fatalf("expected both paths to cover 5 cells, got %d and %d", flagged.Len(), unflagged.Len())
	}
}

func TestRasterizeDefaultsGridSize(t *testing.T) {
	size := model.Size{Width: 350, Height: 350}
	path := model.Path{pt(349, 349, true)}
	cells := Rasterize(path, size, 0)
	if !cells.Has(Cell{Col: DefaultGridSize - 1, Row: DefaultGridSize - 1}) {
		t.Fatalf("expected default grid size, got %v", cells.Cells())
	}
}

func TestRasterizeDeterministic(t *testing.T) {
	size := model.Size{Width: 313, Height: 207}
	path := model.Path{
		pt(12.3, 40.1, true),
		pt(200.7, 180.2, false),
		pt(290.4, 20.9, false),
		pt(50, 150, true),
		pt(60, 10, false),
	}
	first := Rasterize(path, size, DefaultGridSize).Cells()
	for i := 0; i < 5; i++ {
		again := Rasterize(path, size, DefaultGridSize).Cells()
		if len(again) != len(first) {
			t.Fatalf("run %d: expected %d cells, got %d", i, len(first), len(again))
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d: cell %d differs: %+v vs %+v", i, j, first[j], again[j])
			}
		}
	}
}

func TestRasterizeLongSegmentHasNoGaps(t *testing.T) {
	size := model.Size{Width: 350, Height: 350}
	path := model.Path{pt(0, 0, true), pt(349, 349, false)}
	cells := Rasterize(path, size, DefaultGridSize)
	for i := 0; i < DefaultGridSize; i++ {
		if !cells.Has(Cell{Col: i, Row: i}) {
			t.Fatalf("missing diagonal cell %d", i)
		}
	}
}

func TestRasterizeClipsFarEndpoints(t *testing.T) {
	size := model.Size{Width: 350, Height: 350}
	for _, far := range []float64{4e9, 1e300} {
		path := model.Path{pt(175, 175, true), pt(far, 175, false)}
		cells := Rasterize(path, size, DefaultGridSize)
		if cells.Len() != 18 {
			t.Fatalf("far=%g: expected 18 cells to the right edge, got %d", far, cells.Len())
		}
		for col := 17; col < DefaultGridSize; col++ {
			if !cells.Has(Cell{Col: col, Row: 17}) {
				t.Fatalf("far=%g: missing cell col %d", far, col)
			}
		}
	}

	miss := Rasterize(model.Path{pt(-5e9, -1e9, true), pt(5e9, -1e9, false)}, size, DefaultGridSize)
	if miss.Len() != 0 {
		t.Fatalf("expected segment above the canvas to mark nothing, got %v", miss.Cells())
	}
}

func TestIntersect(t *testing.T) {
	a := CellSet{}
	b := CellSet{}
	a.Add(Cell{Col: 1, Row: 1})
	a.Add(Cell{Col: 2, Row: 1})
	b.Add(Cell{Col: 2, Row: 1})
	b.Add(Cell{Col: 3, Row: 1})
	got := a.Intersect(b)
	if got.Len() != 1 || !got.Has(Cell{Col: 2, Row: 1}) {
		t.Fatalf("unexpected intersection: %v", got.Cells())
	}
}

func TestRender(t *testing.T) {
	ref := CellSet{}
	user := CellSet{}
	ref.Add(Cell{Col: 0, Row: 0})
	ref.Add(Cell{Col: 1, Row: 0})
	user.Add(Cell{Col: 1, Row: 0})
	user.Add(Cell{Col: 2, Row: 1})
	out := Render(ref, user, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "r#." || lines[1] != "..u" || lines[2] != "..." {
		t.Fatalf("unexpected render:\n%s", out)
	}
}
