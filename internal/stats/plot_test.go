package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 5, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Scaled per series") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 2 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSeriesColorAndEmpty(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	if err := PlotSeriesWithColor(&buf, "", []Series{{Name: "Empty"}}, 10, 3, true); err != nil {
		t.Fatalf("PlotSeriesWithColor failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
	if err := PlotSeriesWithColor(&buf, "", []Series{{Name: "Flat", Values: []float64{5, 5}}}, 10, 3, true); err != nil {
		t.Fatalf("PlotSeriesWithColor failed: %v", err)
	}
	if !strings.Contains(buf.String(), colorPalette[0]) {
		t.Fatalf("expected forced color in output")
	}
	if !strings.Contains(buf.String(), "Flat: min=4.00 max=6.00") {
		t.Fatalf("expected widened range for flat series, got %q", buf.String())
	}
}

func TestResampleSeries(t *testing.T) {
	if got := resampleSeries([]float64{0, 10}, 3); len(got) != 3 || got[1] != 5 {
		t.Fatalf("unexpected stretched series %v", got)
	}
	if got := resampleSeries([]float64{1, 3, 5, 7}, 2); got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected averaged series %v", got)
	}
	if got := resampleSeries(nil, 4); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	if got := valueToRow(10, 0, 10, 8); got != 0 {
		t.Fatalf("expected max value on top row, got %d", got)
	}
	if got := valueToRow(0, 0, 10, 8); got != 7 {
		t.Fatalf("expected min value on bottom row, got %d", got)
	}
}
