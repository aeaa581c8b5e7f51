package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable lays out rows in aligned columns separated by a single space.
func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	all := append([][]string{headers}, rows...)
	for _, row := range all {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	lines := make([]string, 0, len(all))
	for i, row := range all {
		if i == 0 && len(headers) == 0 {
			continue
		}
		cells := make([]string, colCount)
		for c := 0; c < colCount; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			if rightAlignCols[c] {
				cells[c] = runewidth.FillLeft(cell, widths[c])
			} else {
				cells[c] = runewidth.FillRight(cell, widths[c])
			}
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}
