package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxCellWidth caps a column so long vocab answers do not push the table
// past the terminal.
const maxCellWidth = 32

// table renders aligned plain-text rows. Width is measured in terminal
// cells, so wide runes line up.
type table struct {
	headers    []string
	rows       [][]string
	rightAlign map[int]bool
}

func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	t := table{headers: headers, rows: rows, rightAlign: rightAlign}
	return t.lines()
}

func (t table) columns() int {
	n := len(t.headers)
	for _, row := range t.rows {
		n = max(n, len(row))
	}
	return n
}

func (t table) widths(n int) []int {
	widths := make([]int, n)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], cellWidth(cell))
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t table) lines() []string {
	n := t.columns()
	if n == 0 {
		return nil
	}
	widths := t.widths(n)
	out := make([]string, 0, len(t.rows)+1)
	if len(t.headers) > 0 {
		out = append(out, t.line(t.headers, widths))
	}
	for _, row := range t.rows {
		out = append(out, t.line(row, widths))
	}
	return out
}

func (t table) line(row []string, widths []int) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = fitCell(row[i])
		}
		pad := strings.Repeat(" ", width-runewidth.StringWidth(cell))
		if t.rightAlign[i] {
			cells[i] = pad + cell
		} else {
			cells[i] = cell + pad
		}
	}
	return strings.Join(cells, " ")
}

func cellWidth(value string) int {
	return min(runewidth.StringWidth(value), maxCellWidth)
}

func fitCell(value string) string {
	if runewidth.StringWidth(value) <= maxCellWidth {
		return value
	}
	return runewidth.Truncate(value, maxCellWidth, "…")
}
