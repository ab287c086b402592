// Package tablegrid models a pipe-delimited table as an editable 2D grid of
// strings. The first row is the header.
//
// Text form:
//
//	| Name | Team |
//	| --- | --- |
//	| Kim | Platform |
//
// A separator in the second table line is dropped on parse; Serialize always
// writes a fresh separator sized to the current column count.
package tablegrid

import (
	"errors"
	"regexp"
	"strings"
)

// ErrOutOfRange is returned by SetCell for a row or column that does not exist.
var ErrOutOfRange = errors.New("tablegrid: cell out of range")

// separatorRe matches an alignment/separator row such as "|---|:--:|".
var separatorRe = regexp.MustCompile(`^[\s|\-:]+$`)

// Grid is a rectangular table of cell strings; Grid[0] is the header row.
type Grid [][]string

// New returns a grid with the given dimensions and empty cells.
// Dimensions below 1 are raised to 1.
func New(rows, cols int) Grid {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	g := make(Grid, rows)
	for i := range g {
		g[i] = make([]string, cols)
	}
	return g
}

// IsRow reports whether line is a table line (starts with '|').
func IsRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

// IsSeparator reports whether line is a separator row.
func IsSeparator(line string) bool {
	t := strings.TrimSpace(line)
	return strings.Contains(t, "-") && separatorRe.MatchString(t)
}

// SplitRow splits one pipe-delimited line into trimmed cells. The empty
// fragment before the leading '|' and after a trailing '|' are dropped;
// interior empty cells are kept.
func SplitRow(line string) []string {
	t := strings.TrimSpace(line)
	if t == "" {
		return nil
	}
	parts := strings.Split(t, "|")
	if strings.HasPrefix(t, "|") {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.HasSuffix(t, "|") {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// Parse reads pipe-table text into a grid. Non-table lines and the header
// separator are skipped. Short rows are padded so the result is rectangular.
func Parse(text string) Grid {
	return ParseLines(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}

// ParseLines is Parse over pre-split lines. Only the second table line may
// be a separator; a dash-only row anywhere else is content.
func ParseLines(lines []string) Grid {
	var g Grid
	width := 0
	seen := 0
	for _, line := range lines {
		if !IsRow(line) {
			continue
		}
		seen++
		if seen == 2 && IsSeparator(line) {
			continue
		}
		cells := SplitRow(line)
		if len(cells) == 0 {
			cells = []string{""}
		}
		if len(cells) > width {
			width = len(cells)
		}
		g = append(g, cells)
	}
	for i, row := range g {
		for len(row) < width {
			row = append(row, "")
		}
		g[i] = row
	}
	return g
}

// Rows returns the number of rows, header included.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of columns.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Header returns the first row, or nil for an empty grid.
func (g Grid) Header() []string {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// Body returns every row after the header.
func (g Grid) Body() [][]string {
	if len(g) < 2 {
		return nil
	}
	return g[1:]
}

// Serialize writes the grid as pipe-table text with a regenerated separator
// row after the header.
func (g Grid) Serialize() string {
	if len(g) == 0 {
		return ""
	}
	var b strings.Builder
	writeRow(&b, g[0])
	sep := make([]string, g.Cols())
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteByte('\n')
	writeRow(&b, sep)
	for _, row := range g[1:] {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return b.String()
}

// String implements fmt.Stringer.
func (g Grid) String() string { return g.Serialize() }

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(c)
		b.WriteString(" |")
	}
}

// AddRow appends an empty row.
func (g *Grid) AddRow() {
	cols := g.Cols()
	if cols == 0 {
		cols = 1
	}
	*g = append(*g, make([]string, cols))
}

// RemoveRow deletes row i. It is a no-op when i is out of range or only one
// row remains.
func (g *Grid) RemoveRow(i int) {
	if len(*g) <= 1 || i < 0 || i >= len(*g) {
		return
	}
	*g = append((*g)[:i], (*g)[i+1:]...)
}

// AddColumn appends an empty column to every row.
func (g *Grid) AddColumn() {
	if len(*g) == 0 {
		*g = New(1, 1)
		return
	}
	for i := range *g {
		(*g)[i] = append((*g)[i], "")
	}
}

// RemoveColumn deletes column c from every row. It is a no-op when c is out
// of range or only one column remains.
func (g *Grid) RemoveColumn(c int) {
	if g.Cols() <= 1 || c < 0 || c >= g.Cols() {
		return
	}
	for i, row := range *g {
		(*g)[i] = append(row[:c], row[c+1:]...)
	}
}

// SetCell stores value at (r, c). Newlines become spaces and '|' becomes '/'
// so the value cannot break the row syntax.
func (g Grid) SetCell(r, c int, value string) error {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return ErrOutOfRange
	}
	g[r][c] = CleanCell(value)
	return nil
}

// CleanCell flattens a cell value to a single pipe-free line.
func CleanCell(value string) string {
	v := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "|", "/").Replace(value)
	return strings.TrimSpace(v)
}
