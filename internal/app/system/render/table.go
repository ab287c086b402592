package render

import (
	"strings"

	"github.com/dalemusser/stratahandbook/internal/app/system/markup"
	"github.com/dalemusser/stratahandbook/internal/app/system/tablegrid"
)

// CellStyle selects how a cell is displayed.
type CellStyle int

const (
	CellText CellStyle = iota
	CellBadge
	CellEmail
)

// Header keywords, matched case-insensitively as substrings.
var (
	groupKeywords = []string{"사업부", "부서", "division", "department"}
	badgeKeywords = []string{"직급", "구분", "한도", "리더", "rank", "type", "limit", "leader"}
	emailKeywords = []string{"이메일", "메일", "email"}
)

// Column is one rendered table column.
type Column struct {
	Title string
	Style CellStyle
}

// Cell is one rendered table cell.
type Cell struct {
	Style CellStyle
	Text  string
	Spans []markup.Span // CellText only
	Hue   int           // CellBadge only
	Href  string        // CellEmail only
}

// Group is a set of body rows sharing a grouping-column value.
type Group struct {
	Key  string
	Open bool
	Rows [][]Cell
}

// Table is a rendered table. When Grouped is false there is exactly one
// Group with an empty key holding every row.
type Table struct {
	Columns []Column
	Grouped bool
	GroupBy string
	Groups  []Group
}

func headerMatches(title string, keywords []string) bool {
	t := strings.ToLower(title)
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

func columnStyle(title string) CellStyle {
	switch {
	case headerMatches(title, emailKeywords):
		return CellEmail
	case headerMatches(title, badgeKeywords):
		return CellBadge
	default:
		return CellText
	}
}

// BuildTable parses pipe-table lines and applies grouping and cell styling.
// It returns nil when the lines hold no table rows.
func BuildTable(lines []string) *Table {
	grid := tablegrid.ParseLines(lines)
	if grid.Rows() == 0 {
		return nil
	}
	header := grid.Header()

	groupCol := -1
	for i, h := range header {
		if headerMatches(h, groupKeywords) {
			groupCol = i
			break
		}
	}
	// Grouping needs at least one other column left to show.
	if grid.Cols() < 2 {
		groupCol = -1
	}

	t := &Table{Grouped: groupCol >= 0}
	var visible []int
	for i, h := range header {
		if i == groupCol {
			t.GroupBy = h
			continue
		}
		visible = append(visible, i)
		t.Columns = append(t.Columns, Column{Title: h, Style: columnStyle(h)})
	}

	index := map[string]int{}
	for _, row := range grid.Body() {
		cells := make([]Cell, len(visible))
		for j, c := range visible {
			cells[j] = buildCell(t.Columns[j].Style, row[c])
		}
		key := ""
		if groupCol >= 0 {
			key = row[groupCol]
		}
		gi, ok := index[key]
		if !ok {
			gi = len(t.Groups)
			index[key] = gi
			t.Groups = append(t.Groups, Group{Key: key, Open: gi == 0})
		}
		t.Groups[gi].Rows = append(t.Groups[gi].Rows, cells)
	}
	if len(t.Groups) == 0 {
		t.Groups = []Group{{Open: true}}
	}
	return t
}

func buildCell(style CellStyle, text string) Cell {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return Cell{Style: CellText}
	case style == CellBadge:
		return Cell{Style: CellBadge, Text: text, Hue: Hue(text)}
	case style == CellEmail && strings.Contains(text, "@"):
		return Cell{Style: CellEmail, Text: text, Href: "mailto:" + text}
	default:
		return Cell{Style: CellText, Text: text, Spans: markup.ParseInline(text)}
	}
}
