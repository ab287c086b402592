// Package markup parses the handbook's line-oriented content grammar: inline
// spans (bold, code, links, images) and block-level line groups (headings,
// lists, tables, quotes, code fences, rules, paragraphs).
//
// The grammar is also the storage format of legacy content, so changes here
// must stay backward compatible with text authored before the block editor.
package markup

import (
	"regexp"
	"strings"

	"github.com/dalemusser/stratahandbook/internal/app/system/tablegrid"
)

// GroupKind identifies the syntactic role of a line group.
type GroupKind int

const (
	GroupParagraph GroupKind = iota
	GroupHeading
	GroupCode
	GroupTable
	GroupImage
	GroupLink
	GroupQuote
	GroupDivider
	GroupList
)

func (k GroupKind) String() string {
	switch k {
	case GroupHeading:
		return "heading"
	case GroupCode:
		return "code"
	case GroupTable:
		return "table"
	case GroupImage:
		return "image"
	case GroupLink:
		return "link"
	case GroupQuote:
		return "quote"
	case GroupDivider:
		return "divider"
	case GroupList:
		return "list"
	default:
		return "paragraph"
	}
}

// ListStyle is the marker style a list item renders with.
type ListStyle int

const (
	StyleBullet ListStyle = iota
	StyleDecimal
	StyleAlpha
	StyleRoman
)

func (s ListStyle) String() string {
	switch s {
	case StyleDecimal:
		return "decimal"
	case StyleAlpha:
		return "lower-alpha"
	case StyleRoman:
		return "lower-roman"
	default:
		return "disc"
	}
}

// ListItem is one classified list line.
type ListItem struct {
	Depth  int       // indent depth, two spaces per level
	Marker string    // marker without the trailing '.', e.g. "3", "b", "iv", "-"
	Style  ListStyle // resolved marker style
	Text   string    // trailing content, may be empty
	Raw    string    // the original line
}

// Ordered reports whether the item carries an enumerated marker.
func (it ListItem) Ordered() bool { return it.Style != StyleBullet }

// Group is one run of lines sharing a syntactic role.
//
// Field use by kind:
//   - heading: Level, Text
//   - paragraph: Lines (non-blank lines of the run)
//   - code: Lang, Lines (inner lines, verbatim)
//   - table: Lines (raw '|' lines, separator included)
//   - quote: Lines ('>' and one space stripped)
//   - list: Items
//   - image: Text (alt), URL
//   - link: Text (label), URL
type Group struct {
	Kind  GroupKind
	Level int
	Text  string
	URL   string
	Lang  string
	Lines []string
	Items []ListItem
}

// Grid parses a table group's lines into a grid.
func (g Group) Grid() tablegrid.Grid {
	return tablegrid.ParseLines(g.Lines)
}

var (
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	imageLineRe = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)]*)\)$`)
	linkLineRe  = regexp.MustCompile(`^\[([^\]]*)\]\(([^)]*)\)$`)
	ruleRe      = regexp.MustCompile(`^-{3,}$`)

	// Roman numerals are listed before the single letter so "iv." is not
	// rejected for having two letters.
	orderedRe = regexp.MustCompile(`^([ \t]*)(\d+|xii|xi|x|ix|viii|vii|vi|v|iv|iii|ii|i|[a-zA-Z])\.(?:\s+(.*))?$`)
	bulletRe  = regexp.MustCompile(`^([ \t]*)([-•*])(?:\s+(.*))?$`)
)

// Roman markers are read at two different depths. A rendered list item whose
// marker is in the roman table gets the roman style from RomanRenderDepth
// down; shallower it renders as alpha. The list editor continues a single
// letter (i, v, x) as roman only from RomanEditDepth down, matching the Tab
// promotion of alpha at one level and roman at two; multi-letter roman
// markers continue as roman at any depth.
const (
	RomanRenderDepth = 1
	RomanEditDepth   = 2
)

// romanNumerals is the fixed lowercase roman marker table.
var romanNumerals = []string{"i", "ii", "iii", "iv", "v", "vi", "vii", "viii", "ix", "x", "xi", "xii"}

// RomanNumerals returns a copy of the roman marker table.
func RomanNumerals() []string {
	return append([]string(nil), romanNumerals...)
}

// RomanIndex returns the position of marker in the roman table, or -1.
func RomanIndex(marker string) int {
	for i, r := range romanNumerals {
		if r == marker {
			return i
		}
	}
	return -1
}

// IndentDepth converts leading whitespace into an indent depth: two spaces
// per level, a tab counting as two spaces.
func IndentDepth(indent string) int {
	n := 0
	for _, r := range indent {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 2
		}
	}
	return n / 2
}

// ParseListItem classifies a single line as a list item.
func ParseListItem(line string) (ListItem, bool) {
	if m := orderedRe.FindStringSubmatch(line); m != nil {
		depth := IndentDepth(m[1])
		marker := m[2]
		it := ListItem{Depth: depth, Marker: marker, Text: strings.TrimSpace(m[3]), Raw: line}
		switch {
		case isDigits(marker):
			it.Style = StyleDecimal
		case RomanIndex(marker) >= 0 && depth >= RomanRenderDepth:
			it.Style = StyleRoman
		default:
			it.Style = StyleAlpha
		}
		return it, true
	}
	if m := bulletRe.FindStringSubmatch(line); m != nil {
		return ListItem{
			Depth:  IndentDepth(m[1]),
			Marker: m[2],
			Style:  StyleBullet,
			Text:   strings.TrimSpace(m[3]),
			Raw:    line,
		}, true
	}
	return ListItem{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "```")
}

func isQuote(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), ">")
}

func stripQuote(line string) string {
	s := strings.TrimLeft(line, " \t")
	s = strings.TrimPrefix(s, ">")
	return strings.TrimPrefix(s, " ")
}

// Classify segments lines into groups in a single left-to-right pass. Every
// line belongs to at most one group; blank lines only separate runs.
func Classify(lines []string) []Group {
	var groups []Group
	var para []string

	flush := func() {
		if len(para) > 0 {
			groups = append(groups, Group{Kind: GroupParagraph, Lines: para})
			para = nil
		}
	}

	for i := 0; i < len(lines); {
		line := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			i++
			continue
		}

		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			groups = append(groups, Group{Kind: GroupHeading, Level: len(m[1]), Text: strings.TrimSpace(m[2])})
			i++
			continue
		}

		if isFence(line) {
			flush()
			g := Group{Kind: GroupCode, Lang: strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))}
			i++
			for i < len(lines) && !isFence(lines[i]) {
				g.Lines = append(g.Lines, strings.TrimRight(lines[i], "\r"))
				i++
			}
			if i < len(lines) {
				i++ // closing fence
			}
			groups = append(groups, g)
			continue
		}

		if tablegrid.IsRow(line) {
			flush()
			g := Group{Kind: GroupTable}
			for i < len(lines) && tablegrid.IsRow(lines[i]) {
				g.Lines = append(g.Lines, strings.TrimRight(lines[i], "\r"))
				i++
			}
			groups = append(groups, g)
			continue
		}

		if m := imageLineRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			groups = append(groups, Group{Kind: GroupImage, Text: m[1], URL: strings.TrimSpace(m[2])})
			i++
			continue
		}

		if m := linkLineRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			groups = append(groups, Group{Kind: GroupLink, Text: m[1], URL: strings.TrimSpace(m[2])})
			i++
			continue
		}

		if isQuote(line) {
			flush()
			g := Group{Kind: GroupQuote}
			for i < len(lines) && isQuote(lines[i]) {
				g.Lines = append(g.Lines, stripQuote(strings.TrimRight(lines[i], "\r")))
				i++
			}
			groups = append(groups, g)
			continue
		}

		if ruleRe.MatchString(trimmed) {
			flush()
			groups = append(groups, Group{Kind: GroupDivider})
			i++
			continue
		}

		if first, ok := ParseListItem(line); ok {
			flush()
			g := Group{Kind: GroupList, Items: []ListItem{first}}
			base := first.Depth
			ordered := first.Ordered()
			i++
			for i < len(lines) {
				it, ok := ParseListItem(strings.TrimRight(lines[i], "\r"))
				if !ok {
					break
				}
				// A marker type change at the run's base depth starts a new list.
				if it.Depth <= base && it.Ordered() != ordered {
					break
				}
				g.Items = append(g.Items, it)
				i++
			}
			groups = append(groups, g)
			continue
		}

		para = append(para, line)
		i++
	}
	flush()
	return groups
}

// SplitLines splits text into lines, normalizing CRLF.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
