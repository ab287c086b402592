// Package listedit implements list auto-continuation for the content editor.
//
// Each keystroke is decided from the text of the line holding the cursor;
// nothing is remembered between calls. Offsets are rune offsets, matching the
// selectionStart/selectionEnd a browser textarea reports for BMP text.
package listedit

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dalemusser/stratahandbook/internal/app/system/markup"
)

// Key is an editor key event.
type Key string

const (
	KeyEnter    Key = "enter"
	KeyTab      Key = "tab"
	KeyShiftTab Key = "shift+tab"
)

// ParseKey maps a client key name to a Key.
func ParseKey(s string) (Key, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enter":
		return KeyEnter, true
	case "tab":
		return KeyTab, true
	case "shift+tab", "shifttab", "backtab":
		return KeyShiftTab, true
	}
	return "", false
}

// Kind is the list state of a line.
type Kind int

const (
	NoList Kind = iota
	Numeric
	Alpha
	Roman
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Alpha:
		return "alpha"
	case Roman:
		return "roman"
	default:
		return "none"
	}
}

// IndentStep is the indent added or removed per Tab level.
const IndentStep = "  "

// State is the list state derived from one line.
type State struct {
	Kind    Kind
	Level   int    // indent depth
	Indent  string // leading whitespace as written
	Marker  string // without the trailing '.'
	Content string // text after the marker
	// ContentStart is the rune column where Content begins.
	ContentStart int
}

var itemRe = regexp.MustCompile(`^([ \t]*)(\d+|[a-zA-Z]+)\.(?:[ \t]+(.*)|[ \t]*)$`)

// Parse derives the list state of line.
func Parse(line string) State {
	m := itemRe.FindStringSubmatch(line)
	if m == nil {
		return State{Kind: NoList}
	}
	st := State{
		Indent:  m[1],
		Level:   markup.IndentDepth(m[1]),
		Marker:  m[2],
		Content: m[3],
	}
	st.Kind = kindOf(st.Marker, st.Level)
	if st.Kind == NoList {
		return State{Kind: NoList}
	}
	st.ContentStart = runeLen(line) - runeLen(st.Content)
	return st
}

// kindOf types a marker. A single letter is alpha unless it is a roman
// numeral at markup.RomanEditDepth or deeper; longer letter runs must be roman.
func kindOf(marker string, level int) Kind {
	if _, err := strconv.Atoi(marker); err == nil {
		return Numeric
	}
	roman := markup.RomanIndex(marker) >= 0
	if len(marker) == 1 {
		if roman && level >= markup.RomanEditDepth {
			return Roman
		}
		return Alpha
	}
	if roman {
		return Roman
	}
	return NoList
}

// NextMarker returns the marker that follows st's marker. Alpha wraps z to a
// (and Z to A); roman wraps past the last table entry back to "i".
func NextMarker(st State) string {
	switch st.Kind {
	case Numeric:
		n, _ := strconv.Atoi(st.Marker)
		return strconv.Itoa(n + 1)
	case Alpha:
		c := st.Marker[0]
		switch c {
		case 'z':
			return "a"
		case 'Z':
			return "A"
		}
		return string(c + 1)
	case Roman:
		table := markup.RomanNumerals()
		i := markup.RomanIndex(st.Marker)
		return table[(i+1)%len(table)]
	}
	return ""
}

// firstMarker is the starting marker for a level.
func firstMarker(level int) string {
	switch {
	case level <= 0:
		return "1"
	case level == 1:
		return "a"
	default:
		return "i"
	}
}

// Result is the outcome of a key event. When Handled is false the caller
// should let the editor apply its default behavior; Text and the selection
// are then the unchanged input.
type Result struct {
	Text     string
	SelStart int
	SelEnd   int
	Handled  bool
}

// Apply decides the effect of key on text with the given selection.
func Apply(text string, selStart, selEnd int, key Key) Result {
	rs := []rune(text)
	selStart, selEnd = clamp(selStart, len(rs)), clamp(selEnd, len(rs))
	if selEnd < selStart {
		selStart, selEnd = selEnd, selStart
	}
	unchanged := Result{Text: text, SelStart: selStart, SelEnd: selEnd}

	ls, le := lineBounds(rs, selStart)
	line := string(rs[ls:le])
	st := Parse(line)
	col := selStart - ls

	switch key {
	case KeyEnter:
		if selStart != selEnd || st.Kind == NoList || col < st.ContentStart {
			return unchanged
		}
		if strings.TrimSpace(st.Content) == "" {
			// Bare marker: end the list, leaving an empty line.
			out := string(rs[:ls]) + string(rs[le:])
			return Result{Text: out, SelStart: ls, SelEnd: ls, Handled: true}
		}
		insert := "\n" + st.Indent + NextMarker(st) + ". "
		out := string(rs[:selStart]) + insert + string(rs[selStart:])
		cur := selStart + runeLen(insert)
		return Result{Text: out, SelStart: cur, SelEnd: cur, Handled: true}

	case KeyTab:
		if st.Kind == NoList {
			out := string(rs[:ls]) + IndentStep + string(rs[ls:])
			n := runeLen(IndentStep)
			return Result{Text: out, SelStart: selStart + n, SelEnd: selEnd + n, Handled: true}
		}
		return relevel(rs, ls, le, st, selStart, selEnd, st.Level+1)

	case KeyShiftTab:
		if st.Kind == NoList {
			removed := leadingRemovable(line)
			if removed == 0 {
				return Result{Text: text, SelStart: selStart, SelEnd: selEnd, Handled: true}
			}
			out := string(rs[:ls]) + string(rs[ls+removed:])
			return Result{
				Text:     out,
				SelStart: shiftBack(selStart, ls, removed),
				SelEnd:   shiftBack(selEnd, ls, removed),
				Handled:  true,
			}
		}
		if st.Level == 0 {
			return Result{Text: text, SelStart: selStart, SelEnd: selEnd, Handled: true}
		}
		return relevel(rs, ls, le, st, selStart, selEnd, st.Level-1)
	}
	return unchanged
}

// relevel rewrites the list line at a new indent level with that level's
// starting marker, keeping the cursor on the same content character.
func relevel(rs []rune, ls, le int, st State, selStart, selEnd, level int) Result {
	prefix := strings.Repeat(IndentStep, level) + firstMarker(level) + ". "
	newLine := prefix + st.Content
	out := string(rs[:ls]) + newLine + string(rs[le:])

	newStart := runeLen(prefix)
	move := func(pos int) int {
		if pos < ls {
			return pos
		}
		if pos > le {
			return pos - (le - ls) + runeLen(newLine)
		}
		col := pos - ls - st.ContentStart
		if col < 0 {
			col = 0
		}
		return ls + newStart + col
	}
	return Result{Text: out, SelStart: move(selStart), SelEnd: move(selEnd), Handled: true}
}

// leadingRemovable returns how many leading runes Shift+Tab strips: up to
// two spaces, or a single tab.
func leadingRemovable(line string) int {
	if strings.HasPrefix(line, "\t") {
		return 1
	}
	n := 0
	for n < len(IndentStep) && n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

func shiftBack(pos, ls, removed int) int {
	switch {
	case pos <= ls:
		return pos
	case pos-ls < removed:
		return ls
	default:
		return pos - removed
	}
}

func lineBounds(rs []rune, pos int) (int, int) {
	start := pos
	for start > 0 && rs[start-1] != '\n' {
		start--
	}
	end := pos
	for end < len(rs) && rs[end] != '\n' {
		end++
	}
	return start, end
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}

func runeLen(s string) int { return len([]rune(s)) }
