package markup

import (
	"regexp"
	"strings"
)

// SpanKind identifies an inline fragment type.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanBold
	SpanCode
	SpanLink
	SpanImage
)

func (k SpanKind) String() string {
	switch k {
	case SpanBold:
		return "bold"
	case SpanCode:
		return "code"
	case SpanLink:
		return "link"
	case SpanImage:
		return "image"
	default:
		return "text"
	}
}

// Span is an inline-formatted fragment of one line. Text is the visible text
// (alt text for images); URL is set for links and images.
type Span struct {
	Kind SpanKind
	Text string
	URL  string
}

// inlineRe alternates in priority order: image, link, code, bold. Go's
// leftmost-first semantics pick the earliest match and, at equal start, the
// first alternative. Payloads are non-empty so "****" or "``" stay plain.
var inlineRe = regexp.MustCompile(
	`!\[([^\]]*)\]\(([^)\s]+)\)` + // 1 alt, 2 url
		`|\[([^\]]+)\]\(([^)\s]+)\)` + // 3 text, 4 url
		"|`([^`]+)`" + // 5 code
		`|\*\*(.+?)\*\*`, // 6 bold
)

// ParseInline converts one line of text into spans. Matched regions are not
// parsed again, so emphasis does not nest.
func ParseInline(line string) []Span {
	if line == "" {
		return nil
	}
	var spans []Span
	pos := 0
	for _, m := range inlineRe.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > pos {
			spans = appendText(spans, line[pos:m[0]])
		}
		switch {
		case m[4] >= 0:
			spans = append(spans, Span{Kind: SpanImage, Text: group(line, m, 1), URL: group(line, m, 2)})
		case m[6] >= 0:
			spans = append(spans, Span{Kind: SpanLink, Text: group(line, m, 3), URL: group(line, m, 4)})
		case m[10] >= 0:
			spans = append(spans, Span{Kind: SpanCode, Text: group(line, m, 5)})
		case m[12] >= 0:
			if strings.TrimSpace(group(line, m, 6)) == "" {
				spans = appendText(spans, line[m[0]:m[1]])
			} else {
				spans = append(spans, Span{Kind: SpanBold, Text: group(line, m, 6)})
			}
		}
		pos = m[1]
	}
	if pos < len(line) {
		spans = appendText(spans, line[pos:])
	}
	return spans
}

func group(s string, m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return s[m[2*n]:m[2*n+1]]
}

// appendText adds plain text, merging with a preceding text span.
func appendText(spans []Span, text string) []Span {
	if text == "" {
		return spans
	}
	if n := len(spans); n > 0 && spans[n-1].Kind == SpanText {
		spans[n-1].Text += text
		return spans
	}
	return append(spans, Span{Kind: SpanText, Text: text})
}

// PlainText joins the visible text of spans, dropping delimiters and URLs.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// StripInline returns line with inline markup removed.
func StripInline(line string) string {
	return PlainText(ParseInline(line))
}
