package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dalemusser/stratahandbook/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratahandbook/internal/app/system/markup"
)

// CodeStyle is the chroma style used for highlighted code blocks.
const CodeStyle = "github"

var codeFormatter = chromahtml.New(chromahtml.WithClasses(true))

// HTML renders nodes to sanitized markup for the handbook templates.
func HTML(nodes []Node) template.HTML {
	var b strings.Builder
	writeNodes(&b, nodes)
	return htmlsanitize.Rendered(b.String())
}

// CodeCSS returns the stylesheet matching the classes emitted for code
// blocks.
func CodeCSS() ([]byte, error) {
	var buf bytes.Buffer
	if err := codeFormatter.WriteCSS(&buf, styles.Get(CodeStyle)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var esc = template.HTMLEscapeString

func writeNodes(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		writeNode(b, n)
	}
}

func writeNode(b *strings.Builder, n Node) {
	switch n.Kind {
	case NodeHeading:
		level := n.Level
		if level < 2 {
			level = 2
		}
		if level > 6 {
			level = 6
		}
		class := "hb-heading"
		if n.First {
			class += " hb-first"
		}
		fmt.Fprintf(b, `<h%d class="%s">`, level, class)
		writeSpans(b, n.Spans)
		fmt.Fprintf(b, "</h%d>", level)

	case NodeParagraph:
		if len(n.Lines) == 0 {
			b.WriteString(`<p class="hb-empty"></p>`)
			return
		}
		b.WriteString("<p>")
		for i, line := range n.Lines {
			if i > 0 {
				b.WriteString("<br>")
			}
			writeSpans(b, line)
		}
		b.WriteString("</p>")

	case NodeList:
		writeList(b, n.List)

	case NodeTable:
		writeTable(b, n.Table)

	case NodeCode:
		b.WriteString(`<div class="hb-code"><button type="button" class="hb-copy" data-copy="code">복사</button>`)
		b.WriteString(highlight(n.Code, n.Lang))
		b.WriteString("</div>")

	case NodeQuote:
		b.WriteString(`<blockquote class="hb-quote">`)
		writeNodes(b, n.Children)
		b.WriteString("</blockquote>")

	case NodeDisclaimer:
		b.WriteString(`<aside class="hb-disclaimer">`)
		writeNodes(b, n.Children)
		b.WriteString("</aside>")

	case NodeMedia:
		fmt.Fprintf(b, `<figure class="hb-media"><img src="%s" alt="%s" loading="lazy"></figure>`, esc(n.URL), esc(n.Label))

	case NodeLink:
		fmt.Fprintf(b, `<a class="hb-link-card" href="%s">`, esc(n.URL))
		fmt.Fprintf(b, `<span class="hb-link-label">%s</span>`, esc(n.Label))
		fmt.Fprintf(b, `<span class="hb-link-host">%s</span>`, esc(n.Host))
		fmt.Fprintf(b, `<span class="hb-link-url">%s</span>`, esc(n.URL))
		b.WriteString("</a>")

	case NodeRule:
		b.WriteString(`<hr class="hb-rule">`)
	}
}

func writeSpans(b *strings.Builder, spans []markup.Span) {
	for _, s := range spans {
		switch s.Kind {
		case markup.SpanBold:
			b.WriteString("<strong>" + esc(s.Text) + "</strong>")
		case markup.SpanCode:
			b.WriteString("<code>" + esc(s.Text) + "</code>")
		case markup.SpanLink:
			fmt.Fprintf(b, `<a href="%s">%s</a>`, esc(s.URL), esc(s.Text))
		case markup.SpanImage:
			fmt.Fprintf(b, `<img class="hb-inline-img" src="%s" alt="%s">`, esc(s.URL), esc(s.Text))
		default:
			b.WriteString(esc(s.Text))
		}
	}
}

func writeList(b *strings.Builder, l *List) {
	if l == nil || len(l.Items) == 0 {
		return
	}
	tag := "ul"
	if l.Ordered {
		tag = "ol"
	}
	fmt.Fprintf(b, `<%s class="hb-list hb-%s">`, tag, l.Style)
	for _, it := range l.Items {
		fmt.Fprintf(b, `<li class="hb-%s"><span class="hb-marker">%s</span> `, it.Style, esc(it.Marker))
		writeSpans(b, it.Spans)
		writeList(b, it.Sub)
		b.WriteString("</li>")
	}
	fmt.Fprintf(b, "</%s>", tag)
}

func writeTable(b *strings.Builder, t *Table) {
	if t == nil {
		return
	}
	if !t.Grouped {
		b.WriteString(`<div class="hb-table-wrap">`)
		writeTableBody(b, t, t.Groups[0].Rows)
		b.WriteString("</div>")
		return
	}
	for _, g := range t.Groups {
		b.WriteString(`<details class="hb-group"`)
		if g.Open {
			b.WriteString(" open")
		}
		key := g.Key
		if key == "" {
			key = "-"
		}
		fmt.Fprintf(b, `><summary>%s <span class="hb-count">%d</span></summary>`, esc(key), len(g.Rows))
		b.WriteString(`<div class="hb-table-wrap">`)
		writeTableBody(b, t, g.Rows)
		b.WriteString("</div></details>")
	}
}

func writeTableBody(b *strings.Builder, t *Table, rows [][]Cell) {
	b.WriteString(`<table class="hb-table"><thead><tr>`)
	for _, c := range t.Columns {
		b.WriteString("<th>" + esc(c.Title) + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, c := range row {
			b.WriteString("<td>")
			switch c.Style {
			case CellBadge:
				fmt.Fprintf(b, `<span class="hb-badge" data-hue="%d">%s</span>`, c.Hue, esc(c.Text))
			case CellEmail:
				fmt.Fprintf(b, `<a href="%s">%s</a>`, esc(c.Href), esc(c.Text))
			default:
				writeSpans(b, c.Spans)
			}
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
}

// highlight formats code with chroma, falling back to an escaped <pre>.
func highlight(code, lang string) string {
	plain := `<pre class="chroma"><code>` + esc(code) + "</code></pre>"
	it, err := chroma.Coalesce(lexerFor(code, lang)).Tokenise(nil, code)
	if err != nil {
		return plain
	}
	var buf strings.Builder
	if err := codeFormatter.Format(&buf, styles.Get(CodeStyle), it); err != nil {
		return plain
	}
	return buf.String()
}

func lexerFor(code, lang string) chroma.Lexer {
	if lang != "" {
		if l := lexers.Get(lang); l != nil {
			return l
		}
		if l := lexers.Match("file." + lang); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(code); l != nil {
		return l
	}
	return lexers.Fallback
}
