// Package render turns subsection content into a document tree that the
// handbook templates (and HTML) display.
//
// Paragraph, list, quote and disclaimer blocks are re-run through the line
// classifier, so a paragraph block may itself contain lists or tables.
// Malformed input degrades to plain paragraphs; rendering never fails.
package render

import (
	"net/url"
	"strings"

	"github.com/dalemusser/stratahandbook/internal/app/system/content"
	"github.com/dalemusser/stratahandbook/internal/app/system/markup"
	"github.com/dalemusser/stratahandbook/internal/domain/models"
)

// NodeKind identifies a render node.
type NodeKind string

const (
	NodeHeading    NodeKind = "heading"
	NodeParagraph  NodeKind = "paragraph"
	NodeList       NodeKind = "list"
	NodeTable      NodeKind = "table"
	NodeCode       NodeKind = "code"
	NodeQuote      NodeKind = "quote"
	NodeDisclaimer NodeKind = "disclaimer"
	NodeMedia      NodeKind = "media"
	NodeLink       NodeKind = "link"
	NodeRule       NodeKind = "rule"
)

// BlockHeadingLevel is the level of headings authored as heading blocks.
const BlockHeadingLevel = 3

// Node is one element of the render tree. Which fields are set depends on
// Kind:
//   - heading: Level, First, Spans
//   - paragraph: Lines (one span list per source line)
//   - list: List
//   - table: Table
//   - code: Code, Lang
//   - quote, disclaimer: Children
//   - media: URL, Label (alt text)
//   - link: URL, Label, Host
type Node struct {
	Kind     NodeKind
	Level    int
	First    bool
	Spans    []markup.Span
	Lines    [][]markup.Span
	List     *List
	Table    *Table
	Code     string
	Lang     string
	Children []Node
	URL      string
	Label    string
	Host     string
}

// Render converts blocks into nodes. Every non-divider block yields at least
// one node.
func Render(blocks []models.ContentBlock) []Node {
	var nodes []Node
	for _, b := range blocks {
		nodes = append(nodes, renderBlock(b, len(nodes) == 0)...)
	}
	return nodes
}

// RenderLegacy renders flat legacy lines directly through the classifier.
func RenderLegacy(lines []string) []Node {
	nodes := renderLines(lines)
	markFirst(nodes)
	return nodes
}

// RenderSource renders whichever representation src holds.
func RenderSource(src content.Source) []Node {
	if src.IsEmpty() {
		return nil
	}
	switch src.Kind {
	case content.SourceBlocks:
		return Render(src.Blocks)
	case content.SourceLegacy:
		nodes := RenderLegacy(src.Lines)
		trailer := Render(src.Trailer)
		if len(nodes) > 0 && len(trailer) > 0 {
			trailer[0].First = false
		}
		return append(nodes, trailer...)
	default:
		return nil
	}
}

// RenderSubsection is RenderSource over content.SourceOf(sub).
func RenderSubsection(sub models.Subsection) []Node {
	return RenderSource(content.SourceOf(sub))
}

func renderBlock(b models.ContentBlock, first bool) []Node {
	switch b.Kind {
	case models.BlockHeading:
		return []Node{{
			Kind:  NodeHeading,
			Level: BlockHeadingLevel,
			First: first,
			Spans: markup.ParseInline(strings.TrimSpace(b.Value)),
		}}

	case models.BlockParagraph, models.BlockList:
		nodes := renderLines(markup.SplitLines(b.Value))
		if first {
			markFirst(nodes)
		}
		return orEmpty(nodes)

	case models.BlockQuote:
		return []Node{{Kind: NodeQuote, Children: renderLines(markup.SplitLines(b.Value))}}

	case models.BlockDisclaimer:
		return []Node{{Kind: NodeDisclaimer, Children: renderLines(markup.SplitLines(b.Value))}}

	case models.BlockCode:
		return []Node{{Kind: NodeCode, Code: b.Value}}

	case models.BlockTable:
		if t := BuildTable(markup.SplitLines(b.Value)); t != nil {
			return []Node{{Kind: NodeTable, Table: t}}
		}
		return orEmpty(paragraph(markup.SplitLines(b.Value)))

	case models.BlockMedia:
		if u := strings.TrimSpace(b.Value); u != "" {
			return []Node{{Kind: NodeMedia, URL: u, Label: b.Label}}
		}
		return orEmpty(nil)

	case models.BlockLink:
		if u := strings.TrimSpace(b.Value); u != "" {
			return []Node{linkNode(u, b.Label)}
		}
		return orEmpty(paragraph([]string{b.Label}))

	case models.BlockDivider:
		return []Node{{Kind: NodeRule}}

	default:
		return orEmpty(renderLines(markup.SplitLines(b.Value)))
	}
}

// renderLines is the recursive markdown renderer over classifier groups.
func renderLines(lines []string) []Node {
	var nodes []Node
	for _, g := range markup.Classify(lines) {
		switch g.Kind {
		case markup.GroupHeading:
			nodes = append(nodes, Node{Kind: NodeHeading, Level: g.Level, Spans: markup.ParseInline(g.Text)})
		case markup.GroupParagraph:
			nodes = append(nodes, paragraph(g.Lines)...)
		case markup.GroupList:
			nodes = append(nodes, Node{Kind: NodeList, List: BuildList(g.Items)})
		case markup.GroupTable:
			if t := BuildTable(g.Lines); t != nil {
				nodes = append(nodes, Node{Kind: NodeTable, Table: t})
			} else {
				nodes = append(nodes, paragraph(g.Lines)...)
			}
		case markup.GroupCode:
			nodes = append(nodes, Node{Kind: NodeCode, Code: strings.Join(g.Lines, "\n"), Lang: g.Lang})
		case markup.GroupQuote:
			nodes = append(nodes, Node{Kind: NodeQuote, Children: renderLines(g.Lines)})
		case markup.GroupImage:
			if g.URL != "" {
				nodes = append(nodes, Node{Kind: NodeMedia, URL: g.URL, Label: g.Text})
			}
		case markup.GroupLink:
			if g.URL != "" {
				nodes = append(nodes, linkNode(g.URL, g.Text))
			} else {
				nodes = append(nodes, paragraph([]string{g.Text})...)
			}
		case markup.GroupDivider:
			nodes = append(nodes, Node{Kind: NodeRule})
		}
	}
	return nodes
}

func paragraph(lines []string) []Node {
	var out [][]markup.Span
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, markup.ParseInline(l))
	}
	if len(out) == 0 {
		return nil
	}
	return []Node{{Kind: NodeParagraph, Lines: out}}
}

// orEmpty guarantees a block renders to at least one node.
func orEmpty(nodes []Node) []Node {
	if len(nodes) == 0 {
		return []Node{{Kind: NodeParagraph}}
	}
	return nodes
}

func markFirst(nodes []Node) {
	if len(nodes) > 0 && nodes[0].Kind == NodeHeading {
		nodes[0].First = true
	}
}

func linkNode(target, label string) Node {
	host := Hostname(target)
	label = strings.TrimSpace(label)
	if label == "" {
		label = host
	}
	return Node{Kind: NodeLink, URL: target, Label: label, Host: host}
}

// Hostname derives the display host of a link: the URL host without a
// leading "www.", or the raw target when it has no host.
func Hostname(target string) string {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil || u.Hostname() == "" {
		return strings.TrimSpace(target)
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
