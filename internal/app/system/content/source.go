// Package content normalizes subsection content for the rest of the app. A
// subsection carries either canonical blocks or legacy flat text; callers go
// through Source instead of branching on the two shapes themselves.
package content

import (
	"strings"

	"github.com/dalemusser/stratahandbook/internal/app/system/markup"
	"github.com/dalemusser/stratahandbook/internal/domain/models"
)

// SourceKind tells which representation a Source holds.
type SourceKind int

const (
	SourceEmpty SourceKind = iota
	SourceBlocks
	SourceLegacy
)

// Source is the render input of one subsection.
//
// For SourceBlocks only Blocks is set. For SourceLegacy, Lines holds the flat
// text and Trailer holds blocks derived from the legacy media, link and
// disclaimer fields, rendered after the text.
type Source struct {
	Kind    SourceKind
	Blocks  []models.ContentBlock
	Lines   []string
	Trailer []models.ContentBlock
}

// IsEmpty reports whether the source has nothing to render.
func (s Source) IsEmpty() bool { return s.Kind == SourceEmpty }

// SourceOf selects the representation to render for sub. Non-empty blocks
// win; otherwise the legacy fields are used.
func SourceOf(sub models.Subsection) Source {
	if len(sub.Blocks) > 0 {
		return Source{Kind: SourceBlocks, Blocks: sub.Blocks}
	}
	src := Source{Kind: SourceLegacy}
	if !sub.Content.IsEmpty() {
		src.Lines = sub.Content.Lines()
	}
	src.Trailer = legacyTrailer(sub, "")
	if len(src.Lines) == 0 && len(src.Trailer) == 0 {
		return Source{Kind: SourceEmpty}
	}
	return src
}

// legacyTrailer builds the blocks for the legacy media, link and disclaimer
// fields. Legacy media is skipped when an image line was already hoisted.
func legacyTrailer(sub models.Subsection, hoisted string) []models.ContentBlock {
	var out []models.ContentBlock
	if m := strings.TrimSpace(sub.Media); m != "" && hoisted == "" {
		out = append(out, markup.NewBlock(models.BlockMedia, m))
	}
	if l := strings.TrimSpace(sub.ExternalLink); l != "" {
		b := markup.NewBlock(models.BlockLink, l)
		b.Label = strings.TrimSpace(sub.LinkLabel)
		out = append(out, b)
	}
	if d := strings.TrimSpace(sub.Disclaimer); d != "" {
		out = append(out, markup.NewBlock(models.BlockDisclaimer, d))
	}
	return out
}

// MigrateLegacy converts a legacy subsection into canonical blocks: the
// flat text through markup.ToBlocks, then the media, link and disclaimer
// fields. A subsection that already has blocks is returned unchanged.
func MigrateLegacy(sub models.Subsection) []models.ContentBlock {
	if len(sub.Blocks) > 0 {
		return sub.Blocks
	}
	var blocks []models.ContentBlock
	if !sub.Content.IsEmpty() {
		blocks = markup.ToBlocks(sub.Content.Lines())
	}
	hoisted := ""
	if n := len(blocks); n > 0 && blocks[n-1].Kind == models.BlockMedia {
		hoisted = blocks[n-1].Value
	}
	return append(blocks, legacyTrailer(sub, hoisted)...)
}

// NewSubsectionBlocks returns the initial blocks of a freshly created
// subsection: a single empty paragraph.
func NewSubsectionBlocks() []models.ContentBlock {
	return []models.ContentBlock{markup.NewBlock(models.BlockParagraph, "")}
}
