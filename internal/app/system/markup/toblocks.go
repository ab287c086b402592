package markup

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dalemusser/stratahandbook/internal/domain/models"
)

// NewBlock returns a block of the given kind with a fresh ID.
func NewBlock(kind models.BlockKind, value string) models.ContentBlock {
	return models.ContentBlock{ID: uuid.NewString(), Kind: kind, Value: value}
}

// ToBlocks converts legacy lines into content blocks, one per line group.
//
// Standalone image lines are not emitted in place: they are hoisted into a
// single trailing media block, and when several exist the last one wins.
func ToBlocks(lines []string) []models.ContentBlock {
	var blocks []models.ContentBlock
	media := ""

	for _, g := range Classify(lines) {
		switch g.Kind {
		case GroupHeading:
			blocks = append(blocks, NewBlock(models.BlockHeading, g.Text))
		case GroupParagraph:
			blocks = append(blocks, NewBlock(models.BlockParagraph, strings.Join(g.Lines, "\n")))
		case GroupList:
			raw := make([]string, len(g.Items))
			for i, it := range g.Items {
				raw[i] = it.Raw
			}
			blocks = append(blocks, NewBlock(models.BlockList, strings.Join(raw, "\n")))
		case GroupQuote:
			blocks = append(blocks, NewBlock(models.BlockQuote, strings.Join(g.Lines, "\n")))
		case GroupCode:
			blocks = append(blocks, NewBlock(models.BlockCode, strings.Join(g.Lines, "\n")))
		case GroupTable:
			blocks = append(blocks, NewBlock(models.BlockTable, g.Grid().Serialize()))
		case GroupDivider:
			blocks = append(blocks, NewBlock(models.BlockDivider, ""))
		case GroupLink:
			b := NewBlock(models.BlockLink, g.URL)
			b.Label = g.Text
			blocks = append(blocks, b)
		case GroupImage:
			media = g.URL
		}
	}

	if media != "" {
		blocks = append(blocks, NewBlock(models.BlockMedia, media))
	}
	return blocks
}

// FromBlocks flattens blocks back into legacy text. It is the inverse used
// for snapshots and search; re-parsing the result with ToBlocks shows the
// same information.
func FromBlocks(blocks []models.ContentBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		var s string
		switch b.Kind {
		case models.BlockHeading:
			s = "### " + b.Value
		case models.BlockCode:
			s = "```\n" + b.Value + "\n```"
		case models.BlockQuote:
			lines := SplitLines(b.Value)
			for i, l := range lines {
				lines[i] = "> " + l
			}
			s = strings.Join(lines, "\n")
		case models.BlockDivider:
			s = "---"
		case models.BlockMedia:
			s = "![](" + b.Value + ")"
		case models.BlockLink:
			label := b.Label
			if label == "" {
				label = b.Value
			}
			s = "[" + label + "](" + b.Value + ")"
		default:
			s = b.Value
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n\n")
}
