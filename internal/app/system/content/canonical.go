package content

import (
	"strings"

	"github.com/dalemusser/stratahandbook/internal/app/system/markup"
	"github.com/dalemusser/stratahandbook/internal/app/system/tablegrid"
	"github.com/dalemusser/stratahandbook/internal/domain/models"
	"github.com/google/uuid"
)

// Canonicalize prepares an edited subsection for storage. Blocks become the
// only content: unknown kinds and blank blocks are dropped, tables are
// re-serialized through the grid model, list lines without a marker get a
// bullet, and the legacy flat text is cleared. The legacy media, link and
// disclaimer fields are refreshed from the blocks so older readers of the
// document still see them.
func Canonicalize(sub models.Subsection) models.Subsection {
	sub.Title = strings.TrimSpace(sub.Title)
	sub.Slug = NormalizeSlug(sub.Slug)

	var kws []string
	seen := map[string]bool{}
	for _, k := range sub.Keywords {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kws = append(kws, k)
	}
	sub.Keywords = kws

	blocks := make([]models.ContentBlock, 0, len(sub.Blocks))
	for _, b := range sub.Blocks {
		if !models.IsValidBlockKind(b.Kind) {
			continue
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		b.Value = strings.ReplaceAll(b.Value, "\r\n", "\n")
		switch b.Kind {
		case models.BlockDivider:
			b.Value, b.Label = "", ""
			blocks = append(blocks, b)
			continue
		case models.BlockTable:
			g := tablegrid.Parse(b.Value)
			if blankGrid(g) {
				continue
			}
			b.Value = g.Serialize()
		case models.BlockList:
			b.Value = canonicalList(b.Value)
		case models.BlockCode:
			b.Value = strings.TrimRight(b.Value, "\n")
		default:
			b.Value = strings.TrimSpace(b.Value)
		}
		if b.Kind != models.BlockLink {
			b.Label = ""
		} else {
			b.Label = strings.TrimSpace(b.Label)
		}
		if strings.TrimSpace(b.Value) == "" {
			continue
		}
		blocks = append(blocks, b)
	}
	sub.Blocks = blocks
	sub.Content = nil

	snap := Snapshot(models.Subsection{Blocks: blocks})
	sub.Media = snap.Media
	sub.ExternalLink = snap.ExternalLink
	sub.LinkLabel = ""
	for _, b := range blocks {
		if b.Kind == models.BlockLink {
			sub.LinkLabel = b.Label
			break
		}
	}
	sub.Disclaimer = snap.DisclaimerNote

	if !models.IsArchiveSlug(sub.Slug) {
		sub.ArchiveJSON = ""
	} else if enc, err := EncodeArchive(ParseArchive(sub.Slug, sub.ArchiveJSON)); err == nil {
		sub.ArchiveJSON = enc
	}
	return sub
}

// canonicalList keeps one item per non-blank line. A line without a marker
// becomes a bullet at the same indent.
func canonicalList(value string) string {
	var out []string
	for _, line := range strings.Split(value, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		line = strings.TrimRight(line, " \t")
		if _, ok := markup.ParseListItem(line); !ok {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			line = indent + "- " + strings.TrimSpace(line)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func blankGrid(g tablegrid.Grid) bool {
	for _, row := range g {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return false
			}
		}
	}
	return true
}
