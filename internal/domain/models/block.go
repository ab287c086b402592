// internal/domain/models/block.go
package models

// BlockKind identifies the type of a ContentBlock.
type BlockKind string

// Block kinds produced by the editor.
const (
	BlockHeading    BlockKind = "heading"
	BlockParagraph  BlockKind = "paragraph"
	BlockList       BlockKind = "list"
	BlockQuote      BlockKind = "quote"
	BlockCode       BlockKind = "code"
	BlockTable      BlockKind = "table"
	BlockDivider    BlockKind = "divider"
	BlockMedia      BlockKind = "media"
	BlockLink       BlockKind = "link"
	BlockDisclaimer BlockKind = "disclaimer"
)

// AllBlockKinds returns every block kind in editor menu order.
func AllBlockKinds() []BlockKind {
	return []BlockKind{
		BlockHeading,
		BlockParagraph,
		BlockList,
		BlockQuote,
		BlockCode,
		BlockTable,
		BlockDivider,
		BlockMedia,
		BlockLink,
		BlockDisclaimer,
	}
}

// IsValidBlockKind checks if k is a known block kind.
func IsValidBlockKind(k BlockKind) bool {
	for _, known := range AllBlockKinds() {
		if known == k {
			return true
		}
	}
	return false
}

// ContentBlock is one visual unit within a subsection.
//
// Value holds raw text for paragraph, list, quote, code, table, disclaimer and
// heading blocks, and the URL for media and link blocks. Label is only used
// by link blocks (display text).
type ContentBlock struct {
	ID    string    `bson:"id" json:"id"`
	Kind  BlockKind `bson:"type" json:"type"`
	Value string    `bson:"value,omitempty" json:"value,omitempty"`
	Label string    `bson:"label,omitempty" json:"label,omitempty"`
}
