package content

import (
	"regexp"
	"strings"

	"github.com/dalemusser/stratahandbook/internal/app/system/markup"
	"github.com/dalemusser/stratahandbook/internal/domain/models"
)

// Snapshot captures the loggable state of a subsection.
func Snapshot(sub models.Subsection) *models.Snapshot {
	snap := &models.Snapshot{
		Slug:           sub.Slug,
		Title:          sub.Title,
		Media:          sub.Media,
		ExternalLink:   sub.ExternalLink,
		DisclaimerNote: sub.Disclaimer,
	}
	if len(sub.Blocks) == 0 {
		snap.BodyContent = strings.Join(sub.Content.Lines(), "\n")
		return snap
	}

	var body []models.ContentBlock
	linked := false
	for _, b := range sub.Blocks {
		switch b.Kind {
		case models.BlockMedia:
			snap.Media = b.Value
		case models.BlockLink:
			if !linked {
				snap.ExternalLink = b.Value
				linked = true
			}
		case models.BlockDisclaimer:
			snap.DisclaimerNote = b.Value
		default:
			body = append(body, b)
		}
	}
	snap.BodyContent = markup.FromBlocks(body)
	return snap
}

// SearchText returns the plain text of a subsection for indexing: every
// text-bearing block (or the legacy lines) with inline markup stripped.
func SearchText(sub models.Subsection) string {
	var lines []string
	src := SourceOf(sub)
	switch src.Kind {
	case SourceBlocks:
		for _, b := range src.Blocks {
			switch b.Kind {
			case models.BlockMedia, models.BlockDivider:
				continue
			case models.BlockLink:
				lines = append(lines, b.Label)
			default:
				lines = append(lines, markup.SplitLines(b.Value)...)
			}
		}
	case SourceLegacy:
		lines = append(lines, src.Lines...)
		for _, b := range src.Trailer {
			switch b.Kind {
			case models.BlockLink:
				lines = append(lines, b.Label)
			case models.BlockDisclaimer:
				lines = append(lines, b.Value)
			}
		}
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if s := strings.TrimSpace(markup.StripInline(l)); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

var (
	slugRe      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// ValidSlug reports whether s is empty or a lowercase alnum+hyphen anchor.
func ValidSlug(s string) bool {
	return s == "" || slugRe.MatchString(s)
}

// NormalizeSlug lowercases s and collapses every run of other characters
// into a single hyphen.
func NormalizeSlug(s string) string {
	s = slugStripRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(s, "-")
}
