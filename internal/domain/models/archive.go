// internal/domain/models/archive.go
package models

import "strings"

// ArchiveEntry is one month of an archive gallery.
type ArchiveEntry struct {
	Title       string `json:"title,omitempty"`
	Winner      string `json:"winner,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Description string `json:"description,omitempty"`
}

// Populated reports whether any field carries content.
func (e ArchiveEntry) Populated() bool {
	return strings.TrimSpace(e.Title) != "" ||
		strings.TrimSpace(e.Winner) != "" ||
		strings.TrimSpace(e.ImageURL) != "" ||
		strings.TrimSpace(e.Description) != ""
}

// ArchiveData is a sparse year -> month -> entry map. Keys are decimal
// strings ("2024", "3") as stored in the serialized payload.
type ArchiveData map[string]map[string]ArchiveEntry

// Archive slugs that carry an ArchiveJSON payload.
const (
	ArchiveSlugMonthlyAward = "monthly-award"
	ArchiveSlugPhotoContest = "photo-contest"
	ArchiveSlugBookClub     = "book-club"
)

// ArchiveSlugs returns the allow-list of archive-bearing slugs.
func ArchiveSlugs() []string {
	return []string{
		ArchiveSlugMonthlyAward,
		ArchiveSlugPhotoContest,
		ArchiveSlugBookClub,
	}
}

// IsArchiveSlug checks if slug is in the archive allow-list.
func IsArchiveSlug(slug string) bool {
	for _, s := range ArchiveSlugs() {
		if s == slug {
			return true
		}
	}
	return false
}
