// internal/domain/models/section.go
package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Section is a top-level navigable topic of the handbook (e.g. "Welfare").
// ID is both the navigation key and the document _id in the sections collection.
type Section struct {
	ID          string `bson:"_id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	HeroImage   string `bson:"hero_image,omitempty" json:"hero_image,omitempty"`
	HeroVideo   string `bson:"hero_video,omitempty" json:"hero_video,omitempty"`

	// Icon is a reference into the embedded icon set; it is never persisted.
	Icon string `bson:"-" json:"-"`

	// Order drives navigation. It comes from the built-in catalog.
	Order int `bson:"order" json:"order"`

	Subsections []Subsection `bson:"subsections,omitempty" json:"subsections,omitempty"`
	Children    []Section    `bson:"children,omitempty" json:"children,omitempty"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedBy string     `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// Subsection is one editable content card within a Section.
//
// Blocks is the source of truth when non-empty. Content is the deprecated flat
// representation kept for backward compatibility; it is the renderer input
// only when Blocks is empty.
type Subsection struct {
	ID       string   `bson:"id" json:"id"`
	Slug     string   `bson:"slug,omitempty" json:"slug,omitempty"`
	Title    string   `bson:"title" json:"title"`
	Keywords []string `bson:"keywords,omitempty" json:"keywords,omitempty"`

	Content LegacyContent  `bson:"content,omitempty" json:"content,omitempty"`
	Blocks  []ContentBlock `bson:"blocks,omitempty" json:"blocks,omitempty"`

	// Derived / legacy fields
	Media        string `bson:"media,omitempty" json:"media,omitempty"`
	ExternalLink string `bson:"external_link,omitempty" json:"external_link,omitempty"`
	LinkLabel    string `bson:"link_label,omitempty" json:"link_label,omitempty"`
	Disclaimer   string `bson:"disclaimer,omitempty" json:"disclaimer,omitempty"`
	ArchiveJSON  string `bson:"archive_json,omitempty" json:"archive_json,omitempty"`
}

// FindSubsection returns the index of the subsection with the given ID, or -1.
func (s *Section) FindSubsection(id string) int {
	for i := range s.Subsections {
		if s.Subsections[i].ID == id {
			return i
		}
	}
	return -1
}

// LegacyContent is the pre-block flat text of a subsection. Stored documents
// hold either a single string or an array of strings; both decode into a
// slice of lines.
type LegacyContent []string

// Lines returns the content split into individual lines. Array elements that
// themselves contain newlines are split too.
func (c LegacyContent) Lines() []string {
	var out []string
	for _, part := range c {
		out = append(out, strings.Split(strings.ReplaceAll(part, "\r\n", "\n"), "\n")...)
	}
	return out
}

// IsEmpty reports whether there is no non-blank legacy text.
func (c LegacyContent) IsEmpty() bool {
	for _, part := range c {
		if strings.TrimSpace(part) != "" {
			return false
		}
	}
	return true
}

// UnmarshalBSONValue accepts a string, an array of strings, or null.
func (c *LegacyContent) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*c = nil
		return nil
	case bsontype.String:
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return err
		}
		*c = LegacyContent{s}
		return nil
	case bsontype.Array:
		var raw []interface{}
		if err := bson.UnmarshalValue(t, data, &raw); err != nil {
			return err
		}
		out := make(LegacyContent, 0, len(raw))
		for _, v := range raw {
			// Non-string elements are skipped rather than failing the whole document.
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		*c = out
		return nil
	default:
		return errors.New("legacy content: unsupported bson type " + t.String())
	}
}

// UnmarshalJSON accepts a string, an array of strings, or null.
func (c *LegacyContent) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*c = nil
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = LegacyContent{s}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(LegacyContent, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
		}
	}
	*c = out
	return nil
}
