// Package search flattens the handbook into records and scores free-text
// queries against them. Results are derived purely from the current records
// and query, so concurrent searches need no coordination.
package search

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/dalemusser/stratahandbook/internal/app/system/content"
	"github.com/dalemusser/stratahandbook/internal/domain/models"
)

// Scoring weights.
const (
	WeightTitlePhrase   = 50
	WeightContentPhrase = 20
	WeightTitleToken    = 15
	WeightKeywordToken  = 25
	WeightContentToken  = 5
	WeightSectionToken  = 5
)

// DefaultLimit caps the number of scored results.
const DefaultLimit = 20

// Record is the searchable projection of one subsection.
type Record struct {
	SectionID    string   `json:"section_id"`
	SectionTitle string   `json:"section_title"`
	SubsectionID string   `json:"subsection_id"`
	Slug         string   `json:"slug,omitempty"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Keywords     []string `json:"keywords,omitempty"`
}

// Anchor is the in-page anchor of the record's subsection.
func (r Record) Anchor() string {
	if r.Slug != "" {
		return r.Slug
	}
	return r.SubsectionID
}

// Result is a record with its score.
type Result struct {
	Record
	Score int `json:"score"`
}

// Options controls Search.
type Options struct {
	// Limit caps scored results; values <= 0 mean DefaultLimit.
	Limit int
	// FAQSectionID is the section listed for an empty query.
	FAQSectionID string
}

// BuildIndex flattens every subsection, including those of nested child
// sections, into one record each. Empty subsections still get a record; they
// score zero against any query.
func BuildIndex(sections []models.Section) []Record {
	var out []Record
	var walk func(secs []models.Section)
	walk = func(secs []models.Section) {
		for _, sec := range secs {
			for _, sub := range sec.Subsections {
				text := content.SearchText(sub)
				var kws []string
				for _, k := range sub.Keywords {
					if k = strings.TrimSpace(k); k != "" {
						kws = append(kws, k)
					}
				}
				out = append(out, Record{
					SectionID:    sec.ID,
					SectionTitle: sec.Title,
					SubsectionID: sub.ID,
					Slug:         sub.Slug,
					Title:        sub.Title,
					Content:      text,
					Keywords:     kws,
				})
			}
			walk(sec.Children)
		}
	}
	walk(sections)
	return out
}

// Score rates how well query matches r. Zero means no match.
func Score(query string, r Record) int {
	q := strings.TrimSpace(query)
	if q == "" {
		return 0
	}

	score := 0
	lq := fold(q)
	if strings.Contains(fold(r.Title), lq) {
		score += WeightTitlePhrase
	}
	if strings.Contains(fold(r.Content), lq) {
		score += WeightContentPhrase
	}

	title := Normalize(r.Title)
	body := Normalize(r.Content)
	section := Normalize(r.SectionTitle)
	keywords := make([]string, 0, len(r.Keywords))
	for _, k := range r.Keywords {
		if nk := Normalize(k); nk != "" {
			keywords = append(keywords, nk)
		}
	}

	for _, tok := range strings.Fields(q) {
		forms := tokenForms(tok)
		if len(forms) == 0 {
			continue
		}
		if containsAny(title, forms) {
			score += WeightTitleToken
		}
		for _, k := range keywords {
			if containsAny(k, forms) {
				score += WeightKeywordToken
				break
			}
		}
		if containsAny(body, forms) {
			score += WeightContentToken
		}
		if containsAny(section, forms) {
			score += WeightSectionToken
		}
	}
	return score
}

// Search scores every record and returns the matches, best first. Ties keep
// index order. An empty query lists the FAQ section's records unscored, in
// index order.
func Search(records []Record, query string, opts Options) []Result {
	if strings.TrimSpace(query) == "" {
		var out []Result
		for _, r := range records {
			if r.SectionID == opts.FAQSectionID {
				out = append(out, Result{Record: r})
			}
		}
		return out
	}

	var out []Result
	for _, r := range records {
		if s := Score(query, r); s > 0 {
			out = append(out, Result{Record: r, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Normalize composes Hangul (NFC), case-folds, and strips whitespace and
// punctuation.
func Normalize(s string) string {
	s = fold(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, s)
}

// fold is NFC plus Unicode case folding. A Caser holds state, so one is made
// per call.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// tokenForms returns the normalized original token and, when different, its
// particle-stripped form.
func tokenForms(tok string) []string {
	var forms []string
	if n := Normalize(tok); n != "" {
		forms = append(forms, n)
	}
	if refined := Normalize(StripParticle(tok)); refined != "" && (len(forms) == 0 || refined != forms[0]) {
		forms = append(forms, refined)
	}
	return forms
}

func containsAny(field string, forms []string) bool {
	if field == "" {
		return false
	}
	for _, f := range forms {
		if strings.Contains(field, f) {
			return true
		}
	}
	return false
}
