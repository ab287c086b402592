// Package htmlsanitize is the last step of rendering: every handbook
// fragment passes through one bluemonday policy before a template sees it.
// Content is admin-authored but carries arbitrary URLs and cell text.
package htmlsanitize

import (
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var policy = newPolicy()

// newPolicy extends the UGC policy with what the renderer emits: grouped
// tables, callouts, figures, the code copy button, hb-* classes and the
// data-hue / data-copy attributes.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
	p.AllowElements("details", "summary", "aside", "figure", "button")
	p.AllowAttrs("open").Matching(regexp.MustCompile(`^(open)?$`)).OnElements("details")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^button$`)).OnElements("button")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^lazy$`)).OnElements("img")

	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)).Globally()
	p.AllowDataAttributes()

	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Sanitize returns html with everything outside the policy removed.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return policy.Sanitize(html)
}

// Rendered sanitizes renderer output for direct use in a template.
func Rendered(html string) template.HTML {
	return template.HTML(Sanitize(html))
}
