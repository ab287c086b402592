// internal/app/features/handbook/templates.go
package handbook

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

// templateFS carries the handbook page with its section and card partials,
// the editor with block and grid fragments, preview and search results.
//
//go:embed templates/*.gohtml
var templateFS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "handbook",
		FS:       templateFS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
