// internal/app/features/editlog/templates.go
package editlog

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

// templateFS carries list.gohtml, the admin edit history.
//
//go:embed templates/*.gohtml
var templateFS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "editlog",
		FS:       templateFS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
