// internal/app/features/errors/templates.go
package errors

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

// templateFS carries the full error pages plus fragment.gohtml for htmx swaps.
//
//go:embed templates/*.gohtml
var templateFS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "errors",
		FS:       templateFS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
