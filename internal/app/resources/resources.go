// internal/app/resources/resources.go
package resources

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/dalemusser/stratahandbook/internal/app/system/render"
	"github.com/dalemusser/waffle/pantry/templates"
)

// templates/ holds the page layout every feature renders inside.
//
//go:embed templates/*.gohtml
var layoutFS embed.FS

//go:embed assets/css/*.css assets/js/*.js
var assetsFS embed.FS

var registerOnce sync.Once

// LoadSharedTemplates registers the layout set. It must run before the
// template engine boots; repeat calls are no-ops so tests can share it.
func LoadSharedTemplates() {
	registerOnce.Do(func() {
		templates.Register(templates.Set{
			Name:     "shared",
			FS:       layoutFS,
			Patterns: []string{"templates/*.gohtml"},
		})
	})
}

// Assets is the embedded css/ and js/ tree.
func Assets() fs.FS {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return sub
}

// AssetsHandler serves Assets under prefix. Files are versioned by deploy,
// so caching is short.
func AssetsHandler(prefix string) http.Handler {
	files := http.StripPrefix(strings.TrimSuffix(prefix, "/"), http.FileServerFS(Assets()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		files.ServeHTTP(w, r)
	})
}

// CodeCSSHandler serves the syntax highlighting stylesheet for code blocks.
// The stylesheet is generated once and reused.
func CodeCSSHandler() http.Handler {
	css, err := render.CodeCSS()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			http.Error(w, "stylesheet unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(css)
	})
}
