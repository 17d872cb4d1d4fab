// Package site serves the embedded HTML pages of the ranking UI.
package site

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("site serve failed")
)

//go:embed static/*.html
var staticFS embed.FS

// pages maps a route to its embedded file.
var pages = map[string]string{
	"/{$}":           "index.html",
	"/view":          "view.html",
	"/generate-page": "generate.html",
}

// FS returns the embedded pages rooted at static/.
func FS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}

// Register attaches the page routes to mux. "/" matches only the root path,
// so unknown paths still 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	fsys := FS()
	for pattern, name := range pages {
		h := NewPageHandler(fsys, name)
		mux.HandleFunc(pattern, h.HandlePage)
	}
}

// PageHandler serves one embedded page.
type PageHandler struct {
	fsys fs.FS
	name string
}

// NewPageHandler creates a handler for the page name within fsys.
func NewPageHandler(fsys fs.FS, name string) *PageHandler {
	return &PageHandler{fsys: fsys, name: name}
}

// HandlePage handles GET requests for the page.
func (h *PageHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	body, err := fs.ReadFile(h.fsys, h.name)
	if err != nil {
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}
