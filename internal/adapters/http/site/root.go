// Package site serves the embedded landing page that links the API docs
// and operational endpoints.
package site

import (
	"context"
	"net/http"
)

// Register attaches the landing page routes to mux. Only the root and the
// embedded assets are served so unknown paths still return 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	h := NewRootHandler()
	mux.HandleFunc("GET /{$}", h.HandleRoot)
	mux.HandleFunc("GET /site.css", h.HandleRoot)
}

// RootHandler serves the embedded static files.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// HandleRoot serves GET / and the page assets.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}
