// Package frontend provides a static file server for the codebook explorer
package frontend

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	static "github.com/ethpandaops/codebook/frontend"
)

type handler struct {
	fileHandler http.Handler
	filesystem  fs.FS
}

// NewHandler creates a new frontend HTTP handler with SPA fallback support
func NewHandler() (http.Handler, error) {
	frontendFS, err := fs.Sub(static.FS, "build/frontend")
	if err != nil {
		return nil, fmt.Errorf("failed to load frontend filesystem: %w", err)
	}

	return newHandler(frontendFS), nil
}

func newHandler(filesystem fs.FS) *handler {
	return &handler{
		filesystem:  filesystem,
		fileHandler: http.FileServer(http.FS(filesystem)),
	}
}

// ServeHTTP serves an existing asset, or index.html for anything else
func (h *handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/")
	if path != "" && h.fileExists(path) {
		h.fileHandler.ServeHTTP(w, req)
		return
	}

	req.URL.Path = "/"
	h.fileHandler.ServeHTTP(w, req)
}

// fileExists reports whether path names a regular file in the frontend filesystem
func (h *handler) fileExists(path string) bool {
	info, err := fs.Stat(h.filesystem, path)
	return err == nil && !info.IsDir()
}
