package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/m-mizutani/ctxlog"
)

const (
	indexName = "/index.html"

	// index.html names the current asset set, so it is always revalidated
	indexCacheControl = "no-cache"
	assetCacheControl = "public, max-age=3600"
)

var assetTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".map":   "application/json; charset=utf-8",
	".png":   "image/png",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// frontendHandler serves the dashboard build. Requests for paths without a
// file extension that match no file get index.html, so reloading a
// client-side route keeps the dashboard open.
type frontendHandler struct {
	fsys    http.FileSystem
	index   []byte
	indexAt time.Time
}

// NewFrontendHandler serves fsys. A build without index.html is answered
// with the built-in placeholder page.
func NewFrontendHandler(ctx context.Context, fsys http.FileSystem) http.Handler {
	index, indexAt, err := readIndex(fsys)
	if err != nil {
		ctxlog.From(ctx).Warn("Frontend build has no index page, using fallback", "error", err)
		return http.HandlerFunc(handleFallbackHome)
	}
	return &frontendHandler{fsys: fsys, index: index, indexAt: indexAt}
}

func readIndex(fsys http.FileSystem) ([]byte, time.Time, error) {
	f, err := fsys.Open(indexName)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, time.Time{}, err
	}
	if stat.IsDir() {
		return nil, time.Time{}, &fs.PathError{Op: "open", Path: indexName, Err: fs.ErrInvalid}
	}
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, time.Time{}, err
	}
	return raw, stat.ModTime(), nil
}

func (h *frontendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	if name == indexName {
		h.serveIndex(w, r)
		return
	}

	f, err := h.fsys.Open(name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if path.Ext(name) != "" {
			http.NotFound(w, r)
			return
		}
		h.serveIndex(w, r)
		return
	case err != nil:
		ctxlog.From(r.Context()).Error("Failed to open frontend file", "path", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		ctxlog.From(r.Context()).Error("Failed to stat frontend file", "path", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if stat.IsDir() {
		h.serveIndex(w, r)
		return
	}

	if ct, ok := assetTypes[path.Ext(name)]; ok {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", assetCacheControl)
	http.ServeContent(w, r, name, stat.ModTime(), f)
}

func (h *frontendHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", assetTypes[".html"])
	w.Header().Set("Cache-Control", indexCacheControl)
	http.ServeContent(w, r, indexName, h.indexAt, bytes.NewReader(h.index))
}
