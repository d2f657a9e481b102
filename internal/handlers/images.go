package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/wardrobe-labs/stylematch/internal/models"
)

// HandleCatalogImage serves a reference image by filename from the
// in-memory catalog. Filenames must be bare names inside the catalog
// directory; anything with path separators or traversal sequences is
// rejected before any lookup happens.
func (h *Handler) HandleCatalogImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/api/catalog/images/")
	if !validCatalogFilename(filename) {
		h.writeError(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	data, mime, err := h.catalog.Image(filename)
	if err != nil {
		h.writeError(w, "Image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", mime)
	// Catalog images are immutable for the process lifetime.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := w.Write(data); err != nil {
		return
	}
}

// HandleCatalog lists the catalog entries and their metadata so the client
// can render the reference set.
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type catalogItem struct {
		Filename string              `json:"filename"`
		ImageURL string              `json:"image_url"`
		Metadata models.ItemMetadata `json:"metadata"`
	}

	entries := h.catalog.Entries()
	items := make([]catalogItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, catalogItem{
			Filename: e.Filename,
			ImageURL: "/api/catalog/images/" + e.Filename,
			Metadata: e.Metadata,
		})
	}

	h.writeJSON(w, map[string]any{"items": items})
}

// validCatalogFilename accepts only a bare filename that stays inside the
// catalog directory once cleaned.
func validCatalogFilename(name string) bool {
	if name == "" || strings.Contains(name, "..") {
		return false
	}
	if strings.ContainsAny(name, "/\\") {
		return false
	}
	return filepath.Clean(name) == name
}
