package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/wardrobe-labs/stylematch/internal/catalog"
	"github.com/wardrobe-labs/stylematch/internal/config"
	"github.com/wardrobe-labs/stylematch/internal/matching"
	"github.com/wardrobe-labs/stylematch/internal/storage"
)

// maxUploadBytes caps uploaded images at 10MB.
const maxUploadBytes = 10 * 1024 * 1024

type Handler struct {
	matcher    *matching.Service
	catalog    *catalog.Catalog
	sessions   *storage.SessionStore
	auth       config.AuthConfig
	staticDir  string
	httpClient *http.Client
}

func New(matcher *matching.Service, cat *catalog.Catalog, sessions *storage.SessionStore, auth config.AuthConfig, staticDir string) *Handler {
	return &Handler{
		matcher:   matcher,
		catalog:   cat,
		sessions:  sessions,
		auth:      auth,
		staticDir: staticDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message, "status", code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("Unable to encode error response", "err", err)
	}
}

// writeMatchingError maps the matching error taxonomy onto HTTP statuses.
// Parse and schema failures carry the raw model output in the payload so a
// misbehaving model can be diagnosed from the client side.
func (h *Handler) writeMatchingError(w http.ResponseWriter, err error) {
	var (
		parseErr  *matching.ParseError
		schemaErr *matching.SchemaError
		invErr    *matching.InvocationError
	)

	switch {
	case errors.Is(err, matching.ErrNoInput):
		h.writeError(w, "message or image is required", http.StatusBadRequest)
	case errors.Is(err, matching.ErrEmptyCatalog):
		h.writeError(w, err.Error(), http.StatusInternalServerError)
	case errors.As(err, &parseErr):
		h.writeErrorWithRaw(w, parseErr.Error(), parseErr.Raw)
	case errors.As(err, &schemaErr):
		h.writeErrorWithRaw(w, schemaErr.Error(), schemaErr.Raw)
	case errors.As(err, &invErr):
		h.writeError(w, invErr.Error(), http.StatusInternalServerError)
	default:
		h.writeError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) writeErrorWithRaw(w http.ResponseWriter, message, raw string) {
	slog.Error(message, "raw_length", len(raw))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message, "raw": raw}); err != nil {
		slog.Error("Unable to encode error response", "err", err)
	}
}
