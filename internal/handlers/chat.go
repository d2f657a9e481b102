package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wardrobe-labs/stylematch/internal/matching"
	"github.com/wardrobe-labs/stylematch/internal/models"
)

// HandleChat runs one conversational matching turn. Multipart form uploads
// carry the image directly; a JSON body may instead reference an image URL
// the server downloads.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleURLChat(w, r)
		return
	}

	h.handleUploadChat(w, r)
}

func (h *Handler) handleUploadChat(w http.ResponseWriter, r *http.Request) {
	message := r.FormValue("message")

	history, err := decodeHistory(r.FormValue("history"))
	if err != nil {
		h.writeError(w, "Invalid history: "+err.Error(), http.StatusBadRequest)
		return
	}

	var imageData []byte
	var imageMIME string
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()

		imageData, err = io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			h.writeError(w, "Failed to read image: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if len(imageData) >= maxUploadBytes {
			h.writeError(w, "Image too large (max 10MB)", http.StatusBadRequest)
			return
		}
		imageMIME = header.Header.Get("Content-Type")
	}

	h.runMatch(w, r, matching.Request{
		Text:      message,
		Image:     imageData,
		ImageMIME: imageMIME,
		History:   history,
	})
}

func (h *Handler) handleURLChat(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Message  string                    `json:"message"`
		ImageURL string                    `json:"image_url"`
		History  []models.ConversationTurn `json:"history"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	for _, turn := range request.History {
		if err := turn.Validate(); err != nil {
			h.writeError(w, "Invalid history: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	var imageData []byte
	var imageMIME string
	if request.ImageURL != "" {
		var err error
		imageData, imageMIME, err = h.downloadImage(request.ImageURL)
		if err != nil {
			h.writeError(w, "Failed to fetch image URL: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	h.runMatch(w, r, matching.Request{
		Text:      request.Message,
		Image:     imageData,
		ImageMIME: imageMIME,
		History:   request.History,
	})
}

func (h *Handler) runMatch(w http.ResponseWriter, r *http.Request, req matching.Request) {
	resp, err := h.matcher.Match(r.Context(), req)
	if err != nil {
		h.writeMatchingError(w, err)
		return
	}
	h.writeJSON(w, resp)
}

func (h *Handler) downloadImage(imageURL string) ([]byte, string, error) {
	resp, err := h.httpClient.Get(imageURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxUploadBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}

	mime := resp.Header.Get("Content-Type")
	return imageData, mime, nil
}

// decodeHistory parses the client-held transcript from the form field.
// An empty field means a fresh conversation.
func decodeHistory(raw string) ([]models.ConversationTurn, error) {
	if raw == "" {
		return nil, nil
	}
	var history []models.ConversationTurn
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, err
	}
	for _, turn := range history {
		if err := turn.Validate(); err != nil {
			return nil, err
		}
	}
	return history, nil
}
