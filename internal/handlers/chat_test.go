package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wardrobe-labs/stylematch/internal/catalog"
	"github.com/wardrobe-labs/stylematch/internal/config"
	"github.com/wardrobe-labs/stylematch/internal/matching"
	"github.com/wardrobe-labs/stylematch/internal/models"
	"github.com/wardrobe-labs/stylematch/internal/providers"
	"github.com/wardrobe-labs/stylematch/internal/storage"
)

// fakeProvider records invocations and plays back a canned response.
type fakeProvider struct {
	response string
	calls    int
}

func (f *fakeProvider) Generate(ctx context.Context, cfg providers.Config, payload providers.Payload) (string, error) {
	f.calls++
	return f.response, nil
}

func newTestHandler(t *testing.T, provider providers.Provider) *Handler {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hoodie.png"), []byte("png-bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	metaPath := filepath.Join(dir, "metadata.json")
	if err := os.WriteFile(metaPath, []byte(`{"hoodie.png":{"title":"Navy Hoodie","brand":"Wardrobe","color":"navy"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cat := catalog.New(dir, metaPath)
	matcher := matching.NewService(cat, provider, providers.Config{Model: "test"}, "")
	sessions := storage.New(time.Hour)

	return New(matcher, cat, sessions, config.AuthConfig{Username: "admin", Password: "secret"}, t.TempDir())
}

func multipartChatRequest(t *testing.T, fields map[string]string, imageName string, imageData []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	if imageName != "" {
		part, err := writer.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(imageData); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/api/chat", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleChatRejectsEmptyInput(t *testing.T) {
	provider := &fakeProvider{response: `{"matches":[]}`}
	handler := newTestHandler(t, provider)

	req := multipartChatRequest(t, map[string]string{}, "", nil)
	rec := httptest.NewRecorder()
	handler.HandleChat(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if provider.calls != 0 {
		t.Errorf("Expected model never called, got %d calls", provider.calls)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected JSON error body: %v", err)
	}
	if body["error"] == "" {
		t.Error("Expected error field in response")
	}
}

func TestHandleChatMessageOnly(t *testing.T) {
	provider := &fakeProvider{
		response: "```json\n{\"message\":\"Try this\",\"matches\":[{\"filename\":\"hoodie.png\",\"confidence\":0.8}]}\n```",
	}
	handler := newTestHandler(t, provider)

	req := multipartChatRequest(t, map[string]string{"message": "navy hoodie"}, "", nil)
	rec := httptest.NewRecorder()
	handler.HandleChat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Message != "Try this" {
		t.Errorf("Expected message, got %q", resp.Message)
	}
	if len(resp.Matches) != 1 || resp.Matches[0].Title != "Navy Hoodie" {
		t.Errorf("Expected enriched match, got %+v", resp.Matches)
	}
}

func TestHandleChatWithImageAndHistory(t *testing.T) {
	provider := &fakeProvider{response: `{"matches":[]}`}
	handler := newTestHandler(t, provider)

	history := `[{"role":"user","text":"hello"},{"role":"assistant","message":"hi"}]`
	req := multipartChatRequest(t, map[string]string{"history": history}, "query.jpg", []byte("jpeg-bytes"))
	rec := httptest.NewRecorder()
	handler.HandleChat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if provider.calls != 1 {
		t.Errorf("Expected one model call, got %d", provider.calls)
	}
}

func TestHandleChatInvalidHistory(t *testing.T) {
	tests := []struct {
		name    string
		history string
	}{
		{name: "not JSON", history: "not json"},
		{name: "unknown role", history: `[{"role":"robot","text":"beep"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{response: `{"matches":[]}`}
			handler := newTestHandler(t, provider)

			req := multipartChatRequest(t, map[string]string{"message": "hi", "history": tt.history}, "", nil)
			rec := httptest.NewRecorder()
			handler.HandleChat(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rec.Code)
			}
			if provider.calls != 0 {
				t.Errorf("Expected model never called, got %d calls", provider.calls)
			}
		})
	}
}

func TestHandleChatParseErrorCarriesRaw(t *testing.T) {
	provider := &fakeProvider{response: "definitely not json"}
	handler := newTestHandler(t, provider)

	req := multipartChatRequest(t, map[string]string{"message": "hi"}, "", nil)
	rec := httptest.NewRecorder()
	handler.HandleChat(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["raw"] != "definitely not json" {
		t.Errorf("Expected raw model output in error payload, got %q", body["raw"])
	}
}

func TestHandleChatMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t, &fakeProvider{response: `{"matches":[]}`})

	req := httptest.NewRequest("GET", "/api/chat", nil)
	rec := httptest.NewRecorder()
	handler.HandleChat(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected 405, got %d", rec.Code)
	}
}

func TestHandleChatJSONBody(t *testing.T) {
	provider := &fakeProvider{response: `{"matches":[]}`}
	handler := newTestHandler(t, provider)

	body := strings.NewReader(`{"message":"anything in red?"}`)
	req := httptest.NewRequest("POST", "/api/chat", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.HandleChat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if provider.calls != 1 {
		t.Errorf("Expected one model call, got %d", provider.calls)
	}
}
