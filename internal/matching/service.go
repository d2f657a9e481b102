package matching

import (
	"context"
	"log/slog"

	"github.com/wardrobe-labs/stylematch/internal/catalog"
	"github.com/wardrobe-labs/stylematch/internal/models"
	"github.com/wardrobe-labs/stylematch/internal/providers"
)

// Request is one matching turn from the client. History is the full
// client-held transcript; the service keeps nothing between calls.
type Request struct {
	Text      string
	Image     []byte
	ImageMIME string
	History   []models.ConversationTurn
}

// Service is the catalog-grounded matching core: it assembles the model
// payload from the cached catalog context plus the conversation, invokes
// the provider once, and normalizes the raw output into the response
// contract. Constructed once at startup and shared across requests; the
// catalog cache is the only cross-request state and it is read-only after
// first load.
type Service struct {
	catalog     *catalog.Catalog
	provider    providers.Provider
	cfg         providers.Config
	instruction string
}

// NewService wires the matching core. An empty instruction selects the
// default task prompt.
func NewService(cat *catalog.Catalog, provider providers.Provider, cfg providers.Config, instruction string) *Service {
	if instruction == "" {
		instruction = DefaultInstruction
	}
	return &Service{
		catalog:     cat,
		provider:    provider,
		cfg:         cfg,
		instruction: instruction,
	}
}

// Match runs one conversational matching turn. Precondition failures are
// reported before the model is ever called: ErrNoInput when the request
// carries neither text nor an image, ErrEmptyCatalog when there are no
// reference images to ground the model in.
func (s *Service) Match(ctx context.Context, req Request) (*models.ChatResponse, error) {
	if req.Text == "" && len(req.Image) == 0 {
		return nil, ErrNoInput
	}

	catalogParts := s.catalog.Context()
	if len(catalogParts) == 0 {
		return nil, ErrEmptyCatalog
	}

	payload := buildPayload(s.instruction, catalogParts, req.History, req.Text, req.Image, req.ImageMIME)

	slog.Debug("Invoking model", "model", s.cfg.Model, "parts", len(payload), "history_turns", len(req.History), "has_image", len(req.Image) > 0)

	raw, err := s.provider.Generate(ctx, s.cfg, payload)
	if err != nil {
		return nil, &InvocationError{Err: err}
	}

	resp, err := normalize(raw, s.catalog.Metadata())
	if err != nil {
		return nil, err
	}

	slog.Info("Matching turn complete", "matches", len(resp.Matches))
	return resp, nil
}
