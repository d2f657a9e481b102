package providers

import (
	"context"
)

// Part is one element of a model request payload: either a text fragment or
// an image blob, never both.
type Part struct {
	Text string
	Data []byte
	MIME string
}

// TextPart returns a text-only part.
func TextPart(s string) Part {
	return Part{Text: s}
}

// ImagePart returns an image part with the given MIME type.
func ImagePart(data []byte, mime string) Part {
	return Part{Data: data, MIME: mime}
}

// IsImage reports whether the part carries image bytes.
func (p Part) IsImage() bool {
	return len(p.Data) > 0
}

// Payload is the ordered sequence of parts sent to the model. Order is
// significant: the assembler fixes it and providers must preserve it.
type Payload []Part

// Config represents the configuration for an LLM provider
type Config struct {
	Model       string
	Temperature float64
}

// Provider defines the interface for a vision-language model provider.
// Generate sends the payload in order and returns the model's raw text.
type Provider interface {
	Generate(ctx context.Context, config Config, payload Payload) (string, error)
}
