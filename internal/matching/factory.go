package matching

import (
	"fmt"

	"github.com/wardrobe-labs/stylematch/internal/gemini"
	"github.com/wardrobe-labs/stylematch/internal/ollama"
	"github.com/wardrobe-labs/stylematch/internal/openai"
	"github.com/wardrobe-labs/stylematch/internal/providers"
)

// NewProvider returns the model adapter for a configured provider name.
func NewProvider(name string) (providers.Provider, error) {
	switch name {
	case "gemini":
		return gemini.New(), nil
	case "openai":
		return openai.New(), nil
	case "ollama":
		return ollama.New(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
