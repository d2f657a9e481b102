package matching

import (
	"encoding/json"
	"strings"

	"github.com/wardrobe-labs/stylematch/internal/models"
)

// rawResponse is the strict intermediate shape decoded from the model's
// output. Matches stays raw so that a missing key, an empty array, and a
// wrong type can be told apart.
type rawResponse struct {
	Message string          `json:"message"`
	Matches json.RawMessage `json:"matches"`
}

// rawMatch tolerates a non-numeric confidence; everything else is strict.
type rawMatch struct {
	Filename   string          `json:"filename"`
	Title      string          `json:"title"`
	Brand      string          `json:"brand"`
	Color      string          `json:"color"`
	Confidence json.RawMessage `json:"confidence"`
	Reasoning  string          `json:"reasoning"`
}

// normalize turns raw model output into the response contract: strip any
// markdown fencing, parse strictly, then enrich each match from catalog
// metadata. Enrichment is total; a filename the catalog does not know
// simply gets empty-string fallbacks.
//
// The model is instructed to return exactly three matches sorted by
// descending confidence, but that is its judgment to make: nothing here
// re-sorts, truncates, pads, or drops out-of-catalog filenames.
func normalize(raw string, meta map[string]models.ItemMetadata) (*models.ChatResponse, error) {
	stripped := stripFences(raw)

	var parsed rawResponse
	if err := json.Unmarshal([]byte(stripped), &parsed); err != nil {
		return nil, &ParseError{Raw: stripped, Err: err}
	}

	if parsed.Matches == nil {
		return nil, &SchemaError{Raw: stripped}
	}
	var rawMatches []rawMatch
	if err := json.Unmarshal(parsed.Matches, &rawMatches); err != nil {
		return nil, &SchemaError{Raw: stripped}
	}

	matches := make([]models.Match, 0, len(rawMatches))
	for _, rm := range rawMatches {
		matches = append(matches, enrich(rm, meta))
	}

	return &models.ChatResponse{
		Message: parsed.Message,
		Matches: matches,
	}, nil
}

// stripFences removes a markdown code-block wrapper the model may put
// around its JSON, accepting both ```json and a bare ``` opener.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// enrich fills missing match fields from catalog metadata. Model-provided
// values win; lookup misses degrade to empty strings, never to an error.
func enrich(rm rawMatch, meta map[string]models.ItemMetadata) models.Match {
	entry := meta[rm.Filename]

	var confidence float64
	if rm.Confidence != nil {
		// Non-numeric confidence is coerced to 0, not rejected.
		if err := json.Unmarshal(rm.Confidence, &confidence); err != nil {
			confidence = 0
		}
	}

	return models.Match{
		Filename:   rm.Filename,
		Title:      firstNonEmpty(rm.Title, entry.Title),
		Brand:      firstNonEmpty(rm.Brand, entry.Brand),
		Color:      firstNonEmpty(rm.Color, entry.Color),
		Confidence: confidence,
		Reasoning:  rm.Reasoning,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
