package matching

import (
	"encoding/json"
	"fmt"

	"github.com/wardrobe-labs/stylematch/internal/models"
	"github.com/wardrobe-labs/stylematch/internal/providers"
)

// attachedImageSentinel replaces historical image bytes when a conversation
// is replayed. Only the presence of the image matters for grounding; keeping
// the bytes out bounds payload growth over long conversations.
const attachedImageSentinel = "[user attached an image]"

// fallbackImageInstruction is the new-turn text when the user sent a photo
// with no message.
const fallbackImageInstruction = "Find the best match for this image."

// buildPayload assembles the ordered model request. The order is fixed:
// instruction, catalog context, history, the new turn's text, then the new
// turn's image if any. Callers must have rejected the no-text-no-image case
// already.
func buildPayload(instruction string, catalogParts providers.Payload, history []models.ConversationTurn, text string, image []byte, imageMIME string) providers.Payload {
	payload := make(providers.Payload, 0, len(catalogParts)+len(history)+3)

	payload = append(payload, providers.TextPart(instruction))
	payload = append(payload, catalogParts...)

	for _, turn := range history {
		payload = append(payload, historyParts(turn)...)
	}

	newText := text
	if newText == "" {
		newText = fallbackImageInstruction
	}
	payload = append(payload, providers.TextPart(newText))

	if len(image) > 0 {
		mime := imageMIME
		if mime == "" {
			mime = "image/png"
		}
		payload = append(payload, providers.ImagePart(image, mime))
	}

	return payload
}

// historyParts serializes one prior turn as text lines in original order.
func historyParts(turn models.ConversationTurn) providers.Payload {
	var parts providers.Payload
	switch turn.Role {
	case models.RoleUser:
		if turn.Text != "" {
			parts = append(parts, providers.TextPart("User: "+turn.Text))
		}
		if turn.HasImage {
			parts = append(parts, providers.TextPart(attachedImageSentinel))
		}
	case models.RoleAssistant:
		if turn.Message != "" {
			parts = append(parts, providers.TextPart("Assistant: "+turn.Message))
		}
		if len(turn.Matches) > 0 {
			parts = append(parts, providers.TextPart("Assistant matches: "+matchListing(turn.Matches)))
		}
	}
	return parts
}

// matchListing renders prior matches compactly so the model can refer back
// to them ("the second one", "the blue hoodie you suggested").
func matchListing(matches []models.Match) string {
	listing := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		listing = append(listing, map[string]any{
			"filename":   m.Filename,
			"title":      m.Title,
			"confidence": m.Confidence,
		})
	}
	b, err := json.Marshal(listing)
	if err != nil {
		return fmt.Sprintf("%d prior matches", len(matches))
	}
	return string(b)
}
