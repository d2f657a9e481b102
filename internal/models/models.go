package models

import "fmt"

// Turn roles accepted in a conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ItemMetadata holds the catalog side-table fields for one reference image.
type ItemMetadata struct {
	Title     string `json:"title,omitempty" yaml:"title"`
	Brand     string `json:"brand,omitempty" yaml:"brand"`
	Color     string `json:"color,omitempty" yaml:"color"`
	ColorCode string `json:"color_code,omitempty" yaml:"color_code"`
}

// Empty reports whether no metadata field is set.
func (m ItemMetadata) Empty() bool {
	return m.Title == "" && m.Brand == "" && m.Color == "" && m.ColorCode == ""
}

// Match is one ranked catalog hit returned to the client.
type Match struct {
	Filename   string  `json:"filename"`
	Title      string  `json:"title"`
	Brand      string  `json:"brand"`
	Color      string  `json:"color"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// ChatResponse is the response body for a matching turn.
type ChatResponse struct {
	Message string  `json:"message"`
	Matches []Match `json:"matches"`
}

// ConversationTurn is one entry of the client-held transcript. The client
// posts the whole history on every request; the server keeps no session
// state between turns.
//
// Role decides which fields are meaningful: user turns carry Text and
// HasImage, assistant turns carry Message and Matches. Image bytes are
// never round-tripped through history, only their presence.
type ConversationTurn struct {
	Role     string  `json:"role"`
	Text     string  `json:"text,omitempty"`
	HasImage bool    `json:"hasImage,omitempty"`
	Message  string  `json:"message,omitempty"`
	Matches  []Match `json:"matches,omitempty"`
}

// Validate rejects turns whose role is neither user nor assistant.
func (t ConversationTurn) Validate() error {
	switch t.Role {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("unknown conversation role %q", t.Role)
	}
}
