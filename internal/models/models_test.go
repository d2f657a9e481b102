package models

import "testing"

func TestConversationTurnValidate(t *testing.T) {
	tests := []struct {
		name    string
		turn    ConversationTurn
		wantErr bool
	}{
		{name: "user turn", turn: ConversationTurn{Role: RoleUser, Text: "hi"}},
		{name: "assistant turn", turn: ConversationTurn{Role: RoleAssistant, Message: "hello"}},
		{name: "empty role", turn: ConversationTurn{Text: "hi"}, wantErr: true},
		{name: "unknown role", turn: ConversationTurn{Role: "system"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.turn.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestItemMetadataEmpty(t *testing.T) {
	if !(ItemMetadata{}).Empty() {
		t.Error("Expected zero metadata to be empty")
	}
	if (ItemMetadata{ColorCode: "RD"}).Empty() {
		t.Error("Expected metadata with a color code to be non-empty")
	}
}
