package chat

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewConversation_Valid(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "I need an AI expert"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "call_1", Name: "findExperts", Arguments: json.RawMessage(`{}`)}}},
		{Role: RoleTool, ToolCallID: "call_1", Content: "[]"},
	}
	c, err := NewConversation(msgs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	msgs[0].Content = "mutated"
	if c.Messages()[0].Content != "I need an AI expert" {
		t.Error("conversation shares the caller's slice")
	}
}

func TestNewConversation_Errors(t *testing.T) {
	tests := []struct {
		name   string
		msgs   []Message
		substr string
	}{
		{"empty", nil, "no messages"},
		{"unknown role", []Message{{Role: "robot", Content: "hi"}}, "unknown role"},
		{"tool without id", []Message{{Role: RoleTool, Content: "x"}}, "tool call id"},
		{"user with tool calls", []Message{{Role: RoleUser, ToolCalls: []ToolCall{{ID: "a", Name: "b"}}}}, "cannot carry"},
		{"tool call without name", []Message{{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "a"}}}}, "id and name"},
		{"too long", make([]Message, MaxMessages+1), "too long"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConversation(tc.msgs)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.substr) {
				t.Errorf("error %q does not contain %q", err, tc.substr)
			}
		})
	}
}

func TestUsage_Add(t *testing.T) {
	u := Usage{PromptTokens: 10, CompletionTokens: 2}.Add(Usage{PromptTokens: 5, CompletionTokens: 7})
	if u.PromptTokens != 15 || u.CompletionTokens != 9 {
		t.Errorf("unexpected sum %+v", u)
	}
}
