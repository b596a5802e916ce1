// Package chat models conversations exchanged with the completion service.
package chat

import (
	"encoding/json"
	"fmt"
)

// MaxMessages caps the conversation length accepted per request.
const MaxMessages = 200

// Role identifies the author of a message.
type Role string

// Known roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// ToolCall is a model request to run a tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Message is one conversation turn. Assistant turns may carry tool calls;
// tool turns answer exactly one call by ToolCallID.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// Validate checks role-specific invariants.
func (m Message) Validate() error {
	if !m.Role.Valid() {
		return fmt.Errorf("unknown role %q", m.Role)
	}
	if m.Role == RoleTool && m.ToolCallID == "" {
		return fmt.Errorf("tool message requires a tool call id")
	}
	if m.Role != RoleAssistant && len(m.ToolCalls) > 0 {
		return fmt.Errorf("%s message cannot carry tool calls", m.Role)
	}
	for _, tc := range m.ToolCalls {
		if tc.ID == "" || tc.Name == "" {
			return fmt.Errorf("tool call requires id and name")
		}
	}
	return nil
}

// Conversation is a validated, ordered message list.
type Conversation struct {
	messages []Message
}

// NewConversation validates messages. At least one message is required.
func NewConversation(messages []Message) (Conversation, error) {
	if len(messages) == 0 {
		return Conversation{}, fmt.Errorf("conversation has no messages")
	}
	if len(messages) > MaxMessages {
		return Conversation{}, fmt.Errorf("conversation too long (max %d messages)", MaxMessages)
	}
	for i, m := range messages {
		if err := m.Validate(); err != nil {
			return Conversation{}, fmt.Errorf("message %d: %w", i, err)
		}
	}
	msgs := make([]Message, len(messages))
	copy(msgs, messages)
	return Conversation{messages: msgs}, nil
}

// Messages returns a copy of the ordered messages.
func (c Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c Conversation) Len() int { return len(c.messages) }
