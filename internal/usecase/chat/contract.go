package chat

import (
	"context"
	"encoding/json"

	domchat "github.com/bconnected/marketplace/internal/domain/chat"
	"github.com/bconnected/marketplace/internal/usecase/tools"
)

// CompletionRequest is one step sent to the completion service.
type CompletionRequest struct {
	System   string
	Messages []domchat.Message
	Tools    []tools.Definition
}

// Completer opens streamed completions.
type Completer interface {
	// Configured reports whether credentials are present. No request is sent otherwise.
	Configured() bool
	Stream(ctx context.Context, req CompletionRequest) (CompletionStream, error)
}

// CompletionStream yields chunks until io.EOF.
type CompletionStream interface {
	Recv() (domchat.Chunk, error)
	Close() error
}

// ToolExecutor exposes the tool registry.
type ToolExecutor interface {
	Definitions() []tools.Definition
	Execute(ctx context.Context, name string, args json.RawMessage) (any, error)
}

// Sink receives the response stream in wire order.
type Sink interface {
	StartStep(messageID string) error
	Text(delta string) error
	ToolCall(call domchat.ToolCall) error
	ToolResult(callID string, result any) error
	FinishStep(reason domchat.FinishReason, usage domchat.Usage, continued bool) error
	Finish(reason domchat.FinishReason, usage domchat.Usage) error
}
