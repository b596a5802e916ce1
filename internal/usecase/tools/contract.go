package tools

import (
	"context"
	"encoding/json"

	"github.com/sashabaranov/go-openai/jsonschema"

	domexp "github.com/bconnected/marketplace/internal/domain/expert"
)

// Definition describes a tool to model and MCP clients.
type Definition struct {
	Name        string
	Description string
	Parameters  jsonschema.Definition
}

// Tool is an in-process function the model may call.
type Tool interface {
	Definition() Definition
	// Execute runs the tool on raw JSON arguments and returns a JSON-encodable result.
	Execute(ctx context.Context, args json.RawMessage) (any, error)
}

// Directory lists experts in directory order.
type Directory interface {
	All() []domexp.Expert
}
