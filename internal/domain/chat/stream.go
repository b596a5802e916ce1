package chat

// FinishReason explains why a completion step ended.
type FinishReason string

// Finish reasons reported to stream clients.
const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishToolCalls     FinishReason = "tool-calls"
	FinishContentFilter FinishReason = "content-filter"
	FinishError         FinishReason = "error"
	FinishOther         FinishReason = "other"
	FinishUnknown       FinishReason = "unknown"
)

// Usage counts tokens of one or more completion steps.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Add returns the sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens + o.PromptTokens,
		CompletionTokens: u.CompletionTokens + o.CompletionTokens,
	}
}

// Chunk is one increment received from a completion stream.
// Text chunks arrive as the model produces them. ToolCalls are delivered
// fully assembled together with the FinishReason of the step.
type Chunk struct {
	Text         string
	ToolCalls    []ToolCall
	FinishReason FinishReason
	Usage        *Usage
}
