package domain

import "context"

type completionUsageKey struct{}

// CompletionUsage collects completion token usage for a single chat request.
// The handler puts a pointer into the context, the dispatcher adds to it after
// every model step, and the request log line reads it back.
type CompletionUsage struct {
	PromptTokens     int
	CompletionTokens int
	Steps            int
	ToolCalls        int
}

// NewContextWithUsage returns a context carrying a fresh usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *CompletionUsage) {
	u := &CompletionUsage{}
	return context.WithValue(ctx, completionUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector. Returns nil if not set.
func UsageFromContext(ctx context.Context) *CompletionUsage {
	u, _ := ctx.Value(completionUsageKey{}).(*CompletionUsage)
	return u
}

// AddStep records one completed model step.
func (u *CompletionUsage) AddStep(prompt, completion int) {
	if u != nil {
		u.PromptTokens += prompt
		u.CompletionTokens += completion
		u.Steps++
	}
}

// AddToolCall records one executed tool invocation.
func (u *CompletionUsage) AddToolCall() {
	if u != nil {
		u.ToolCalls++
	}
}

// TotalTokens returns prompt plus completion tokens.
func (u *CompletionUsage) TotalTokens() int {
	if u == nil {
		return 0
	}
	return u.PromptTokens + u.CompletionTokens
}
