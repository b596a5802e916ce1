package domain

import (
	"context"
	"errors"
	"testing"
)

func TestUsageFromContext_Missing(t *testing.T) {
	u := UsageFromContext(context.Background())
	if u != nil {
		t.Fatalf("expected nil usage, got %+v", u)
	}
	// nil receiver must be safe
	u.AddStep(10, 5)
	u.AddToolCall()
	if u.TotalTokens() != 0 {
		t.Errorf("expected 0 tokens on nil usage")
	}
}

func TestUsage_Accumulates(t *testing.T) {
	ctx, u := NewContextWithUsage(context.Background())
	UsageFromContext(ctx).AddStep(100, 20)
	UsageFromContext(ctx).AddStep(150, 40)
	UsageFromContext(ctx).AddToolCall()

	if u.PromptTokens != 250 || u.CompletionTokens != 60 {
		t.Errorf("unexpected tokens: %+v", u)
	}
	if u.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", u.Steps)
	}
	if u.ToolCalls != 1 {
		t.Errorf("expected 1 tool call, got %d", u.ToolCalls)
	}
	if u.TotalTokens() != 310 {
		t.Errorf("expected 310 total tokens, got %d", u.TotalTokens())
	}
}

func TestToolError_Unwrap(t *testing.T) {
	err := NewToolError("findExperts", ErrInvalidToolArguments)
	if !errors.Is(err, ErrInvalidToolArguments) {
		t.Error("expected ToolError to unwrap to ErrInvalidToolArguments")
	}
	if err.Error() != "tool findExperts: invalid tool arguments" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
