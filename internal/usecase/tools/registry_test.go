package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bconnected/marketplace/internal/domain"
)

// --- Mocks ---

type mockTool struct {
	name   string
	result any
	err    error
	calls  int
}

func (m *mockTool) Definition() Definition { return Definition{Name: m.name} }

func (m *mockTool) Execute(_ context.Context, _ json.RawMessage) (any, error) {
	m.calls++
	return m.result, m.err
}

// --- Tests ---

func TestNewRegistry_RejectsDuplicatesAndBlankNames(t *testing.T) {
	if _, err := NewRegistry(&mockTool{name: "a"}, &mockTool{name: "a"}); err == nil {
		t.Error("expected duplicate name error")
	}
	if _, err := NewRegistry(&mockTool{}); err == nil {
		t.Error("expected blank name error")
	}
}

func TestDefinitions_Order(t *testing.T) {
	r, err := NewRegistry(&mockTool{name: "b"}, &mockTool{name: "a"})
	if err != nil {
		t.Fatal(err)
	}
	defs := r.Definitions()
	if len(defs) != 2 || defs[0].Name != "b" || defs[1].Name != "a" {
		t.Errorf("unexpected definitions %+v", defs)
	}
}

func TestExecute_Dispatches(t *testing.T) {
	tool := &mockTool{name: "echo", result: "hi"}
	r, _ := NewRegistry(tool)

	res, err := r.Execute(context.Background(), "echo", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != "hi" || tool.calls != 1 {
		t.Errorf("unexpected result %v after %d calls", res, tool.calls)
	}
}

func TestExecute_UnknownTool(t *testing.T) {
	r, _ := NewRegistry(&mockTool{name: "echo"})
	_, err := r.Execute(context.Background(), "nope", nil)

	if !errors.Is(err, domain.ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
	var te *domain.ToolError
	if !errors.As(err, &te) || te.Tool != "nope" {
		t.Errorf("expected ToolError for nope, got %v", err)
	}
}

func TestExecute_WrapsToolFailure(t *testing.T) {
	boom := errors.New("boom")
	r, _ := NewRegistry(&mockTool{name: "echo", err: boom})
	_, err := r.Execute(context.Background(), "echo", nil)

	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped tool error, got %v", err)
	}
	if err.Error() != "tool echo: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
