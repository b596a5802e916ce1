package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bconnected/marketplace/internal/domain"
	domchat "github.com/bconnected/marketplace/internal/domain/chat"
	"github.com/bconnected/marketplace/internal/usecase/tools"
)

// --- Mocks ---

type mockStream struct {
	chunks []domchat.Chunk
	err    error // returned after chunks are drained
	closed bool
}

func (m *mockStream) Recv() (domchat.Chunk, error) {
	if len(m.chunks) == 0 {
		if m.err != nil {
			return domchat.Chunk{}, m.err
		}
		return domchat.Chunk{}, io.EOF
	}
	c := m.chunks[0]
	m.chunks = m.chunks[1:]
	return c, nil
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

type mockCompleter struct {
	unconfigured bool
	streams      []*mockStream
	openErr      error
	requests     []CompletionRequest
}

func (m *mockCompleter) Configured() bool { return !m.unconfigured }

func (m *mockCompleter) Stream(_ context.Context, req CompletionRequest) (CompletionStream, error) {
	m.requests = append(m.requests, req)
	if m.openErr != nil {
		return nil, m.openErr
	}
	if len(m.streams) == 0 {
		return nil, errors.New("no more scripted streams")
	}
	s := m.streams[0]
	m.streams = m.streams[1:]
	return s, nil
}

type mockTools struct {
	calls []string
	err   error
}

func (m *mockTools) Definitions() []tools.Definition {
	return []tools.Definition{{Name: "findExperts"}}
}

func (m *mockTools) Execute(_ context.Context, name string, args json.RawMessage) (any, error) {
	m.calls = append(m.calls, name+" "+string(args))
	if m.err != nil {
		return nil, m.err
	}
	return []map[string]string{{"id": "jane-doe"}}, nil
}

// recordingSink renders events in a compact form for assertions.
type recordingSink struct {
	events []string
}

func (r *recordingSink) StartStep(id string) error {
	r.events = append(r.events, "start "+id)
	return nil
}

func (r *recordingSink) Text(delta string) error {
	r.events = append(r.events, "text "+delta)
	return nil
}

func (r *recordingSink) ToolCall(c domchat.ToolCall) error {
	r.events = append(r.events, "call "+c.ID+" "+c.Name)
	return nil
}

func (r *recordingSink) ToolResult(id string, result any) error {
	raw, _ := json.Marshal(result)
	r.events = append(r.events, "result "+id+" "+string(raw))
	return nil
}

func (r *recordingSink) FinishStep(reason domchat.FinishReason, u domchat.Usage, _ bool) error {
	r.events = append(r.events, fmt.Sprintf("step %s %d/%d", reason, u.PromptTokens, u.CompletionTokens))
	return nil
}

func (r *recordingSink) Finish(reason domchat.FinishReason, u domchat.Usage) error {
	r.events = append(r.events, fmt.Sprintf("finish %s %d/%d", reason, u.PromptTokens, u.CompletionTokens))
	return nil
}

// --- Helpers ---

func userTurn(text string) []domchat.Message {
	return []domchat.Message{{Role: domchat.RoleUser, Content: text}}
}

func textStream(reason domchat.FinishReason, usage domchat.Usage, parts ...string) *mockStream {
	s := &mockStream{}
	for _, p := range parts {
		s.chunks = append(s.chunks, domchat.Chunk{Text: p})
	}
	s.chunks = append(s.chunks, domchat.Chunk{FinishReason: reason, Usage: &usage})
	return s
}

func toolStream(usage domchat.Usage, calls ...domchat.ToolCall) *mockStream {
	return &mockStream{chunks: []domchat.Chunk{{ToolCalls: calls, FinishReason: domchat.FinishToolCalls, Usage: &usage}}}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("msg-%d", n)
	}
}

func assertEvents(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("events:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

// --- Tests ---

func TestRun_TextOnly(t *testing.T) {
	comp := &mockCompleter{streams: []*mockStream{
		textStream(domchat.FinishStop, domchat.Usage{PromptTokens: 10, CompletionTokens: 3}, "Hello", " there"),
	}}
	svc := New(comp, &mockTools{}, Config{}).WithIDGenerator(sequentialIDs())
	sink := &recordingSink{}

	if err := svc.Run(context.Background(), userTurn("hi"), sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertEvents(t, sink.events,
		"start msg-1",
		"text Hello",
		"text  there",
		"step stop 10/3",
		"finish stop 10/3",
	)

	req := comp.requests[0]
	if req.System != DefaultSystemPrompt {
		t.Error("expected default system prompt")
	}
	if len(req.Tools) != 1 || req.Tools[0].Name != "findExperts" {
		t.Errorf("unexpected tools %+v", req.Tools)
	}
}

func TestRun_ToolRoundTrip(t *testing.T) {
	call := domchat.ToolCall{ID: "call_1", Name: "findExperts", Arguments: json.RawMessage(`{"keywords":["Cybersecurity"]}`)}
	comp := &mockCompleter{streams: []*mockStream{
		toolStream(domchat.Usage{PromptTokens: 50, CompletionTokens: 5}, call),
		textStream(domchat.FinishStop, domchat.Usage{PromptTokens: 80, CompletionTokens: 20}, "Jane Doe is a good fit."),
	}}
	tl := &mockTools{}
	svc := New(comp, tl, Config{}).WithIDGenerator(sequentialIDs())
	sink := &recordingSink{}

	ctx, usage := domain.NewContextWithUsage(context.Background())
	if err := svc.Run(ctx, userTurn("security expert please"), sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertEvents(t, sink.events,
		"start msg-1",
		"call call_1 findExperts",
		`result call_1 [{"id":"jane-doe"}]`,
		"step tool-calls 50/5",
		"start msg-2",
		"text Jane Doe is a good fit.",
		"step stop 80/20",
		"finish stop 130/25",
	)

	if len(tl.calls) != 1 || tl.calls[0] != `findExperts {"keywords":["Cybersecurity"]}` {
		t.Errorf("unexpected tool calls %v", tl.calls)
	}

	second := comp.requests[1].Messages
	if len(second) != 3 {
		t.Fatalf("expected 3 messages in follow-up, got %d", len(second))
	}
	if second[1].Role != domchat.RoleAssistant || len(second[1].ToolCalls) != 1 {
		t.Errorf("expected assistant tool-call message, got %+v", second[1])
	}
	if second[2].Role != domchat.RoleTool || second[2].ToolCallID != "call_1" || second[2].Content != `[{"id":"jane-doe"}]` {
		t.Errorf("unexpected tool message %+v", second[2])
	}

	if usage.Steps != 2 || usage.ToolCalls != 1 || usage.TotalTokens() != 155 {
		t.Errorf("unexpected usage %+v", usage)
	}
}

func TestRun_ToolFailureReportedToModel(t *testing.T) {
	call := domchat.ToolCall{ID: "call_1", Name: "nope", Arguments: json.RawMessage(`{}`)}
	comp := &mockCompleter{streams: []*mockStream{
		toolStream(domchat.Usage{}, call),
		textStream(domchat.FinishStop, domchat.Usage{}, "Sorry."),
	}}
	tl := &mockTools{err: domain.NewToolError("nope", domain.ErrUnknownTool)}
	svc := New(comp, tl, Config{}).WithIDGenerator(sequentialIDs())
	sink := &recordingSink{}

	if err := svc.Run(context.Background(), userTurn("hi"), sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink.events[2] != `result call_1 {"error":"tool nope: unknown tool"}` {
		t.Errorf("unexpected result event %q", sink.events[2])
	}
	if got := comp.requests[1].Messages[2].Content; got != `{"error":"tool nope: unknown tool"}` {
		t.Errorf("unexpected tool message content %q", got)
	}
}

func TestRun_StepLimit(t *testing.T) {
	call := domchat.ToolCall{ID: "c", Name: "findExperts", Arguments: json.RawMessage(`{"keywords":[]}`)}
	comp := &mockCompleter{streams: []*mockStream{
		toolStream(domchat.Usage{PromptTokens: 1}, call),
		toolStream(domchat.Usage{PromptTokens: 1}, call),
		toolStream(domchat.Usage{PromptTokens: 1}, call),
	}}
	svc := New(comp, &mockTools{}, Config{MaxSteps: 2}).WithIDGenerator(sequentialIDs())
	sink := &recordingSink{}

	if err := svc.Run(context.Background(), userTurn("hi"), sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comp.requests) != 2 {
		t.Errorf("expected 2 completion requests, got %d", len(comp.requests))
	}
	if last := sink.events[len(sink.events)-1]; last != "finish tool-calls 2/0" {
		t.Errorf("unexpected final event %q", last)
	}
}

func TestRun_NotConfigured(t *testing.T) {
	comp := &mockCompleter{unconfigured: true}
	sink := &recordingSink{}
	err := New(comp, &mockTools{}, Config{}).Run(context.Background(), userTurn("hi"), sink)

	if !errors.Is(err, domain.ErrCompletionNotConfigured) {
		t.Fatalf("expected ErrCompletionNotConfigured, got %v", err)
	}
	if len(comp.requests) != 0 || len(sink.events) != 0 {
		t.Error("no request or output expected without credentials")
	}
}

func TestRun_InvalidConversation(t *testing.T) {
	comp := &mockCompleter{}
	err := New(comp, &mockTools{}, Config{}).Run(context.Background(), nil, &recordingSink{})

	if !errors.Is(err, domain.ErrInvalidConversation) {
		t.Fatalf("expected ErrInvalidConversation, got %v", err)
	}
	if len(comp.requests) != 0 {
		t.Error("no completion request expected")
	}
}

func TestRun_OpenFailureWritesNothing(t *testing.T) {
	upstream := fmt.Errorf("%w: 429 rate limit", domain.ErrCompletionProviderError)
	comp := &mockCompleter{openErr: upstream}
	sink := &recordingSink{}

	err := New(comp, &mockTools{}, Config{}).Run(context.Background(), userTurn("hi"), sink)
	if !errors.Is(err, domain.ErrCompletionProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(sink.events) != 0 {
		t.Errorf("expected no output, got %v", sink.events)
	}
}

func TestRun_FirstReadFailureWritesNothing(t *testing.T) {
	comp := &mockCompleter{streams: []*mockStream{{err: errors.New("connection reset")}}}
	sink := &recordingSink{}

	if err := New(comp, &mockTools{}, Config{}).Run(context.Background(), userTurn("hi"), sink); err == nil {
		t.Fatal("expected error")
	}
	if len(sink.events) != 0 {
		t.Errorf("expected no output, got %v", sink.events)
	}
}

func TestRun_MidStreamFailure(t *testing.T) {
	s := &mockStream{chunks: []domchat.Chunk{{Text: "Hel"}}, err: errors.New("connection reset")}
	comp := &mockCompleter{streams: []*mockStream{s}}
	sink := &recordingSink{}

	err := New(comp, &mockTools{}, Config{}).WithIDGenerator(sequentialIDs()).
		Run(context.Background(), userTurn("hi"), sink)
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected mid-stream error, got %v", err)
	}
	assertEvents(t, sink.events, "start msg-1", "text Hel")
	if !s.closed {
		t.Error("stream should be closed")
	}
}

func TestRun_AppliesDeadline(t *testing.T) {
	var deadline time.Time
	comp := &deadlineCompleter{seen: &deadline}
	svc := New(comp, &mockTools{}, Config{MaxDuration: 5 * time.Second})

	_ = svc.Run(context.Background(), userTurn("hi"), &recordingSink{})
	if deadline.IsZero() {
		t.Fatal("expected a deadline on the completion context")
	}
	if until := time.Until(deadline); until > 5*time.Second || until < 4*time.Second {
		t.Errorf("unexpected deadline in %v", until)
	}
}

type deadlineCompleter struct {
	seen *time.Time
}

func (d *deadlineCompleter) Configured() bool { return true }

func (d *deadlineCompleter) Stream(ctx context.Context, _ CompletionRequest) (CompletionStream, error) {
	*d.seen, _ = ctx.Deadline()
	return textStream(domchat.FinishStop, domchat.Usage{}), nil
}

func TestNew_Defaults(t *testing.T) {
	svc := New(&mockCompleter{}, &mockTools{}, Config{SystemPrompt: "custom"})
	if svc.cfg.MaxSteps != DefaultMaxSteps || svc.cfg.MaxDuration != DefaultMaxDuration {
		t.Errorf("unexpected defaults %+v", svc.cfg)
	}
	if svc.cfg.SystemPrompt != "custom" {
		t.Error("system prompt override ignored")
	}
}
