package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bconnected/marketplace/internal/domain"
	domchat "github.com/bconnected/marketplace/internal/domain/chat"
	"github.com/bconnected/marketplace/internal/logger"
	"github.com/bconnected/marketplace/internal/metrics"
)

// Defaults applied when Config leaves a field zero.
const (
	DefaultMaxSteps    = 5
	DefaultMaxDuration = 30 * time.Second
)

// Config tunes the dispatcher.
type Config struct {
	SystemPrompt string
	// MaxSteps bounds completion rounds per request, tool rounds included.
	MaxSteps    int
	MaxDuration time.Duration
}

// Service runs one conversation turn: it streams the model's reply and
// executes requested tools in-process until the model stops calling them.
type Service struct {
	completer Completer
	tools     ToolExecutor
	cfg       Config
	newID     func() string
}

// New creates a dispatcher.
func New(completer Completer, tools ToolExecutor, cfg Config) *Service {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = DefaultMaxDuration
	}
	return &Service{
		completer: completer,
		tools:     tools,
		cfg:       cfg,
		newID:     func() string { return "msg-" + uuid.NewString() },
	}
}

// WithIDGenerator overrides step message ids.
func (s *Service) WithIDGenerator(fn func() string) *Service {
	s.newID = fn
	return s
}

// Configured reports whether the completion service can be called.
func (s *Service) Configured() bool {
	return s.completer != nil && s.completer.Configured()
}

// Run streams a reply to messages into sink. It fails fast with
// ErrCompletionNotConfigured when credentials are missing and with
// ErrInvalidConversation on malformed input; nothing is written to sink then.
func (s *Service) Run(ctx context.Context, messages []domchat.Message, sink Sink) error {
	if !s.Configured() {
		return domain.ErrCompletionNotConfigured
	}
	conv, err := domchat.NewConversation(messages)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConversation, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.MaxDuration)
	defer cancel()

	log := logger.FromContext(ctx)
	req := CompletionRequest{
		System:   s.cfg.SystemPrompt,
		Messages: conv.Messages(),
		Tools:    s.tools.Definitions(),
	}

	var total domchat.Usage
	for step := 1; ; step++ {
		res, err := s.runStep(ctx, req, sink)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		total = total.Add(res.usage)
		metrics.ChatStepsTotal.Inc()
		domain.UsageFromContext(ctx).AddStep(res.usage.PromptTokens, res.usage.CompletionTokens)

		if len(res.calls) == 0 {
			if err := sink.FinishStep(res.reason, res.usage, false); err != nil {
				return err
			}
			return sink.Finish(res.reason, total)
		}

		toolMsgs, err := s.runTools(ctx, res.calls, sink)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}

		last := step >= s.cfg.MaxSteps
		if err := sink.FinishStep(res.reason, res.usage, false); err != nil {
			return err
		}
		if last {
			log.Info("chat step limit reached", zap.Int("max_steps", s.cfg.MaxSteps))
			return sink.Finish(res.reason, total)
		}

		req.Messages = append(req.Messages, domchat.Message{
			Role:      domchat.RoleAssistant,
			Content:   res.text,
			ToolCalls: res.calls,
		})
		req.Messages = append(req.Messages, toolMsgs...)
	}
}

type stepResult struct {
	text   string
	calls  []domchat.ToolCall
	reason domchat.FinishReason
	usage  domchat.Usage
}

// runStep opens one completion and forwards text as it arrives. The step
// header is written with the first chunk so failures opening or first
// reading the stream leave the sink untouched.
func (s *Service) runStep(ctx context.Context, req CompletionRequest, sink Sink) (stepResult, error) {
	stream, err := s.completer.Stream(ctx, req)
	if err != nil {
		return stepResult{}, fmt.Errorf("open completion: %w", err)
	}
	defer func() { _ = stream.Close() }()

	var (
		res     stepResult
		text    strings.Builder
		started bool
	)
	start := func() error {
		if started {
			return nil
		}
		started = true
		return sink.StartStep(s.newID())
	}

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stepResult{}, fmt.Errorf("read completion: %w", err)
		}
		if err := start(); err != nil {
			return stepResult{}, err
		}
		if chunk.Text != "" {
			text.WriteString(chunk.Text)
			if err := sink.Text(chunk.Text); err != nil {
				return stepResult{}, err
			}
		}
		res.calls = append(res.calls, chunk.ToolCalls...)
		if chunk.FinishReason != "" {
			res.reason = chunk.FinishReason
		}
		if chunk.Usage != nil {
			res.usage = *chunk.Usage
		}
	}
	if err := start(); err != nil {
		return stepResult{}, err
	}

	res.text = text.String()
	if res.reason == "" {
		res.reason = domchat.FinishUnknown
		if len(res.calls) > 0 {
			res.reason = domchat.FinishToolCalls
		}
	}
	return res, nil
}

type toolFailure struct {
	Error string `json:"error"`
}

// runTools executes calls in order, streaming each call and its result, and
// returns the tool messages to append to the conversation. Tool failures are
// reported to the model as results rather than aborting the turn.
func (s *Service) runTools(ctx context.Context, calls []domchat.ToolCall, sink Sink) ([]domchat.Message, error) {
	msgs := make([]domchat.Message, 0, len(calls))
	for _, call := range calls {
		if err := sink.ToolCall(call); err != nil {
			return nil, err
		}
		domain.UsageFromContext(ctx).AddToolCall()

		result, err := s.tools.Execute(ctx, call.Name, call.Arguments)
		if err != nil {
			result = toolFailure{Error: err.Error()}
		}
		if err := sink.ToolResult(call.ID, result); err != nil {
			return nil, err
		}

		content, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("encode %s result: %w", call.Name, err)
		}
		msgs = append(msgs, domchat.Message{
			Role:       domchat.RoleTool,
			Content:    string(content),
			ToolCallID: call.ID,
		})
	}
	return msgs, nil
}
