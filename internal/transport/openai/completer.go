package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bconnected/marketplace/internal/domain"
	domchat "github.com/bconnected/marketplace/internal/domain/chat"
	"github.com/bconnected/marketplace/internal/metrics"
	"github.com/bconnected/marketplace/internal/usecase/chat"
	"github.com/bconnected/marketplace/internal/usecase/tools"
)

// Compile-time check: Completer implements chat.Completer.
var _ chat.Completer = (*Completer)(nil)

// Completer streams chat completions from an OpenAI-compatible API.
type Completer struct {
	client   *openai.Client
	model    string
	provider string
	apiKey   string
	logger   *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion client.
// An empty APIKey yields a client that reports itself unconfigured.
func NewCompleter(cfg *Config) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Completer{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		apiKey:   cfg.APIKey,
		logger:   log,
	}
}

// Configured reports whether an API key is set.
func (c *Completer) Configured() bool { return c.apiKey != "" }

// Stream opens a streamed completion. HTTP failures surface here, before any chunk.
func (c *Completer) Stream(ctx context.Context, req chat.CompletionRequest) (chat.CompletionStream, error) {
	if !c.Configured() {
		return nil, domain.ErrCompletionNotConfigured
	}

	start := time.Now()
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:         c.model,
		Messages:      toMessages(req.System, req.Messages),
		Tools:         toTools(req.Tools),
		Stream:        true,
		StreamOptions: &openai.StreamOptions{IncludeUsage: true},
	})
	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		metrics.CompletionErrorsTotal.WithLabelValues(c.provider, c.model, "api_error").Inc()
		c.logger.Warn("completion request failed", zap.Error(err))
		return nil, parseAPIError(err)
	}

	return &completionStream{
		stream: stream,
		owner:  c,
		start:  start,
		calls:  make(map[int]*partialCall),
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if !c.Configured() {
		return domain.ErrCompletionNotConfigured
	}
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

type partialCall struct {
	id   string
	name string
	args strings.Builder
}

// completionStream adapts the provider stream to domain chunks. Text is
// forwarded as it arrives; tool-call fragments are assembled and delivered
// with the finish reason and usage in one final chunk before io.EOF.
type completionStream struct {
	stream *openai.ChatCompletionStream
	owner  *Completer
	start  time.Time

	calls   map[int]*partialCall
	reason  domchat.FinishReason
	usage   *domchat.Usage
	flushed bool
	failed  bool
}

func (s *completionStream) Recv() (domchat.Chunk, error) {
	for {
		if s.flushed {
			return domchat.Chunk{}, io.EOF
		}

		resp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			s.flushed = true
			s.record()
			return s.final(), nil
		}
		if err != nil {
			s.fail("stream_error")
			return domchat.Chunk{}, parseAPIError(err)
		}

		if resp.Usage != nil {
			s.usage = &domchat.Usage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
			}
		}
		if len(resp.Choices) == 0 {
			continue
		}

		choice := resp.Choices[0]
		for i, tc := range choice.Delta.ToolCalls {
			idx := i
			if tc.Index != nil {
				idx = *tc.Index
			}
			pc, ok := s.calls[idx]
			if !ok {
				pc = &partialCall{}
				s.calls[idx] = pc
			}
			if tc.ID != "" {
				pc.id = tc.ID
			}
			if tc.Function.Name != "" {
				pc.name = tc.Function.Name
			}
			pc.args.WriteString(tc.Function.Arguments)
		}
		if choice.FinishReason != "" && choice.FinishReason != openai.FinishReasonNull {
			s.reason = mapFinishReason(choice.FinishReason)
		}
		if choice.Delta.Content != "" {
			return domchat.Chunk{Text: choice.Delta.Content}, nil
		}
	}
}

func (s *completionStream) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("close completion stream: %w", err)
	}
	return nil
}

func (s *completionStream) final() domchat.Chunk {
	idxs := make([]int, 0, len(s.calls))
	for i := range s.calls {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	var calls []domchat.ToolCall
	for _, i := range idxs {
		pc := s.calls[i]
		args := pc.args.String()
		if strings.TrimSpace(args) == "" {
			args = "{}"
		}
		calls = append(calls, domchat.ToolCall{ID: pc.id, Name: pc.name, Arguments: json.RawMessage(args)})
	}

	reason := s.reason
	if reason == "" {
		reason = domchat.FinishUnknown
	}
	return domchat.Chunk{ToolCalls: calls, FinishReason: reason, Usage: s.usage}
}

func (s *completionStream) record() {
	c := s.owner
	metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(c.provider, c.model).Observe(time.Since(s.start).Seconds())
	if s.usage != nil {
		metrics.CompletionTokensTotal.WithLabelValues(c.provider, c.model, "prompt").Add(float64(s.usage.PromptTokens))
		metrics.CompletionTokensTotal.WithLabelValues(c.provider, c.model, "completion").Add(float64(s.usage.CompletionTokens))
	}
}

func (s *completionStream) fail(kind string) {
	if s.failed {
		return
	}
	s.failed = true
	c := s.owner
	metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
	metrics.CompletionErrorsTotal.WithLabelValues(c.provider, c.model, kind).Inc()
}

func mapFinishReason(r openai.FinishReason) domchat.FinishReason {
	switch r {
	case openai.FinishReasonStop:
		return domchat.FinishStop
	case openai.FinishReasonLength:
		return domchat.FinishLength
	case openai.FinishReasonToolCalls, openai.FinishReasonFunctionCall:
		return domchat.FinishToolCalls
	case openai.FinishReasonContentFilter:
		return domchat.FinishContentFilter
	default:
		return domchat.FinishOther
	}
}

func toMessages(system string, msgs []domchat.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range msgs {
		om := openai.ChatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			om.ToolCalls = append(om.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		out = append(out, om)
	}
	return out
}

func toTools(defs []tools.Definition) []openai.Tool {
	if len(defs) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(defs))
	for _, d := range defs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	return out
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrCompletionProviderError; upstream
// failure kinds are not distinguished further.
func parseAPIError(err error) error {
	wrap := domain.ErrCompletionProviderError

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = strings.TrimSpace(string(reqErr.Body))
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, detail, wrap)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("completion request aborted: %w: %w", err, wrap)
	}
	return fmt.Errorf("completion request failed: %w: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
