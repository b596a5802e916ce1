package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/bconnected/marketplace/internal/domain"
	domchat "github.com/bconnected/marketplace/internal/domain/chat"
	"github.com/bconnected/marketplace/internal/metrics"
)

const (
	notConfiguredMessage = "OpenAI API key not configured."
	streamErrorMessage   = "An error occurred."
)

// chatRequest is the body posted by the chat UI.
type chatRequest struct {
	Messages []uiMessage `json:"messages"`
}

// uiMessage is one conversation turn as the UI keeps it. Assistant turns
// carry the tool invocations of earlier rounds, results included.
type uiMessage struct {
	Role            string           `json:"role"`
	Content         string           `json:"content"`
	ToolCallID      string           `json:"toolCallId,omitempty"`
	ToolInvocations []toolInvocation `json:"toolInvocations,omitempty"`
}

type toolInvocation struct {
	ToolCallID string          `json:"toolCallId"`
	ToolName   string          `json:"toolName"`
	Args       json.RawMessage `json:"args"`
	Result     json.RawMessage `json:"result,omitempty"`
}

// conversation flattens UI turns into model messages. Each invocation becomes
// a tool call on the assistant turn followed by a tool turn with its result.
// Invocations still awaiting a result are dropped.
func (c chatRequest) conversation() []domchat.Message {
	out := make([]domchat.Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		msg := domchat.Message{
			Role:       domchat.Role(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}

		var results []domchat.Message
		for _, inv := range m.ToolInvocations {
			if len(inv.Result) == 0 {
				continue
			}
			msg.ToolCalls = append(msg.ToolCalls, domchat.ToolCall{
				ID:        inv.ToolCallID,
				Name:      inv.ToolName,
				Arguments: inv.Args,
			})
			results = append(results, domchat.Message{
				Role:       domchat.RoleTool,
				Content:    string(inv.Result),
				ToolCallID: inv.ToolCallID,
			})
		}
		out = append(out, msg)
		out = append(out, results...)
	}
	return out
}

// Chat handles POST /api/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	log := s.log(r)

	if !s.chat.Configured() {
		metrics.ChatRequestsTotal.WithLabelValues("not_configured").Inc()
		log.Error("chat rejected", zap.Error(domain.ErrCompletionNotConfigured))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(notConfiguredMessage))
		return
	}

	if !s.allowChat(w, r) {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.chatFailure(w, r, "invalid", err)
		return
	}

	sink := newDataStream(w)
	err := s.chat.Run(r.Context(), req.conversation(), sink)
	switch {
	case err == nil:
		metrics.ChatRequestsTotal.WithLabelValues("ok").Inc()
	case !sink.Started():
		outcome := "error"
		if errors.Is(err, domain.ErrInvalidConversation) {
			outcome = "invalid"
		}
		s.chatFailure(w, r, outcome, err)
	default:
		metrics.ChatRequestsTotal.WithLabelValues("stream_error").Inc()
		log.Error("chat stream failed", zap.Error(err))
		if werr := sink.Error(streamErrorMessage); werr != nil {
			log.Debug("write error frame", zap.Error(werr))
		}
	}
}

// chatFailure reports a chat error raised before anything was streamed.
func (s *Server) chatFailure(w http.ResponseWriter, r *http.Request, outcome string, err error) {
	metrics.ChatRequestsTotal.WithLabelValues(outcome).Inc()
	s.log(r).Error("chat request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Failed to process chat request: "+err.Error())
}

// allowChat applies the per-client quota. Counter failures let the request through.
func (s *Server) allowChat(w http.ResponseWriter, r *http.Request) bool {
	if s.quota == nil || s.cfg.ChatQuota <= 0 {
		return true
	}

	n, err := s.quota.Hit(r.Context(), chatClient(r))
	if err != nil {
		s.log(r).Warn("chat quota unavailable", zap.Error(err))
		return true
	}
	if n > s.cfg.ChatQuota {
		metrics.ChatRequestsTotal.WithLabelValues("rate_limited").Inc()
		s.handleDomainError(w, r, fmt.Errorf("%w: %d requests in window", domain.ErrRateLimited, n))
		return false
	}
	return true
}

// chatClient keys the quota by user when signed in, by remote address otherwise.
func chatClient(r *http.Request) string {
	if sess, ok := SessionFromContext(r.Context()); ok {
		return "user:" + sess.User.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}
