package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	domchat "github.com/bconnected/marketplace/internal/domain/chat"
	chatuc "github.com/bconnected/marketplace/internal/usecase/chat"
)

// Compile-time check: dataStream implements chatuc.Sink.
var _ chatuc.Sink = (*dataStream)(nil)

// dataStream writes the AI SDK data stream protocol (v1): one
// "<type>:<json>\n" frame per part, flushed as written. Headers go out
// with the first frame so failures before it can still become a JSON error.
type dataStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func newDataStream(w http.ResponseWriter) *dataStream {
	f, _ := w.(http.Flusher)
	return &dataStream{w: w, flusher: f}
}

// Started reports whether any frame has been written.
func (d *dataStream) Started() bool { return d.started }

type streamUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
}

func (d *dataStream) StartStep(messageID string) error {
	return d.frame('f', struct {
		MessageID string `json:"messageId"`
	}{messageID})
}

func (d *dataStream) Text(delta string) error {
	return d.frame('0', delta)
}

func (d *dataStream) ToolCall(call domchat.ToolCall) error {
	args := call.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	return d.frame('9', struct {
		ToolCallID string          `json:"toolCallId"`
		ToolName   string          `json:"toolName"`
		Args       json.RawMessage `json:"args"`
	}{call.ID, call.Name, args})
}

func (d *dataStream) ToolResult(callID string, result any) error {
	return d.frame('a', struct {
		ToolCallID string `json:"toolCallId"`
		Result     any    `json:"result"`
	}{callID, result})
}

func (d *dataStream) FinishStep(reason domchat.FinishReason, usage domchat.Usage, continued bool) error {
	return d.frame('e', struct {
		FinishReason domchat.FinishReason `json:"finishReason"`
		Usage        streamUsage          `json:"usage"`
		IsContinued  bool                 `json:"isContinued"`
	}{reason, streamUsage(usage), continued})
}

func (d *dataStream) Finish(reason domchat.FinishReason, usage domchat.Usage) error {
	return d.frame('d', struct {
		FinishReason domchat.FinishReason `json:"finishReason"`
		Usage        streamUsage          `json:"usage"`
	}{reason, streamUsage(usage)})
}

// Error writes an error frame. The message is shown to end users verbatim.
func (d *dataStream) Error(message string) error {
	return d.frame('3', message)
}

func (d *dataStream) frame(code byte, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode stream part %c: %w", code, err)
	}
	if !d.started {
		h := d.w.Header()
		h.Set("Content-Type", "text/plain; charset=utf-8")
		h.Set("X-Vercel-AI-Data-Stream", "v1")
		h.Set("Cache-Control", "no-cache")
		d.w.WriteHeader(http.StatusOK)
		d.started = true
	}

	buf := make([]byte, 0, len(payload)+3)
	buf = append(buf, code, ':')
	buf = append(buf, payload...)
	buf = append(buf, '\n')
	if _, err := d.w.Write(buf); err != nil {
		return fmt.Errorf("write stream part %c: %w", code, err)
	}
	if d.flusher != nil {
		d.flusher.Flush()
	}
	return nil
}
