package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bconnected/marketplace/internal/domain"
	"github.com/bconnected/marketplace/internal/logger"
	"github.com/bconnected/marketplace/internal/metrics"
)

// Registry maps tool names to tools, preserving registration order.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry registers tools. Names must be non-empty and unique.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Definition().Name
		if name == "" {
			return nil, fmt.Errorf("tool name is required")
		}
		if _, dup := r.tools[name]; dup {
			return nil, fmt.Errorf("tool %q registered twice", name)
		}
		r.tools[name] = t
		r.order = append(r.order, name)
	}
	return r, nil
}

// Definitions returns tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute dispatches a call by name. Failures are returned as *domain.ToolError
// wrapping ErrUnknownTool, ErrInvalidToolArguments or the tool's own error.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		metrics.ToolInvocationsTotal.WithLabelValues("unknown", "error").Inc()
		return nil, domain.NewToolError(name, domain.ErrUnknownTool)
	}

	res, err := t.Execute(ctx, args)
	if err != nil {
		status := "error"
		if errors.Is(err, domain.ErrInvalidToolArguments) {
			status = "invalid_arguments"
		}
		metrics.ToolInvocationsTotal.WithLabelValues(name, status).Inc()
		logger.FromContext(ctx).Warn("tool failed", zap.String("tool", name), zap.Error(err))
		return nil, domain.NewToolError(name, err)
	}

	metrics.ToolInvocationsTotal.WithLabelValues(name, "ok").Inc()
	return res, nil
}
