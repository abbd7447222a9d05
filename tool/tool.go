// Package tool implements the capability subsystem: named external
// functions agents can request, and the Router that executes them. The
// router never lets a failure escape its boundary: internal errors are
// converted into an explanatory text payload so the conversation can
// continue on the model's prior knowledge.
package tool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/careermesh/core"
	"github.com/hupe1980/careermesh/logging"
	"github.com/hupe1980/careermesh/model"
)

// Tool defines a synchronous external capability exposed to agents.
//
// Implementations should:
//   - Provide clear, descriptive names (snake_case recommended)
//   - Respect the context deadline
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description is shown to the model to explain when to use the tool.
	Description() string

	// Parameters returns a minimal JSON schema for the arguments.
	Parameters() map[string]any

	// Call executes the capability and returns its textual result.
	Call(ctx context.Context, args map[string]string) (string, error)
}

// ToolError categorizes failures during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Router executes registered tools on behalf of agents. Invoke is total:
// unknown tools and execution failures become fallback text, never errors.
type Router struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger logging.Logger
}

// RouterOptions configure a Router.
type RouterOptions struct {
	Logger logging.Logger
}

// NewRouter constructs a Router with optional overrides.
func NewRouter(optFns ...func(o *RouterOptions)) *Router {
	opts := RouterOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{tools: make(map[string]Tool), logger: opts.Logger}
}

// Register adds tools to the router, replacing same-named entries.
func (r *Router) Register(tools ...Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
}

// Definitions returns the tool contract to expose to a model.
func (r *Router) Definitions() []model.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]model.ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

// Invoke executes the requested call synchronously and returns its textual
// result. Failures are logged and converted into fallback text instructing
// the model to rely on prior knowledge.
func (r *Router) Invoke(ctx context.Context, call core.ToolCall) string {
	r.mu.RLock()
	t, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn("tool.invoke.unknown", "tool", call.Name)
		return fmt.Sprintf(
			"The tool %q is not available. Please answer using your internal knowledge.",
			call.Name,
		)
	}

	start := time.Now()
	result, err := t.Call(ctx, call.Arguments)
	if err != nil {
		r.logger.Error("tool.invoke.error",
			"tool", call.Name,
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Sprintf(
			"Error performing %s: %v. Please use your internal knowledge to provide the answer.",
			call.Name, err,
		)
	}

	r.logger.Info("tool.invoke.success",
		"tool", call.Name,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}
