package model

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hupe1980/careermesh/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the
// model. Parameters is a minimal JSON Schema object.
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input: the speaking agent's
// instruction, the shared conversation history and any tool contract.
type Request struct {
	Instruction string           `json:"instruction"`
	History     []core.Message   `json:"history"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token accounting for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a single completed reply: either plain text or a structured
// tool-call request. Exactly one of Text / ToolCall is meaningful.
type Response struct {
	Text         string         `json:"text,omitempty"`
	ToolCall     *core.ToolCall `json:"tool_call,omitempty"`
	FinishReason string         `json:"finish_reason"`
	Usage        *TokenUsage    `json:"usage,omitempty"`
}

// Model is the minimal interface the orchestration layers require. Generate
// blocks until one full reply is available; callers bound each call with a
// context deadline. Failures surface as *core.GenerationError.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns metadata about the model implementation.
	Info() Info
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	SupportsTools bool   `json:"supports_tools"`
}

// DecodeArguments converts a provider's raw JSON argument payload into the
// flat string map carried on core.ToolCall. Non-string values are rendered
// with %v; a broken payload yields an empty map.
func DecodeArguments(raw string) map[string]string {
	args := map[string]string{}
	if raw == "" {
		return args
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return args
	}
	for k, v := range decoded {
		if s, ok := v.(string); ok {
			args[k] = s
			continue
		}
		args[k] = fmt.Sprintf("%v", v)
	}
	return args
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Scripted responses (Enqueue) are consumed in FIFO order and take
// precedence over per-prompt canned responses.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	script    []*Response
	errs      []error
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      provider,
			SupportsTools: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Enqueue appends a scripted response returned by the next Generate call.
func (m *MockModel) Enqueue(resp *Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, resp)
}

// EnqueueText is shorthand for Enqueue with a plain text reply.
func (m *MockModel) EnqueueText(text string) {
	m.Enqueue(&Response{Text: text, FinishReason: "stop"})
}

// EnqueueToolCall scripts a tool-call reply.
func (m *MockModel) EnqueueToolCall(name string, args map[string]string) {
	m.Enqueue(&Response{
		ToolCall:     &core.ToolCall{ID: core.NewID(), Name: name, Arguments: args},
		FinishReason: "tool_calls",
	})
}

// EnqueueError makes the next Generate call fail with err.
func (m *MockModel) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, err)
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.NewTransientError(m.info.Provider, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return nil, err
	}
	if len(m.script) > 0 {
		resp := m.script[0]
		m.script = m.script[1:]
		return resp, nil
	}

	var inputText string
	if len(req.History) > 0 {
		inputText = req.History[len(req.History)-1].Content
	}
	full := m.responses[inputText]
	if full == "" {
		full = fmt.Sprintf("Mock response to: %s", inputText)
	}
	return &Response{Text: full, FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
