package core

import (
	"time"

	"github.com/google/uuid"
)

// Origin categorizes the producer of a message.
type Origin string

const (
	// OriginHuman marks messages delivered by the human participant (or
	// the user proxy on their behalf).
	OriginHuman Origin = "human"
	// OriginAgent marks messages produced by a model-backed agent.
	OriginAgent Origin = "agent"
	// OriginTool marks tool results injected by the router.
	OriginTool Origin = "tool"
)

// ToolCall is an agent's request to invoke an external capability. It is
// ephemeral: the router consumes it within the same scheduling step that
// produced it. The same ID reappears on the tool-origin result message so
// providers can correlate call and result.
type ToolCall struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Arguments   map[string]string `json:"arguments,omitempty"`
	RequestedBy Role              `json:"requested_by"`
}

// Message is a single entry of a conversation log. Once appended it is
// never edited or removed.
type Message struct {
	ID        string    `json:"id"`
	Speaker   string    `json:"speaker"`
	Role      Role      `json:"role"`
	Origin    Origin    `json:"origin"`
	Content   string    `json:"content"`
	ToolCall  *ToolCall `json:"tool_call,omitempty"`
	Ordinal   int       `json:"ordinal"`
	Timestamp time.Time `json:"timestamp"`
}

// RequestsTool reports whether the message carries a pending tool call
// that the router has not yet answered. Tool-origin messages carry the
// originating call for correlation but request nothing.
func (m Message) RequestsTool() bool {
	return m.Origin == OriginAgent && m.ToolCall != nil
}

// NewID generates a new unique identifier for messages and tool calls.
func NewID() string { return uuid.NewString() }

// NewHumanMessage creates a human-origin message attributed to the user
// proxy role. Ordinal is assigned on append.
func NewHumanMessage(content string) Message {
	return Message{
		ID:        NewID(),
		Speaker:   "user",
		Role:      RoleUserProxy,
		Origin:    OriginHuman,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentMessage creates an agent-origin message from a descriptor.
func NewAgentMessage(d Descriptor, content string) Message {
	return Message{
		ID:        NewID(),
		Speaker:   d.Name,
		Role:      d.Role,
		Origin:    OriginAgent,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewToolCallMessage creates an agent-origin message that requests a tool
// invocation. Content may be empty when the model emitted a bare call.
func NewToolCallMessage(d Descriptor, content string, call ToolCall) Message {
	m := NewAgentMessage(d, content)
	if call.ID == "" {
		call.ID = NewID()
	}
	call.RequestedBy = d.Role
	m.ToolCall = &call
	return m
}

// NewToolResultMessage creates a tool-origin message holding the textual
// result of a previously requested call.
func NewToolResultMessage(call ToolCall, result string) Message {
	c := call
	return Message{
		ID:        NewID(),
		Speaker:   call.Name,
		Origin:    OriginTool,
		Content:   result,
		ToolCall:  &c,
		Timestamp: time.Now().UTC(),
	}
}
