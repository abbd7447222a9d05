// Package schedule implements the deterministic turn policy deciding,
// after every message, which participant acts next. Decisions are a pure
// function of the conversation history and the roster: same history, same
// decision. The round budget is enforced by the orchestrator, never here.
package schedule

import "github.com/hupe1980/careermesh/core"

// Kind enumerates the possible next actions.
type Kind int

const (
	// Speak hands the floor to the agent named in Decision.Agent.
	Speak Kind = iota
	// RunTool routes the pending tool call before any agent speaks again.
	RunTool
	// Stop terminates the conversation.
	Stop
)

// String returns a readable name for logging.
func (k Kind) String() string {
	switch k {
	case Speak:
		return "speak"
	case RunTool:
		return "run_tool"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Decision is the scheduler's verdict for one step.
type Decision struct {
	Kind  Kind
	Agent core.Role // set when Kind == Speak
}

// Scheduler owns no mutable state; it dispatches purely on role tags and
// message metadata. Reply prose never influences a decision: a pending
// tool call is signalled by the structured flag on the message.
type Scheduler struct {
	roster []core.Descriptor
}

// New creates a scheduler for an ordered roster.
func New(roster []core.Descriptor) *Scheduler {
	return &Scheduler{roster: roster}
}

// Next decides the next action from the current history.
//
// Policy:
//  1. With at most one message in the log, the first specialist in roster
//     order opens (never the user proxy).
//  2. After a human/user-proxy turn, the researcher takes the floor.
//  3. After the analyst, the researcher takes the floor.
//  4. After the researcher: a pending tool call routes to the tool
//     runner; otherwise the coach takes the floor.
//  5. After the coach the conversation stops, the sole terminal state
//     besides the orchestrator's round budget.
//  6. After a tool result, the floor returns to the agent that requested
//     the call, so it can fold the result into its reply.
func (s *Scheduler) Next(history []core.Message) Decision {
	if len(history) <= 1 {
		if first, ok := s.firstSpecialist(); ok {
			return Decision{Kind: Speak, Agent: first}
		}
		return Decision{Kind: Stop}
	}

	last := history[len(history)-1]

	if last.Origin == core.OriginTool {
		if last.ToolCall != nil && last.ToolCall.RequestedBy.IsSpecialist() {
			return Decision{Kind: Speak, Agent: last.ToolCall.RequestedBy}
		}
		return Decision{Kind: Speak, Agent: core.RoleResearcher}
	}

	switch last.Role {
	case core.RoleUserProxy:
		return Decision{Kind: Speak, Agent: core.RoleResearcher}
	case core.RoleAnalyst:
		return Decision{Kind: Speak, Agent: core.RoleResearcher}
	case core.RoleResearcher:
		if last.RequestsTool() {
			return Decision{Kind: RunTool}
		}
		return Decision{Kind: Speak, Agent: core.RoleCoach}
	case core.RoleCoach:
		return Decision{Kind: Stop}
	default:
		return Decision{Kind: Stop}
	}
}

// firstSpecialist returns the first non-user-proxy role in roster order.
func (s *Scheduler) firstSpecialist() (core.Role, bool) {
	for _, d := range s.roster {
		if d.Role.IsSpecialist() {
			return d.Role, true
		}
	}
	return "", false
}

// Find returns the roster descriptor for a role.
func (s *Scheduler) Find(role core.Role) (core.Descriptor, bool) {
	for _, d := range s.roster {
		if d.Role == role {
			return d, true
		}
	}
	return core.Descriptor{}, false
}

// Roster returns the ordered roster.
func (s *Scheduler) Roster() []core.Descriptor {
	out := make([]core.Descriptor, len(s.roster))
	copy(out, s.roster)
	return out
}
