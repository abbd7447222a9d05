package core

import "sort"

// Role identifies a participant kind within a conversation. The set is
// closed: the scheduler dispatches on these tags and message metadata only,
// never on reply prose.
type Role string

const (
	// RoleUserProxy stands in for the human caller inside a batch
	// orchestration. It never speaks on its own.
	RoleUserProxy Role = "user_proxy"
	// RoleAnalyst extracts skills, strengths and gaps from a resume.
	RoleAnalyst Role = "resume_analyst"
	// RoleResearcher investigates the job market, optionally via tools.
	RoleResearcher Role = "market_researcher"
	// RoleCoach produces the week-by-week learning roadmap.
	RoleCoach Role = "career_coach"
	// RoleInterviewer runs the mock technical interview.
	RoleInterviewer Role = "interviewer"
)

// IsSpecialist reports whether the role belongs to a model-backed agent as
// opposed to the human stand-in.
func (r Role) IsSpecialist() bool { return r != "" && r != RoleUserProxy }

// Capabilities is a set of free-form capability tags carried by a
// descriptor (e.g. "web_search", "json_output").
type Capabilities map[string]struct{}

// NewCapabilities builds a capability set from tags.
func NewCapabilities(tags ...string) Capabilities {
	c := make(Capabilities, len(tags))
	for _, t := range tags {
		c[t] = struct{}{}
	}
	return c
}

// Has reports whether the tag is present.
func (c Capabilities) Has(tag string) bool {
	_, ok := c[tag]
	return ok
}

// Tags returns the capability tags in sorted order.
func (c Capabilities) Tags() []string {
	tags := make([]string, 0, len(c))
	for t := range c {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Descriptor describes one conversation participant: its unique name, role
// tag, behavior instruction and capability set. Descriptors are created at
// orchestration start and never mutated.
type Descriptor struct {
	Name         string       `json:"name"`
	Role         Role         `json:"role"`
	Instruction  string       `json:"instruction"`
	Capabilities Capabilities `json:"capabilities,omitempty"`
}
