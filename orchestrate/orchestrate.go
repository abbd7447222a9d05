// Package orchestrate drives multi-agent conversations: it loops the turn
// scheduler over the shared log, invokes the chosen participant (model or
// tool router) and converts terminal replies into typed results. One run
// owns its conversation log exclusively; participants never execute
// concurrently within a run.
package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/careermesh/agent"
	"github.com/hupe1980/careermesh/core"
	"github.com/hupe1980/careermesh/extract"
	"github.com/hupe1980/careermesh/logging"
	"github.com/hupe1980/careermesh/model"
	"github.com/hupe1980/careermesh/schedule"
	"github.com/hupe1980/careermesh/tool"
)

// ErrEmptyRoadmap is returned when no week array could be recovered from a
// dedicated roadmap run.
var ErrEmptyRoadmap = errors.New("agent returned an empty roadmap")

// Options hold configuration overrides passed to New().
type Options struct {
	// MaxRounds caps the number of scheduling decisions per run. The
	// budget always takes precedence over the turn policy: once spent,
	// the run ends and returns whatever log it accumulated.
	MaxRounds int
	// CallTimeout bounds each individual generation call by wall clock.
	CallTimeout time.Duration
	// Roster overrides the default career mentor roster.
	Roster []core.Descriptor
	// Router executes agent tool calls. A router with no tools still
	// answers with fallback text.
	Router *tool.Router
	// Logger receives structured orchestration events.
	Logger logging.Logger
}

// Orchestrator runs batch career analysis conversations.
type Orchestrator struct {
	llm         model.Model
	scheduler   *schedule.Scheduler
	router      *tool.Router
	maxRounds   int
	callTimeout time.Duration
	logger      logging.Logger
}

// New constructs an Orchestrator with optional overrides.
func New(llm model.Model, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		MaxRounds:   6,
		CallTimeout: 60 * time.Second,
		Roster:      agent.Roster(),
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Router == nil {
		opts.Router = tool.NewRouter()
	}
	return &Orchestrator{
		llm:         llm,
		scheduler:   schedule.New(opts.Roster),
		router:      opts.Router,
		maxRounds:   opts.MaxRounds,
		callTimeout: opts.CallTimeout,
		logger:      opts.Logger,
	}
}

// FullAnalysisRequest asks for the complete three-agent career analysis.
type FullAnalysisRequest struct {
	ResumeText string `json:"resume_text"`
	TargetRole string `json:"target_role"`
	Location   string `json:"location"`
}

// RoadmapResult is the validated learning roadmap.
type RoadmapResult struct {
	TargetRole string                `json:"target_role"`
	Weeks      []extract.RoadmapWeek `json:"weeks"`
}

// FullAnalysisResult aggregates the typed outputs of one full run plus the
// raw conversation log. BudgetExhausted marks runs that hit the round
// budget before the scheduler reached its terminal state; such runs still
// return everything extracted so far.
type FullAnalysisResult struct {
	ResumeAnalysis  extract.ResumeAnalysis `json:"resume_analysis"`
	MarketTrends    extract.MarketTrends   `json:"market_trends"`
	Roadmap         RoadmapResult          `json:"roadmap"`
	Log             []core.Message         `json:"conversation_log"`
	BudgetExhausted bool                   `json:"budget_exhausted,omitempty"`
}

// RoadmapRequest asks for a roadmap from a known set of skill gaps.
type RoadmapRequest struct {
	TargetRole string   `json:"target_role"`
	SkillGaps  []string `json:"skill_gaps"`
}

// MarketRequest asks for market trends for one role and location.
type MarketRequest struct {
	Role     string `json:"role"`
	Location string `json:"location"`
}

// RunFullAnalysis orchestrates all specialists over one shared log and
// extracts their structured outputs. Generation failures are fatal for the
// request; extraction failures degrade to defaults; budget exhaustion is a
// distinct non-fatal condition reported on the result.
func (o *Orchestrator) RunFullAnalysis(ctx context.Context, req FullAnalysisRequest) (*FullAnalysisResult, error) {
	conv := core.NewConversation()
	conv.Append(core.NewHumanMessage(fullAnalysisPrompt(req)))

	exhausted, err := o.loop(ctx, conv)
	if err != nil {
		return nil, err
	}

	msgs := conv.Messages()
	result := &FullAnalysisResult{
		Log:             msgs,
		BudgetExhausted: exhausted,
		ResumeAnalysis:  extract.NormalizeResume(o.lastObjectFrom(msgs, core.RoleAnalyst)),
		MarketTrends:    extract.NormalizeMarket(o.lastObjectFrom(msgs, core.RoleResearcher)),
	}

	weeks := extract.WeekList(o.lastCandidateFrom(msgs, core.RoleCoach))
	if len(weeks) == 0 {
		// Speaker attribution and text author sometimes disagree; scan
		// the whole log for a week-keyed array before giving up.
		weeks = extract.WeeksFromConversation(msgs)
	}
	result.Roadmap = RoadmapResult{TargetRole: req.TargetRole, Weeks: extract.NormalizeWeeks(weeks)}

	o.logger.Info("orchestrate.full_analysis.done",
		"rounds_used", len(msgs)-1,
		"budget_exhausted", exhausted,
		"roadmap_weeks", len(result.Roadmap.Weeks),
	)
	return result, nil
}

// GenerateRoadmap runs the career coach alone over a two-turn exchange and
// normalizes its reply into a contiguous 1..N roadmap.
func (o *Orchestrator) GenerateRoadmap(ctx context.Context, req RoadmapRequest) (*RoadmapResult, error) {
	coach, ok := o.scheduler.Find(core.RoleCoach)
	if !ok {
		return nil, fmt.Errorf("roster has no coach agent")
	}

	conv := core.NewConversation()
	conv.Append(core.NewHumanMessage(roadmapPrompt(req)))

	reply, err := o.speak(ctx, coach, conv.Messages())
	if err != nil {
		return nil, err
	}
	conv.Append(reply)

	weeks := extract.WeekList(extract.Candidate(reply.Content))
	if len(weeks) == 0 {
		weeks = extract.WeeksFromConversation(conv.Messages())
	}
	if len(weeks) == 0 {
		o.logger.Warn("orchestrate.roadmap.empty", "reply_len", len(reply.Content))
		return nil, ErrEmptyRoadmap
	}

	return &RoadmapResult{TargetRole: req.TargetRole, Weeks: extract.NormalizeWeeks(weeks)}, nil
}

// ResearchMarket runs the researcher (with its tool round-trip) alone and
// normalizes the reply into MarketTrends.
func (o *Orchestrator) ResearchMarket(ctx context.Context, req MarketRequest) (*extract.MarketTrends, error) {
	researcher, ok := o.scheduler.Find(core.RoleResearcher)
	if !ok {
		return nil, fmt.Errorf("roster has no researcher agent")
	}

	conv := core.NewConversation()
	conv.Append(core.NewHumanMessage(marketPrompt(req)))

	// One reply plus at most one tool round-trip.
	for i := 0; i < 3; i++ {
		reply, err := o.speak(ctx, researcher, conv.Messages())
		if err != nil {
			return nil, err
		}
		conv.Append(reply)
		if !reply.RequestsTool() {
			break
		}
		result := o.router.Invoke(ctx, *reply.ToolCall)
		conv.Append(core.NewToolResultMessage(*reply.ToolCall, result))
	}

	trends := extract.NormalizeMarket(o.lastObjectFrom(conv.Messages(), core.RoleResearcher))
	trends.Role = req.Role
	trends.Location = req.Location
	return &trends, nil
}

// loop drives scheduling decisions until Stop or the round budget is
// spent. The returned bool reports budget exhaustion.
func (o *Orchestrator) loop(ctx context.Context, conv *core.Conversation) (bool, error) {
	for round := 0; round < o.maxRounds; round++ {
		decision := o.scheduler.Next(conv.Messages())
		o.logger.Debug("orchestrate.decision",
			"round", round,
			"kind", decision.Kind.String(),
			"agent", string(decision.Agent),
		)

		switch decision.Kind {
		case schedule.Stop:
			return false, nil

		case schedule.RunTool:
			last, ok := conv.Last()
			if !ok || last.ToolCall == nil {
				return false, nil
			}
			result := o.router.Invoke(ctx, *last.ToolCall)
			conv.Append(core.NewToolResultMessage(*last.ToolCall, result))

		case schedule.Speak:
			desc, ok := o.scheduler.Find(decision.Agent)
			if !ok {
				return false, fmt.Errorf("scheduler chose unknown agent %q", decision.Agent)
			}
			reply, err := o.speak(ctx, desc, conv.Messages())
			if err != nil {
				return false, err
			}
			conv.Append(reply)
		}
	}
	o.logger.Warn("orchestrate.budget_exhausted", "max_rounds", o.maxRounds)
	return true, nil
}

// speak invokes the model for one agent turn under the per-call wall-clock
// timeout. A cancelled call appends nothing to the log.
func (o *Orchestrator) speak(ctx context.Context, d core.Descriptor, history []core.Message) (core.Message, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	req := model.Request{Instruction: d.Instruction, History: history}
	if d.Capabilities.Has("web_search") {
		req.Tools = o.router.Definitions()
	}

	start := time.Now()
	resp, err := o.llm.Generate(callCtx, req)
	if err != nil {
		o.logger.Error("orchestrate.generate.failed",
			"agent", d.Name,
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return core.Message{}, fmt.Errorf("agent %s: %w", d.Name, err)
	}
	o.logger.Debug("orchestrate.generate.ok",
		"agent", d.Name,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.ToolCall != nil {
		return core.NewToolCallMessage(d, resp.Text, *resp.ToolCall), nil
	}
	return core.NewAgentMessage(d, resp.Text), nil
}

// lastObjectFrom extracts a candidate object from the most recent
// non-empty message of a role. Failures degrade to an empty object; the
// caller sees the low-confidence result via the normalizer defaults.
func (o *Orchestrator) lastObjectFrom(msgs []core.Message, role core.Role) map[string]any {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != role || msgs[i].Origin != core.OriginAgent || msgs[i].Content == "" {
			continue
		}
		if obj := extract.Object(msgs[i].Content); obj != nil {
			return obj
		}
		o.logger.Warn("orchestrate.extract.failed", "role", string(role), "ordinal", msgs[i].Ordinal)
		return map[string]any{}
	}
	o.logger.Warn("orchestrate.extract.no_message", "role", string(role))
	return map[string]any{}
}

// lastCandidateFrom extracts any candidate value from the most recent
// non-empty message of a role.
func (o *Orchestrator) lastCandidateFrom(msgs []core.Message, role core.Role) any {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != role || msgs[i].Origin != core.OriginAgent || msgs[i].Content == "" {
			continue
		}
		return extract.Candidate(msgs[i].Content)
	}
	return nil
}

func fullAnalysisPrompt(req FullAnalysisRequest) string {
	return fmt.Sprintf(
		"Resume:\n%s\n\nTarget Role: %s\n\nLocation: %s\n\n"+
			"Please: (1) analyze the resume, (2) research the job market, "+
			"(3) generate a personalized learning roadmap.",
		req.ResumeText, req.TargetRole, req.Location,
	)
}

func roadmapPrompt(req RoadmapRequest) string {
	var gaps strings.Builder
	for i, g := range req.SkillGaps {
		fmt.Fprintf(&gaps, "  %d. %s\n", i+1, g)
	}
	return fmt.Sprintf(
		"Target Role: %s\n\nSkill Gaps to Close:\n%s\n"+
			"Create a comprehensive 6-week learning roadmap to help the candidate "+
			"master these skill gaps for the Target Role. Make each week distinct, "+
			"foundational to advanced.\n\n"+
			"Return ONLY a raw JSON array — no markdown, no explanation. Each element "+
			"must have: 'week' (int), 'topic' (str), 'resource_url' (str), "+
			"'estimated_hours' (int), and 'mini_project' (str).",
		req.TargetRole, gaps.String(),
	)
}

func marketPrompt(req MarketRequest) string {
	return fmt.Sprintf(
		"Target Role: %s\nLocation: %s\n\n"+
			"Please use the 'search_job_trends' tool to find real data. Then combine "+
			"the search results with your own knowledge and return exactly a JSON "+
			"dictionary with these keys:\n"+
			"  'top_skills' (list of 5 strings),\n"+
			"  'salary_range' (string),\n"+
			"  'top_companies' (list of strings),\n"+
			"  'market_trend' (string: 'Growing', 'Stable', or 'Declining').\n"+
			"No other text, just the raw JSON dict.",
		req.Role, req.Location,
	)
}
