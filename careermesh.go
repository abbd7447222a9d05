// Package careermesh provides a high-level façade over the orchestrator and
// the interview machine, enabling rapid construction of AI career mentor
// applications. Most applications interact with this package by:
//  1. Creating a CareerMesh via New() with a model implementation
//  2. Running batch analyses (FullAnalysis, Roadmap, MarketTrends)
//  3. Driving live mock interviews (StartInterview, DeliverAnswer)
//
// All defaults are safe for local development and testing; production
// deployments typically supply a durable session store and a structured
// logger.
package careermesh

import (
	"context"
	"time"

	"github.com/hupe1980/careermesh/core"
	"github.com/hupe1980/careermesh/extract"
	"github.com/hupe1980/careermesh/interview"
	"github.com/hupe1980/careermesh/logging"
	"github.com/hupe1980/careermesh/model"
	"github.com/hupe1980/careermesh/orchestrate"
	"github.com/hupe1980/careermesh/session"
	"github.com/hupe1980/careermesh/tool"
)

// Options configures the CareerMesh instance.
type Options struct {
	// MaxRounds caps scheduling decisions per batch orchestration run.
	MaxRounds int

	// CallTimeout bounds each individual generation call by wall clock.
	CallTimeout time.Duration

	// SessionStore persists interview sessions (defaults to in-memory).
	SessionStore core.SessionStore

	// Router executes agent tool calls (defaults to a router with the
	// job-market search registered).
	Router *tool.Router

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// CareerMesh is the high-level façade aggregating the orchestrator and the
// interview machine.
type CareerMesh struct {
	orchestrator *orchestrate.Orchestrator
	machine      *interview.Machine
}

// New creates a new CareerMesh instance over the given model with optional
// overrides. Any unset service is initialized with an in-memory
// implementation.
func New(llm model.Model, optFns ...func(o *Options)) *CareerMesh {
	opts := Options{
		MaxRounds:    6,
		CallTimeout:  60 * time.Second,
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Router == nil {
		opts.Router = tool.NewRouter()
		opts.Router.Register(tool.NewMarketSearch())
	}

	orchestrator := orchestrate.New(llm, func(o *orchestrate.Options) {
		o.MaxRounds = opts.MaxRounds
		o.CallTimeout = opts.CallTimeout
		o.Router = opts.Router
		o.Logger = opts.Logger
	})
	machine := interview.NewMachine(llm, opts.SessionStore, func(o *interview.Options) {
		o.CallTimeout = opts.CallTimeout
		o.Logger = opts.Logger
	})

	return &CareerMesh{
		orchestrator: orchestrator,
		machine:      machine,
	}
}

// FullAnalysis runs the complete three-agent career analysis.
func (cm *CareerMesh) FullAnalysis(ctx context.Context, req orchestrate.FullAnalysisRequest) (*orchestrate.FullAnalysisResult, error) {
	return cm.orchestrator.RunFullAnalysis(ctx, req)
}

// Roadmap generates a learning roadmap for known skill gaps.
func (cm *CareerMesh) Roadmap(ctx context.Context, req orchestrate.RoadmapRequest) (*orchestrate.RoadmapResult, error) {
	return cm.orchestrator.GenerateRoadmap(ctx, req)
}

// MarketTrends researches the job market for one role and location.
func (cm *CareerMesh) MarketTrends(ctx context.Context, req orchestrate.MarketRequest) (*extract.MarketTrends, error) {
	return cm.orchestrator.ResearchMarket(ctx, req)
}

// StartInterview opens (or resumes) a mock interview session and returns
// the pending question.
func (cm *CareerMesh) StartInterview(ctx context.Context, sessionID, targetRole, targetCompany string) (*interview.Exchange, error) {
	return cm.machine.Start(ctx, sessionID, targetRole, targetCompany)
}

// DeliverAnswer sends one candidate answer and returns the interviewer's
// reply.
func (cm *CareerMesh) DeliverAnswer(ctx context.Context, sessionID, answer string) (*interview.Exchange, error) {
	return cm.machine.Deliver(ctx, sessionID, "", "", answer)
}

// Interview exposes the underlying interview machine for transports that
// need direct access.
func (cm *CareerMesh) Interview() *interview.Machine {
	return cm.machine
}

// Orchestrator exposes the underlying orchestrator.
func (cm *CareerMesh) Orchestrator() *orchestrate.Orchestrator {
	return cm.orchestrator
}
