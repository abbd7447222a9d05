// Package interview implements the persistent mock-interview machine: one
// interviewer agent, one human candidate, a fixed question threshold and a
// score recovered from the closing reply. Session state is persisted after
// every mutation, so a delivery stream can resume across process restarts.
package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/careermesh/agent"
	"github.com/hupe1980/careermesh/core"
	"github.com/hupe1980/careermesh/extract"
	"github.com/hupe1980/careermesh/logging"
	"github.com/hupe1980/careermesh/model"
)

// QuestionLimit is the number of interviewer replies per session. The
// final reply carries the evaluation and the score.
const QuestionLimit = 5

// ErrSessionCompleted is returned for deliveries to an already completed
// session. The transport closes the channel on the first occurrence.
var ErrSessionCompleted = errors.New("interview session already completed")

// ErrEmptyDelivery is returned for an empty candidate message on a session
// that is already underway. An empty first contact is the one exception;
// it behaves like Start.
var ErrEmptyDelivery = errors.New("empty candidate message")

// Options hold configuration overrides passed to NewMachine.
type Options struct {
	// CallTimeout bounds each generation call by wall clock.
	CallTimeout time.Duration
	// Logger receives structured session events.
	Logger logging.Logger
}

// Machine drives interview sessions over a SessionStore. Deliveries for
// the same session id are serialized; distinct sessions run in parallel.
type Machine struct {
	llm         model.Model
	store       core.SessionStore
	callTimeout time.Duration
	logger      logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMachine constructs a Machine over the given model and store.
func NewMachine(llm model.Model, store core.SessionStore, optFns ...func(o *Options)) *Machine {
	opts := Options{
		CallTimeout: 60 * time.Second,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Machine{
		llm:         llm,
		store:       store,
		callTimeout: opts.CallTimeout,
		logger:      opts.Logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

// Exchange is the outcome of one delivery: the interviewer's reply plus
// the session counters after the mutation was persisted.
type Exchange struct {
	SessionID     string  `json:"session_id"`
	Reply         string  `json:"reply"`
	QuestionCount int     `json:"question_count"`
	Completed     bool    `json:"completed"`
	Score         float64 `json:"score,omitempty"`
	// ScoreExtracted is false when the score is the fallback default
	// rather than a value recovered from the closing reply.
	ScoreExtracted bool `json:"score_extracted,omitempty"`
}

// Start opens (or resumes) a session. For a fresh session it synthesizes
// the opening prompt and returns the first question; for a session with
// history it returns the pending interviewer reply, generating it first
// when the durable state ends on an unanswered candidate turn.
func (m *Machine) Start(ctx context.Context, sessionID, targetRole, targetCompany string) (*Exchange, error) {
	unlock := m.lock(sessionID)
	defer unlock()

	sess, err := m.loadOrCreate(ctx, sessionID, targetRole, targetCompany)
	if err != nil {
		return nil, err
	}
	if sess.Status == core.InterviewCompleted {
		return nil, ErrSessionCompleted
	}

	if len(sess.History) > 0 {
		last := sess.History[len(sess.History)-1]
		if last.Origin != core.OriginAgent {
			// A crash between persisting the candidate turn and the
			// interviewer reply leaves the history ending on a human
			// message. Generate the reply owed for it.
			return m.advance(ctx, sess)
		}
		// Resumption: hand back the pending question instead of asking a
		// new one.
		return m.exchange(sess, last.Content), nil
	}

	sess.AppendMessage(core.NewHumanMessage(openingPrompt(sess)))

	return m.advance(ctx, sess)
}

func openingPrompt(sess *core.InterviewSession) string {
	return fmt.Sprintf(
		"I am a candidate for the %s position at %s. Let's start the interview. Ask me the first question.",
		sess.TargetRole, sess.TargetCompany,
	)
}

// Deliver appends one candidate message and returns the interviewer's
// reply. The reply that takes the session to the question limit completes
// it and records the score.
func (m *Machine) Deliver(ctx context.Context, sessionID, targetRole, targetCompany, candidateText string) (*Exchange, error) {
	unlock := m.lock(sessionID)
	defer unlock()

	sess, err := m.loadOrCreate(ctx, sessionID, targetRole, targetCompany)
	if err != nil {
		return nil, err
	}
	if sess.Status == core.InterviewCompleted {
		return nil, ErrSessionCompleted
	}

	// An empty first contact behaves like Start: the opening prompt is
	// synthesized on the candidate's behalf.
	if candidateText == "" {
		if len(sess.History) > 0 {
			return nil, ErrEmptyDelivery
		}
		candidateText = openingPrompt(sess)
	}

	sess.AppendMessage(core.NewHumanMessage(candidateText))
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session %s: %w", sess.ID, err)
	}

	return m.advance(ctx, sess)
}

// Result returns the session's current state as an Exchange without
// generating anything. The reply is the last interviewer message, empty
// for a session with no replies yet.
func (m *Machine) Result(ctx context.Context, sessionID string) (*Exchange, error) {
	sess, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	var reply string
	for i := len(sess.History) - 1; i >= 0; i-- {
		if sess.History[i].Origin == core.OriginAgent {
			reply = sess.History[i].Content
			break
		}
	}
	return m.exchange(sess, reply), nil
}

// advance generates one interviewer reply, applies the completion rule and
// persists the result. The caller holds the session lock.
func (m *Machine) advance(ctx context.Context, sess *core.InterviewSession) (*Exchange, error) {
	interviewer, err := agent.NewInterviewer(sess.TargetRole, sess.TargetCompany)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, m.callTimeout)
	defer cancel()

	resp, err := m.llm.Generate(callCtx, model.Request{
		Instruction: interviewer.Instruction,
		History:     sess.History,
	})
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sess.ID, err)
	}

	sess.AppendMessage(core.NewAgentMessage(interviewer, resp.Text))
	sess.QuestionCount++

	if sess.QuestionCount >= QuestionLimit {
		score, found := extract.Score(resp.Text)
		if !found {
			score = extract.DefaultScore
		}
		sess.Complete(score, found)
		m.logger.Info("interview.completed",
			"session_id", sess.ID,
			"score", score,
			"score_extracted", found,
		)
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session %s: %w", sess.ID, err)
	}

	return m.exchange(sess, resp.Text), nil
}

func (m *Machine) exchange(sess *core.InterviewSession, reply string) *Exchange {
	ex := &Exchange{
		SessionID:     sess.ID,
		Reply:         reply,
		QuestionCount: sess.QuestionCount,
		Completed:     sess.Status == core.InterviewCompleted,
	}
	if sess.Score != nil {
		ex.Score = *sess.Score
		ex.ScoreExtracted = sess.ScoreExtracted
	}
	return ex
}

func (m *Machine) loadOrCreate(ctx context.Context, sessionID, targetRole, targetCompany string) (*core.InterviewSession, error) {
	sess, err := m.store.Load(ctx, sessionID)
	if errors.Is(err, core.ErrSessionNotFound) {
		sess = core.NewInterviewSession(sessionID, targetRole, targetCompany)
		if sess.TargetRole == "" {
			sess.TargetRole = "Software Engineer"
		}
		if sess.TargetCompany == "" {
			sess.TargetCompany = "a top tech company"
		}
		if err := m.store.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("persist session %s: %w", sessionID, err)
		}
		m.logger.Info("interview.session_created",
			"session_id", sessionID,
			"target_role", sess.TargetRole,
		)
		return sess, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return sess, nil
}

// lock serializes deliveries per session id. Lock entries live for the
// process lifetime; session churn is small enough that reclaiming them is
// not worth the bookkeeping.
func (m *Machine) lock(sessionID string) func() {
	m.mu.Lock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[sessionID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
