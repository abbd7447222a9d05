package core

import (
	"context"
	"errors"
	"time"
)

// InterviewStatus tracks the lifecycle of a mock interview session.
type InterviewStatus string

const (
	// InterviewInProgress marks a session still exchanging questions.
	InterviewInProgress InterviewStatus = "in_progress"
	// InterviewCompleted marks a session that reached its question
	// threshold and recorded a final score.
	InterviewCompleted InterviewStatus = "completed"
)

// ErrSessionNotFound is returned by SessionStore implementations when no
// session exists for the requested id.
var ErrSessionNotFound = errors.New("session not found")

// InterviewSession is the durable state of one mock interview. It is
// exclusively owned by its session id: stores hand out copies, and the
// interview machine serializes mutations per id.
type InterviewSession struct {
	ID             string          `json:"id"`
	TargetRole     string          `json:"target_role"`
	TargetCompany  string          `json:"target_company"`
	History        []Message       `json:"history"`
	QuestionCount  int             `json:"question_count"`
	Status         InterviewStatus `json:"status"`
	Score          *float64        `json:"score,omitempty"`
	ScoreExtracted bool            `json:"score_extracted"`
	Created        time.Time       `json:"created"`
	Updated        time.Time       `json:"updated"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
}

// NewInterviewSession creates a fresh in-progress session.
func NewInterviewSession(id, targetRole, targetCompany string) *InterviewSession {
	now := time.Now().UTC()
	return &InterviewSession{
		ID:            id,
		TargetRole:    targetRole,
		TargetCompany: targetCompany,
		Status:        InterviewInProgress,
		Created:       now,
		Updated:       now,
	}
}

// AppendMessage assigns the next ordinal within the session history and
// appends the message.
func (s *InterviewSession) AppendMessage(m Message) Message {
	if m.ID == "" {
		m.ID = NewID()
	}
	m.Ordinal = len(s.History)
	s.History = append(s.History, m)
	s.Updated = time.Now().UTC()
	return m
}

// Complete transitions the session to completed, recording the score
// exactly once. Calls after completion are no-ops.
func (s *InterviewSession) Complete(score float64, extracted bool) {
	if s.Status == InterviewCompleted {
		return
	}
	now := time.Now().UTC()
	s.Status = InterviewCompleted
	s.Score = &score
	s.ScoreExtracted = extracted
	s.CompletedAt = &now
	s.Updated = now
}

// Clone returns a deep copy safe for independent mutation.
func (s *InterviewSession) Clone() *InterviewSession {
	clone := *s
	clone.History = make([]Message, len(s.History))
	copy(clone.History, s.History)
	if s.Score != nil {
		v := *s.Score
		clone.Score = &v
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		clone.CompletedAt = &t
	}
	return &clone
}

// SessionStore persists interview sessions across deliveries. Load returns
// ErrSessionNotFound for unknown ids; callers decide whether that is fatal
// (the interview machine auto-creates instead).
type SessionStore interface {
	Load(ctx context.Context, id string) (*InterviewSession, error)
	Save(ctx context.Context, session *InterviewSession) error
	Delete(ctx context.Context, id string) error
}
