package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterviewSession_CompleteIsFinal(t *testing.T) {
	sess := NewInterviewSession("s1", "Backend Engineer", "Acme")
	assert.Equal(t, InterviewInProgress, sess.Status)
	assert.Nil(t, sess.Score)

	sess.Complete(87, true)
	assert.Equal(t, InterviewCompleted, sess.Status)
	assert.NotNil(t, sess.CompletedAt)
	assert.Equal(t, 87.0, *sess.Score)
	assert.True(t, sess.ScoreExtracted)

	// The score is set exactly once and never overwritten.
	sess.Complete(10, false)
	assert.Equal(t, 87.0, *sess.Score)
	assert.True(t, sess.ScoreExtracted)
}

func TestInterviewSession_AppendMessageOrdinals(t *testing.T) {
	sess := NewInterviewSession("s1", "Backend Engineer", "Acme")
	interviewer := Descriptor{Name: "Interviewer", Role: RoleInterviewer}

	q := sess.AppendMessage(NewAgentMessage(interviewer, "Question 1"))
	a := sess.AppendMessage(NewHumanMessage("Answer 1"))

	assert.Equal(t, 0, q.Ordinal)
	assert.Equal(t, 1, a.Ordinal)
	assert.Len(t, sess.History, 2)
}

func TestInterviewSession_CloneIsIndependent(t *testing.T) {
	sess := NewInterviewSession("s1", "Backend Engineer", "Acme")
	sess.AppendMessage(NewHumanMessage("hello"))
	sess.Complete(80, false)

	clone := sess.Clone()
	clone.History[0].Content = "mutated"
	*clone.Score = 99

	assert.Equal(t, "hello", sess.History[0].Content)
	assert.Equal(t, 80.0, *sess.Score)
}
