package interview

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/careermesh/agent"
	"github.com/hupe1980/careermesh/core"
	"github.com/hupe1980/careermesh/model"
	"github.com/hupe1980/careermesh/session"
)

func scriptedInterview(closing string) *model.MockModel {
	m := model.NewMockModel("mock", "test")
	for i := 1; i < QuestionLimit; i++ {
		m.EnqueueText(fmt.Sprintf("Question %d: tell me more.", i))
	}
	m.EnqueueText(closing)
	return m
}

func TestMachine_FullSession(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore()
	machine := NewMachine(scriptedInterview("Great interview. Final score: 87/100."), store)

	ex, err := machine.Start(ctx, "s1", "Backend Engineer", "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, 1, ex.QuestionCount)
	assert.False(t, ex.Completed)
	assert.Equal(t, "Question 1: tell me more.", ex.Reply)

	for i := 2; i < QuestionLimit; i++ {
		ex, err = machine.Deliver(ctx, "s1", "", "", "my answer")
		require.NoError(t, err)
		assert.Equal(t, i, ex.QuestionCount)
		assert.False(t, ex.Completed)
	}

	ex, err = machine.Deliver(ctx, "s1", "", "", "my final answer")
	require.NoError(t, err)
	assert.Equal(t, QuestionLimit, ex.QuestionCount)
	assert.True(t, ex.Completed)
	assert.Equal(t, 87.0, ex.Score)
	assert.True(t, ex.ScoreExtracted)

	_, err = machine.Deliver(ctx, "s1", "", "", "one more?")
	assert.ErrorIs(t, err, ErrSessionCompleted)

	// 5 interviewer replies, opening prompt plus 4 candidate answers.
	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, stored.History, 10)
	assert.Equal(t, core.InterviewCompleted, stored.Status)
}

func TestMachine_ScoreOutOfTen(t *testing.T) {
	ctx := context.Background()
	machine := NewMachine(scriptedInterview("Overall I would rate you 8/10."), session.NewInMemoryStore())

	_, err := machine.Start(ctx, "s1", "SRE", "")
	require.NoError(t, err)

	var ex *Exchange
	for i := 1; i < QuestionLimit; i++ {
		ex, err = machine.Deliver(ctx, "s1", "", "", "answer")
		require.NoError(t, err)
	}
	assert.True(t, ex.Completed)
	assert.Equal(t, 80.0, ex.Score)
	assert.True(t, ex.ScoreExtracted)
}

func TestMachine_DefaultScore(t *testing.T) {
	ctx := context.Background()
	machine := NewMachine(scriptedInterview("Thanks, that concludes the interview."), session.NewInMemoryStore())

	_, err := machine.Start(ctx, "s1", "SRE", "")
	require.NoError(t, err)

	var ex *Exchange
	for i := 1; i < QuestionLimit; i++ {
		ex, err = machine.Deliver(ctx, "s1", "", "", "answer")
		require.NoError(t, err)
	}
	assert.True(t, ex.Completed)
	assert.Equal(t, 80.0, ex.Score)
	assert.False(t, ex.ScoreExtracted)
}

func TestMachine_ResumesAcrossRestart(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore()
	llm := scriptedInterview("Score: 90/100.")

	machine := NewMachine(llm, store)
	_, err := machine.Start(ctx, "s1", "Backend Engineer", "Acme Corp")
	require.NoError(t, err)
	_, err = machine.Deliver(ctx, "s1", "", "", "first answer")
	require.NoError(t, err)

	// A new machine over the same store stands in for a restarted process.
	restarted := NewMachine(llm, store)

	ex, err := restarted.Start(ctx, "s1", "", "")
	require.NoError(t, err)
	// Resumption hands back the pending question without consuming a turn.
	assert.Equal(t, 2, ex.QuestionCount)
	assert.Equal(t, "Question 2: tell me more.", ex.Reply)

	for i := 3; i <= QuestionLimit; i++ {
		ex, err = restarted.Deliver(ctx, "s1", "", "", "answer")
		require.NoError(t, err)
	}
	assert.True(t, ex.Completed)
	assert.Equal(t, 90.0, ex.Score)
}

func TestMachine_ResumesAfterMidExchangeCrash(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore()

	// Durable state ends on the candidate's turn, as if the process died
	// after persisting the answer but before the interviewer replied.
	interviewer, err := agent.NewInterviewer("Backend Engineer", "Acme Corp")
	require.NoError(t, err)
	sess := core.NewInterviewSession("s1", "Backend Engineer", "Acme Corp")
	sess.AppendMessage(core.NewHumanMessage("Let's start the interview."))
	sess.AppendMessage(core.NewAgentMessage(interviewer, "Question 1: tell me more."))
	sess.QuestionCount = 1
	sess.AppendMessage(core.NewHumanMessage("my answer to question 1"))
	require.NoError(t, store.Save(ctx, sess))

	m := model.NewMockModel("mock", "test")
	m.EnqueueText("Question 2: and then?")
	machine := NewMachine(m, store)

	ex, err := machine.Start(ctx, "s1", "", "")
	require.NoError(t, err)

	// The reply owed for the persisted answer is generated, never the
	// candidate's own text handed back.
	assert.Equal(t, "Question 2: and then?", ex.Reply)
	assert.Equal(t, 2, ex.QuestionCount)

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, stored.History, 4)
	assert.Equal(t, core.OriginAgent, stored.History[3].Origin)
}

func TestMachine_RejectsEmptyDelivery(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore()
	machine := NewMachine(scriptedInterview("done"), store)

	_, err := machine.Start(ctx, "s1", "SRE", "")
	require.NoError(t, err)

	_, err = machine.Deliver(ctx, "s1", "", "", "")
	assert.ErrorIs(t, err, ErrEmptyDelivery)

	// Nothing was appended and no question was burned.
	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, stored.History, 2)
	assert.Equal(t, 1, stored.QuestionCount)
}

func TestMachine_Result(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore()
	machine := NewMachine(scriptedInterview("Verdict: 87/100."), store)

	_, err := machine.Start(ctx, "s1", "SRE", "")
	require.NoError(t, err)
	for i := 1; i < QuestionLimit; i++ {
		_, err = machine.Deliver(ctx, "s1", "", "", "answer")
		require.NoError(t, err)
	}

	res, err := machine.Result(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 87.0, res.Score)
	assert.Equal(t, "Verdict: 87/100.", res.Reply)

	_, err = machine.Result(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestMachine_DefaultsForEmptyRoleAndCompany(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore()
	machine := NewMachine(scriptedInterview("done"), store)

	_, err := machine.Start(ctx, "s1", "", "")
	require.NoError(t, err)

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Software Engineer", stored.TargetRole)
	assert.Equal(t, "a top tech company", stored.TargetCompany)
	require.NotEmpty(t, stored.History)
	assert.Contains(t, stored.History[0].Content, "Software Engineer")
}

func TestMachine_SessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := model.NewMockModel("mock", "test")
	m.EnqueueText("Question for s1.")
	m.EnqueueText("Question for s2.")
	machine := NewMachine(m, session.NewInMemoryStore())

	ex1, err := machine.Start(ctx, "s1", "SRE", "")
	require.NoError(t, err)
	ex2, err := machine.Start(ctx, "s2", "Data Engineer", "")
	require.NoError(t, err)

	assert.Equal(t, 1, ex1.QuestionCount)
	assert.Equal(t, 1, ex2.QuestionCount)
	assert.NotEqual(t, ex1.Reply, ex2.Reply)
}
