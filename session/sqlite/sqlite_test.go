package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/careermesh/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sess := core.NewInterviewSession("s1", "Backend Engineer", "Acme Corp")
	sess.AppendMessage(core.NewHumanMessage("Let's start."))
	sess.QuestionCount = 2
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", loaded.TargetRole)
	assert.Equal(t, "Acme Corp", loaded.TargetCompany)
	assert.Equal(t, 2, loaded.QuestionCount)
	assert.Equal(t, core.InterviewInProgress, loaded.Status)
	require.Len(t, loaded.History, 1)
	assert.Equal(t, "Let's start.", loaded.History[0].Content)
	assert.Nil(t, loaded.Score)
}

func TestStore_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestStore_CompletedSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sess := core.NewInterviewSession("s1", "SRE", "")
	sess.Complete(87, true)
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, core.InterviewCompleted, loaded.Status)
	require.NotNil(t, loaded.Score)
	assert.Equal(t, 87.0, *loaded.Score)
	assert.True(t, loaded.ScoreExtracted)
	assert.NotNil(t, loaded.CompletedAt)
}

func TestStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sess := core.NewInterviewSession("s1", "SRE", "")
	require.NoError(t, store.Save(ctx, sess))

	sess.AppendMessage(core.NewHumanMessage("answer one"))
	sess.QuestionCount = 1
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.QuestionCount)
	assert.Len(t, loaded.History, 1)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Save(ctx, core.NewInterviewSession("s1", "SRE", "")))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	assert.NoError(t, store.Delete(ctx, "s1"))
}
