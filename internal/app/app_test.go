package app

import (
	"testing"

	"github.com/example/askbox/internal/directory"
	"github.com/example/askbox/internal/questions"
	"github.com/example/askbox/internal/session"
	"github.com/example/askbox/internal/store"
	"github.com/example/askbox/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp() *App {
	st := store.NewMemStore()
	dir := directory.New(st)
	repo := questions.NewRepo(st)
	sessions := session.NewManager(token.NewCodec(), st, dir, zap.NewNop().Sugar())
	return New(sessions, dir, repo)
}

func TestScenario_RegisterAskAnswer(t *testing.T) {
	t.Parallel()

	a := newApp()

	_, _, err := a.Register("alice", "pw")
	require.NoError(t, err)
	assert.True(t, a.IsAuthenticated())

	require.NoError(t, a.SubmitQuestion("alice", "Hi Alice"))

	qs, err := a.ListQuestions()
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.False(t, qs[0].Answered())

	answered, err := a.AnswerQuestion(qs[0].ID, "Hello!")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", answered.Answer)
	require.NotNil(t, answered.AnsweredAt)

	qs, err = a.ListQuestions()
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Hello!", qs[0].Answer)
}

func TestUserScopedCallsRequireSession(t *testing.T) {
	t.Parallel()

	a := newApp()

	_, err := a.ListQuestions()
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = a.AnswerQuestion("q1", "hi")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAnonymousSubmitNeedsNoSession(t *testing.T) {
	t.Parallel()

	a := newApp()
	_, _, err := a.Register("alice", "pw")
	require.NoError(t, err)
	require.NoError(t, a.Logout())

	require.NoError(t, a.SubmitQuestion("alice", "still works"))

	u, ok := a.FindUser("alice")
	require.True(t, ok)
	assert.Len(t, a.QuestionsOf(u), 1)
}

func TestGetQuestion(t *testing.T) {
	t.Parallel()

	a := newApp()
	u, _, err := a.Register("alice", "pw")
	require.NoError(t, err)
	require.NoError(t, a.SubmitQuestion("alice", "Hi"))

	qs, err := a.ListQuestions()
	require.NoError(t, err)

	got, ok := a.GetQuestion(u.ID, qs[0].ID)
	require.True(t, ok)
	assert.Equal(t, "Hi", got.Content)

	_, ok = a.GetQuestion(u.ID, "missing")
	assert.False(t, ok)
}
