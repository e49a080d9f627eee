package questions

import (
	"testing"
	"time"

	"github.com/example/askbox/internal/directory"
	"github.com/example/askbox/internal/domain/question"
	"github.com/example/askbox/internal/domain/user"
	"github.com/example/askbox/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Repo, *store.MemStore, user.User) {
	t.Helper()
	st := store.NewMemStore()
	u, err := directory.New(st).Register("alice", "pw")
	require.NoError(t, err)
	return NewRepo(st), st, u
}

func TestSubmit_UnknownUserCreatesNothing(t *testing.T) {
	t.Parallel()

	repo, st, _ := setup(t)

	err := repo.Submit("nobody", "hello?")
	assert.ErrorIs(t, err, user.ErrNotFound)

	st.View(func(d *store.Data) {
		assert.Len(t, d.Questions, 1) // only alice's empty ledger
	})
}

func TestSubmitAndList_ArrivalOrder(t *testing.T) {
	t.Parallel()

	repo, _, u := setup(t)

	require.NoError(t, repo.Submit("alice", "first"))
	require.NoError(t, repo.Submit("alice", "second"))
	require.NoError(t, repo.Submit("alice", "third"))

	qs := repo.ListFor(u.ID)
	require.Len(t, qs, 3)
	assert.Equal(t, "first", qs[0].Content)
	assert.Equal(t, "second", qs[1].Content)
	assert.Equal(t, "third", qs[2].Content)
	for _, q := range qs {
		assert.NotEmpty(t, q.ID)
		assert.False(t, q.CreatedAt.IsZero())
		assert.False(t, q.Answered())
	}
}

func TestListFor_UnknownUserIsEmpty(t *testing.T) {
	t.Parallel()

	repo, _, _ := setup(t)
	assert.Empty(t, repo.ListFor("nope"))
}

func TestAnswer(t *testing.T) {
	t.Parallel()

	repo, _, u := setup(t)
	require.NoError(t, repo.Submit("alice", "Hi Alice"))
	qid := repo.ListFor(u.ID)[0].ID

	answered, err := repo.Answer(u.ID, qid, "Hello!")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", answered.Answer)
	require.NotNil(t, answered.AnsweredAt)
	assert.True(t, answered.Answered())

	qs := repo.ListFor(u.ID)
	require.Len(t, qs, 1)
	assert.Equal(t, "Hello!", qs[0].Answer)
}

func TestAnswer_SecondAnswerIsRejected(t *testing.T) {
	t.Parallel()

	repo, _, u := setup(t)
	require.NoError(t, repo.Submit("alice", "Hi"))
	qid := repo.ListFor(u.ID)[0].ID

	_, err := repo.Answer(u.ID, qid, "first answer")
	require.NoError(t, err)

	_, err = repo.Answer(u.ID, qid, "second answer")
	assert.ErrorIs(t, err, question.ErrAlreadyAnswered)

	// the first answer stands
	qs := repo.ListFor(u.ID)
	assert.Equal(t, "first answer", qs[0].Answer)
}

func TestAnswer_UnknownQuestion(t *testing.T) {
	t.Parallel()

	repo, _, u := setup(t)
	_, err := repo.Answer(u.ID, "missing", "hi")
	assert.ErrorIs(t, err, question.ErrNotFound)
}

func TestGetByID(t *testing.T) {
	t.Parallel()

	repo, _, u := setup(t)
	require.NoError(t, repo.Submit("alice", "Hi"))
	qid := repo.ListFor(u.ID)[0].ID

	got, ok := repo.GetByID(u.ID, qid)
	require.True(t, ok)
	assert.Equal(t, "Hi", got.Content)

	_, ok = repo.GetByID(u.ID, "missing")
	assert.False(t, ok)
	_, ok = repo.GetByID("other-user", qid)
	assert.False(t, ok)
}

func TestNewRepoAt_UsesClock(t *testing.T) {
	t.Parallel()

	st := store.NewMemStore()
	_, err := directory.New(st).Register("alice", "pw")
	require.NoError(t, err)

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := NewRepoAt(st, func() time.Time { return fixed })

	require.NoError(t, repo.Submit("alice", "Hi"))
	u, _ := directory.New(st).FindByUsername("alice")
	assert.Equal(t, fixed, repo.ListFor(u.ID)[0].CreatedAt)
}
