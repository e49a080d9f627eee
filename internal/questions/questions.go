// Package questions manages the per-user question ledgers.
//
// The repo performs no authorization: it trusts the caller-supplied user
// ID. The session layer and web middleware are the enforcement points.
package questions

import (
	"time"

	"github.com/example/askbox/internal/domain/question"
	"github.com/example/askbox/internal/domain/user"
	"github.com/example/askbox/internal/store"
	"github.com/google/uuid"
)

type Repo struct {
	store store.Store
	newID func() string
	now   func() time.Time
}

func NewRepo(st store.Store) *Repo {
	return &Repo{store: st, newID: uuid.NewString, now: time.Now}
}

// NewRepoAt uses the given clock instead of wall time.
func NewRepoAt(st store.Store, now func() time.Time) *Repo {
	r := NewRepo(st)
	r.now = now
	return r
}

// Submit appends an anonymous question to the target user's ledger.
// Fails with user.ErrNotFound if nobody owns targetUsername; no ledger is
// created in that case.
func (r *Repo) Submit(targetUsername, content string) error {
	return r.store.Update(func(d *store.Data) error {
		var target user.User
		found := false
		for _, u := range d.Users {
			if u.Username == targetUsername {
				target, found = u, true
				break
			}
		}
		if !found {
			return user.ErrNotFound
		}

		q := question.Question{
			ID:        r.newID(),
			Content:   content,
			CreatedAt: r.now().UTC(),
		}
		d.Questions[target.ID] = append(d.Questions[target.ID], q)
		return nil
	})
}

// ListFor returns the full ledger for a user ID in arrival order, empty if
// none exists.
func (r *Repo) ListFor(userID string) []question.Question {
	var out []question.Question
	r.store.View(func(d *store.Data) {
		out = append(out, d.Questions[userID]...)
	})
	return out
}

// Answer writes the answer exactly once. A second answer to the same
// question is rejected with question.ErrAlreadyAnswered, never overwritten.
func (r *Repo) Answer(userID, questionID, text string) (question.Question, error) {
	var answered question.Question
	err := r.store.Update(func(d *store.Data) error {
		ledger := d.Questions[userID]
		for i, q := range ledger {
			if q.ID != questionID {
				continue
			}
			if q.Answered() {
				return question.ErrAlreadyAnswered
			}
			at := r.now().UTC()
			q.Answer = text
			q.AnsweredAt = &at
			ledger[i] = q
			answered = q
			return nil
		}
		return question.ErrNotFound
	})
	if err != nil {
		return question.Question{}, err
	}
	return answered, nil
}

// GetByID is a point lookup for public single-question views. Callers must
// only expose the result once it is answered.
func (r *Repo) GetByID(userID, questionID string) (question.Question, bool) {
	var q question.Question
	var ok bool
	r.store.View(func(d *store.Data) {
		for _, candidate := range d.Questions[userID] {
			if candidate.ID == questionID {
				q, ok = candidate, true
				return
			}
		}
	})
	return q, ok
}
