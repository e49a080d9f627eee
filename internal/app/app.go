// Package app is the surface the presentation layer talks to. It composes
// the session manager, directory and question repo, and is the one place
// that enforces "only the owner answers their questions".
package app

import (
	"errors"

	"github.com/example/askbox/internal/directory"
	"github.com/example/askbox/internal/domain/question"
	"github.com/example/askbox/internal/domain/user"
	"github.com/example/askbox/internal/questions"
	"github.com/example/askbox/internal/session"
)

// ErrNotAuthenticated means a user-scoped call was made without a valid
// session. That is a caller bug, not a user-facing condition.
var ErrNotAuthenticated = errors.New("not authenticated")

type App struct {
	Sessions  *session.Manager
	Directory *directory.Service
	Questions *questions.Repo
}

func New(sessions *session.Manager, dir *directory.Service, repo *questions.Repo) *App {
	return &App{Sessions: sessions, Directory: dir, Questions: repo}
}

func (a *App) Register(username, password string) (user.User, string, error) {
	return a.Sessions.Register(username, password)
}

func (a *App) Login(username, password string) (user.User, string, error) {
	return a.Sessions.Login(username, password)
}

func (a *App) Logout() error {
	return a.Sessions.Logout()
}

func (a *App) IsAuthenticated() bool {
	return a.Sessions.IsAuthenticated()
}

func (a *App) CurrentUser() (user.User, bool) {
	return a.Sessions.Current()
}

// SubmitQuestion is the anonymous path: no session required.
func (a *App) SubmitQuestion(targetUsername, content string) error {
	return a.Questions.Submit(targetUsername, content)
}

// ListQuestions returns the stored session's ledger, oldest first.
func (a *App) ListQuestions() ([]question.Question, error) {
	u, ok := a.Sessions.Current()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return a.Questions.ListFor(u.ID), nil
}

// AnswerQuestion answers within the stored session's own ledger only.
func (a *App) AnswerQuestion(questionID, text string) (question.Question, error) {
	u, ok := a.Sessions.Current()
	if !ok {
		return question.Question{}, ErrNotAuthenticated
	}
	return a.Questions.Answer(u.ID, questionID, text)
}

// QuestionsOf serves the web path, where identity was already resolved
// from the request's cookie by the auth middleware.
func (a *App) QuestionsOf(u user.User) []question.Question {
	return a.Questions.ListFor(u.ID)
}

// AnswerAs answers within u's own ledger; u must come from the auth
// middleware, never from request input.
func (a *App) AnswerAs(u user.User, questionID, text string) (question.Question, error) {
	return a.Questions.Answer(u.ID, questionID, text)
}

func (a *App) FindUser(username string) (user.User, bool) {
	return a.Directory.FindByUsername(username)
}

func (a *App) GetQuestion(userID, questionID string) (question.Question, bool) {
	return a.Questions.GetByID(userID, questionID)
}
