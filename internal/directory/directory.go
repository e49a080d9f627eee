// Package directory is the username registry.
//
// Passwords are collected by the forms but neither stored nor checked:
// login succeeds for any password on an existing username. This mirrors
// the mock backend this system replaces and is kept on purpose — adding
// verification here would silently change behavior callers depend on. Do
// not ship this to anything that needs real authentication.
package directory

import (
	"github.com/example/askbox/internal/domain/question"
	"github.com/example/askbox/internal/domain/user"
	"github.com/example/askbox/internal/store"
	"github.com/google/uuid"
)

type Service struct {
	store store.Store
	newID func() string
}

func New(st store.Store) *Service {
	return &Service{store: st, newID: uuid.NewString}
}

// Register creates the user and an empty question ledger in one write.
// Fails with user.ErrUsernameTaken on a case-sensitive exact match.
func (s *Service) Register(username, password string) (user.User, error) {
	_ = password // see package doc

	var u user.User
	err := s.store.Update(func(d *store.Data) error {
		for _, existing := range d.Users {
			if existing.Username == username {
				return user.ErrUsernameTaken
			}
		}
		u = user.User{ID: s.newID(), Username: username}
		d.Users = append(d.Users, u)
		d.Questions[u.ID] = []question.Question{}
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

// Login resolves the username; the password is not verified (package doc).
func (s *Service) Login(username, password string) (user.User, error) {
	_ = password // see package doc

	if u, ok := s.FindByUsername(username); ok {
		return u, nil
	}
	return user.User{}, user.ErrNotFound
}

func (s *Service) FindByUsername(username string) (user.User, bool) {
	var u user.User
	var ok bool
	s.store.View(func(d *store.Data) {
		for _, existing := range d.Users {
			if existing.Username == username {
				u, ok = existing, true
				return
			}
		}
	})
	return u, ok
}

func (s *Service) FindByID(id string) (user.User, bool) {
	var u user.User
	var ok bool
	s.store.View(func(d *store.Data) {
		for _, existing := range d.Users {
			if existing.ID == id {
				u, ok = existing, true
				return
			}
		}
	})
	return u, ok
}
