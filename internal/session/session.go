// Package session tracks who is logged in: either nobody, or the one user
// whose token is stored. The stored token is the authentication state —
// there is no server-side session record to cross-check.
package session

import (
	"github.com/example/askbox/internal/directory"
	"github.com/example/askbox/internal/domain/user"
	"github.com/example/askbox/internal/store"
	"github.com/example/askbox/internal/token"

	"go.uber.org/zap"
)

type Manager struct {
	codec *token.Codec
	store store.Store
	dir   *directory.Service
	log   *zap.SugaredLogger
}

func NewManager(codec *token.Codec, st store.Store, dir *directory.Service, log *zap.SugaredLogger) *Manager {
	return &Manager{codec: codec, store: st, dir: dir, log: log}
}

// Login mints and persists a fresh token for the user. The token is also
// returned so the web layer can hand it to the browser.
func (m *Manager) Login(username, password string) (user.User, string, error) {
	u, err := m.dir.Login(username, password)
	if err != nil {
		return user.User{}, "", err
	}
	tok, err := m.mint(u)
	if err != nil {
		return user.User{}, "", err
	}
	return u, tok, nil
}

// Register creates the user and logs them in in one step.
func (m *Manager) Register(username, password string) (user.User, string, error) {
	u, err := m.dir.Register(username, password)
	if err != nil {
		return user.User{}, "", err
	}
	tok, err := m.mint(u)
	if err != nil {
		return user.User{}, "", err
	}
	return u, tok, nil
}

// Logout clears the stored token. It always succeeds from the caller's
// point of view; a write failure is surfaced but leaves nobody logged in
// on the next read anyway.
func (m *Manager) Logout() error {
	return m.store.Update(func(d *store.Data) error {
		d.AuthToken = ""
		return nil
	})
}

// Current resolves the stored token lazily and fail-closed: a malformed,
// expired or dangling token is cleared and treated as anonymous.
func (m *Manager) Current() (user.User, bool) {
	var tok string
	m.store.View(func(d *store.Data) { tok = d.AuthToken })
	if tok == "" {
		return user.User{}, false
	}

	u, ok := m.Resolve(tok)
	if !ok {
		m.clear()
		return user.User{}, false
	}
	return u, true
}

func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

// Resolve checks a caller-supplied token without touching stored state.
// The web layer uses it against the token carried in the session cookie.
func (m *Manager) Resolve(tok string) (user.User, bool) {
	claims, err := m.codec.Decode(tok)
	if err != nil {
		m.log.Debugw("discarding session token", "reason", err)
		return user.User{}, false
	}
	u, ok := m.dir.FindByID(claims.UserID)
	if !ok {
		m.log.Warnw("session token names an unknown user", "userId", claims.UserID)
		return user.User{}, false
	}
	return u, true
}

func (m *Manager) mint(u user.User) (string, error) {
	tok, err := m.codec.Encode(u)
	if err != nil {
		return "", err
	}
	err = m.store.Update(func(d *store.Data) error {
		d.AuthToken = tok
		return nil
	})
	if err != nil {
		return "", err
	}
	return tok, nil
}

func (m *Manager) clear() {
	if err := m.Logout(); err != nil {
		m.log.Warnw("failed to clear stale session token", "err", err)
	}
}
