// Package store is the local persistence layer: one schema-versioned
// document holding the auth token, the user directory and the per-user
// question ledgers. It stands in for a backend; there is deliberately no
// database behind it.
package store

import (
	"github.com/example/askbox/internal/domain/question"
	"github.com/example/askbox/internal/domain/user"
)

// SchemaVersion is bumped whenever the persisted layout changes shape.
const SchemaVersion = 1

// Data is the entire persisted state. Questions maps a user ID to that
// user's ledger, oldest first.
type Data struct {
	SchemaVersion int                            `json:"schema_version"`
	AuthToken     string                         `json:"auth_token,omitempty"`
	Users         []user.User                    `json:"users"`
	Questions     map[string][]question.Question `json:"questions"`
}

func emptyData() Data {
	return Data{
		SchemaVersion: SchemaVersion,
		Questions:     map[string][]question.Question{},
	}
}

// clone is deep enough for our mutation patterns: ledgers are replaced by
// appending to a copied slice, never edited through shared pointers.
func (d Data) clone() Data {
	out := d
	out.Users = append([]user.User(nil), d.Users...)
	out.Questions = make(map[string][]question.Question, len(d.Questions))
	for id, qs := range d.Questions {
		out.Questions[id] = append([]question.Question(nil), qs...)
	}
	return out
}

// Store serializes access to the document. View must not retain or mutate
// the data it is handed. Update runs fn against a copy; if fn returns nil
// the copy is persisted and becomes current, otherwise nothing changes.
type Store interface {
	View(fn func(d *Data))
	Update(fn func(d *Data) error) error
}
