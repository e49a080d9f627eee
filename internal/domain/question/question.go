package question

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("question not found")
	ErrAlreadyAnswered = errors.New("question already answered")
)

// Question is an anonymous question addressed to one user. The answer is
// written at most once; AnsweredAt is set together with Answer and is the
// authoritative "has been answered" marker.
type Question struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"createdAt"`
	Answer     string     `json:"answer,omitempty"`
	AnsweredAt *time.Time `json:"answeredAt,omitempty"`
}

func (q Question) Answered() bool {
	return q.AnsweredAt != nil
}
