package user

import "errors"

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrNotFound      = errors.New("user not found")
)

// User is a registered handle. IDs are opaque and never reused; usernames
// are unique with a case-sensitive exact match.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
