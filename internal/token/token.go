// Package token mints and parses the session token.
//
// The token is an *unsigned* JWT (alg=none): anyone can read or forge it.
// That is intentional — it reproduces the reversible client-side token of
// the mock backend this system replaces, and it is not a trust boundary.
// Anything security-relevant must swap this codec for a MAC-signed claim
// set issued by a trusted process.
package token

import (
	"errors"
	"time"

	"github.com/example/askbox/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

// TTL is how long a minted token stays valid.
const TTL = 7 * 24 * time.Hour

var (
	ErrMalformed = errors.New("token malformed")
	ErrExpired   = errors.New("token expired")
)

type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Codec encodes and decodes tokens. It holds no state beyond the clock,
// which is injectable for expiry tests.
type Codec struct {
	now func() time.Time
}

func NewCodec() *Codec {
	return &Codec{now: time.Now}
}

// NewCodecAt uses the given clock instead of wall time.
func NewCodecAt(now func() time.Time) *Codec {
	return &Codec{now: now}
}

func (c *Codec) Encode(u user.User) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(c.now().Add(TTL)),
		},
		UserID:   u.ID,
		Username: u.Username,
	})
	return t.SignedString(jwt.UnsafeAllowNoneSignatureType)
}

// Decode is pure: it never touches stored state. Callers clear the token
// themselves when ErrMalformed or ErrExpired comes back.
func (c *Codec) Decode(s string) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithTimeFunc(c.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodNone.Alg()}),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(s, &claims, func(t *jwt.Token) (any, error) {
		return jwt.UnsafeAllowNoneSignatureType, nil
	})
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrExpired
	default:
		return Claims{}, ErrMalformed
	}
}
