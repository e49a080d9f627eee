package web

import (
	"net/http"

	"github.com/example/askbox/internal/token"
	"github.com/gorilla/securecookie"
)

const sessionCookie = "askbox_session"

// CookieManager moves the auth token between server and browser. The
// securecookie wrapper only keeps the cookie opaque to casual tampering;
// the token inside carries its own (non-)guarantees.
type CookieManager struct {
	sc *securecookie.SecureCookie
}

func NewCookieManager(hashKey, blockKey []byte) *CookieManager {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(token.TTL.Seconds()))
	return &CookieManager{sc: sc}
}

func (c *CookieManager) SetToken(w http.ResponseWriter, r *http.Request, tok string) error {
	encoded, err := c.sc.Encode(sessionCookie, tok)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		MaxAge:   int(token.TTL.Seconds()),
	})
	return nil
}

func (c *CookieManager) Token(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	var tok string
	if err := c.sc.Decode(sessionCookie, cookie.Value, &tok); err != nil {
		return "", false
	}
	if tok == "" {
		return "", false
	}
	return tok, true
}

func (c *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
