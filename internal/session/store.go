// Package session owns authentication state. The bearer token and the user's
// identity live in one authenticated cookie — the browser-side durable
// credential record. It survives server restarts for the same browser (the
// signing secret being stable) and is removed only by logout.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/hfmasala/sku-admin/internal/core/domain"
)

const (
	tokenKey = "access_token"
	emailKey = "email"
	flashKey = "_flash"
)

// Flash is a transient notification carried across one redirect, the
// server-rendered equivalent of a toast.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

func init() {
	gob.Register(Flash{})
}

// Store reads and writes the session cookie. It is the only writer of
// authentication state; everything else reads through the request context.
type Store struct {
	cookies *sessions.CookieStore
	name    string
}

// NewStore creates a Store signing cookies with secret under the given
// cookie name.
func NewStore(secret []byte, name string, secure bool) *Store {
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0, // session cookie; the backend owns real token expiry
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs, name: name}
}

// Load restores the session persisted in the request's cookie. A missing or
// undecodable cookie yields the zero session; the token is adopted on mere
// presence, without backend verification.
func (s *Store) Load(r *http.Request) domain.Session {
	// Get never fails fatally; a bad cookie decodes to a fresh session.
	cs, _ := s.cookies.Get(r, s.name)
	token, _ := cs.Values[tokenKey].(string)
	email, _ := cs.Values[emailKey].(string)
	if token == "" {
		return domain.Session{}
	}
	if email == "" {
		// Restored from an older cookie shape; keep a placeholder identity
		// so the Session invariant (token set ⇒ user set) holds.
		email = "user"
	}
	return domain.Session{Token: token, Email: email}
}

// Save adopts a freshly issued token plus the identity the user logged in
// with, persisting both to the cookie.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, token, email string) error {
	cs, _ := s.cookies.Get(r, s.name)
	cs.Values[tokenKey] = token
	cs.Values[emailKey] = email
	return cs.Save(r, w)
}

// Clear deletes the credential record. Purely local: the backend is not
// told and may keep the token valid server-side.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	cs, _ := s.cookies.Get(r, s.name)
	delete(cs.Values, tokenKey)
	delete(cs.Values, emailKey)
	cs.Options.MaxAge = -1
	return cs.Save(r, w)
}

// AddFlash queues a transient notification for the next rendered page.
func (s *Store) AddFlash(w http.ResponseWriter, r *http.Request, f Flash) {
	cs, _ := s.cookies.Get(r, s.name)
	cs.AddFlash(f, flashKey)
	// Flash loss on a failed save is acceptable; the page still renders.
	_ = cs.Save(r, w)
}

// Flashes drains queued notifications.
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	cs, _ := s.cookies.Get(r, s.name)
	raw := cs.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	_ = cs.Save(r, w)
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}
