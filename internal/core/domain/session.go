package domain

import "context"

// Session is the client-held proof of authentication: the opaque bearer
// token plus minimal identity info. Token and Email are either both set or
// both empty; the session package is the only writer.
type Session struct {
	Token string
	Email string
}

// Authenticated reports whether the session carries a token. Token presence
// is the sole authentication signal; the token is never verified locally.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

type sessionCtxKey struct{}

// WithSession returns a context carrying the given session. The route guard
// installs it once per request after the cookie has been read.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromContext returns the session stored in ctx, or the zero session
// when none is present. Callers downstream of the guard read the token
// through this accessor only.
func SessionFromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionCtxKey{}).(Session)
	return s
}
