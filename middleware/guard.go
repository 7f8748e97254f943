package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hfmasala/sku-admin/internal/core/domain"
	"github.com/hfmasala/sku-admin/internal/session"
)

// RequireSession gates protected routes. It runs on every request to a
// guarded route, so a logout in one tab takes effect on the next navigation
// of any other tab. Presence of a non-empty token is the sole signal; the
// token is never verified against the backend here.
//
// Without a token the handler chain is aborted before any protected content
// is produced and the browser is redirected to the login page. With one, the
// session is installed in the request context for the gateway to read.
func RequireSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := store.Load(c.Request)
		if !sess.Authenticated() {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(domain.WithSession(c.Request.Context(), sess))
		c.Next()
	}
}
