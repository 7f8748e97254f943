package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfmasala/sku-admin/internal/core/domain"
	"github.com/hfmasala/sku-admin/internal/session"
)

func newGuardedRouter(store *session.Store) (*gin.Engine, *domain.Session) {
	gin.SetMode(gin.TestMode)
	var seen domain.Session
	r := gin.New()
	r.GET("/skus", RequireSession(store), func(c *gin.Context) {
		seen = domain.SessionFromContext(c.Request.Context())
		c.String(http.StatusOK, "sku list")
	})
	return r, &seen
}

func TestRequireSessionBlocksAnonymous(t *testing.T) {
	store := session.NewStore([]byte("test-secret"), "sku_admin_session", false)
	r, _ := newGuardedRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/skus", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "sku list")
}

func TestRequireSessionInstallsSessionInContext(t *testing.T) {
	store := session.NewStore([]byte("test-secret"), "sku_admin_session", false)
	r, seen := newGuardedRouter(store)

	// Establish a cookie the way login would.
	login := httptest.NewRecorder()
	require.NoError(t, store.Save(login, httptest.NewRequest(http.MethodPost, "/login", nil), "abc", "admin@x.com"))

	req := httptest.NewRequest(http.MethodGet, "/skus", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", seen.Token)
	assert.Equal(t, "admin@x.com", seen.Email)
}

// The guard runs per request, so clearing the session in one "tab" takes
// effect on the next navigation from any other.
func TestRequireSessionReevaluatedPerRequest(t *testing.T) {
	store := session.NewStore([]byte("test-secret"), "sku_admin_session", false)
	r, _ := newGuardedRouter(store)

	login := httptest.NewRecorder()
	require.NoError(t, store.Save(login, httptest.NewRequest(http.MethodPost, "/login", nil), "abc", "admin@x.com"))
	cookies := login.Result().Cookies()

	authed := httptest.NewRequest(http.MethodGet, "/skus", nil)
	for _, c := range cookies {
		authed.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authed)
	require.Equal(t, http.StatusOK, w.Code)

	// Same browser after logout: no cookie accompanies the request.
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/skus", nil))
	assert.Equal(t, http.StatusSeeOther, w2.Code)
}
