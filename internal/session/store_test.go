package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore([]byte("test-secret"), "sku_admin_session", false)
}

// replay builds a request carrying the cookies a previous response set.
func replay(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return req
}

func TestSaveThenLoad(t *testing.T) {
	s := newTestStore()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, s.Save(w, req, "abc", "admin@x.com"))
	require.NotEmpty(t, w.Result().Cookies(), "login must persist the credential record")

	sess := s.Load(replay(t, w))
	assert.Equal(t, "abc", sess.Token)
	assert.Equal(t, "admin@x.com", sess.Email)
	assert.True(t, sess.Authenticated())
}

func TestLoadWithoutCookie(t *testing.T) {
	s := newTestStore()

	sess := s.Load(httptest.NewRequest(http.MethodGet, "/skus", nil))
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Token)
	assert.Empty(t, sess.Email)
}

func TestLoadWithTamperedCookie(t *testing.T) {
	s := newTestStore()

	req := httptest.NewRequest(http.MethodGet, "/skus", nil)
	req.AddCookie(&http.Cookie{Name: "sku_admin_session", Value: "garbage"})

	sess := s.Load(req)
	assert.False(t, sess.Authenticated())
}

func TestClearRemovesCredentialRecord(t *testing.T) {
	s := newTestStore()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, s.Save(w, req, "abc", "admin@x.com"))

	// Logout with the logged-in cookie attached.
	w2 := httptest.NewRecorder()
	require.NoError(t, s.Clear(w2, replay(t, w)))

	cookies := w2.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Negative(t, cookies[0].MaxAge, "logout must expire the cookie")

	// A client honoring the expiry sends nothing; the session is gone.
	sess := s.Load(httptest.NewRequest(http.MethodGet, "/skus", nil))
	assert.False(t, sess.Authenticated())
}

func TestLoginThenLogoutSequence(t *testing.T) {
	s := newTestStore()

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		require.NoError(t, s.Save(w, req, "tok", "a@b.c"))
		assert.True(t, s.Load(replay(t, w)).Authenticated(), "record present after login")

		w2 := httptest.NewRecorder()
		require.NoError(t, s.Clear(w2, replay(t, w)))
		assert.False(t, s.Load(replay(t, w2)).Authenticated(), "record absent after logout")
	}
}

func TestFlashesRoundTrip(t *testing.T) {
	s := newTestStore()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/skus", nil)
	s.AddFlash(w, req, Flash{Kind: "success", Message: "SKU created."})

	w2 := httptest.NewRecorder()
	got := s.Flashes(w2, replay(t, w))
	require.Len(t, got, 1)
	assert.Equal(t, "success", got[0].Kind)
	assert.Equal(t, "SKU created.", got[0].Message)

	// Drained: the follow-up read is empty.
	w3 := httptest.NewRecorder()
	assert.Empty(t, s.Flashes(w3, replay(t, w2)))
}
