// file: middleware/helpers_test.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"footy-stadia/models"
	"footy-stadia/store"
	"footy-stadia/store/memory"
)

// testEnv is a router with the session, identity and notice middleware
// installed plus a cookie jar that behaves like a browser.
type testEnv struct {
	t      *testing.T
	router *gin.Engine
	store  store.Store
	jar    map[string]*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithStore(t, memory.New())
}

func newTestEnvWithStore(t *testing.T, s store.Store) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	sessionStore := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", sessionStore))
	router.Use(Identity(s), LoadNotices)

	// helper routes
	router.GET("/test/login-as/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(SessionUserKey, c.Param("id"))
		if err := session.Save(); err != nil {
			c.String(http.StatusInternalServerError, "Failed to save session")
			return
		}
		c.String(http.StatusOK, "Session set")
	})
	router.GET("/test/notices", func(c *gin.Context) {
		n := GetNotices(c)
		SaveSession(c)
		c.JSON(http.StatusOK, gin.H{"error": n.Error, "success": n.Success})
	})
	router.GET("/test/whoami", func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	return &testEnv{t: t, router: router, store: s, jar: make(map[string]*http.Cookie)}
}

func (e *testEnv) do(method, path, referer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	for _, c := range e.jar {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		e.jar[c.Name] = c
	}
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, path, "")
}

func (e *testEnv) createUser(username string, admin bool) *models.User {
	e.t.Helper()
	u := &models.User{Username: username, IsAdmin: admin}
	require.NoError(e.t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) loginAs(u *models.User) {
	e.t.Helper()
	w := e.get("/test/login-as/" + u.ID)
	require.Equal(e.t, http.StatusOK, w.Code)
}

// notices pops the pending notices the way the next page view would.
func (e *testEnv) notices() (errs, successes []string) {
	e.t.Helper()
	w := e.get("/test/notices")
	var body struct {
		Error   []string `json:"error"`
		Success []string `json:"success"`
	}
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error, body.Success
}
