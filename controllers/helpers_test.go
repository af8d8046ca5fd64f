// file: controllers/helpers_test.go
package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"footy-stadia/middleware"
	"footy-stadia/models"
	"footy-stadia/services"
	"footy-stadia/store"
	"footy-stadia/store/memory"
)

const testPassword = "correct horse"

// recordingMetrics remembers every event instead of publishing it.
type recordingMetrics struct {
	mu     sync.Mutex
	events []string
}

func (m *recordingMetrics) RecordEvent(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, name)
}

func (m *recordingMetrics) recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

// testApp is the full route table backed by the memory store, a mocked
// geocoder and fake templates, driven through a browser-like cookie jar.
type testApp struct {
	t        *testing.T
	store    store.Store
	geo      *services.MockGeocoder
	metrics  *recordingMetrics
	accounts *services.AccountService
	stadiums *StadiumController
	handler  http.Handler
	jar      map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	return newTestAppWithStore(t, memory.New())
}

func newTestAppWithStore(t *testing.T, s store.Store) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	sessionStore := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", sessionStore))
	router.Use(middleware.Identity(s), middleware.LoadNotices)

	// Create minimal templates to avoid panics during testing.
	tmpDir := t.TempDir()
	if err := createDummyTemplates(tmpDir); err != nil {
		t.Fatalf("Failed to create dummy templates: %v", err)
	}
	router.SetFuncMap(TemplateFuncs())
	router.LoadHTMLGlob(filepath.Join(tmpDir, "*.html"))

	app := &testApp{
		t:       t,
		store:   s,
		geo:     new(services.MockGeocoder),
		metrics: &recordingMetrics{},
		jar:     make(map[string]*http.Cookie),
	}
	app.accounts = &services.AccountService{Store: s, Cost: bcrypt.MinCost}
	app.stadiums = NewStadiumController(s, app.geo, app.metrics, "http://stadia.test")
	comments := NewCommentController(s, app.metrics)
	auth := NewAuthController(app.accounts, app.metrics)

	router.GET("/", Landing)
	router.GET("/health", Health)
	router.GET("/register", auth.ShowRegister)
	router.POST("/register", auth.Register)
	router.GET("/login", auth.ShowLogin)
	router.POST("/login", auth.Login)
	router.GET("/logout", auth.Logout)

	stadiumOwner := middleware.StadiumOwnerOrAdmin(s)
	commentOwner := middleware.CommentOwnerOrAdmin(s)
	router.GET("/stadiums", app.stadiums.Index)
	router.POST("/stadiums", middleware.AdminRequired(), app.stadiums.Create)
	router.GET("/stadiums/new", middleware.AdminRequired(), app.stadiums.New)
	router.GET("/stadiums/:id", app.stadiums.Show)
	router.GET("/stadiums/:id/qrcode", app.stadiums.QRCode)
	router.GET("/stadiums/:id/edit", stadiumOwner, app.stadiums.Edit)
	router.PUT("/stadiums/:id", stadiumOwner, app.stadiums.Update)
	router.DELETE("/stadiums/:id", stadiumOwner, app.stadiums.Delete)
	router.GET("/stadiums/:id/comments/new", middleware.AuthRequired, comments.New)
	router.POST("/stadiums/:id/comments", middleware.AuthRequired, comments.Create)
	router.GET("/stadiums/:id/comments/:comment_id/edit", commentOwner, comments.Edit)
	router.PUT("/stadiums/:id/comments/:comment_id", commentOwner, comments.Update)
	router.DELETE("/stadiums/:id/comments/:comment_id", commentOwner, comments.Delete)
	router.NoRoute(NotFound)

	app.handler = middleware.MethodOverride(router)
	return app
}

const noticesPartial = `{{with .notices}}{{range .Error}}<div class="notice-error">{{.}}</div>{{end}}{{range .Success}}<div class="notice-success">{{.}}</div>{{end}}{{end}}` +
	`{{if .currentUser}}<span id="user">{{.currentUser.Username}}</span>{{end}}`

// createDummyTemplates writes a set of minimal HTML templates to the provided directory.
func createDummyTemplates(dir string) error {
	templates := map[string]string{
		"landing.html":        `<html><body><h1>Footy Stadia</h1>` + noticesPartial + `</body></html>`,
		"stadiums_index.html": `<html><body>` + noticesPartial + `<p id="search">{{.search}}</p><ul>{{range .stadiums}}<li class="stadium">{{.Name}}</li>{{end}}</ul></body></html>`,
		"stadiums_new.html":   `<html><body>` + noticesPartial + `<form id="new-stadium"></form></body></html>`,
		"stadiums_show.html": `<html><body>` + noticesPartial + `<h1>{{.stadium.Name}}</h1><p class="location">{{.stadium.Location}}</p><p class="author">{{.stadium.Author.Username}}</p>` +
			`{{if .stadium.EditableBy $.currentUser}}<a id="edit-stadium">Edit</a>{{end}}` +
			`{{range .stadium.Comments}}<div class="comment"><span class="text">{{.Text}}</span> <span class="by">{{.Author.Username}}</span> <span class="when">{{timeAgo .CreatedAt}}</span>{{if .EditableBy $.currentUser}}<a class="edit-comment">Edit</a>{{end}}</div>{{end}}</body></html>`,
		"stadiums_edit.html": `<html><body>` + noticesPartial + `<input name="name" value="{{.stadium.Name}}"></body></html>`,
		"comments_new.html":  `<html><body>` + noticesPartial + `<h1>Comment on {{.stadium.Name}}</h1></body></html>`,
		"comments_edit.html": `<html><body>` + noticesPartial + `<form action="/stadiums/{{.stadium_id}}/comments/{{.comment.ID}}"><textarea name="text">{{.comment.Text}}</textarea></form></body></html>`,
		"register.html":      `<html><body>` + noticesPartial + `<input name="username" value="{{.username}}"></body></html>`,
		"login.html":         `<html><body>` + noticesPartial + `<form id="login"></form></body></html>`,
		"error.html":         `<html><body>` + noticesPartial + `<h1 id="status">{{.status}}</h1><p id="message">{{.message}}</p></body></html>`,
	}

	for name, content := range templates {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// do sends a request carrying the jar's cookies and keeps any it sets.
func (a *testApp) do(method, path string, form url.Values, referer string) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	for _, c := range a.jar {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		a.jar[c.Name] = c
	}
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, path, nil, "")
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	return a.do(http.MethodPost, path, form, "")
}

// page fetches path and parses the rendered HTML.
func (a *testApp) page(path string) (*goquery.Document, int) {
	a.t.Helper()
	w := a.get(path)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(a.t, err)
	return doc, w.Code
}

func parse(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

// notices renders the listing and returns the error and success notices
// shown on it.
func (a *testApp) notices() (errs, successes []string) {
	doc, _ := a.page("/stadiums")
	doc.Find(".notice-error").Each(func(_ int, s *goquery.Selection) { errs = append(errs, s.Text()) })
	doc.Find(".notice-success").Each(func(_ int, s *goquery.Selection) { successes = append(successes, s.Text()) })
	return errs, successes
}

func (a *testApp) signup(username string, admin bool) *models.User {
	a.t.Helper()
	u, err := a.accounts.Register(context.Background(), username, testPassword, admin)
	require.NoError(a.t, err)
	return u
}

func (a *testApp) login(username string) {
	a.t.Helper()
	w := a.post("/login", url.Values{"username": {username}, "password": {testPassword}})
	require.Equal(a.t, http.StatusFound, w.Code)
	require.Equal(a.t, "/stadiums", w.Header().Get("Location"))
}

func (a *testApp) seedStadium(name string, owner *models.User) *models.Stadium {
	a.t.Helper()
	st := &models.Stadium{Name: name, Location: "somewhere", Author: owner.AuthorSnapshot()}
	require.NoError(a.t, a.store.CreateStadium(context.Background(), st))
	return st
}

func (a *testApp) seedComment(st *models.Stadium, text string, owner *models.User) *models.Comment {
	a.t.Helper()
	ctx := context.Background()
	c := &models.Comment{Text: text, Author: owner.AuthorSnapshot()}
	require.NoError(a.t, a.store.CreateComment(ctx, c))
	require.NoError(a.t, a.store.AddStadiumComment(ctx, st.ID, c.ID))
	return c
}
