// main_test.go
package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"footy-stadia/config"
	"footy-stadia/middleware"
	"footy-stadia/models"
	"footy-stadia/services"
	"footy-stadia/store/memory"
)

// testServer wraps the production router with the real templates.
type testServer struct {
	t       *testing.T
	handler http.Handler
	store   *memory.Store
	geo     *services.MockGeocoder
	cookies map[string]*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("GEOCODER_API_KEY", "test-key")

	cfg, err := config.Parse()
	require.NoError(t, err)
	cfg.StoreDriver = config.StoreMemory
	require.NoError(t, cfg.Validate())

	st := memory.New()
	geo := new(services.MockGeocoder)
	router := setupRouter(cfg, deps{
		Store:    st,
		Geocoder: geo,
		Metrics:  services.NoopMetrics{},
		Accounts: &services.AccountService{Store: st, Cost: bcrypt.MinCost},
	})
	return &testServer{
		t:       t,
		handler: middleware.MethodOverride(router),
		store:   st,
		geo:     geo,
		cookies: make(map[string]*http.Cookie),
	}
}

func (s *testServer) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		s.cookies[c.Name] = c
	}
	return w
}

func (s *testServer) doc(w *httptest.ResponseRecorder) *goquery.Document {
	s.t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(s.t, err)
	return doc
}

// TestHealthEndpoint tests the /health endpoint.
func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OK", resp.Body.String())
}

// TestTemplatesRender renders every public page with the real templates.
func TestTemplatesRender(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/", "/stadiums", "/stadiums?search=park", "/login", "/register"} {
		resp := s.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, resp.Code, path)
		assert.Contains(t, resp.Body.String(), "Footy Stadia", path)
	}
}

func TestUnknownRouteRendersErrorPage(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(http.MethodGet, "/definitely/not/here", nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "404", s.doc(resp).Find("#status").Text())
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(http.MethodGet, "/static/css/main.css", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), ".notice-error")
}

// TestAdminJourney registers an admin, adds a stadium, comments on it,
// edits it through the method override and deletes it.
func TestAdminJourney(t *testing.T) {
	s := newTestServer(t)
	s.geo.On("Geocode", mock.Anything, "Glasgow").Return(&services.Location{
		Latitude: 55.85, Longitude: -4.31, FormattedAddress: "Ibrox, Glasgow G51 2XD, UK",
	}, nil)

	resp := s.do(http.MethodPost, "/register", url.Values{
		"username": {"gaffer"}, "password": {"s3cret"}, "adminCode": {""},
	})
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Len(t, resp.Result().Cookies(), 1)

	doc := s.doc(s.do(http.MethodGet, "/stadiums", nil))
	assert.Equal(t, "Welcome to Footy Stadia gaffer", strings.TrimSpace(doc.Find(".notice-success").Text()))
	assert.Equal(t, 1, doc.Find(`a[href="/stadiums/new"]`).Length())

	resp = s.do(http.MethodPost, "/stadiums", url.Values{
		"name": {"Ibrox"}, "description": {"Govan"}, "location": {"Glasgow"},
	})
	require.Equal(t, http.StatusFound, resp.Code)

	all, err := s.store.ListStadiums(context.Background(), "ibrox")
	require.NoError(t, err)
	require.Len(t, all, 1)
	id := all[0].ID

	resp = s.do(http.MethodPost, "/stadiums/"+id+"/comments", url.Values{"text": {"Follow follow"}})
	require.Equal(t, http.StatusFound, resp.Code)

	doc = s.doc(s.do(http.MethodGet, "/stadiums/"+id, nil))
	assert.Equal(t, "Ibrox", doc.Find("h1").Text())
	assert.Equal(t, "Ibrox, Glasgow G51 2XD, UK", doc.Find(".location").Text())
	assert.Equal(t, "Follow follow", doc.Find(".comment .text").Text())
	assert.Equal(t, 1, doc.Find("#edit-stadium").Length())

	resp = s.do(http.MethodPost, "/stadiums/"+id+"?_method=PUT", url.Values{
		"name": {"Ibrox Park"}, "location": {"Glasgow"},
	})
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/stadiums/"+id, resp.Header().Get("Location"))

	resp = s.do(http.MethodPost, "/stadiums/"+id+"?_method=DELETE", nil)
	require.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/stadiums", resp.Header().Get("Location"))

	_, err = s.store.FindStadium(context.Background(), id)
	assert.Error(t, err)
}

func TestVisitorCannotModify(t *testing.T) {
	s := newTestServer(t)
	owner := &models.User{Username: "owner", IsAdmin: true}
	require.NoError(t, s.store.CreateUser(context.Background(), owner))
	st := &models.Stadium{Name: "Parkhead", Author: owner.AuthorSnapshot()}
	require.NoError(t, s.store.CreateStadium(context.Background(), st))

	resp := s.do(http.MethodPost, "/stadiums/"+st.ID+"?_method=DELETE", nil)

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login", resp.Header().Get("Location"))
	_, err := s.store.FindStadium(context.Background(), st.ID)
	assert.NoError(t, err)
}
