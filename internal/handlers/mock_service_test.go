package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"rental_market/internal/models"
	"rental_market/internal/service"
	"rental_market/internal/session"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	loginUser     *models.User
	loginErr      error
	genTokenToken string
	genTokenErr   error
	parseClaims   *service.Claims
	parseErr      error

	lastSignUpUsername string
	lastSignUpRole     string
	lastLoginUsername  string
	lastLoginRole      string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password, role string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpRole = role
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) Login(_ context.Context, username, password, role string) (*models.User, error) {
	m.lastLoginUsername = username
	m.lastLoginRole = role
	return m.loginUser, m.loginErr
}
func (m *mockAuth) EnsureAdmin(context.Context, string) (bool, error) {
	return false, nil
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password, role string) (string, error) {
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (*service.Claims, error) {
	m.lastParseToken = token
	return m.parseClaims, m.parseErr
}

type mockListings struct {
	createID  int
	createErr error
	mine      []models.Listing
	search    []models.Listing
	searchErr error
	get       *models.Listing
	getErr    error
	updateErr error
	deleteErr error

	lastOwner string
	lastInput models.ListingInput
	lastQuery string
	lastID    int
	creates   int
	updates   int
	deletes   int
}

func (m *mockListings) Create(_ context.Context, owner string, in models.ListingInput) (int, error) {
	m.creates++
	m.lastOwner = owner
	m.lastInput = in
	return m.createID, m.createErr
}
func (m *mockListings) ListMine(_ context.Context, owner string) ([]models.Listing, error) {
	m.lastOwner = owner
	return m.mine, nil
}
func (m *mockListings) Search(_ context.Context, query string) ([]models.Listing, error) {
	m.lastQuery = query
	return m.search, m.searchErr
}
func (m *mockListings) Get(_ context.Context, id int) (*models.Listing, error) {
	m.lastID = id
	return m.get, m.getErr
}
func (m *mockListings) Update(_ context.Context, id int, in models.ListingInput) error {
	m.updates++
	m.lastID = id
	m.lastInput = in
	return m.updateErr
}
func (m *mockListings) Delete(_ context.Context, id int) error {
	m.deletes++
	m.lastID = id
	return m.deleteErr
}

type mockAdmin struct {
	overview models.AdminOverview
	err      error
}

func (m *mockAdmin) Overview(context.Context) (models.AdminOverview, error) {
	return m.overview, m.err
}

// ---- Shared Test Helpers ----

var testConfig = Config{Session: session.StoreOptions{Name: "test_session", Secret: "test-secret"}}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, testConfig)
	return h.InitRoutes()
}

func newMockService() (*service.Service, *mockAuth, *mockListings, *mockAdmin) {
	auth, listings, admin := &mockAuth{}, &mockListings{}, &mockAdmin{}
	return &service.Service{Authorization: auth, Listings: listings, Admin: admin}, auth, listings, admin
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// loginAs performs a form login through the router with auth returning u and
// returns the session cookies issued by the server.
func loginAs(t *testing.T, r http.Handler, auth *mockAuth, u models.User) []*http.Cookie {
	t.Helper()
	auth.loginUser, auth.loginErr = &u, nil

	w := postForm(r, "/", url.Values{
		"username": {u.Username},
		"password": {"pw"},
		"role":     {u.Role.String()},
	}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("login issued no session cookie")
	}
	return cookies
}

func get(r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func postForm(r http.Handler, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}
