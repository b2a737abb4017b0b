package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-authgate/internal/app/domain/auth"
	"github.com/FACorreiaa/go-authgate/internal/app/middleware"
	"github.com/FACorreiaa/go-authgate/internal/app/models"
	"github.com/FACorreiaa/go-authgate/internal/pkg/config"
	"github.com/FACorreiaa/go-authgate/internal/routes"
)

const testSecret = "gate-test-signing-secret"

type gateFixture struct {
	engine *gin.Engine
	tokens *auth.TokenService
	repo   *auth.InMemoryCredentialRepo
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment: "development",
		JWT: config.JWTConfig{
			SecretKey: testSecret,
			TokenTTL:  24 * time.Hour,
		},
		Session: config.SessionConfig{CookieName: "jwt"},
	}

	tokens, err := auth.NewTokenService(cfg, zap.NewNop())
	require.NoError(t, err)

	repo, err := auth.NewInMemoryCredentialRepo([]config.SeedUser{
		{Username: "admin", Password: "admin123", Role: "admin"},
		{Username: "john", Password: "user123", Role: "user"},
	}, zap.NewNop())
	require.NoError(t, err)

	r := gin.New()
	gate := middleware.NewAuthGate(tokens, repo, zap.NewNop())
	r.Use(gate.Handler())

	service := auth.NewAuthService(repo, tokens, zap.NewNop())
	handlers := auth.NewAuthHandlers(service, tokens, zap.NewNop())
	routes.Setup(r, handlers, zap.NewNop())

	return &gateFixture{engine: r, tokens: tokens, repo: repo}
}

func (f *gateFixture) get(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *gateFixture) cookieFor(t *testing.T, username string, role models.Role) *http.Cookie {
	t.Helper()
	token, err := f.tokens.Issue(username, role)
	require.NoError(t, err)
	return &http.Cookie{Name: f.tokens.CookieName(), Value: token}
}

func clearedCookie(res *http.Response, name string) bool {
	for _, c := range res.Cookies() {
		if c.Name == name && c.Value == "" && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestClassifyRoute(t *testing.T) {
	cases := map[string]middleware.RouteClass{
		"/login":            middleware.RouteLogin,
		"/login/":           middleware.RoutePublic,
		"/admin":            middleware.RouteAdmin,
		"/admin/dashboard":  middleware.RouteAdmin,
		"/admin/settings/x": middleware.RouteAdmin,
		"/user":             middleware.RouteUser,
		"/user/dashboard":   middleware.RouteUser,
		"/":                 middleware.RoutePublic,
		"/about":            middleware.RoutePublic,
	}
	for path, want := range cases {
		assert.Equal(t, want, middleware.ClassifyRoute(path), "path %s", path)
	}
}

func TestGate_NoToken(t *testing.T) {
	f := newGateFixture(t)

	// Login page is reachable without a token
	w := f.get(t, "/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Protected routes redirect to login
	for _, path := range []string{"/admin/dashboard", "/user/dashboard"} {
		w := f.get(t, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, "path %s", path)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	}

	// Public routes pass through
	w = f.get(t, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGate_AdminSession(t *testing.T) {
	f := newGateFixture(t)
	cookie := f.cookieFor(t, "admin", models.RoleAdmin)

	w := f.get(t, "/admin/dashboard", cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong area redirects to own dashboard
	w = f.get(t, "/user/dashboard", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))

	// Already authenticated: login page bounces to the dashboard
	w = f.get(t, "/login", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
}

func TestGate_UserSession(t *testing.T) {
	f := newGateFixture(t)
	cookie := f.cookieFor(t, "john", models.RoleUser)

	w := f.get(t, "/user/dashboard", cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.get(t, "/admin/dashboard", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/user/dashboard", w.Header().Get("Location"))

	w = f.get(t, "/login", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/user/dashboard", w.Header().Get("Location"))
}

func TestGate_InvalidToken(t *testing.T) {
	f := newGateFixture(t)
	garbage := &http.Cookie{Name: f.tokens.CookieName(), Value: "not.a.token"}

	// Protected route: redirect to login and clear the stale cookie
	w := f.get(t, "/admin/dashboard", garbage)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.True(t, clearedCookie(w.Result(), f.tokens.CookieName()))

	// Login page: allowed, stale cookie cleared
	w = f.get(t, "/login", garbage)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, clearedCookie(w.Result(), f.tokens.CookieName()))

	// Public route: garbage cookie is irrelevant
	w = f.get(t, "/", garbage)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, clearedCookie(w.Result(), f.tokens.CookieName()))
}

func TestGate_UnknownUserWithValidToken(t *testing.T) {
	f := newGateFixture(t)

	// A token that verifies but names a user missing from the store:
	// Verify accepts it, the gate rejects it.
	cookie := f.cookieFor(t, "deleted-user", models.RoleAdmin)
	_, err := f.tokens.Verify(cookie.Value)
	require.NoError(t, err)

	w := f.get(t, "/admin/dashboard", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.True(t, clearedCookie(w.Result(), f.tokens.CookieName()))

	w = f.get(t, "/login", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, clearedCookie(w.Result(), f.tokens.CookieName()))
}

func TestGate_RoleFromStoreNotToken(t *testing.T) {
	f := newGateFixture(t)

	// Token claims admin, the store says john is a user. The store wins.
	cookie := f.cookieFor(t, "john", models.RoleAdmin)

	w := f.get(t, "/admin/dashboard", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/user/dashboard", w.Header().Get("Location"))

	w = f.get(t, "/user/dashboard", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGate_ExcludedPaths(t *testing.T) {
	f := newGateFixture(t)

	// API routes are excluded from gate evaluation even with a garbage cookie
	garbage := &http.Cookie{Name: f.tokens.CookieName(), Value: "broken"}

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(garbage)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	wh := f.get(t, "/healthz", garbage)
	assert.Equal(t, http.StatusOK, wh.Code)
}

func TestGate_FullLoginFlow(t *testing.T) {
	f := newGateFixture(t)

	// No cookie: locked out
	w := f.get(t, "/user/dashboard", nil)
	assert.Equal(t, http.StatusFound, w.Code)

	// Issue a session the way a real login would
	cookie := f.cookieFor(t, "john", models.RoleUser)
	w = f.get(t, "/user/dashboard", cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// After logout the client holds no cookie again: locked out
	w = f.get(t, "/user/dashboard", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
