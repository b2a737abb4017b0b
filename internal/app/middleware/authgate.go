package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-authgate/internal/app/domain/auth"
	"github.com/FACorreiaa/go-authgate/internal/app/models"
	"github.com/FACorreiaa/go-authgate/internal/app/observability/metrics"
)

// RouteClass is the access-control class of a request path.
type RouteClass int

const (
	RoutePublic RouteClass = iota
	RouteLogin
	RouteAdmin
	RouteUser
)

// Paths the gate never evaluates: API endpoints, static assets and the
// operational surface.
var gateExclusions = []string{
	"/api/",
	"/assets/",
	"/public/",
	"/favicon.ico",
	"/healthz",
	"/metrics",
}

// ClassifyRoute maps a path to exactly one route class by prefix match.
func ClassifyRoute(path string) RouteClass {
	switch {
	case path == "/login":
		return RouteLogin
	case strings.HasPrefix(path, "/admin"):
		return RouteAdmin
	case strings.HasPrefix(path, "/user"):
		return RouteUser
	default:
		return RoutePublic
	}
}

func excludedFromGate(path string) bool {
	for _, prefix := range gateExclusions {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AuthGate intercepts every page request before any handler runs and
// decides: pass through, redirect to /login, or redirect to the role's
// dashboard. The role is re-derived from the credential store on every
// request; the role claim inside the token is never trusted on its own,
// so a store-side role change takes effect on the next request and a
// deleted user is locked out even with a still-valid signature.
type AuthGate struct {
	tokens *auth.TokenService
	repo   auth.CredentialRepo
	logger *zap.Logger
}

func NewAuthGate(tokens *auth.TokenService, repo auth.CredentialRepo, logger *zap.Logger) *AuthGate {
	return &AuthGate{tokens: tokens, repo: repo, logger: logger}
}

// Handler returns the gin middleware evaluating the gate decision table.
func (g *AuthGate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if excludedFromGate(path) {
			c.Next()
			return
		}

		class := ClassifyRoute(path)
		if class == RoutePublic {
			c.Next()
			return
		}

		token, err := c.Cookie(g.tokens.CookieName())
		hasToken := err == nil && token != ""

		switch class {
		case RouteLogin:
			if !hasToken {
				g.decide(c, "allow")
				c.Next()
				return
			}
			user, err := g.resolveUser(c, token)
			if err != nil {
				// Stale token on the login page: let the user log in again.
				g.logger.Debug("Clearing stale session cookie on login page", zap.Error(err))
				http.SetCookie(c.Writer, g.tokens.ClearedSessionCookie())
				g.decide(c, "allow")
				c.Next()
				return
			}
			g.redirect(c, user.Role.DashboardPath(), "redirect_dashboard")

		case RouteAdmin, RouteUser:
			if !hasToken {
				g.redirect(c, "/login", "redirect_login")
				return
			}
			user, err := g.resolveUser(c, token)
			if err != nil {
				g.logger.Debug("Rejected session token on protected route",
					zap.String("path", path), zap.Error(err))
				http.SetCookie(c.Writer, g.tokens.ClearedSessionCookie())
				g.redirect(c, "/login", "redirect_login")
				return
			}

			required := models.RoleUser
			if class == RouteAdmin {
				required = models.RoleAdmin
			}
			if user.Role != required {
				g.logger.Debug("Role mismatch on protected route",
					zap.String("path", path),
					zap.String("username", user.Username),
					zap.String("role", string(user.Role)))
				g.redirect(c, user.Role.DashboardPath(), "redirect_dashboard")
				return
			}

			c.Set(string(UserContextKey), user)
			g.decide(c, "allow")
			c.Next()
		}
	}
}

// resolveUser verifies the token and re-derives the user from the
// credential store. All failure causes collapse into a single rejection
// for the caller; the detail is logged, never sent to the client.
func (g *AuthGate) resolveUser(c *gin.Context, token string) (*models.User, error) {
	claims, err := g.tokens.Verify(token)
	g.recordVerification(c, err)
	if err != nil {
		return nil, err
	}

	user, err := g.repo.Lookup(c.Request.Context(), claims.Username)
	if err != nil {
		if errors.Is(err, models.ErrUnknownUser) {
			return nil, err
		}
		g.logger.Error("Credential lookup failed in gate", zap.Error(err))
		return nil, err
	}

	return user, nil
}

func (g *AuthGate) redirect(c *gin.Context, location, decision string) {
	g.decide(c, decision)
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

func (g *AuthGate) decide(c *gin.Context, decision string) {
	metrics.Get().GateDecisionsTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("decision", decision)))
}

func (g *AuthGate) recordVerification(c *gin.Context, err error) {
	outcome := "valid"
	switch {
	case err == nil:
	case errors.Is(err, models.ErrExpiredToken):
		outcome = "expired"
	case errors.Is(err, models.ErrInvalidSignature):
		outcome = "invalid_signature"
	default:
		outcome = "malformed"
	}
	metrics.Get().TokenVerificationsTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))
}
