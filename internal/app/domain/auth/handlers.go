package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-authgate/internal/app/models"
	"github.com/FACorreiaa/go-authgate/internal/app/observability/metrics"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthHandlers struct {
	service AuthService
	tokens  *TokenService
	logger  *zap.Logger
}

func NewAuthHandlers(service AuthService, tokens *TokenService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		service: service,
		tokens:  tokens,
		logger:  logger,
	}
}

// Login handles POST /api/login. Responses follow the
// {success, data|message} envelope; error messages never reveal whether
// the username or the password was wrong.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordLogin(c, "bad_request")
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Username and password are required",
		})
		return
	}

	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	if username == "" || password == "" {
		h.logger.Warn("Login with missing credentials")
		h.recordLogin(c, "bad_request")
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Username and password cannot be empty",
		})
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			h.recordLogin(c, "invalid_credentials")
			c.JSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: "Invalid credentials",
			})
			return
		}
		h.logger.Error("Login failed unexpectedly", zap.Error(err))
		h.recordLogin(c, "error")
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "An unexpected error occurred. Please try again later.",
		})
		return
	}

	http.SetCookie(c.Writer, h.tokens.SessionCookie(token))
	h.recordLogin(c, "success")

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data: gin.H{
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Logout handles POST /api/logout. The token is a stateless bearer
// credential, so logout deletes the client's copy; a copied token stays
// valid until expiry.
func (h *AuthHandlers) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, h.tokens.ClearedSessionCookie())

	h.logger.Info("User logout")
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Logout successful",
	})
}

func (h *AuthHandlers) recordLogin(c *gin.Context, outcome string) {
	metrics.Get().LoginAttemptsTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))
}
