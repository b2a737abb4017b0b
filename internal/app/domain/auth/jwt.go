package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-authgate/internal/app/models"
	"github.com/FACorreiaa/go-authgate/internal/pkg/config"
)

// TokenService issues and verifies signed session tokens. The signing
// secret is injected once at construction; Verify is pure and safe for
// concurrent use.
type TokenService struct {
	secretKey     []byte
	tokenTTL      time.Duration
	cookieName    string
	secureCookies bool
	logger        *zap.Logger
}

func NewTokenService(cfg *config.Config, logger *zap.Logger) (*TokenService, error) {
	if cfg == nil || cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("token service requires a signing secret: %w", models.ErrConfiguration)
	}
	ttl := cfg.JWT.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{
		secretKey:     []byte(cfg.JWT.SecretKey),
		tokenTTL:      ttl,
		cookieName:    cfg.Session.CookieName,
		secureCookies: cfg.IsProduction(),
		logger:        logger,
	}, nil
}

// Issue signs a session token for a username/role pair the caller has
// already authenticated. This service does not re-check credentials.
func (s *TokenService) Issue(username string, role models.Role) (string, error) {
	now := time.Now()
	claims := models.SessionClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.Error("Failed to sign session token", zap.Error(err))
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Verify parses and validates a session token. Rejections are classified
// into ErrMalformedToken, ErrExpiredToken and ErrInvalidSignature; the
// distinction is for internal logging only and must never reach clients.
// Signature comparison inside the jwt library is constant-time.
func (s *TokenService) Verify(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", models.ErrMalformedToken, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", models.ErrExpiredToken, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %w", models.ErrInvalidSignature, err)
		default:
			return nil, fmt.Errorf("%w: %w", models.ErrMalformedToken, err)
		}
	}

	if !token.Valid {
		return nil, models.ErrInvalidSignature
	}

	return claims, nil
}

// CookieName returns the name of the session cookie.
func (s *TokenService) CookieName() string {
	return s.cookieName
}

// SessionCookie wraps an issued token in the session cookie: HTTP-only,
// SameSite=Strict, Secure in production, scoped to the whole site, with
// max-age equal to the token validity window.
func (s *TokenService) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		MaxAge:   int(s.tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}
}

// ClearedSessionCookie returns a cookie that deletes the client's copy of
// the session token. The token itself stays valid until expiry; there is
// no server-side revocation.
func (s *TokenService) ClearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}
}
