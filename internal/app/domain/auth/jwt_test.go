package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-authgate/internal/app/models"
	"github.com/FACorreiaa/go-authgate/internal/pkg/config"
)

const testSecret = "test-signing-secret-for-unit-tests"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	cfg := &config.Config{
		Environment: "development",
		JWT: config.JWTConfig{
			SecretKey: testSecret,
			TokenTTL:  24 * time.Hour,
		},
		Session: config.SessionConfig{CookieName: "jwt"},
	}
	svc, err := NewTokenService(cfg, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_MissingSecret(t *testing.T) {
	cfg := &config.Config{
		JWT:     config.JWTConfig{SecretKey: ""},
		Session: config.SessionConfig{CookieName: "jwt"},
	}
	_, err := NewTokenService(cfg, zap.NewNop())
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	for _, tc := range []struct {
		username string
		role     models.Role
	}{
		{"admin", models.RoleAdmin},
		{"john", models.RoleUser},
	} {
		token, err := svc.Issue(tc.username, tc.role)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, tc.username, claims.Username)
		assert.Equal(t, tc.role, claims.Role)
		assert.NotEmpty(t, claims.ID)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue("admin", models.RoleAdmin)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip one character in the middle of the signature segment so the
	// decoded MAC bytes are guaranteed to change.
	sig := []byte(parts[2])
	if sig[10] == 'A' {
		sig[10] = 'B'
	} else {
		sig[10] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, models.ErrInvalidSignature)
}

func TestVerify_TamperedPayload(t *testing.T) {
	svc := newTestTokenService(t)

	adminToken, err := svc.Issue("admin", models.RoleAdmin)
	require.NoError(t, err)
	userToken, err := svc.Issue("john", models.RoleUser)
	require.NoError(t, err)

	// Splice john's payload onto admin's signature.
	adminParts := strings.Split(adminToken, ".")
	userParts := strings.Split(userToken, ".")
	spliced := adminParts[0] + "." + userParts[1] + "." + adminParts[2]

	_, err = svc.Verify(spliced)
	assert.ErrorIs(t, err, models.ErrInvalidSignature)
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestTokenService(t)

	claims := models.SessionClaims{
		Username: "admin",
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expired, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(expired)
	assert.ErrorIs(t, err, models.ErrExpiredToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := newTestTokenService(t)

	claims := models.SessionClaims{
		Username: "admin",
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	forged, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(forged)
	assert.ErrorIs(t, err, models.ErrInvalidSignature)
}

func TestVerify_Malformed(t *testing.T) {
	svc := newTestTokenService(t)

	for _, token := range []string{
		"",
		"garbage",
		"only.two",
		"..",
		"a.b.c.d",
	} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, models.ErrMalformedToken, "token %q", token)
		assert.True(t, models.TokenRejected(err))
	}
}

func TestSessionCookie_Attributes(t *testing.T) {
	svc := newTestTokenService(t)

	cookie := svc.SessionCookie("token-value")
	assert.Equal(t, "jwt", cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure, "Secure is off outside production")
	assert.Equal(t, "/", cookie.Path)

	cleared := svc.ClearedSessionCookie()
	assert.Equal(t, "jwt", cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestSessionCookie_SecureInProduction(t *testing.T) {
	cfg := &config.Config{
		Environment: "production",
		JWT:         config.JWTConfig{SecretKey: testSecret, TokenTTL: 24 * time.Hour},
		Session:     config.SessionConfig{CookieName: "jwt"},
	}
	svc, err := NewTokenService(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, svc.SessionCookie("v").Secure)
}
