package auth

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-authgate/internal/app/models"
)

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the login business logic contract.
type AuthService interface {
	// Login validates credentials and issues a session token on success.
	// Unknown usernames and wrong passwords both map to
	// models.ErrUnauthenticated so callers cannot tell them apart.
	Login(ctx context.Context, username, password string) (*models.User, string, error)
}

// AuthServiceImpl provides the implementation for AuthService.
type AuthServiceImpl struct {
	logger *zap.Logger
	repo   CredentialRepo
	tokens *TokenService
}

func NewAuthService(repo CredentialRepo, tokens *TokenService, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{logger: logger, repo: repo, tokens: tokens}
}

// Login fetches the credential record, compares the password hash and
// issues a signed session token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("username", username))
	l.Debug("Attempting login")

	tracer := otel.Tracer("go-authgate")
	ctx, span := tracer.Start(ctx, "AuthService.Login", trace.WithAttributes(
		attribute.String("auth.username", username),
	))
	defer span.End()

	user, err := s.repo.Lookup(ctx, username)
	if err != nil {
		if !errors.Is(err, models.ErrUnknownUser) {
			l.Error("Credential lookup failed", zap.Error(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "credential lookup failed")
			return nil, "", fmt.Errorf("credential lookup failed: %w", err)
		}
		l.Warn("Login for unknown username")
		// Don't reveal whether the username or the password was wrong
		return nil, "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.Warn("Password comparison failed")
		return nil, "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		l.Error("Failed to issue session token", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issuance failed")
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	l.Info("Login successful", zap.String("role", string(user.Role)))
	span.SetStatus(codes.Ok, "authenticated")
	return user, token, nil
}
