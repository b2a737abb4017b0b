package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-authgate/internal/app/domain/auth"
	database "github.com/FACorreiaa/go-authgate/internal/db"
	"github.com/FACorreiaa/go-authgate/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	dbPool *pgxpool.Pool
	repo   auth.CredentialRepo
	tokens *auth.TokenService
	router http.Handler
}

// New creates a new Server instance with all dependencies. The credential
// store is Postgres-backed when DATABASE_URL is configured and the static
// in-memory table otherwise.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	tokens, err := auth.NewTokenService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup token service: %w", err)
	}
	s.tokens = tokens

	repo, err := s.setupCredentialStore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to setup credential store: %w", err)
	}
	s.repo = repo

	return s, nil
}

func (s *Server) setupCredentialStore(ctx context.Context) (auth.CredentialRepo, error) {
	seeded, err := auth.NewInMemoryCredentialRepo(s.cfg.SeedUsers, s.logger)
	if err != nil {
		return nil, err
	}

	if s.cfg.DatabaseURL == "" {
		s.logger.Info("Using in-memory credential store")
		return seeded, nil
	}

	s.logger.Info("Setting up Postgres credential store")
	pool, err := database.Init(ctx, s.cfg.DatabaseURL, s.logger)
	if err != nil {
		return nil, err
	}
	s.dbPool = pool

	if err := database.RunMigrations(s.cfg.DatabaseURL, s.logger); err != nil {
		pool.Close()
		return nil, err
	}

	repo := auth.NewPostgresCredentialRepo(pool, s.logger)

	// Seed records carry the same bcrypt hashes the in-memory table built.
	if err := repo.EnsureSeedUsers(ctx, seeded.Snapshot()); err != nil {
		pool.Close()
		return nil, err
	}

	return repo, nil
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// TokenService returns the session token service
func (s *Server) TokenService() *auth.TokenService {
	return s.tokens
}

// CredentialRepo returns the credential store
func (s *Server) CredentialRepo() auth.CredentialRepo {
	return s.repo
}

// Close closes all server resources
func (s *Server) Close() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}
