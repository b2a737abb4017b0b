package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-authgate/internal/app/models"
	"github.com/FACorreiaa/go-authgate/internal/pkg/config"
)

// CredentialRepo is the read-only credential collaborator. The gate and
// the auth service depend on nothing else for user data, so a persistent
// store can swap in without touching either.
type CredentialRepo interface {
	// Lookup fetches a credential record by exact, case-sensitive username.
	// Returns models.ErrUnknownUser when no record exists.
	Lookup(ctx context.Context, username string) (*models.User, error)
}

var _ CredentialRepo = (*InMemoryCredentialRepo)(nil)

// InMemoryCredentialRepo holds the static credential table loaded once at
// process start. The map is never mutated after construction, so
// unsynchronized concurrent reads are safe.
type InMemoryCredentialRepo struct {
	logger *zap.Logger
	users  map[string]*models.User
}

// NewInMemoryCredentialRepo builds the table from seed configuration,
// bcrypt-hashing every password so no plaintext survives startup.
func NewInMemoryCredentialRepo(seeds []config.SeedUser, logger *zap.Logger) (*InMemoryCredentialRepo, error) {
	users := make(map[string]*models.User, len(seeds))
	for _, seed := range seeds {
		role := models.Role(seed.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("seed user %q has unknown role %q: %w", seed.Username, seed.Role, models.ErrConfiguration)
		}
		if _, exists := users[seed.Username]; exists {
			return nil, fmt.Errorf("duplicate seed username %q: %w", seed.Username, models.ErrConfiguration)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash seed password for %q: %w", seed.Username, err)
		}

		users[seed.Username] = &models.User{
			ID:           uuid.NewString(),
			Username:     seed.Username,
			PasswordHash: string(hash),
			Role:         role,
		}
	}

	logger.Info("Credential table loaded", zap.Int("users", len(users)))
	return &InMemoryCredentialRepo{logger: logger, users: users}, nil
}

// Snapshot returns a copy of every record, used to seed a persistent store.
func (r *InMemoryCredentialRepo) Snapshot() []*models.User {
	users := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		u := *user
		users = append(users, &u)
	}
	return users
}

// Lookup implements CredentialRepo.
func (r *InMemoryCredentialRepo) Lookup(_ context.Context, username string) (*models.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, models.ErrUnknownUser)
	}
	u := *user
	return &u, nil
}
