package auth

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-authgate/internal/app/models"
)

// PgxQuerier is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type PgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ CredentialRepo = (*PostgresCredentialRepo)(nil)

// PostgresCredentialRepo backs the credential table with Postgres. Selected
// when DATABASE_URL is configured; the gate and service code are unaware of
// which implementation they talk to.
type PostgresCredentialRepo struct {
	logger *zap.Logger
	db     PgxQuerier
}

func NewPostgresCredentialRepo(db PgxQuerier, logger *zap.Logger) *PostgresCredentialRepo {
	return &PostgresCredentialRepo{logger: logger, db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Lookup implements CredentialRepo.
func (r *PostgresCredentialRepo) Lookup(ctx context.Context, username string) (*models.User, error) {
	query, args, err := psql.
		Select("id", "username", "password_hash", "role").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user lookup query: %w", err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, query, args...).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, models.ErrUnknownUser)
		}
		r.logger.Error("Error fetching user by username", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	return &user, nil
}

// EnsureSeedUsers inserts the configured seed records, skipping usernames
// that already exist. Idempotent across restarts.
func (r *PostgresCredentialRepo) EnsureSeedUsers(ctx context.Context, users []*models.User) error {
	for _, user := range users {
		query, args, err := psql.
			Insert("users").
			Columns("username", "password_hash", "role").
			Values(user.Username, user.PasswordHash, string(user.Role)).
			Suffix("ON CONFLICT (username) DO NOTHING").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build seed insert: %w", err)
		}

		tag, err := r.db.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to seed user %q: %w", user.Username, err)
		}
		if tag.RowsAffected() > 0 {
			r.logger.Info("Seeded credential record", zap.String("username", user.Username), zap.String("role", string(user.Role)))
		}
	}
	return nil
}
