package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookup, and credential maintenance against
// the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrUsernameTaken].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Username, user.CredentialHash, user.Salt)

	var created models.User
	if err := row.Scan(&created.UserID, &created.Username, &created.CredentialHash, &created.Salt,
		&created.IsAdmin, &created.IsBanned, &created.LastActive, &created.CreatedAt); err != nil {
		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrUsernameTaken
		default:
			log.Err(err).Str("func", "*userRepository.CreateUser").
				Bool("retryable", r.db.Retryable(err)).
				Msg("error: creating user")
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return created, nil
}

// FindUserByUsername retrieves a user record by its unique username.
//
// Returns [ErrNoUserWasFound] when no row matches; any other failure is
// wrapped as an unexpected DB error.
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	log := logger.FromContext(ctx)

	var found models.User
	row := r.db.QueryRowContext(ctx, findUserByUsername, username)
	if err := row.Scan(&found.UserID, &found.Username, &found.CredentialHash, &found.Salt,
		&found.IsAdmin, &found.IsBanned, &found.LastActive, &found.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.FindUserByUsername").
			Bool("retryable", r.db.Retryable(err)).
			Msg("error: scanning user row")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// FindUserByID retrieves a user record by its primary key.
//
// Returns [ErrNoUserWasFound] when no row matches.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	var found models.User
	row := r.db.QueryRowContext(ctx, findUserByID, userID)
	if err := row.Scan(&found.UserID, &found.Username, &found.CredentialHash, &found.Salt,
		&found.IsAdmin, &found.IsBanned, &found.LastActive, &found.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.FindUserByID").
			Bool("retryable", r.db.Retryable(err)).
			Msg("error: scanning user row")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// UpdateCredentialHash replaces the stored bcrypt hash after a credential
// change. The salt is deliberately left untouched: rotating it would orphan
// every envelope derived from it.
func (r *userRepository) UpdateCredentialHash(ctx context.Context, userID int64, credentialHash string) error {
	return r.execExpectingUser(ctx, "*userRepository.UpdateCredentialHash", updateCredentialHash, credentialHash, userID)
}

// SetBanned flips the administrative ban flag for the account.
func (r *userRepository) SetBanned(ctx context.Context, userID int64, banned bool) error {
	return r.execExpectingUser(ctx, "*userRepository.SetBanned", setBanned, banned, userID)
}

// TouchLastActive stamps the account's last-active time. Failures are
// non-fatal for the caller: activity tracking is best-effort.
func (r *userRepository) TouchLastActive(ctx context.Context, userID int64) error {
	return r.execExpectingUser(ctx, "*userRepository.TouchLastActive", touchLastActive, userID)
}

// DeleteUser removes the account row. Owned cards and wallets are removed
// by ON DELETE CASCADE; blob files are the caller's responsibility.
func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	return r.execExpectingUser(ctx, "*userRepository.DeleteUser", deleteUser, userID)
}

// execExpectingUser runs a DML statement that must affect exactly one user
// row, mapping zero affected rows to [ErrNoUserWasFound].
func (r *userRepository) execExpectingUser(ctx context.Context, fn, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).
			Bool("retryable", r.db.Retryable(err)).
			Msg("error: executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}
