// internal/repository/sqlrepo/user_sql.go
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"

	"github.com/jmoiron/sqlx"
)

// UserRepository implements repository.UserRepository on sqlx.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user into the database using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := q.Rebind(`INSERT INTO users (id, username, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return util.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.User, error) {
	var user domain.User
	query := q.Rebind(`SELECT id, username, email, created_at, updated_at FROM users WHERE id = ?`)
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by their username using the provided DBExecutor.
func (r *UserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	var user domain.User
	query := q.Rebind(`SELECT id, username, email, created_at, updated_at FROM users WHERE username = ?`)
	err := q.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username '%s': %w", username, err)
	}
	return &user, nil
}

// CreateProfile inserts the profile created at registration.
func (r *UserRepository) CreateProfile(ctx context.Context, q repository.DBExecutor, p *domain.UserProfile) error {
	query := q.Rebind(`INSERT INTO user_profiles (user_id, phone_number, is_verified, verification_token, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query, p.UserID, p.PhoneNumber, p.IsVerified, p.VerificationToken, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create profile for user %s: %w", p.UserID, err)
	}
	return nil
}

// GetProfile retrieves a user's profile.
func (r *UserRepository) GetProfile(ctx context.Context, q repository.DBExecutor, userID string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	query := q.Rebind(`SELECT user_id, phone_number, is_verified, verification_token, created_at, updated_at
		FROM user_profiles WHERE user_id = ?`)
	if err := q.GetContext(ctx, &p, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile for user %s: %w", userID, err)
	}
	return &p, nil
}
