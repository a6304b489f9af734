// internal/repository/user_repo.go
package repository

import (
	"context"

	"wakala-ledger/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user to the database using the provided DBExecutor.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID using the provided DBExecutor.
	GetUserByID(ctx context.Context, q DBExecutor, id string) (*domain.User, error)
	// GetUserByUsername retrieves a user by their username using the provided DBExecutor.
	GetUserByUsername(ctx context.Context, q DBExecutor, username string) (*domain.User, error)
	// CreateProfile stores the profile created alongside a user.
	CreateProfile(ctx context.Context, q DBExecutor, profile *domain.UserProfile) error
	GetProfile(ctx context.Context, q DBExecutor, userID string) (*domain.UserProfile, error)
}
