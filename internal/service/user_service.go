// internal/service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/util"
	"wakala-ledger/pkg/db"
)

// UserService registers users. Registration always creates the profile in
// the same transaction as the user.
type UserService interface {
	RegisterUser(ctx context.Context, username, email, phoneNumber string) (*domain.User, *domain.UserProfile, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

type userService struct {
	txRunner
	dbExecutor repository.DBExecutor
	repos      repository.Repositories
}

// NewUserService creates a new instance of UserService.
func NewUserService(dbBeginner db.DBTxBeginner, dbExecutor repository.DBExecutor, repos repository.Repositories, tx TxFuncs) UserService {
	return &userService{
		txRunner:   txRunner{dbBeginner: dbBeginner, tx: tx},
		dbExecutor: dbExecutor,
		repos:      repos,
	}
}

// RegisterUser creates a user and its unverified profile.
func (s *userService) RegisterUser(ctx context.Context, username, email, phoneNumber string) (*domain.User, *domain.UserProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil, fmt.Errorf("register user: username is required: %w", util.ErrInvalidInput)
	}
	if !domain.ValidPhoneNumber(phoneNumber) {
		return nil, nil, fmt.Errorf("register user: phone number %q: %w", phoneNumber, util.ErrInvalidInput)
	}

	user := domain.NewUser(username, email)
	profile := domain.NewUserProfile(user.ID, phoneNumber)

	err := s.inTx(ctx, "register user", func(q repository.DBExecutor) error {
		_, err := s.repos.Users.GetUserByUsername(ctx, q, username)
		if err == nil {
			return fmt.Errorf("register user: username '%s': %w", username, util.ErrDuplicateEntry)
		}
		if !errors.Is(err, util.ErrNotFound) {
			return fmt.Errorf("register user: failed to check existing user: %w", err)
		}

		if err := s.repos.Users.CreateUser(ctx, q, user); err != nil {
			return fmt.Errorf("register user: failed to create user: %w", err)
		}
		if err := s.repos.Users.CreateProfile(ctx, q, profile); err != nil {
			return fmt.Errorf("register user: failed to create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// GetUser retrieves a user by ID.
func (s *userService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repos.Users.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, notFound("get user", util.ErrUserNotFound, userID, err)
	}
	return user, nil
}
