// internal/domain/user.go
package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

var phoneNumberPattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// User represents a person who can join savings groups.
type User struct {
	ID        string    `db:"id" json:"id"`                 // UUID primary key
	Username  string    `db:"username" json:"username"`     // Unique username
	Email     string    `db:"email" json:"email"`           // Contact address used by the notification collaborator
	CreatedAt time.Time `db:"created_at" json:"created_at"` // Timestamp of creation
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // Timestamp of last update
}

// NewUser creates a new User instance.
func NewUser(username, email string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UserProfile carries verification state for a user. It is created by the
// registration step together with the user, never implicitly.
type UserProfile struct {
	UserID            string    `db:"user_id" json:"user_id"`
	PhoneNumber       string    `db:"phone_number" json:"phone_number"`
	IsVerified        bool      `db:"is_verified" json:"is_verified"`
	VerificationToken string    `db:"verification_token" json:"-"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// NewUserProfile creates an unverified profile with a fresh verification token.
func NewUserProfile(userID, phoneNumber string) *UserProfile {
	now := time.Now().UTC()
	return &UserProfile{
		UserID:            userID,
		PhoneNumber:       phoneNumber,
		VerificationToken: uuid.NewString(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// ValidPhoneNumber reports whether s is empty or an international-style number.
func ValidPhoneNumber(s string) bool {
	return s == "" || phoneNumberPattern.MatchString(s)
}
