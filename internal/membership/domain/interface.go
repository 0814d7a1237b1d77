package domain

import (
	"context"
	"time"
)

// LoginAttemptStore is the slice of storage the login-attempt guard needs.
type LoginAttemptStore interface {
	CountRecentFailedAttempts(ctx context.Context, ip string, since time.Time) (int, error)
	CreateLoginAttempt(ctx context.Context, attempt *LoginAttempt) error
	MarkLoginSucceeded(ctx context.Context, attemptID, userID string) error
}

type UserRepository interface {
	LoginAttemptStore

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateActivation(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string, updatedAt time.Time) error
	Delete(ctx context.Context, userID string) error
}
