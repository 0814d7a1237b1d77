package dto

import (
	"time"

	"github.com/marcingarbarczyk/membership-service/internal/membership/domain"
)

type UserOutput struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserOutput(u *domain.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// LoginOutput mirrors the login response: the session cookies carry the
// credentials themselves, the body carries the user and expiry metadata.
type LoginOutput struct {
	User               UserOutput `json:"user"`
	AccessTokenExpiry  int64      `json:"access_token_expiry"`
	RefreshTokenExpiry int64      `json:"refresh_token_expiry"`
}

type RefreshOutput struct {
	Message            string `json:"message"`
	AccessTokenExpiry  int64  `json:"access_token_expiry"`
	RefreshTokenExpiry int64  `json:"refresh_token_expiry"`
}
