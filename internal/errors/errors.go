package errors

import (
	"errors"
)

var (
	ErrTooManyLoginAttempts = errors.New("too many failed login attempts")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailAlreadyInUse    = errors.New("email already in use")

	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyActive      = errors.New("account is already active")
	ErrAccountDeactivated = errors.New("account has been deactivated")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrRefreshTokenMissing = errors.New("refresh token not provided")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
)
