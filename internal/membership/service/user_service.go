package service

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/marcingarbarczyk/membership-service/internal/membership/domain UserRepository
//go:generate mockgen -destination=../../mocks/mock_attempt_guard.go -package=mocks github.com/marcingarbarczyk/membership-service/internal/membership/service AttemptGuard
//go:generate mockgen -destination=../../mocks/mock_mailer.go -package=mocks github.com/marcingarbarczyk/membership-service/internal/mailer Mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/marcingarbarczyk/membership-service/internal/errors"
	"github.com/marcingarbarczyk/membership-service/internal/mailer"
	"github.com/marcingarbarczyk/membership-service/internal/membership/domain"
	"github.com/marcingarbarczyk/membership-service/internal/membership/dto"
	"github.com/marcingarbarczyk/membership-service/internal/membership/token"
)

// AttemptGuard is the login-attempt throttle consulted before credential
// verification.
type AttemptGuard interface {
	RegisterAttempt(ctx context.Context, ip, username, userAgent string) (*domain.LoginAttempt, error)
	MarkSucceeded(ctx context.Context, attemptID, userID string) error
	Window() time.Duration
}

type UserService struct {
	repo            domain.UserRepository
	tokens          TokenGenerator
	guard           AttemptGuard
	mailer          mailer.Mailer
	activation      *token.Generator
	passwordReset   *token.Generator
	frontendBaseURL string
	logger          *zap.Logger
}

func NewUserService(
	repo domain.UserRepository,
	tokens TokenGenerator,
	guard AttemptGuard,
	m mailer.Mailer,
	activation *token.Generator,
	passwordReset *token.Generator,
	frontendBaseURL string,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		repo:            repo,
		tokens:          tokens,
		guard:           guard,
		mailer:          m,
		activation:      activation,
		passwordReset:   passwordReset,
		frontendBaseURL: frontendBaseURL,
		logger:          logger,
	}
}

// LoginResult is what a successful authentication hands back to the handler.
type LoginResult struct {
	User   *domain.User
	Tokens *TokenPair
}

// Register creates an inactive account and sends the activation email. Email
// delivery problems are logged, never surfaced: the endpoint answer is the
// same fixed confirmation either way.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrEmailAlreadyInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hashedPassword),
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendActivationEmail(ctx, user)

	return user, nil
}

func (s *UserService) sendActivationEmail(ctx context.Context, user *domain.User) {
	link := fmt.Sprintf("%s/activate?uidb64=%s&token=%s",
		s.frontendBaseURL, encodeUID(user.ID), s.activation.Make(user))

	if err := s.mailer.SendActivationEmail(ctx, user.Email, link); err != nil {
		s.logger.Warn("failed to send activation email",
			zap.String("email", user.Email), zap.Error(err))
	}
}

// Login registers the attempt before verifying anything, so throttling also
// covers submissions for unknown accounts. The attempt's success flag and
// user link are set once, after the credentials verify.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*LoginResult, error) {
	attempt, err := s.guard.RegisterAttempt(ctx, input.IPAddress, input.Email, input.UserAgent)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if user == nil || !user.IsActive ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	if err := s.guard.MarkSucceeded(ctx, attempt.ID, user.ID); err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Tokens: pair}, nil
}

// RetryAfter returns the wait the client is hinted at when throttled.
func (s *UserService) RetryAfter() time.Duration {
	return s.guard.Window()
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrRefreshTokenMissing
	}
	return s.tokens.Refresh(ctx, refreshToken)
}

// Logout revokes the refresh credential, best effort: a missing or invalid
// credential is not an error.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, refreshToken)
}

// Activate flips an inactive account to active when the token checks out
// against the account's current state.
func (s *UserService) Activate(ctx context.Context, uidb64, tokenString string) (*domain.User, error) {
	userID, err := decodeUID(uidb64)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	if user.IsActive {
		return nil, apperrors.ErrAlreadyActive
	}

	if user.DeactivationDate != nil {
		return nil, apperrors.ErrAccountDeactivated
	}

	if !s.activation.Check(user, tokenString) {
		return nil, apperrors.ErrInvalidToken
	}

	user.Activate(time.Now())
	if err := s.repo.UpdateActivation(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// RequestPasswordReset sends a reset link when the account exists. The caller
// answers with the same message either way, so account existence never leaks;
// only storage failures propagate.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	link := fmt.Sprintf("%s/confirm-reset-password?uidb64=%s&token=%s",
		s.frontendBaseURL, encodeUID(user.ID), s.passwordReset.Make(user))

	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, link); err != nil {
		s.logger.Warn("failed to send password reset email",
			zap.String("email", user.Email), zap.Error(err))
	}

	return nil
}

func (s *UserService) ConfirmPasswordReset(ctx context.Context, input dto.ConfirmResetPasswordInput) error {
	userID, err := decodeUID(input.UIDB64)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrInvalidToken
	}

	if !s.passwordReset.Check(user, input.Token) {
		return apperrors.ErrInvalidToken
	}

	return s.setPassword(ctx, user, input.NewPassword)
}

func (s *UserService) ChangePassword(ctx context.Context, userID string, input dto.ChangePasswordInput) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)) != nil {
		return apperrors.ErrInvalidCredentials
	}

	return s.setPassword(ctx, user, input.NewPassword)
}

func (s *UserService) setPassword(ctx context.Context, user *domain.User, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, user.ID, string(hashedPassword), time.Now())
}

func (s *UserService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// DeleteAccount removes the account after re-confirming the password.
func (s *UserService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return apperrors.ErrInvalidCredentials
	}

	return s.repo.Delete(ctx, user.ID)
}

// encodeUID and decodeUID mirror the urlsafe-base64 user id carried in
// activation and reset links.
func encodeUID(userID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

func decodeUID(uidb64 string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uidb64)
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(string(raw)); err != nil {
		return "", err
	}
	return string(raw), nil
}
