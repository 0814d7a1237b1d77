package handler_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/marcingarbarczyk/membership-service/internal/errors"
	"github.com/marcingarbarczyk/membership-service/internal/membership/domain"
	"github.com/marcingarbarczyk/membership-service/internal/membership/dto"
	"github.com/marcingarbarczyk/membership-service/internal/membership/handler"
	"github.com/marcingarbarczyk/membership-service/internal/membership/service"
	"github.com/marcingarbarczyk/membership-service/internal/membership/token"
	"github.com/marcingarbarczyk/membership-service/internal/mocks"
)

type handlerMocks struct {
	repo   *mocks.MockUserRepository
	tokens *mocks.MockTokenGenerator
	guard  *mocks.MockAttemptGuard
	mailer *mocks.MockMailer
}

func newTestApp(t *testing.T) (*fiber.App, handlerMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := handlerMocks{
		repo:   mocks.NewMockUserRepository(ctrl),
		tokens: mocks.NewMockTokenGenerator(ctrl),
		guard:  mocks.NewMockAttemptGuard(ctrl),
		mailer: mocks.NewMockMailer(ctrl),
	}

	activation := token.NewActivationGenerator("test-secret", 15, 4)
	reset := token.NewPasswordResetGenerator("test-secret", 15, 4)
	userService := service.NewUserService(m.repo, m.tokens, m.guard, m.mailer,
		activation, reset, "http://localhost:5173", zap.NewNop())
	authHandler := handler.NewAuthHandler(userService, m.tokens, false)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	return app, m
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	return decoded
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func base64RawURL(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func storedUser(t *testing.T, password string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().Add(-time.Hour)
	return &domain.User{
		ID:             uuid.NewString(),
		Email:          "test@example.com",
		PasswordHash:   string(hash),
		IsActive:       true,
		ActivationDate: &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, m := newTestApp(t)

		input := dto.RegisterInput{Email: "new@example.com", Password: "password123"}
		m.repo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		m.mailer.EXPECT().SendActivationEmail(gomock.Any(), input.Email, gomock.Any()).Return(nil)

		resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/register", input))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.NotEmpty(t, body["message"])
	})

	t.Run("bad request", func(t *testing.T) {
		app, _ := newTestApp(t)

		req := httptest.NewRequest("POST", "/api/v1/register", bytes.NewReader([]byte("")))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("password too short", func(t *testing.T) {
		app, _ := newTestApp(t)

		input := dto.RegisterInput{Email: "new@example.com", Password: "short"}
		resp, _ := app.Test(jsonRequest(t, "POST", "/api/v1/register", input))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("email already in use", func(t *testing.T) {
		app, m := newTestApp(t)

		input := dto.RegisterInput{Email: "test@example.com", Password: "password123"}
		m.repo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(&domain.User{ID: "existing"}, nil)

		resp, _ := app.Test(jsonRequest(t, "POST", "/api/v1/register", input))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success sets session cookies", func(t *testing.T) {
		app, m := newTestApp(t)

		user := storedUser(t, "password123")
		attempt := &domain.LoginAttempt{ID: uuid.NewString()}
		pair := &service.TokenPair{
			AccessToken:      "access-token",
			RefreshToken:     "refresh-token",
			AccessExpiresAt:  time.Now().Add(15 * time.Minute),
			RefreshExpiresAt: time.Now().Add(7 * 24 * time.Hour),
		}

		m.guard.EXPECT().
			RegisterAttempt(gomock.Any(), gomock.Any(), user.Email, gomock.Any()).
			Return(attempt, nil)
		m.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		m.tokens.EXPECT().Generate(user.ID, user.Email).Return(pair, nil)
		m.guard.EXPECT().MarkSucceeded(gomock.Any(), attempt.ID, user.ID).Return(nil)

		input := dto.LoginInput{Email: user.Email, Password: "password123"}
		resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/login", input))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		access := cookieByName(resp, "access_token")
		require.NotNil(t, access)
		assert.Equal(t, "access-token", access.Value)
		assert.True(t, access.HttpOnly)

		refresh := cookieByName(resp, "refresh_token")
		require.NotNil(t, refresh)
		assert.Equal(t, "refresh-token", refresh.Value)
		assert.True(t, refresh.HttpOnly)

		body := decodeBody(t, resp)
		assert.EqualValues(t, pair.AccessExpiresAt.Unix(), body["access_token_expiry"])
		assert.EqualValues(t, pair.RefreshExpiresAt.Unix(), body["refresh_token_expiry"])

		userBody, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, user.Email, userBody["email"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		app, m := newTestApp(t)

		user := storedUser(t, "password123")
		attempt := &domain.LoginAttempt{ID: uuid.NewString()}

		m.guard.EXPECT().
			RegisterAttempt(gomock.Any(), gomock.Any(), user.Email, gomock.Any()).
			Return(attempt, nil)
		m.repo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

		input := dto.LoginInput{Email: user.Email, Password: "wrong-password"}
		resp, _ := app.Test(jsonRequest(t, "POST", "/api/v1/login", input))

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Nil(t, cookieByName(resp, "access_token"))
	})

	t.Run("too many attempts", func(t *testing.T) {
		app, m := newTestApp(t)

		m.guard.EXPECT().
			RegisterAttempt(gomock.Any(), gomock.Any(), "test@example.com", gomock.Any()).
			Return(nil, apperrors.ErrTooManyLoginAttempts)
		m.guard.EXPECT().Window().Return(15 * time.Minute)

		input := dto.LoginInput{Email: "test@example.com", Password: "password123"}
		resp, _ := app.Test(jsonRequest(t, "POST", "/api/v1/login", input))

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.EqualValues(t, 15, body["retry_after_minutes"])
	})
}

func TestRefresh(t *testing.T) {
	t.Run("success rotates the access cookie", func(t *testing.T) {
		app, m := newTestApp(t)

		result := &service.RefreshResult{
			AccessToken:      "new-access",
			AccessExpiresAt:  time.Now().Add(15 * time.Minute),
			RefreshExpiresAt: time.Now().Add(6 * 24 * time.Hour),
		}
		m.tokens.EXPECT().Refresh(gomock.Any(), "refresh-token").Return(result, nil)

		req := httptest.NewRequest("POST", "/api/v1/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "refresh-token"})

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		access := cookieByName(resp, "access_token")
		require.NotNil(t, access)
		assert.Equal(t, "new-access", access.Value)
	})

	t.Run("missing cookie", func(t *testing.T) {
		app, _ := newTestApp(t)

		resp, _ := app.Test(httptest.NewRequest("POST", "/api/v1/refresh", nil))
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejected credential", func(t *testing.T) {
		app, m := newTestApp(t)

		m.tokens.EXPECT().
			Refresh(gomock.Any(), "stale-token").
			Return(nil, apperrors.ErrInvalidRefreshToken)

		req := httptest.NewRequest("POST", "/api/v1/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "stale-token"})

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	app, m := newTestApp(t)

	m.tokens.EXPECT().Revoke(gomock.Any(), "refresh-token").Return(nil)

	req := httptest.NewRequest("POST", "/api/v1/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "refresh-token"})

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	access := cookieByName(resp, "access_token")
	require.NotNil(t, access)
	assert.Empty(t, access.Value)

	refresh := cookieByName(resp, "refresh_token")
	require.NotNil(t, refresh)
	assert.Empty(t, refresh.Value)
}

func TestActivate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, m := newTestApp(t)

		user := storedUser(t, "password123")
		user.IsActive = false
		user.ActivationDate = nil

		gen := token.NewActivationGenerator("test-secret", 15, 4)
		tok := gen.Make(user)

		m.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
		m.repo.EXPECT().UpdateActivation(gomock.Any(), user).Return(nil)

		resp, err := app.Test(httptest.NewRequest("GET",
			"/api/v1/activate/"+base64RawURL(user.ID)+"/"+tok, nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("unknown account", func(t *testing.T) {
		app, m := newTestApp(t)

		id := uuid.NewString()
		m.repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

		resp, _ := app.Test(httptest.NewRequest("GET",
			"/api/v1/activate/"+base64RawURL(id)+"/some-token", nil))
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("already active", func(t *testing.T) {
		app, m := newTestApp(t)

		user := storedUser(t, "password123")
		m.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

		resp, _ := app.Test(httptest.NewRequest("GET",
			"/api/v1/activate/"+base64RawURL(user.ID)+"/some-token", nil))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("deactivated account", func(t *testing.T) {
		app, m := newTestApp(t)

		user := storedUser(t, "password123")
		user.IsActive = false
		deactivated := time.Now().Add(-time.Hour)
		user.DeactivationDate = &deactivated

		m.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

		resp, _ := app.Test(httptest.NewRequest("GET",
			"/api/v1/activate/"+base64RawURL(user.ID)+"/some-token", nil))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("answer does not reveal account existence", func(t *testing.T) {
		app, m := newTestApp(t)

		known := storedUser(t, "password123")
		m.repo.EXPECT().GetByEmail(gomock.Any(), known.Email).Return(known, nil)
		m.mailer.EXPECT().SendPasswordResetEmail(gomock.Any(), known.Email, gomock.Any()).Return(nil)
		m.repo.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(nil, nil)

		knownResp, err := app.Test(jsonRequest(t, "POST", "/api/v1/password-reset",
			dto.ResetPasswordInput{Email: known.Email}))
		require.NoError(t, err)
		unknownResp, err := app.Test(jsonRequest(t, "POST", "/api/v1/password-reset",
			dto.ResetPasswordInput{Email: "nobody@example.com"}))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, knownResp.StatusCode)
		assert.Equal(t, fiber.StatusOK, unknownResp.StatusCode)
		assert.Equal(t, decodeBody(t, knownResp), decodeBody(t, unknownResp))
	})
}

func TestConfirmResetPassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, m := newTestApp(t)

		user := storedUser(t, "old-password")
		gen := token.NewPasswordResetGenerator("test-secret", 15, 4)
		tok := gen.Make(user)

		m.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
		m.repo.EXPECT().UpdatePassword(gomock.Any(), user.ID, gomock.Any(), gomock.Any()).Return(nil)

		resp, _ := app.Test(jsonRequest(t, "POST", "/api/v1/password-reset/confirm",
			dto.ConfirmResetPasswordInput{
				UIDB64:      base64RawURL(user.ID),
				Token:       tok,
				NewPassword: "new-password-1",
			}))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		app, m := newTestApp(t)

		user := storedUser(t, "old-password")
		m.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

		resp, _ := app.Test(jsonRequest(t, "POST", "/api/v1/password-reset/confirm",
			dto.ConfirmResetPasswordInput{
				UIDB64:      base64RawURL(user.ID),
				Token:       "bogus",
				NewPassword: "new-password-1",
			}))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestProtectedEndpoints(t *testing.T) {
	claims := &service.JWTCustomClaims{
		UserID: uuid.NewString(),
		Email:  "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	t.Run("rejected without a credential", func(t *testing.T) {
		app, _ := newTestApp(t)

		resp, _ := app.Test(httptest.NewRequest("GET", "/api/v1/me", nil))
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejected with an invalid credential", func(t *testing.T) {
		app, m := newTestApp(t)

		m.tokens.EXPECT().
			VerifyAccessToken("garbage").
			Return(nil, apperrors.ErrInvalidToken)

		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "garbage"})

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("me with session cookie", func(t *testing.T) {
		app, m := newTestApp(t)

		user := storedUser(t, "password123")
		user.ID = claims.UserID

		m.tokens.EXPECT().VerifyAccessToken("valid-token").Return(claims, nil)
		m.repo.EXPECT().GetByID(gomock.Any(), claims.UserID).Return(user, nil)

		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "valid-token"})

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, user.Email, body["email"])
	})

	t.Run("me with bearer header", func(t *testing.T) {
		app, m := newTestApp(t)

		user := storedUser(t, "password123")
		user.ID = claims.UserID

		m.tokens.EXPECT().VerifyAccessToken("valid-token").Return(claims, nil)
		m.repo.EXPECT().GetByID(gomock.Any(), claims.UserID).Return(user, nil)

		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("change password", func(t *testing.T) {
		app, m := newTestApp(t)

		user := storedUser(t, "current-password")
		user.ID = claims.UserID

		m.tokens.EXPECT().VerifyAccessToken("valid-token").Return(claims, nil)
		m.repo.EXPECT().GetByID(gomock.Any(), claims.UserID).Return(user, nil)
		m.repo.EXPECT().UpdatePassword(gomock.Any(), user.ID, gomock.Any(), gomock.Any()).Return(nil)

		req := jsonRequest(t, "POST", "/api/v1/password-change", dto.ChangePasswordInput{
			CurrentPassword: "current-password",
			NewPassword:     "brand-new-password",
		})
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "valid-token"})

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("delete account clears the session", func(t *testing.T) {
		app, m := newTestApp(t)

		user := storedUser(t, "password123")
		user.ID = claims.UserID

		m.tokens.EXPECT().VerifyAccessToken("valid-token").Return(claims, nil)
		m.repo.EXPECT().GetByID(gomock.Any(), claims.UserID).Return(user, nil)
		m.repo.EXPECT().Delete(gomock.Any(), user.ID).Return(nil)

		req := jsonRequest(t, "POST", "/api/v1/account/delete", dto.DeleteAccountInput{
			Password: "password123",
		})
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "valid-token"})

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		access := cookieByName(resp, "access_token")
		require.NotNil(t, access)
		assert.Empty(t, access.Value)
	})
}
