package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/marcingarbarczyk/membership-service/internal/errors"
	"github.com/marcingarbarczyk/membership-service/internal/membership/dto"
	"github.com/marcingarbarczyk/membership-service/internal/membership/service"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"

	registrationMessage  = "check your inbox for the activation link"
	passwordResetMessage = "if the account exists, a reset link has been sent"
)

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
	validate     *validator.Validate

	// secureCookies is off in dev so the session survives plain http.
	secureCookies bool
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		tokenService:  tokenService,
		validate:      validator.New(),
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	if _, err := h.userService.Register(c.Context(), input); err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": registrationMessage,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	// Capture metadata
	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	result, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return h.serviceError(c, err)
	}

	h.setSessionCookie(c, accessTokenCookie, result.Tokens.AccessToken, result.Tokens.AccessExpiresAt)
	h.setSessionCookie(c, refreshTokenCookie, result.Tokens.RefreshToken, result.Tokens.RefreshExpiresAt)

	return c.Status(fiber.StatusOK).JSON(dto.LoginOutput{
		User:               dto.NewUserOutput(result.User),
		AccessTokenExpiry:  result.Tokens.AccessExpiresAt.Unix(),
		RefreshTokenExpiry: result.Tokens.RefreshExpiresAt.Unix(),
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	result, err := h.userService.Refresh(c.Context(), c.Cookies(refreshTokenCookie))
	if err != nil {
		return h.serviceError(c, err)
	}

	h.setSessionCookie(c, accessTokenCookie, result.AccessToken, result.AccessExpiresAt)

	return c.Status(fiber.StatusOK).JSON(dto.RefreshOutput{
		Message:            "session refreshed",
		AccessTokenExpiry:  result.AccessExpiresAt.Unix(),
		RefreshTokenExpiry: result.RefreshExpiresAt.Unix(),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.userService.Logout(c.Context(), c.Cookies(refreshTokenCookie)); err != nil {
		return h.serviceError(c, err)
	}

	h.clearSessionCookies(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "logged out",
	})
}

func (h *AuthHandler) Activate(c *fiber.Ctx) error {
	user, err := h.userService.Activate(c.Context(), c.Params("uid"), c.Params("token"))
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "account activated",
		"user":    dto.NewUserOutput(user),
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	if err := h.userService.RequestPasswordReset(c.Context(), input.Email); err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": passwordResetMessage,
	})
}

func (h *AuthHandler) ConfirmResetPassword(c *fiber.Ctx) error {
	var input dto.ConfirmResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	if err := h.userService.ConfirmPasswordReset(c.Context(), input); err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "password has been reset",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.userService.CurrentUser(c.Context(), currentUserID(c))
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutput(user))
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input dto.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	if err := h.userService.ChangePassword(c.Context(), currentUserID(c), input); err != nil {
		return h.serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "password changed",
	})
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	var input dto.DeleteAccountInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	if err := h.userService.DeleteAccount(c.Context(), currentUserID(c), input.Password); err != nil {
		return h.serviceError(c, err)
	}

	h.clearSessionCookies(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "account deleted",
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, name, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}

func (h *AuthHandler) clearSessionCookies(c *fiber.Ctx) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Unix(0, 0),
			Path:     "/",
			HTTPOnly: true,
			Secure:   h.secureCookies,
			SameSite: fiber.CookieSameSiteNoneMode,
		})
	}
}

func (h *AuthHandler) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrTooManyLoginAttempts):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":               err.Error(),
			"retry_after_minutes": int(h.userService.RetryAfter().Minutes()),
		})
	case errors.Is(err, apperrors.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAccountDeactivated):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperrors.ErrRefreshTokenMissing),
		errors.Is(err, apperrors.ErrInvalidRefreshToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrEmailAlreadyInUse),
		errors.Is(err, apperrors.ErrAlreadyActive),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrPasswordTooShort):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}
