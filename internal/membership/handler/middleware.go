package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const userIDLocal = "userID"

// RequireAuth admits requests carrying a valid access credential, either in
// the session cookie or as a bearer header, and stashes the user id for the
// handlers behind it.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(accessTokenCookie)
		if tokenString == "" {
			authHeader := c.Get(fiber.HeaderAuthorization)
			if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				tokenString = after
			}
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing access token",
			})
		}

		claims, err := h.tokenService.VerifyAccessToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid access token",
			})
		}

		c.Locals(userIDLocal, claims.UserID)

		return c.Next()
	}
}

func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(userIDLocal).(string)
	return userID
}
