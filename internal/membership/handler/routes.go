package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("api/v1/register", h.Register)
	app.Post("api/v1/login", h.Login)
	app.Post("api/v1/refresh", h.Refresh)
	app.Post("api/v1/logout", h.Logout)
	app.Get("api/v1/activate/:uid/:token", h.Activate)
	app.Post("api/v1/password-reset", h.ResetPassword)
	app.Post("api/v1/password-reset/confirm", h.ConfirmResetPassword)

	// Endpoints behind a live session
	account := app.Group("/api/v1", h.RequireAuth())
	account.Get("/me", h.Me)
	account.Post("/password-change", h.ChangePassword)
	account.Post("/account/delete", h.DeleteAccount)
}
