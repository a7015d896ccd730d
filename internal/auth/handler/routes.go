package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	v1 := app.Group("/api/v1")

	v1.Post("/register", h.Register)
	v1.Post("/login", h.Login)

	// Protected routes: refresh is guarded by the refresh secret, the rest
	// by the access secret.
	v1.Post("/refresh", h.RequireRefreshToken, h.Refresh)
	v1.Post("/logout", h.RequireAccessToken, h.Logout)
	v1.Get("/users/me", h.RequireAccessToken, h.Me)
}
