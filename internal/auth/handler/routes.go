package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("/register", h.Register)
	app.Get("/verify-email/:token", h.VerifyEmail)
	app.Post("/resend-verification", h.ResendVerification)
	app.Post("/login", h.Login)
	app.Post("/refresh-token", h.Refresh)
	app.Post("/logout", h.Logout)
	app.Post("/forgot-password", h.ForgotPassword)
	app.Post("/reset-password/:token", h.ResetPassword)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
}
