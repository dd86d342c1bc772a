package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/myauth/auth-service/internal/auth/dto"
	"github.com/myauth/auth-service/internal/auth/service"
	autherror "github.com/myauth/auth-service/internal/errors"
	"github.com/myauth/auth-service/pkg/constant"
)

type AuthHandler struct {
	userService         *service.UserService
	verificationService *service.VerificationService
	accessTokenTTL      time.Duration
	refreshTokenTTL     time.Duration
	secureCookies       bool
	logger              *slog.Logger
}

func NewAuthHandler(userService *service.UserService, verificationService *service.VerificationService, accessTTL, refreshTTL time.Duration, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService:         userService,
		verificationService: verificationService,
		accessTokenTTL:      accessTTL,
		refreshTokenTTL:     refreshTTL,
		secureCookies:       secureCookies,
		logger:              logger,
	}
}

func (h *AuthHandler) internalError(c *fiber.Ctx, op string, err error) error {
	h.logger.Error(op, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *AuthHandler) clearTokenCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   -1,
	})
}

// refreshTokenFrom prefers the cookie and falls back to the JSON body.
func refreshTokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies(constant.RefreshTokenCookie); token != "" {
		return token
	}

	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return ""
	}
	return input.RefreshToken
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	user, err := h.verificationService.Register(c.Context(), input)
	if err != nil {
		if ce, ok := autherror.AsConflict(err); ok {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": ce.Error(),
				"field": ce.Field,
			})
		}
		if errors.Is(err, autherror.ErrPasswordTooShort) || errors.Is(err, autherror.ErrInvalidDateOfBirth) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return h.internalError(c, "register", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      user.ID,
		"email":   user.Email,
		"message": "registration successful, check your email to verify your account",
	})
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")

	err := h.verificationService.VerifyEmail(c.Context(), token)
	if err != nil {
		if errors.Is(err, autherror.ErrInvalidToken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid or expired verification link",
			})
		}
		if errors.Is(err, autherror.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		}
		return h.internalError(c, "verify email", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "email verified successfully",
	})
}

func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var input dto.EmailInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	if err := h.verificationService.ResendVerification(c.Context(), input.Email); err != nil {
		return h.internalError(c, "resend verification", err)
	}

	// Same response whether or not the account exists.
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "if the account exists and is unverified, a verification email has been sent",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	tokenPair, err := h.userService.Login(c.Context(), input)
	if err != nil {
		if errors.Is(err, autherror.ErrAccountNotVerified) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "please verify your email before logging in",
			})
		}
		if errors.Is(err, autherror.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid credentials",
			})
		}
		return h.internalError(c, "login", err)
	}

	h.setTokenCookie(c, constant.AccessTokenCookie, tokenPair.AccessToken, h.accessTokenTTL)
	h.setTokenCookie(c, constant.RefreshTokenCookie, tokenPair.RefreshToken, h.refreshTokenTTL)

	return c.Status(fiber.StatusOK).JSON(tokenPair)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := refreshTokenFrom(c)

	accessToken, err := h.userService.Refresh(c.Context(), token)
	if err != nil {
		if errors.Is(err, autherror.ErrRefreshTokenRevoked) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
		if errors.Is(err, autherror.ErrInvalidToken) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "invalid or expired refresh token",
			})
		}
		return h.internalError(c, "refresh", err)
	}

	h.setTokenCookie(c, constant.AccessTokenCookie, accessToken, h.accessTokenTTL)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"accessToken": accessToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := refreshTokenFrom(c)

	if err := h.userService.Logout(c.Context(), token); err != nil {
		return h.internalError(c, "logout", err)
	}

	h.clearTokenCookie(c, constant.AccessTokenCookie)
	h.clearTokenCookie(c, constant.RefreshTokenCookie)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "logged out successfully",
	})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input dto.EmailInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	if err := h.verificationService.ForgotPassword(c.Context(), input.Email); err != nil {
		return h.internalError(c, "forgot password", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "if the account exists, a password reset email has been sent",
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	err := h.verificationService.ResetPassword(c.Context(), c.Params("token"), input.Password)
	if err != nil {
		if errors.Is(err, autherror.ErrInvalidToken) || errors.Is(err, autherror.ErrPasswordTooShort) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if errors.Is(err, autherror.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		}
		return h.internalError(c, "reset password", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "password reset successfully, you can now log in",
	})
}
