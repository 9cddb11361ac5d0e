package handler

import (
	"aptitude-trainer/internal/domain"
	"aptitude-trainer/internal/dto"
	"aptitude-trainer/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account from the registration form.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	resp, err := h.authService.Register(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login verifies credentials and returns an access/refresh token pair.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	pair, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(pair)
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return domain.NewInvalidInputError("refresh_token is required")
	}

	pair, err := h.authService.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(pair)
}

// Logout revokes the presented refresh token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return domain.NewInvalidInputError("refresh_token is required")
	}

	if err := h.authService.Logout(c.Context(), req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "You have been logged out."})
}
