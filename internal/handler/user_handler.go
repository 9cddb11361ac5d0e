package handler

import (
	"aptitude-trainer/internal/domain"
	"aptitude-trainer/internal/dto"
	"aptitude-trainer/internal/middleware"
	"aptitude-trainer/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetMyProfile retrieves the profile of the currently authenticated user.
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code:    "INVALID_USER_CONTEXT",
			Message: "User ID not found in context",
			Status:  fiber.StatusUnauthorized,
		})
	}

	profile, err := h.userService.GetUserProfile(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// UpdateMyProfile edits the authenticated user's email and display name.
func (h *UserHandler) UpdateMyProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code:    "INVALID_USER_CONTEXT",
			Message: "User ID not found in context",
			Status:  fiber.StatusUnauthorized,
		})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	profile, err := h.userService.UpdateProfile(c.Context(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// GetMyDashboard returns the authenticated user's aggregated progress.
func (h *UserHandler) GetMyDashboard(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(middleware.ErrorResponse{
			Code:    "INVALID_USER_CONTEXT",
			Message: "User ID not found in context",
			Status:  fiber.StatusUnauthorized,
		})
	}

	dashboard, err := h.userService.GetDashboard(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dashboard)
}
