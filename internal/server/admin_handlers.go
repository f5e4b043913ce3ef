package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListUsers returns every account for the admin dashboard.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	users, err := s.userRepo.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"users":   users,
		"flashes": s.popFlashes(c),
	})
}

// PromoteUser grants admin rights to an account.
func (s *Server) PromoteUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.userRepo.SetAdmin(c.Context(), userID, true); err != nil {
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user promoted to admin", "target_user_id", userID)

	return c.JSON(fiber.Map{"id": userID, "is_admin": true})
}

// DemoteUser revokes admin rights. Admins cannot demote themselves, so the
// site can never end up with zero admins by accident.
func (s *Server) DemoteUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if userID == s.currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot demote yourself"))
	}

	if err := s.userRepo.SetAdmin(c.Context(), userID, false); err != nil {
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user demoted from admin", "target_user_id", userID)

	return c.JSON(fiber.Map{"id": userID, "is_admin": false})
}
