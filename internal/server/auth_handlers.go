package server

import (
	"errors"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// RegisterPage serves the registration page payload.
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":    "register",
		"flashes": s.popFlashes(c),
	})
}

// Register handles the registration form. A duplicate email sends the
// visitor to the login page with the site's long-standing flash message.
// Successful signup logs the new user straight in.
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			s.flash(c, "You've already signed up with that email, log in instead!")
			return c.Redirect("/login", fiber.StatusFound)
		}
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if err := s.establishSession(c, user.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		"user_id", user.ID, "email", user.Email)

	return c.Redirect("/", fiber.StatusFound)
}

// LoginPage serves the login page payload.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":    "login",
		"flashes": s.popFlashes(c),
	})
}

// Login handles the login form. Failed attempts bounce back to the login
// page with a flash saying which part was wrong; the two messages are kept
// distinct because the site has always phrased them that way.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnknownEmail):
			s.flash(c, "That email does not exist, please try again.")
			return c.Redirect("/login", fiber.StatusFound)
		case errors.Is(err, models.ErrWrongPassword):
			s.flash(c, "Password incorrect, please try again.")
			return c.Redirect("/login", fiber.StatusFound)
		default:
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}

	if err := s.establishSession(c, user.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user logged in", "user_id", user.ID)

	return c.Redirect("/", fiber.StatusFound)
}

// Logout ends the session and returns the visitor to the home page.
// Idempotent: logging out while logged out is a no-op redirect.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearSession(c)
	return c.Redirect("/", fiber.StatusFound)
}
