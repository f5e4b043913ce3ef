package server

import (
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

type contactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// About serves the about page payload.
func (s *Server) About(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":    "about",
		"flashes": s.popFlashes(c),
	})
}

// ContactPage serves the contact form payload.
func (s *Server) ContactPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":    "contact",
		"flashes": s.popFlashes(c),
	})
}

// Contact accepts a contact form submission. There is no mail backend; the
// message lands in the structured log for the operator to read.
func (s *Server) Contact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if strings.TrimSpace(req.Message) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Message is required"))
	}

	middleware.Logger.InfoContext(c.UserContext(), "contact form submitted",
		"name", req.Name, "email", req.Email, "message", req.Message)

	s.flash(c, "Thanks for getting in touch!")
	return c.Redirect("/contact", fiber.StatusFound)
}
