package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/session"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "postId" -> "post ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if strings.HasSuffix(param, "Id") {
		return strings.ToLower(param[:len(param)-2]) + " ID"
	}
	return param
}

// currentUserID returns the authenticated user's ID, or 0 for anonymous
// visitors.
func (s *Server) currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

func (s *Server) currentSessionID(c *fiber.Ctx) string {
	if sid, ok := c.Locals("sessionID").(string); ok {
		return sid
	}
	return ""
}

// flash queues a one-shot message for the caller's session. Anonymous
// visitors get a short-lived session on first flash so the message survives
// the redirect that follows.
func (s *Server) flash(c *fiber.Ctx, message string) {
	sid := s.currentSessionID(c)
	if sid == "" {
		var cookieValue string
		var err error
		sid, cookieValue, err = s.sessions.Issue(c.Context(), 0)
		if err != nil {
			middleware.Logger.ErrorContext(c.UserContext(), "failed to issue flash session", "error", err)
			return
		}
		s.setSessionCookie(c, cookieValue, session.AnonymousTTL)
		c.Locals("sessionID", sid)
	}

	if err := s.sessions.AddFlash(c.Context(), sid, message); err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to queue flash", "error", err)
	}
}

// popFlashes drains and returns the session's pending flash messages.
// Returns an empty slice (never nil) so JSON payloads render [].
func (s *Server) popFlashes(c *fiber.Ctx) []string {
	sid := s.currentSessionID(c)
	if sid == "" {
		return []string{}
	}

	flashes, err := s.sessions.PopFlashes(c.Context(), sid)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to pop flashes", "error", err)
		return []string{}
	}
	if flashes == nil {
		flashes = []string{}
	}
	return flashes
}

// establishSession logs the user in: any existing session is destroyed and a
// fresh one issued, so a pre-login session ID never survives authentication.
func (s *Server) establishSession(c *fiber.Ctx, userID uint) error {
	if old := s.currentSessionID(c); old != "" {
		if err := s.sessions.Destroy(c.Context(), old); err != nil {
			middleware.Logger.ErrorContext(c.UserContext(), "failed to destroy old session", "error", err)
		}
	}

	sid, cookieValue, err := s.sessions.Issue(c.Context(), userID)
	if err != nil {
		return err
	}

	s.setSessionCookie(c, cookieValue, session.SessionTTL)
	c.Locals("sessionID", sid)
	c.Locals("userID", userID)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)

	return nil
}

// clearSession logs the user out, removing the server-side record and the
// cookie. Safe to call for anonymous visitors.
func (s *Server) clearSession(c *fiber.Ctx) {
	if sid := s.currentSessionID(c); sid != "" {
		if err := s.sessions.Destroy(c.Context(), sid); err != nil {
			middleware.Logger.ErrorContext(c.UserContext(), "failed to destroy session", "error", err)
		}
	}
	s.expireSessionCookie(c)
	c.Locals("sessionID", nil)
	c.Locals("userID", nil)
}

func (s *Server) setSessionCookie(c *fiber.Ctx, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   s.config.Env == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) expireSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.Env == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// respondServiceError maps an application error onto the right HTTP status.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		case "FORBIDDEN":
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var user models.User
	if err := s.db.WithContext(ctx).Select("is_admin").First(&user, userID).Error; err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}
