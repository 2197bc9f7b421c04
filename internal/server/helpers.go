package server

import (
	"context"
	"errors"
	"time"

	"eduforums/internal/middleware"
	"eduforums/internal/models"
	"eduforums/internal/session"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts the :id route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentIdentity resolves the session cookie to an identity, if any.
// On success the identity is mirrored into Fiber locals and the user context
// so the structured logger can attribute the request.
func (s *Server) currentIdentity(c *fiber.Ctx) (*session.Identity, bool) {
	if s.sessions == nil {
		return nil, false
	}

	token := c.Cookies(session.CookieName)
	if token == "" {
		return nil, false
	}

	identity, err := s.sessions.Lookup(c.Context(), token)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			middleware.Logger.WarnContext(c.UserContext(), "session lookup failed",
				"error", err.Error())
		}
		return nil, false
	}

	c.Locals("sessionName", identity.Name)
	c.Locals("sessionRole", string(identity.Role))
	ctx := context.WithValue(c.UserContext(), middleware.UserNameKey, identity.Name)
	ctx = context.WithValue(ctx, middleware.UserRoleKey, string(identity.Role))
	c.SetUserContext(ctx)

	return &identity, true
}

// RequireAuth returns middleware that rejects requests without a valid
// session. Guarded forum mutations respond 403 when anonymous.
func (s *Server) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := s.currentIdentity(c); !ok {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Authentication required"))
		}
		return c.Next()
	}
}

// RequireRole returns middleware that rejects requests whose session is
// missing or bound to a different role.
func (s *Server) RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := s.currentIdentity(c)
		if !ok || identity.Role != role {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError(string(role)+" access required"))
		}
		return c.Next()
	}
}

// sessionIdentity returns the identity placed in locals by RequireAuth or
// RequireRole. Only call from handlers behind one of those guards.
func sessionIdentity(c *fiber.Ctx) session.Identity {
	name, _ := c.Locals("sessionName").(string)
	role, _ := c.Locals("sessionRole").(string)
	return session.Identity{Name: name, Role: models.Role(role)}
}

// issueSessionCookie creates a server-side session and sets the cookie.
func (s *Server) issueSessionCookie(c *fiber.Ctx, name string, role models.Role) error {
	if s.sessions == nil {
		return errors.New("session store unavailable")
	}

	token, err := s.sessions.Create(c.Context(), session.Identity{Name: name, Role: role})
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessions.TTL() / time.Second),
		HTTPOnly: true,
		Secure:   s.config.Env == "production" || s.config.Env == "prod",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// clearSessionCookie expires the session cookie on the client.
func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
	})
}

// respondServiceError maps service-layer errors onto HTTP statuses.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := fiber.StatusInternalServerError
		switch appErr.Code {
		case "VALIDATION_ERROR":
			status = fiber.StatusBadRequest
		case "NOT_FOUND":
			status = fiber.StatusNotFound
		case "UNAUTHORIZED":
			status = fiber.StatusUnauthorized
		case "FORBIDDEN":
			status = fiber.StatusForbidden
		case "CONFLICT":
			status = fiber.StatusConflict
		}
		return models.RespondWithError(c, status, appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}
