package server

import (
	"eduforums/internal/models"
	"eduforums/internal/observability"
	"eduforums/internal/session"

	"github.com/gofiber/fiber/v2"
)

type credentialsRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// StudentSignup handles POST /api/student-signup
func (s *Server) StudentSignup(c *fiber.Ctx) error {
	return s.signup(c, models.RoleStudent)
}

// AdminSignup handles POST /api/admin-signup
func (s *Server) AdminSignup(c *fiber.Ctx) error {
	return s.signup(c, models.RoleAdmin)
}

// signup registers an account and establishes a session in one step, so a
// fresh signup is immediately logged in.
func (s *Server) signup(c *fiber.Ctx, role models.Role) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	account, err := s.accountService.Signup(c.Context(), req.Name, req.Password, role)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.issueSessionCookie(c, account.Name, account.Role); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	observability.SessionsEstablished.WithLabelValues("signup").Inc()

	return c.Status(fiber.StatusCreated).JSON(account)
}

// StudentLogin handles POST /api/login-student
func (s *Server) StudentLogin(c *fiber.Ctx) error {
	return s.login(c, models.RoleStudent)
}

// AdminLogin handles POST /api/login-admin
func (s *Server) AdminLogin(c *fiber.Ctx) error {
	return s.login(c, models.RoleAdmin)
}

func (s *Server) login(c *fiber.Ctx, role models.Role) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	account, err := s.accountService.Login(c.Context(), req.Name, req.Password, role)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.issueSessionCookie(c, account.Name, account.Role); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	observability.SessionsEstablished.WithLabelValues("login").Inc()

	return c.JSON(account)
}

// Logout handles POST /api/logout. Logging out without a live session is an
// error so a stale client learns its cookie is gone.
func (s *Server) Logout(c *fiber.Ctx) error {
	token := c.Cookies(session.CookieName)
	if token == "" || s.sessions == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No active session"))
	}

	if err := s.sessions.Destroy(c.Context(), token); err != nil {
		clearSessionCookie(c)
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No active session"))
	}

	clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// CheckUserRole handles GET /api/check-user-role
func (s *Server) CheckUserRole(c *fiber.Ctx) error {
	identity, ok := s.currentIdentity(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Not logged in"))
	}

	return c.JSON(fiber.Map{
		"name":     identity.Name,
		"userType": identity.Role,
	})
}

// Me handles GET /api/me
func (s *Server) Me(c *fiber.Ctx) error {
	identity, ok := s.currentIdentity(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Not logged in"))
	}

	return c.JSON(fiber.Map{
		"name":     identity.Name,
		"userType": identity.Role,
	})
}
