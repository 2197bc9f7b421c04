package server

import (
	"eduforums/internal/cache"
	"eduforums/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/feedbacks/:id/comments. The commenter name
// comes from the session, never the request body.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	feedbackID, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		CommentText string `json:"commentText"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	identity := sessionIdentity(c)
	comment, err := s.commentService.Add(c.Context(), feedbackID, identity.Name, req.CommentText)
	if err != nil {
		return respondServiceError(c, err)
	}

	// The thread changed, so any cached summary is stale.
	cache.InvalidateSummary(c.Context(), s.redis, feedbackID)

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/feedbacks/:id/comments, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	feedbackID, err := s.parseID(c)
	if err != nil {
		return nil
	}

	comments, err := s.commentService.List(c.Context(), feedbackID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"comments": comments})
}
