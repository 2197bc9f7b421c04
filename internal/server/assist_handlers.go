package server

import (
	"strings"

	"eduforums/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ClassifySentiment handles POST /api/sentiment. The label is always one of
// the canonical three; classifier trouble degrades to Constructive upstream.
func (s *Server) ClassifySentiment(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Text) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Text required"))
	}

	sentiment, err := s.gateway.ClassifySentiment(c.Context(), req.Text)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"sentiment": sentiment})
}

// ModerateText handles POST /api/moderation
func (s *Server) ModerateText(c *fiber.Ctx) error {
	var req struct {
		Input string `json:"input"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Input) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Input required"))
	}

	flagged, err := s.gateway.Moderate(c.Context(), req.Input)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"flagged": flagged})
}
