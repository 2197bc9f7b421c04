package server

import (
	"eduforums/internal/cache"
	"eduforums/internal/models"
	"eduforums/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateFeedback handles POST /api/communities/:id/feedbacks
func (s *Server) CreateFeedback(c *fiber.Ctx) error {
	communityID, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		StudentName string `json:"studentName"`
		Standing    string `json:"standing"`
		Major       string `json:"major"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	feedback, err := s.feedbackService.Create(c.Context(), service.CreateFeedbackInput{
		CommunityID: communityID,
		StudentName: req.StudentName,
		Standing:    req.Standing,
		Major:       req.Major,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(feedback)
}

// GetCommunityFeedbacks handles GET /api/communities/:id/feedbacks
func (s *Server) GetCommunityFeedbacks(c *fiber.Ctx) error {
	communityID, err := s.parseID(c)
	if err != nil {
		return nil
	}

	feedbacks, err := s.feedbackService.ListByCommunity(c.Context(), communityID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"feedbacks": feedbacks})
}

// GetFeedback handles GET /api/feedbacks/:id
func (s *Server) GetFeedback(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	feedback, err := s.feedbackService.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"feedback": feedback})
}

// DeleteFeedback handles DELETE /api/feedbacks/:id
func (s *Server) DeleteFeedback(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.feedbackService.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Feedback deleted"})
}

// UpvoteFeedback handles POST /api/feedbacks/:id/upvote
func (s *Server) UpvoteFeedback(c *fiber.Ctx) error {
	return s.vote(c, models.VoteUp)
}

// DownvoteFeedback handles POST /api/feedbacks/:id/downvote
func (s *Server) DownvoteFeedback(c *fiber.Ctx) error {
	return s.vote(c, models.VoteDown)
}

// vote records a session-attributed vote and returns the refreshed post.
func (s *Server) vote(c *fiber.Ctx, voteType models.VoteType) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	identity := sessionIdentity(c)
	if err := s.feedbackService.Vote(c.Context(), id, identity.Name, voteType); err != nil {
		return respondServiceError(c, err)
	}

	feedback, err := s.feedbackService.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(feedback)
}

// StarFeedback handles POST /api/feedbacks/:id/star
func (s *Server) StarFeedback(c *fiber.Ctx) error {
	return s.setStarred(c, true)
}

// UnstarFeedback handles POST /api/feedbacks/:id/unstar
func (s *Server) UnstarFeedback(c *fiber.Ctx) error {
	return s.setStarred(c, false)
}

func (s *Server) setStarred(c *fiber.Ctx, starred bool) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.feedbackService.SetStarred(c.Context(), id, starred); err != nil {
		return respondServiceError(c, err)
	}

	feedback, err := s.feedbackService.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(feedback)
}

// SummarizeFeedback handles GET /api/feedbacks/:id/summary
func (s *Server) SummarizeFeedback(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if summary, ok := cache.GetSummary(c.Context(), s.redis, id); ok {
		return c.JSON(fiber.Map{"summary": summary})
	}

	summary, err := s.feedbackService.Summarize(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	cache.SetSummary(c.Context(), s.redis, id, summary)

	return c.JSON(fiber.Map{"summary": summary})
}
