package service

import (
	"context"
	"errors"
	"strings"

	"eduforums/internal/assist"
	"eduforums/internal/models"
	"eduforums/internal/repository"

	"gorm.io/gorm"
)

// CommentService moderates and persists comments under feedback posts.
type CommentService struct {
	commentRepo  repository.CommentRepository
	feedbackRepo repository.FeedbackRepository
	gateway      assist.Gateway
}

// NewCommentService creates a CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	feedbackRepo repository.FeedbackRepository,
	gateway assist.Gateway,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		feedbackRepo: feedbackRepo,
		gateway:      gateway,
	}
}

// Add moderates the text and appends a comment to the post. Blank text is
// rejected before the moderation call is made.
func (s *CommentService) Add(ctx context.Context, feedbackID uint, commenterName, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Comment text required")
	}

	if _, err := s.feedbackRepo.GetByID(ctx, feedbackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Feedback")
		}
		return nil, err
	}

	flagged, err := s.gateway.Moderate(ctx, text)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if flagged {
		return nil, models.NewValidationError("Offensive Comment Warning! Please Revise the Comment")
	}

	comment := &models.Comment{
		FeedbackID:    feedbackID,
		CommenterName: commenterName,
		CommentText:   text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// List returns a post's comments oldest-first. A post with no comments, or a
// deleted post, yields an empty list.
func (s *CommentService) List(ctx context.Context, feedbackID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByFeedback(ctx, feedbackID)
}
