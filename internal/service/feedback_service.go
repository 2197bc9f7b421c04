// Package service contains the application's core business logic.
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

// FeedbackService owns the feedback post lifecycle: creation (behind
// moderation), voting, starring, deletion, and thread summaries.
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	commentRepo  repository.CommentRepository
	gateway      assist.Gateway
}

// CreateFeedbackInput carries the fields of a new feedback post. StudentName,
// Standing, and Major are snapshots supplied by the authoring Student.
type CreateFeedbackInput struct {
	CommunityID uint
	StudentName string
	Standing    string
	Major       string
	Title       string
	Description string
}

// NewFeedbackService creates a FeedbackService.
func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	commentRepo repository.CommentRepository,
	gateway assist.Gateway,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		commentRepo:  commentRepo,
		gateway:      gateway,
	}
}

// Create moderates the description and persists the post. A flagged
// description rejects the post; a moderation transport failure blocks
// publication outright rather than defaulting to allow.
func (s *FeedbackService) Create(ctx context.Context, in CreateFeedbackInput) (*models.Feedback, error) {
	if strings.TrimSpace(in.StudentName) == "" ||
		strings.TrimSpace(in.Standing) == "" ||
		strings.TrimSpace(in.Major) == "" ||
		strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Description) == "" {
		return nil, models.NewValidationError("All fields required")
	}

	flagged, err := s.gateway.Moderate(ctx, "Description: "+in.Description)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if flagged {
		return nil, models.NewValidationError("Offensive Post Warning! Please revise your feedback.")
	}

	feedback := &models.Feedback{
		CommunityID: in.CommunityID,
		StudentName: in.StudentName,
		Standing:    in.Standing,
		Major:       in.Major,
		Title:       in.Title,
		Description: in.Description,
	}
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// Get returns a feedback post with its voter sets and comment count populated.
func (s *FeedbackService) Get(ctx context.Context, id uint) (*models.Feedback, error) {
	feedback, err := s.feedbackRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Feedback")
	}
	if err != nil {
		return nil, err
	}
	if err := s.fillCommentCount(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// ListByCommunity returns a community's posts newest-first.
func (s *FeedbackService) ListByCommunity(ctx context.Context, communityID uint) ([]*models.Feedback, error) {
	feedbacks, err := s.feedbackRepo.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}
	for _, feedback := range feedbacks {
		if err := s.fillCommentCount(ctx, feedback); err != nil {
			return nil, err
		}
	}
	return feedbacks, nil
}

func (s *FeedbackService) fillCommentCount(ctx context.Context, feedback *models.Feedback) error {
	count, err := s.commentRepo.CountByFeedback(ctx, feedback.ID)
	if err != nil {
		return err
	}
	feedback.CommentCount = int(count)
	return nil
}

// Delete removes the post. Comments referencing it are left orphaned.
func (s *FeedbackService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.feedbackRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Feedback")
	}
	return nil
}

// Vote records a first-time vote by the named identity. A second vote by the
// same identity, on either side, is rejected and leaves the counters alone.
func (s *FeedbackService) Vote(ctx context.Context, id uint, voterName string, voteType models.VoteType) error {
	err := s.feedbackRepo.Vote(ctx, id, voterName, voteType)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Feedback")
	}
	return err
}

// SetStarred idempotently stars or unstars the post.
func (s *FeedbackService) SetStarred(ctx context.Context, id uint, starred bool) error {
	err := s.feedbackRepo.SetStarred(ctx, id, starred)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Feedback")
	}
	return err
}

// Summarize reconstructs the thread oldest-first and asks the gateway for a
// one-sentence summary.
func (s *FeedbackService) Summarize(ctx context.Context, id uint) (string, error) {
	feedback, err := s.feedbackRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", models.NewNotFoundError("Feedback")
	}
	if err != nil {
		return "", err
	}

	comments, err := s.commentRepo.ListByFeedback(ctx, id)
	if err != nil {
		return "", err
	}

	thread := assist.Thread{
		Title:       feedback.Title,
		StudentName: feedback.StudentName,
		Standing:    feedback.Standing,
		Major:       feedback.Major,
		Description: feedback.Description,
		CreatedAt:   feedback.CreatedAt,
	}
	for _, c := range comments {
		thread.Comments = append(thread.Comments, assist.ThreadComment{
			CommenterName: c.CommenterName,
			CommentText:   c.CommentText,
			CreatedAt:     c.CreatedAt,
		})
	}

	summary, err := s.gateway.Summarize(ctx, thread)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return summary, nil
}
