// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"eduforums/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByFeedback(ctx context.Context, feedbackID uint) ([]*models.Comment, error)
	CountByFeedback(ctx context.Context, feedbackID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListByFeedback returns the comments of a feedback post oldest-first so the
// thread reads in the order it was written. Every consumer, including the
// summarizer, relies on this order.
func (r *commentRepository) ListByFeedback(ctx context.Context, feedbackID uint) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.WithContext(ctx).
		Where("feedback_id = ?", feedbackID).
		Order("created_at asc, id asc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountByFeedback(ctx context.Context, feedbackID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("feedback_id = ?", feedbackID).
		Count(&count).Error
	return count, err
}
