package repository

import (
	"context"

	"eduforums/internal/models"
	"eduforums/internal/observability"

	"gorm.io/gorm"
)

// FeedbackRepository defines interface for feedback post operations
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByID(ctx context.Context, id uint) (*models.Feedback, error)
	ListByCommunity(ctx context.Context, communityID uint) ([]*models.Feedback, error)
	// Delete removes the feedback and its vote rows; comments are left in
	// place. Reports whether a row was deleted.
	Delete(ctx context.Context, id uint) (bool, error)
	// Vote casts a first-time vote for the identity. Returns
	// models.ErrAlreadyVoted if the identity's name already appears in
	// either voter set; the membership check, counter increment, and vote
	// insert run in a single transaction.
	Vote(ctx context.Context, id uint, voterName string, voteType models.VoteType) error
	// SetStarred idempotently sets the starred flag.
	SetStarred(ctx context.Context, id uint, starred bool) error
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return err
	}
	feedback.Upvoters = []string{}
	feedback.Downvoters = []string{}
	return nil
}

func (r *feedbackRepository) GetByID(ctx context.Context, id uint) (*models.Feedback, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetByID", "feedbacks")
	defer span.End()

	var feedback models.Feedback
	if err := r.db.WithContext(ctx).First(&feedback, id).Error; err != nil {
		return nil, err
	}
	if err := r.populateVoters(ctx, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) ListByCommunity(ctx context.Context, communityID uint) ([]*models.Feedback, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "ListByCommunity", "feedbacks")
	defer span.End()

	feedbacks := []*models.Feedback{}
	err := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("created_at desc, id desc").
		Find(&feedbacks).Error
	if err != nil {
		return nil, err
	}
	if len(feedbacks) == 0 {
		return feedbacks, nil
	}

	ids := make([]uint, 0, len(feedbacks))
	byID := make(map[uint]*models.Feedback, len(feedbacks))
	for _, fb := range feedbacks {
		fb.Upvoters = []string{}
		fb.Downvoters = []string{}
		ids = append(ids, fb.ID)
		byID[fb.ID] = fb
	}

	var votes []models.Vote
	if err := r.db.WithContext(ctx).Where("feedback_id IN ?", ids).Find(&votes).Error; err != nil {
		return nil, err
	}
	for _, v := range votes {
		fb := byID[v.FeedbackID]
		if fb == nil {
			continue
		}
		if v.Type == models.VoteUp {
			fb.Upvoters = append(fb.Upvoters, v.VoterName)
		} else {
			fb.Downvoters = append(fb.Downvoters, v.VoterName)
		}
	}
	return feedbacks, nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Feedback{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		if !deleted {
			return nil
		}
		// Vote rows are an internal normalization of the post's voter sets,
		// so they go with the post. Comments intentionally survive.
		return tx.Where("feedback_id = ?", id).Delete(&models.Vote{}).Error
	})
	return deleted, err
}

func (r *feedbackRepository) Vote(ctx context.Context, id uint, voterName string, voteType models.VoteType) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var feedback models.Feedback
		if err := tx.First(&feedback, id).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Vote{}).
			Where("feedback_id = ? AND voter_name = ?", id, voterName).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return models.ErrAlreadyVoted
		}

		if err := tx.Create(&models.Vote{
			FeedbackID: id,
			VoterName:  voterName,
			Type:       voteType,
		}).Error; err != nil {
			return err
		}

		column := "upvotes"
		if voteType == models.VoteDown {
			column = "downvotes"
		}
		return tx.Model(&models.Feedback{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + 1")).Error
	})
}

func (r *feedbackRepository) SetStarred(ctx context.Context, id uint, starred bool) error {
	var feedback models.Feedback
	if err := r.db.WithContext(ctx).First(&feedback, id).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("id = ?", id).
		UpdateColumn("starred", starred).Error
}

func (r *feedbackRepository) populateVoters(ctx context.Context, feedback *models.Feedback) error {
	feedback.Upvoters = []string{}
	feedback.Downvoters = []string{}

	var votes []models.Vote
	if err := r.db.WithContext(ctx).Where("feedback_id = ?", feedback.ID).Find(&votes).Error; err != nil {
		return err
	}
	for _, v := range votes {
		if v.Type == models.VoteUp {
			feedback.Upvoters = append(feedback.Upvoters, v.VoterName)
		} else {
			feedback.Downvoters = append(feedback.Downvoters, v.VoterName)
		}
	}
	return nil
}
