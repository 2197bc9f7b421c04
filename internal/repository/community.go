package repository

import (
	"context"

	"eduforums/internal/models"

	"gorm.io/gorm"
)

// CommunityRepository defines interface for community operations
type CommunityRepository interface {
	Create(ctx context.Context, community *models.Community) error
	GetByID(ctx context.Context, id uint) (*models.Community, error)
	List(ctx context.Context) ([]*models.Community, error)
	// Delete removes the community and reports whether a row was deleted.
	// It deliberately does not cascade to the community's feedbacks.
	Delete(ctx context.Context, id uint) (bool, error)
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	return r.db.WithContext(ctx).Create(community).Error
}

func (r *communityRepository) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).First(&community, id).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) List(ctx context.Context) ([]*models.Community, error) {
	communities := []*models.Community{}
	err := r.db.WithContext(ctx).
		Order("created_at desc, id desc").
		Find(&communities).Error
	return communities, err
}

func (r *communityRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Community{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
