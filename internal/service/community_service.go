package service

import (
	"context"
	"errors"
	"strings"

	"eduforums/internal/models"
	"eduforums/internal/repository"

	"gorm.io/gorm"
)

// CommunityService manages the Admin-owned community catalog.
type CommunityService struct {
	communityRepo repository.CommunityRepository
}

// NewCommunityService creates a CommunityService.
func NewCommunityService(communityRepo repository.CommunityRepository) *CommunityService {
	return &CommunityService{communityRepo: communityRepo}
}

// Create persists a new community. Name and description are both required.
func (s *CommunityService) Create(ctx context.Context, name, description string) (*models.Community, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" {
		return nil, models.NewValidationError("Name and description required")
	}

	community := &models.Community{
		Name:        name,
		Description: description,
	}
	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, err
	}
	return community, nil
}

// Get returns one community by id.
func (s *CommunityService) Get(ctx context.Context, id uint) (*models.Community, error) {
	community, err := s.communityRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Community")
	}
	if err != nil {
		return nil, err
	}
	return community, nil
}

// List returns all communities newest-first.
func (s *CommunityService) List(ctx context.Context) ([]*models.Community, error) {
	return s.communityRepo.List(ctx)
}

// Delete removes the community. Its posts are intentionally left in place.
func (s *CommunityService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.communityRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Community")
	}
	return nil
}
