package repository

import (
	"context"
	"errors"

	"eduforums/internal/models"

	"gorm.io/gorm"
)

// AccountRepository defines interface for account operations
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	// GetByNameAndRole returns (nil, nil) when no account matches, so callers
	// can distinguish "absent" from a store failure.
	GetByNameAndRole(ctx context.Context, name string, role models.Role) (*models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepository) GetByNameAndRole(ctx context.Context, name string, role models.Role) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("name = ? AND role = ?", name, role).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
