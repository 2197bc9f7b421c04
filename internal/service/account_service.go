package service

import (
	"context"

	"eduforums/internal/models"
	"eduforums/internal/repository"
	"eduforums/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AccountService handles signup and credential checks for Students and Admins.
type AccountService struct {
	accountRepo repository.AccountRepository
}

// NewAccountService creates an AccountService.
func NewAccountService(accountRepo repository.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// Signup registers a new account under the given role. The name must be
// unused within that role; the same name may exist under the other role.
func (s *AccountService) Signup(ctx context.Context, name, password string, role models.Role) (*models.Account, error) {
	if err := validation.ValidateCredentials(name, password); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.GetByNameAndRole(ctx, name, role)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	account := &models.Account{
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Login verifies the name/password pair against the role's accounts. A
// missing account and a wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, name, password string, role models.Role) (*models.Account, error) {
	account, err := s.accountRepo.GetByNameAndRole(ctx, name, role)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return account, nil
}
