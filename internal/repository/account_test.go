package repository

import (
	"context"
	"testing"

	"eduforums/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	student := &models.Account{
		Name:         "Jordan Reyes",
		PasswordHash: "hash",
		Role:         models.RoleStudent,
	}
	require.NoError(t, repo.Create(ctx, student))

	t.Run("FoundByNameAndRole", func(t *testing.T) {
		fetched, err := repo.GetByNameAndRole(ctx, "Jordan Reyes", models.RoleStudent)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, student.ID, fetched.ID)
	})

	t.Run("RoleMismatchIsAbsence", func(t *testing.T) {
		fetched, err := repo.GetByNameAndRole(ctx, "Jordan Reyes", models.RoleAdmin)
		require.NoError(t, err)
		assert.Nil(t, fetched)
	})

	t.Run("SameNameOtherRoleAllowed", func(t *testing.T) {
		admin := &models.Account{
			Name:         "Jordan Reyes",
			PasswordHash: "hash",
			Role:         models.RoleAdmin,
		}
		assert.NoError(t, repo.Create(ctx, admin))
	})

	t.Run("DuplicateNameAndRoleRejected", func(t *testing.T) {
		dup := &models.Account{
			Name:         "Jordan Reyes",
			PasswordHash: "hash",
			Role:         models.RoleStudent,
		}
		assert.Error(t, repo.Create(ctx, dup))
	})
}
