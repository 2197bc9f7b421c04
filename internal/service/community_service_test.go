package service

import (
	"context"
	"testing"

	"eduforums/internal/models"
	"eduforums/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunityService(t *testing.T) {
	ctx := context.Background()
	svc := NewCommunityService(repository.NewCommunityRepository(newServiceTestDB(t)))

	t.Run("CreateRequiresFields", func(t *testing.T) {
		_, err := svc.Create(ctx, "", "desc")
		assert.Error(t, err)

		_, err = svc.Create(ctx, "Course Feedback", "  ")
		assert.Error(t, err)
	})

	t.Run("CreateGetDelete", func(t *testing.T) {
		community, err := svc.Create(ctx, "Course Feedback", "Feedback on courses.")
		require.NoError(t, err)
		assert.NotZero(t, community.ID)

		fetched, err := svc.Get(ctx, community.ID)
		require.NoError(t, err)
		assert.Equal(t, "Course Feedback", fetched.Name)

		require.NoError(t, svc.Delete(ctx, community.ID))

		var appErr *models.AppError
		err = svc.Delete(ctx, community.ID)
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)

		_, err = svc.Get(ctx, community.ID)
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}
