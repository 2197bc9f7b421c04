package service

import (
	"context"
	"errors"
	"testing"

	"eduforums/internal/models"
	"eduforums/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCommentService(t *testing.T) (*CommentService, *MockGateway, *gorm.DB) {
	t.Helper()

	db := newServiceTestDB(t)
	gateway := new(MockGateway)
	svc := NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewFeedbackRepository(db),
		gateway,
	)
	return svc, gateway, db
}

func seedFeedback(t *testing.T, db *gorm.DB) *models.Feedback {
	t.Helper()

	feedback := &models.Feedback{
		CommunityID: 1,
		StudentName: "Jordan Reyes",
		Standing:    "Junior",
		Major:       "Computer Science",
		Title:       "More evening lab hours",
		Description: "The labs close too early.",
	}
	require.NoError(t, db.Create(feedback).Error)
	return feedback
}

func TestCommentService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, gateway, db := newCommentService(t)
		feedback := seedFeedback(t, db)
		gateway.On("Moderate", mock.Anything, "Agreed, 6pm is rough.").Return(false, nil)

		comment, err := svc.Add(ctx, feedback.ID, "Priya Nair", "Agreed, 6pm is rough.")
		require.NoError(t, err)
		assert.NotZero(t, comment.ID)
		assert.Equal(t, "Priya Nair", comment.CommenterName)
	})

	t.Run("BlankTextRejectedBeforeModeration", func(t *testing.T) {
		svc, gateway, db := newCommentService(t)
		feedback := seedFeedback(t, db)

		_, err := svc.Add(ctx, feedback.ID, "Priya Nair", "   \n\t  ")
		require.Error(t, err)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		gateway.AssertNotCalled(t, "Moderate", mock.Anything, mock.Anything)
	})

	t.Run("FlaggedTextRejected", func(t *testing.T) {
		svc, gateway, db := newCommentService(t)
		feedback := seedFeedback(t, db)
		gateway.On("Moderate", mock.Anything, mock.Anything).Return(true, nil)

		_, err := svc.Add(ctx, feedback.ID, "Priya Nair", "something vile")
		require.Error(t, err)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Offensive Comment Warning! Please Revise the Comment", appErr.Message)

		var count int64
		require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("ModerationFailureBlocksComment", func(t *testing.T) {
		svc, gateway, db := newCommentService(t)
		feedback := seedFeedback(t, db)
		gateway.On("Moderate", mock.Anything, mock.Anything).Return(false, errors.New("provider down"))

		_, err := svc.Add(ctx, feedback.ID, "Priya Nair", "hello")
		require.Error(t, err)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
	})

	t.Run("MissingPost", func(t *testing.T) {
		svc, gateway, _ := newCommentService(t)

		_, err := svc.Add(ctx, 9999, "Priya Nair", "hello")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
		gateway.AssertNotCalled(t, "Moderate", mock.Anything, mock.Anything)
	})
}

func TestCommentService_List(t *testing.T) {
	ctx := context.Background()
	svc, gateway, db := newCommentService(t)
	feedback := seedFeedback(t, db)
	gateway.On("Moderate", mock.Anything, mock.Anything).Return(false, nil)

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.Add(ctx, feedback.ID, "Priya Nair", text)
		require.NoError(t, err)
	}

	comments, err := svc.List(ctx, feedback.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].CommentText)
	assert.Equal(t, "third", comments[2].CommentText)

	// Unknown id is just an empty thread
	comments, err = svc.List(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
