package service

import (
	"context"
	"errors"
	"testing"

	"eduforums/internal/assist"
	"eduforums/internal/models"
	"eduforums/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockGateway is a mock of the assist.Gateway interface
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Moderate(ctx context.Context, text string) (bool, error) {
	args := m.Called(ctx, text)
	return args.Bool(0), args.Error(1)
}

func (m *MockGateway) Summarize(ctx context.Context, thread assist.Thread) (string, error) {
	args := m.Called(ctx, thread)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) ClassifySentiment(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Account{},
		&models.Community{},
		&models.Feedback{},
		&models.Vote{},
		&models.Comment{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}

func newFeedbackService(t *testing.T) (*FeedbackService, *MockGateway, *gorm.DB) {
	t.Helper()

	db := newServiceTestDB(t)
	gateway := new(MockGateway)
	svc := NewFeedbackService(
		repository.NewFeedbackRepository(db),
		repository.NewCommentRepository(db),
		gateway,
	)
	return svc, gateway, db
}

func validInput() CreateFeedbackInput {
	return CreateFeedbackInput{
		CommunityID: 1,
		StudentName: "Jordan Reyes",
		Standing:    "Junior",
		Major:       "Computer Science",
		Title:       "More evening lab hours",
		Description: "The labs close too early for students with day jobs.",
	}
}

func TestFeedbackService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, gateway, _ := newFeedbackService(t)
		gateway.On("Moderate", mock.Anything, mock.Anything).Return(false, nil)

		feedback, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		assert.NotZero(t, feedback.ID)
		assert.Equal(t, 0, feedback.Upvotes)
		assert.False(t, feedback.Starred)
		assert.NotNil(t, feedback.Upvoters)

		// The moderation input includes the description
		call := gateway.Calls[0]
		assert.Contains(t, call.Arguments.String(1), "labs close too early")
	})

	t.Run("FlaggedDescriptionRejected", func(t *testing.T) {
		svc, gateway, db := newFeedbackService(t)
		gateway.On("Moderate", mock.Anything, mock.Anything).Return(true, nil)

		_, err := svc.Create(ctx, validInput())
		require.Error(t, err)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		assert.Equal(t, "Offensive Post Warning! Please revise your feedback.", appErr.Message)

		var count int64
		require.NoError(t, db.Model(&models.Feedback{}).Count(&count).Error)
		assert.Zero(t, count, "flagged post must not be persisted")
	})

	t.Run("ModerationFailureBlocksCreation", func(t *testing.T) {
		svc, gateway, db := newFeedbackService(t)
		gateway.On("Moderate", mock.Anything, mock.Anything).Return(false, errors.New("provider down"))

		_, err := svc.Create(ctx, validInput())
		require.Error(t, err)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "INTERNAL_ERROR", appErr.Code)

		var count int64
		require.NoError(t, db.Model(&models.Feedback{}).Count(&count).Error)
		assert.Zero(t, count, "post must not be persisted when moderation is unavailable")
	})

	t.Run("MissingFieldsRejectedBeforeModeration", func(t *testing.T) {
		svc, gateway, _ := newFeedbackService(t)

		in := validInput()
		in.Title = "   "
		_, err := svc.Create(ctx, in)
		require.Error(t, err)
		gateway.AssertNotCalled(t, "Moderate", mock.Anything, mock.Anything)
	})
}

func TestFeedbackService_Summarize(t *testing.T) {
	ctx := context.Background()

	t.Run("ThreadAssembledOldestFirst", func(t *testing.T) {
		svc, gateway, db := newFeedbackService(t)
		gateway.On("Moderate", mock.Anything, mock.Anything).Return(false, nil)

		feedback, err := svc.Create(ctx, validInput())
		require.NoError(t, err)

		commentRepo := repository.NewCommentRepository(db)
		for _, text := range []string{"first reply", "second reply"} {
			require.NoError(t, commentRepo.Create(ctx, &models.Comment{
				FeedbackID:    feedback.ID,
				CommenterName: "Priya Nair",
				CommentText:   text,
			}))
		}

		gateway.On("Summarize", mock.Anything, mock.MatchedBy(func(thread assist.Thread) bool {
			return thread.Title == feedback.Title &&
				len(thread.Comments) == 2 &&
				thread.Comments[0].CommentText == "first reply" &&
				thread.Comments[1].CommentText == "second reply"
		})).Return("Students want longer lab hours.", nil)

		summary, err := svc.Summarize(ctx, feedback.ID)
		require.NoError(t, err)
		assert.Equal(t, "Students want longer lab hours.", summary)

		fetched, err := svc.Get(ctx, feedback.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, fetched.CommentCount)

		listed, err := svc.ListByCommunity(ctx, feedback.CommunityID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, 2, listed[0].CommentCount)
	})

	t.Run("MissingPost", func(t *testing.T) {
		svc, _, _ := newFeedbackService(t)

		_, err := svc.Summarize(ctx, 9999)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("GatewayFailure", func(t *testing.T) {
		svc, gateway, _ := newFeedbackService(t)
		gateway.On("Moderate", mock.Anything, mock.Anything).Return(false, nil)
		gateway.On("Summarize", mock.Anything, mock.Anything).Return("", errors.New("provider down"))

		feedback, err := svc.Create(ctx, validInput())
		require.NoError(t, err)

		_, err = svc.Summarize(ctx, feedback.ID)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
	})
}

func TestFeedbackService_VoteAndStar(t *testing.T) {
	ctx := context.Background()
	svc, gateway, _ := newFeedbackService(t)
	gateway.On("Moderate", mock.Anything, mock.Anything).Return(false, nil)

	feedback, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Vote(ctx, feedback.ID, "Sam Okafor", models.VoteUp))
	assert.ErrorIs(t, svc.Vote(ctx, feedback.ID, "Sam Okafor", models.VoteDown), models.ErrAlreadyVoted)

	var appErr *models.AppError
	err = svc.Vote(ctx, 9999, "Sam Okafor", models.VoteUp)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	require.NoError(t, svc.SetStarred(ctx, feedback.ID, true))
	fetched, err := svc.Get(ctx, feedback.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Starred)

	err = svc.SetStarred(ctx, 9999, true)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestFeedbackService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, gateway, _ := newFeedbackService(t)
	gateway.On("Moderate", mock.Anything, mock.Anything).Return(false, nil)

	feedback, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, feedback.ID))

	var appErr *models.AppError
	err = svc.Delete(ctx, feedback.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
