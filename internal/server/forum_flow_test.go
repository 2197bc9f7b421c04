package server

import (
	"net/http"
	"strconv"
	"testing"

	"eduforums/internal/assist"
	"eduforums/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestForumFlow walks the whole happy path: an Admin builds a community, a
// Student posts feedback, peers vote and comment, and a summary comes back.
func TestForumFlow(t *testing.T) {
	app, _, gateway := newTestServer(t)
	gateway.On("Moderate", mock.Anything, mock.Anything).Return(false, nil)

	admin := signupAs(t, app, "Site Admin", models.RoleAdmin)
	alice := signupAs(t, app, "Alice Chen", models.RoleStudent)
	bob := signupAs(t, app, "Bob Singh", models.RoleStudent)

	// Admin creates a community
	resp, body := doJSON(t, app, http.MethodPost, "/api/communities",
		map[string]string{"name": "Course Feedback", "description": "Courses and grading."}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	communityID := int(body["id"].(float64))

	// Catalog reads use the named envelopes
	resp, body = doJSON(t, app, http.MethodGet, "/api/communities", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["communities"], 1)

	resp, body = doJSON(t, app, http.MethodGet, communityPath(communityID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Course Feedback", body["community"].(map[string]any)["name"])

	// Alice posts feedback into it
	resp, body = doJSON(t, app, http.MethodPost, postPath(communityID),
		map[string]string{
			"studentName": "Alice Chen",
			"standing":    "Junior",
			"major":       "Computer Science",
			"title":       "More evening lab hours",
			"description": "The labs close too early for students with day jobs.",
		}, alice)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	feedbackID := int(body["id"].(float64))

	resp, body = doJSON(t, app, http.MethodGet, postPath(communityID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["feedbacks"], 1)

	// Both students upvote
	resp, body = doJSON(t, app, http.MethodPost, feedbackPath(feedbackID)+"/upvote", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = doJSON(t, app, http.MethodPost, feedbackPath(feedbackID)+"/upvote", nil, bob)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["upvotes"])
	assert.Len(t, body["upvoters"], 2)

	// A second vote by the same student changes nothing
	resp, _ = doJSON(t, app, http.MethodPost, feedbackPath(feedbackID)+"/downvote", nil, bob)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, body = doJSON(t, app, http.MethodGet, feedbackPath(feedbackID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fb := body["feedback"].(map[string]any)
	assert.EqualValues(t, 2, fb["upvotes"])
	assert.EqualValues(t, 0, fb["downvotes"])

	// Bob comments
	resp, body = doJSON(t, app, http.MethodPost, feedbackPath(feedbackID)+"/comments",
		map[string]string{"commentText": "Agreed, 6pm is rough."}, bob)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Bob Singh", body["commenterName"])

	resp, body = doJSON(t, app, http.MethodGet, feedbackPath(feedbackID)+"/comments", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["comments"], 1)

	resp, body = doJSON(t, app, http.MethodGet, feedbackPath(feedbackID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fb = body["feedback"].(map[string]any)
	assert.EqualValues(t, 1, fb["commentCount"])

	// The thread summary covers the post and its comment
	gateway.On("Summarize", mock.Anything, mock.MatchedBy(func(thread assist.Thread) bool {
		return thread.Title == "More evening lab hours" &&
			len(thread.Comments) == 1 &&
			thread.Comments[0].CommenterName == "Bob Singh"
	})).Return("Students want longer lab hours.", nil)

	resp, body = doJSON(t, app, http.MethodGet, feedbackPath(feedbackID)+"/summary", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Students want longer lab hours.", body["summary"])

	// Admin stars the post
	resp, body = doJSON(t, app, http.MethodPost, feedbackPath(feedbackID)+"/star", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["starred"])

	// Deleting the community leaves the post reachable by ID
	resp, _ = doJSON(t, app, http.MethodDelete, communityPath(communityID), nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, feedbackPath(feedbackID), nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuardedMutations(t *testing.T) {
	app, s, gateway := newTestServer(t)
	gateway.On("Moderate", mock.Anything, mock.Anything).Return(false, nil)

	admin := signupAs(t, app, "Site Admin", models.RoleAdmin)
	student := signupAs(t, app, "Alice Chen", models.RoleStudent)

	resp, body := doJSON(t, app, http.MethodPost, "/api/communities",
		map[string]string{"name": "Advising", "description": "Degree planning."}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	communityID := int(body["id"].(float64))

	resp, body = doJSON(t, app, http.MethodPost, postPath(communityID),
		map[string]string{
			"studentName": "Alice Chen",
			"standing":    "Junior",
			"major":       "Computer Science",
			"title":       "Advisors overbooked",
			"description": "Cannot get an appointment before registration.",
		}, student)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	feedbackID := int(body["id"].(float64))

	t.Run("AnonymousCommentRejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, feedbackPath(feedbackID)+"/comments",
			map[string]string{"commentText": "drive-by"}, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var count int64
		require.NoError(t, s.db.Model(&models.Comment{}).Count(&count).Error)
		assert.Zero(t, count, "rejected comment must not be persisted")
	})

	t.Run("AnonymousVoteRejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, feedbackPath(feedbackID)+"/upvote", nil, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("AdminCannotVote", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, feedbackPath(feedbackID)+"/upvote", nil, admin)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodPost, feedbackPath(feedbackID)+"/downvote", nil, admin)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var count int64
		require.NoError(t, s.db.Model(&models.Vote{}).Count(&count).Error)
		assert.Zero(t, count, "rejected vote must not be persisted")
	})

	t.Run("StudentCannotManageCommunities", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/communities",
			map[string]string{"name": "Rogue", "description": "nope"}, student)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodDelete, communityPath(communityID), nil, student)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("StudentCannotStarOrDelete", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, feedbackPath(feedbackID)+"/star", nil, student)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodDelete, feedbackPath(feedbackID), nil, student)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("AdminCannotPostFeedback", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, postPath(communityID),
			map[string]string{
				"studentName": "Site Admin",
				"standing":    "n/a",
				"major":       "n/a",
				"title":       "x",
				"description": "y",
			}, admin)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("AdminDeletesFeedback", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, feedbackPath(feedbackID), nil, admin)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodGet, feedbackPath(feedbackID), nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestModerationGate(t *testing.T) {
	app, _, gateway := newTestServer(t)

	admin := signupAs(t, app, "Site Admin", models.RoleAdmin)
	student := signupAs(t, app, "Alice Chen", models.RoleStudent)

	resp, body := doJSON(t, app, http.MethodPost, "/api/communities",
		map[string]string{"name": "Student Life", "description": "Events."}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	communityID := int(body["id"].(float64))

	t.Run("FlaggedPost", func(t *testing.T) {
		gateway.ExpectedCalls = nil
		gateway.On("Moderate", mock.Anything, mock.Anything).Return(true, nil).Once()

		resp, body := doJSON(t, app, http.MethodPost, postPath(communityID),
			map[string]string{
				"studentName": "Alice Chen",
				"standing":    "Junior",
				"major":       "Computer Science",
				"title":       "x",
				"description": "something vile",
			}, student)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Offensive Post Warning! Please revise your feedback.", body["error"])
	})

	t.Run("FlaggedComment", func(t *testing.T) {
		gateway.ExpectedCalls = nil
		gateway.On("Moderate", mock.Anything, mock.Anything).Return(false, nil).Once()

		resp, body := doJSON(t, app, http.MethodPost, postPath(communityID),
			map[string]string{
				"studentName": "Alice Chen",
				"standing":    "Junior",
				"major":       "Computer Science",
				"title":       "Parking",
				"description": "Not enough commuter spots.",
			}, student)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		feedbackID := int(body["id"].(float64))

		gateway.ExpectedCalls = nil
		gateway.On("Moderate", mock.Anything, mock.Anything).Return(true, nil).Once()

		resp, body = doJSON(t, app, http.MethodPost, feedbackPath(feedbackID)+"/comments",
			map[string]string{"commentText": "something vile"}, student)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Offensive Comment Warning! Please Revise the Comment", body["error"])
	})

	t.Run("ModerationOutage", func(t *testing.T) {
		gateway.ExpectedCalls = nil
		gateway.On("Moderate", mock.Anything, mock.Anything).
			Return(false, assert.AnError).Once()

		resp, _ := doJSON(t, app, http.MethodPost, postPath(communityID),
			map[string]string{
				"studentName": "Alice Chen",
				"standing":    "Junior",
				"major":       "Computer Science",
				"title":       "x",
				"description": "anything",
			}, student)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestInvalidIDs(t *testing.T) {
	app, _, _ := newTestServer(t)
	admin := signupAs(t, app, "Site Admin", models.RoleAdmin)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/feedbacks/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/communities/-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/communities/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/feedbacks/9999/star", nil, admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func postPath(communityID int) string {
	return communityPath(communityID) + "/feedbacks"
}

func communityPath(id int) string {
	return "/api/communities/" + strconv.Itoa(id)
}

func feedbackPath(id int) string {
	return "/api/feedbacks/" + strconv.Itoa(id)
}
