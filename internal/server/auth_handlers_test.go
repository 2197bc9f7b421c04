package server

import (
	"net/http"
	"testing"

	"eduforums/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	app, _, _ := newTestServer(t)

	t.Run("StudentSignupSetsSession", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/student-signup",
			map[string]string{"name": "Jordan Reyes", "password": "hunter2xyz"}, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "Student", body["userType"])
		assert.NotContains(t, body, "passwordHash", "hash must never leave the server")

		token := sessionCookie(t, resp)
		resp, body = doJSON(t, app, http.MethodGet, "/api/me", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Jordan Reyes", body["name"])
		assert.Equal(t, "Student", body["userType"])
	})

	t.Run("DuplicateNameSameRole", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/student-signup",
			map[string]string{"name": "Jordan Reyes", "password": "other"}, "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "User already exists", body["error"])
	})

	t.Run("SameNameAsAdminAllowed", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/admin-signup",
			map[string]string{"name": "Jordan Reyes", "password": "hunter2xyz"}, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "Admin", body["userType"])
	})

	t.Run("EmptyName", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/student-signup",
			map[string]string{"name": "", "password": "hunter2xyz"}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	app, _, _ := newTestServer(t)
	signupAs(t, app, "Jordan Reyes", models.RoleStudent)

	t.Run("Success", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/login-student",
			map[string]string{"name": "Jordan Reyes", "password": "hunter2xyz"}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Jordan Reyes", body["name"])
		assert.NotEmpty(t, sessionCookie(t, resp))
	})

	t.Run("WrongPassword", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/login-student",
			map[string]string{"name": "Jordan Reyes", "password": "wrong"}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("WrongRoleEndpoint", func(t *testing.T) {
		// No Admin account of this name exists, so the Admin flow rejects it
		resp, _ := doJSON(t, app, http.MethodPost, "/api/login-admin",
			map[string]string{"name": "Jordan Reyes", "password": "hunter2xyz"}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/login-student",
			map[string]string{"name": "Nobody", "password": "hunter2xyz"}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	app, _, _ := newTestServer(t)

	t.Run("NoSession", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/logout", nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("StaleToken", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/logout", nil, "stale-token")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("EndsSession", func(t *testing.T) {
		token := signupAs(t, app, "Priya Nair", models.RoleStudent)

		resp, _ := doJSON(t, app, http.MethodPost, "/api/logout", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodGet, "/api/me", nil, token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCheckUserRole(t *testing.T) {
	app, _, _ := newTestServer(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/check-user-role", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := signupAs(t, app, "Site Admin", models.RoleAdmin)
	resp, body := doJSON(t, app, http.MethodGet, "/api/check-user-role", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Site Admin", body["name"])
	assert.Equal(t, "Admin", body["userType"])
}
