package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eduforums/internal/assist"
	"eduforums/internal/config"
	"eduforums/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
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

// newTestServer wires a full server against sqlite and miniredis.
func newTestServer(t *testing.T) (*fiber.App, *Server, *MockGateway) {
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

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	gateway := new(MockGateway)

	cfg := &config.Config{
		Port:              "3000",
		Env:               "test",
		SessionTTLMinutes: 60,
	}
	s, err := NewServerWithDeps(cfg, db, rdb, gateway)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)

	return app, s, gateway
}

// doJSON performs a JSON request against the test app, attaching the session
// cookie when one is given, and decodes the response body into a map.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, cookie string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "forum_session", Value: cookie})
	}

	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		_ = json.Unmarshal(data, &decoded)
	}
	return resp, decoded
}

// sessionCookie pulls the forum session token out of a response.
func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == "forum_session" {
			return c.Value
		}
	}
	t.Fatal("no session cookie in response")
	return ""
}

// signupAs registers an account through the API and returns its session token.
func signupAs(t *testing.T, app *fiber.App, name string, role models.Role) string {
	t.Helper()

	path := "/api/student-signup"
	if role == models.RoleAdmin {
		path = "/api/admin-signup"
	}
	resp, _ := doJSON(t, app, http.MethodPost, path,
		map[string]string{"name": name, "password": "hunter2xyz"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return sessionCookie(t, resp)
}
