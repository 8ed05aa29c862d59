package posts

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/internal/app"
	"postboard/internal/platform/config"
	"postboard/internal/platform/middleware"
	"postboard/internal/posts/models"
	"postboard/pkg/testutil"
)

func newTestApp(t *testing.T, extra map[string]string) http.Handler {
	t.Helper()
	env := map[string]string{
		"JWT_SIGNING_KEY": "integration-signing-key",
		"BCRYPT_COST":     "4",
	}
	for k, v := range extra {
		env[k] = v
	}
	cfg, err := config.FromLookup(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := app.New(context.Background(), cfg, logger)
	require.NoError(t, err)
	return a.Router
}

func login(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}))
	testutil.AssertStatusOK(t, rr)
	env := testutil.UnmarshalEnvelope(t, rr)
	require.NotEmpty(t, env.Token)
	return env.Token
}

func decodePost(t *testing.T, env *testutil.Envelope) models.Post {
	t.Helper()
	var p models.Post
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

type listBody struct {
	Success    bool              `json:"success"`
	Data       []models.Post     `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

func TestSeededPagination(t *testing.T) {
	router := newTestApp(t, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/posts?page=1&limit=1"))
	testutil.AssertStatusOK(t, rr)
	body := testutil.UnmarshalResponse[listBody](t, rr)

	require.Len(t, body.Data, 1)
	assert.Equal(t, "First Post", body.Data[0].Title)
	assert.Equal(t, models.Pagination{CurrentPage: 1, TotalPages: 2, TotalPosts: 2, HasNext: true, HasPrev: false}, body.Pagination)

	t.Run("second page", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/posts?page=2&limit=1"))
		body := testutil.UnmarshalResponse[listBody](t, rr)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "Second Post", body.Data[0].Title)
		assert.False(t, body.Pagination.HasNext)
		assert.True(t, body.Pagination.HasPrev)
	})

	t.Run("beyond the last page", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/posts?page=5"))
		testutil.AssertStatusOK(t, rr)
		assert.Contains(t, rr.Body.String(), `"data":[]`)
	})
}

func TestPostLifecycle(t *testing.T) {
	router := newTestApp(t, nil)
	token := login(t, router, "john@example.com", "password123")

	req := testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPost, "/api/posts",
		map[string]any{"title": "Hi", "content": "There", "author": "mallory", "authorId": 2}), token)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	env := testutil.UnmarshalEnvelope(t, rr)
	assert.Equal(t, "Post created successfully", env.Message)
	created := decodePost(t, env)

	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "john", created.Author)
	assert.Equal(t, int64(1), created.AuthorID)
	assert.Nil(t, created.UpdatedAt)
	assert.NotContains(t, string(env.Data), "updatedAt")

	t.Run("title-only update keeps content", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/api/posts/3",
			map[string]string{"title": "X"}))
		testutil.AssertStatusOK(t, rr)
		env := testutil.UnmarshalEnvelope(t, rr)
		assert.Equal(t, "Post updated successfully", env.Message)
		updated := decodePost(t, env)

		assert.Equal(t, "X", updated.Title)
		assert.Equal(t, "There", updated.Content)
		require.NotNil(t, updated.UpdatedAt)
		assert.False(t, updated.UpdatedAt.Before(created.CreatedAt))
	})

	t.Run("get reflects the update", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/posts/3"))
		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, "X", decodePost(t, testutil.UnmarshalEnvelope(t, rr)).Title)
	})

	t.Run("delete returns the removed post", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/api/posts/3"))
		testutil.AssertStatusOK(t, rr)
		env := testutil.UnmarshalEnvelope(t, rr)
		assert.Equal(t, "Post deleted successfully", env.Message)
		assert.Equal(t, int64(3), decodePost(t, env).ID)

		rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/posts/3"))
		testutil.AssertFailure(t, rr, http.StatusNotFound, "Post not found")
	})

	t.Run("deleting again is not found", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/api/posts/3"))
		testutil.AssertFailure(t, rr, http.StatusNotFound, "Post not found")
	})

	t.Run("ids are not reused", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPost, "/api/posts",
			map[string]string{"title": "Again", "content": "New"}), token))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		assert.Equal(t, int64(4), decodePost(t, testutil.UnmarshalEnvelope(t, rr)).ID)
	})
}

func TestCreateRequiresToken(t *testing.T) {
	router := newTestApp(t, nil)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/posts",
		map[string]string{"title": "Hi", "content": "There"}))
	testutil.AssertFailure(t, rr, http.StatusUnauthorized, "Access token required")

	rr = testutil.DoRequest(router, testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPost, "/api/posts",
		map[string]string{"title": "Hi", "content": "There"}), "forged"))
	testutil.AssertFailure(t, rr, http.StatusForbidden, "Invalid or expired token")
}

func TestProtectedMutations(t *testing.T) {
	router := newTestApp(t, map[string]string{"POSTBOARD_PROTECT_POST_MUTATIONS": "true"})

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/api/posts/1",
		map[string]string{"title": "X"}))
	testutil.AssertFailure(t, rr, http.StatusUnauthorized, "Access token required")

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/api/posts/1"))
	testutil.AssertFailure(t, rr, http.StatusUnauthorized, "Access token required")

	token := login(t, router, "jane@example.com", "password456")
	rr = testutil.DoRequest(router, testutil.WithBearer(testutil.NewRequest(t, http.MethodDelete, "/api/posts/1"), token))
	testutil.AssertStatusOK(t, rr)
}

func TestAuxiliaryRoutes(t *testing.T) {
	router := newTestApp(t, nil)

	t.Run("banner", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/"))
		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, "Social Media Platform API is running!", rr.Body.String())
		assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("health", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
		assert.JSONEq(t, `{"success":true,"message":"ok"}`, rr.Body.String())
	})

	t.Run("html listing", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/posts"))
		testutil.AssertStatusOK(t, rr)
		assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html"))
		assert.Contains(t, rr.Body.String(), "First Post")
		assert.Contains(t, rr.Body.String(), "Second Post")
	})

	t.Run("unknown route", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/nope"))
		testutil.AssertFailure(t, rr, http.StatusNotFound, "Route not found")
	})

	t.Run("metrics count requests by route", func(t *testing.T) {
		testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/posts/1"))

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
		testutil.AssertStatusOK(t, rr)
		body := rr.Body.String()
		assert.Contains(t, body, "postboard_http_request_duration_seconds")
		assert.Contains(t, body, `route="/api/posts/{id}"`)
		assert.Contains(t, body, "go_goroutines")
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodOptions, "/api/posts")
		req.Header.Set("Origin", "https://client.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}
