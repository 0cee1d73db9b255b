package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/influencer-planner/modules/account"
	"github.com/example/influencer-planner/modules/catalog"
)

func TestAPIAuth(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing authorization header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Authorization header is required"`,
		},
		{
			name:           "invalid authorization format - no bearer",
			authHeader:     "Basic abc",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `Invalid authorization header format`,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer garbage",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Invalid or expired token"`,
		},
		{
			name:           "token of a deleted user",
			authHeader:     "Bearer token-ghost",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Invalid or expired token"`,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer token-mia",
			expectedStatus: http.StatusOK,
			expectedBody:   `"full_name":"Mia Creator"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, body := env.do(t, req)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Contains(t, body, tt.expectedBody)
		})
	}
}

func TestMe_NavFollowsPermissions(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(t, jsonRequest(http.MethodGet, "/api/v1/me", "", "token-mia"))
	assert.Contains(t, body, `"href":"/tasks"`)
	assert.NotContains(t, body, `"href":"/performance"`)
	assert.NotContains(t, body, `"key":"settings"`)

	_, body = env.do(t, jsonRequest(http.MethodGet, "/api/v1/me", "", "token-admin"))
	assert.Contains(t, body, `"href":"/performance"`)
	assert.Contains(t, body, `"href":"/settings/announcement"`)
}

func TestRequirePermission_API(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, jsonRequest(http.MethodGet, "/api/v1/reports/dashboard", "", "token-mia"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, `"error":"forbidden"`)

	resp, body = env.do(t, jsonRequest(http.MethodGet, "/api/v1/reports/dashboard", "", "token-admin"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"statusDistribution"`)
	assert.Contains(t, body, `"influencerCounts"`)
}

func TestPages_RedirectWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/tasks", "/settings/users", "/performance"} {
		resp, _ := env.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestPages_PermissionDenied(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "mia@planner.local")

	resp, body := env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/settings/general", nil), cookie))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "Not authorized")

	resp, _ = env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/tasks", nil), cookie))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/content-plan", nil), cookie))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := env.login(t, "admin@planner.local")
	for _, path := range []string{"/content-plan", "/ideas"} {
		resp, _ = env.do(t, withCookie(httptest.NewRequest(http.MethodGet, path, nil), admin))
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestRequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	staff := env.login(t, "staff@planner.local")
	resp, _ := env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/settings/general", nil), staff))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/settings/announcement", nil), staff))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := env.login(t, "admin@planner.local")
	resp, _ = env.do(t, withCookie(formRequest(http.MethodPost, "/settings/announcement", url.Values{
		"announcementText": {"Launch on Monday"},
	}), admin))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "Launch on Monday", env.catalog.settings.AnnouncementText)
}

func TestLoginLimiter(t *testing.T) {
	env := newTestEnv(t, func(cfg *Config) { cfg.LoginMax = 2 })

	bad := url.Values{"email": {"mia@planner.local"}, "password": {"wrong-password"}}
	for i := 0; i < 2; i++ {
		resp, _ := env.do(t, formRequest(http.MethodPost, "/login", bad))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp, body := env.do(t, formRequest(http.MethodPost, "/login", bad))
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Contains(t, body, "Too many login attempts")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"fiber error", fiber.NewError(fiber.StatusBadRequest, "bad input"), 400, "bad input"},
		{"remote duplicate user", account.RemoteError(errors.New("create-user request failed: user already exists")), 409, "user already exists"},
		{"forbidden", account.ErrForbidden, 403, "not authorized"},
		{"task not found", account.ErrTaskNotFound, 404, "task not found"},
		{"duplicate category", catalog.RemoteError(errors.New("create-category request failed: name already exists")), 409, "name already exists"},
		{"invalid status", account.ErrInvalidStatus, 400, "invalid task status"},
		{"unknown", errors.New("connection reset by peer"), 500, "An internal error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestErrorHandler_HidesInternals(t *testing.T) {
	env := newTestEnv(t)
	env.accounts.statusErr = errors.New("mongo: connection refused at 10.0.0.3")

	resp, body := env.do(t, jsonRequest(http.MethodPost, "/api/v1/auth/login",
		`{"email":"mia@planner.local","password":"secret123"}`, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"access_token":"token-mia"`)

	cookie := env.login(t, "mia@planner.local")
	resp, body = env.do(t, withCookie(formRequest(http.MethodPost, "/tasks/mia/task00000001/status",
		url.Values{"status": {"done"}}), cookie))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, strings.Contains(body, "10.0.0.3"))
}
