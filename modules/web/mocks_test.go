package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/require"

	domaincatalog "github.com/example/influencer-planner/domain/catalog"
	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
	"github.com/example/influencer-planner/modules/account"
	"github.com/example/influencer-planner/modules/catalog"
	"github.com/example/influencer-planner/modules/notification"
)

const testPassword = "secret123"

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

// mockAccounts implements account.AccountPort over an in-memory user list.
// Access tokens have the form "token-<user id>".
type mockAccounts struct {
	users         []user.User
	created       []account.CreateUserRequest
	deleted       []string
	assigned      []account.AssignTaskRequest
	statusUpdates []account.UpdateTaskStatusRequest
	statusErr     error
}

func (m *mockAccounts) find(id string) (*user.User, bool) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, true
		}
	}
	return nil, false
}

func (m *mockAccounts) Authenticate(_ context.Context, email, password string) (*account.AuthenticateResponse, error) {
	for _, u := range m.users {
		if u.Email == user.NormalizeEmail(email) && password == testPassword {
			return &account.AuthenticateResponse{
				User: u,
				Tokens: account.TokenPair{
					AccessToken:  "token-" + u.ID,
					RefreshToken: "refresh-" + u.ID,
					ExpiresIn:    900,
					TokenType:    "Bearer",
				},
			}, nil
		}
	}
	return nil, account.RemoteError(errors.New("authenticate request failed: invalid email or password"))
}

func (m *mockAccounts) RefreshToken(_ context.Context, refreshToken string) (*account.TokenPair, error) {
	id, ok := strings.CutPrefix(refreshToken, "refresh-")
	if !ok {
		return nil, account.ErrInvalidToken
	}
	return &account.TokenPair{AccessToken: "token-" + id, RefreshToken: refreshToken, TokenType: "Bearer"}, nil
}

func (m *mockAccounts) ValidateToken(_ context.Context, token string) (*account.ValidateTokenResponse, error) {
	id, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return nil, account.ErrInvalidToken
	}
	return &account.ValidateTokenResponse{Valid: true, UserID: id}, nil
}

func (m *mockAccounts) GetUser(_ context.Context, userID string) (*user.User, error) {
	if u, ok := m.find(userID); ok {
		return u, nil
	}
	return nil, account.ErrUserNotFound
}

func (m *mockAccounts) ListUsers(_ context.Context, roles ...user.Role) ([]user.User, error) {
	out := []user.User{}
	for _, u := range m.users {
		if len(roles) == 0 || slices.Contains(roles, u.Role) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockAccounts) CreateUser(_ context.Context, req account.CreateUserRequest) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == user.NormalizeEmail(req.Email) {
			return nil, account.ErrUserExists
		}
	}
	m.created = append(m.created, req)
	return &user.User{ID: "new-user", FullName: req.FullName, Role: req.Role}, nil
}

func (m *mockAccounts) DeleteUser(_ context.Context, actorID, userID string) error {
	if actorID == userID {
		return account.ErrForbidden
	}
	m.deleted = append(m.deleted, userID)
	return nil
}

func (m *mockAccounts) AssignTask(_ context.Context, req account.AssignTaskRequest) (*task.Task, error) {
	m.assigned = append(m.assigned, req)
	t := task.New("task00000099", req.Title, req.TaskType, req.DueDate, testNow)
	return &t, nil
}

func (m *mockAccounts) UpdateTaskStatus(_ context.Context, req account.UpdateTaskStatusRequest) (*task.Task, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	m.statusUpdates = append(m.statusUpdates, req)
	t := task.New(req.TaskID, "updated", "", nil, testNow)
	return &t, nil
}

// mockCatalog implements catalog.CatalogPort with overridable hooks.
type mockCatalog struct {
	settings       domaincatalog.Settings
	categories     []domaincatalog.Category
	createCategory func(name, color string) (*domaincatalog.Category, error)
	setActive      []setActiveCall
	updates        []catalog.UpdateSettingsRequest
}

type setActiveCall struct {
	IDs    []string
	Active bool
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{settings: domaincatalog.DefaultSettings()}
}

func (m *mockCatalog) ListCategories(_ context.Context, activeOnly bool) ([]domaincatalog.Category, error) {
	out := []domaincatalog.Category{}
	for _, c := range m.categories {
		if !activeOnly || c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCatalog) CreateCategory(_ context.Context, name, color string) (*domaincatalog.Category, error) {
	if m.createCategory != nil {
		return m.createCategory(name, color)
	}
	c := domaincatalog.NewCategory("cat-new", name, color, testNow)
	return &c, nil
}

func (m *mockCatalog) SetCategoriesActive(_ context.Context, ids []string, active bool) (int64, error) {
	m.setActive = append(m.setActive, setActiveCall{IDs: ids, Active: active})
	return int64(len(ids)), nil
}

func (m *mockCatalog) ListTaskTypes(_ context.Context, _ bool) ([]domaincatalog.TaskType, error) {
	return []domaincatalog.TaskType{domaincatalog.NewTaskType("tt1", "Story", testNow)}, nil
}

func (m *mockCatalog) CreateTaskType(_ context.Context, name string) (*domaincatalog.TaskType, error) {
	t := domaincatalog.NewTaskType("tt-new", name, testNow)
	return &t, nil
}

func (m *mockCatalog) SetTaskTypesActive(_ context.Context, ids []string, active bool) (int64, error) {
	m.setActive = append(m.setActive, setActiveCall{IDs: ids, Active: active})
	return int64(len(ids)), nil
}

func (m *mockCatalog) GetSettings(context.Context) (domaincatalog.Settings, error) {
	return m.settings, nil
}

func (m *mockCatalog) UpdateSettings(_ context.Context, req catalog.UpdateSettingsRequest) (domaincatalog.Settings, error) {
	m.updates = append(m.updates, req)
	if req.AnnouncementText != nil {
		m.settings.AnnouncementText = *req.AnnouncementText
	}
	if req.NotificationsEnabled != nil {
		m.settings.NotificationsEnabled = *req.NotificationsEnabled
	}
	return m.settings, nil
}

type mockNotifications struct {
	lastUserID string
	items      []notification.Notification
}

func (m *mockNotifications) List(_ context.Context, userID string, _ int) ([]notification.Notification, error) {
	m.lastUserID = userID
	return m.items, nil
}

type testEnv struct {
	server        *Server
	accounts      *mockAccounts
	catalog       *mockCatalog
	notifications *mockNotifications
}

func testUsers() []user.User {
	due := testNow.Add(-24 * time.Hour)
	return []user.User{
		{ID: "admin", FullName: "Ada Admin", Email: "admin@planner.local", Role: user.RoleAdmin},
		{ID: "staff", FullName: "Sam Staff", Email: "staff@planner.local", Role: user.RoleStaff,
			Permissions: []user.Permission{user.PermHome, user.PermSettings}},
		{ID: "mia", FullName: "Mia Creator", Email: "mia@planner.local", Role: user.RoleCreator,
			Category: "Technology", Platforms: []string{"Instagram", "TikTok"},
			Permissions: user.DefaultCreatorPermissions(),
			Tasks: []task.Task{
				task.New("task00000001", "Weekly reel", "Reel", &due, testNow.Add(-48*time.Hour)),
			}},
		{ID: "leo", FullName: "Leo Creator", Email: "leo@planner.local", Role: user.RoleCreator,
			Category: "technology", Platforms: []string{"YouTube"},
			Permissions: user.DefaultCreatorPermissions()},
	}
}

func newTestEnv(t *testing.T, mutate ...func(*Config)) *testEnv {
	t.Helper()
	env := &testEnv{
		accounts:      &mockAccounts{users: testUsers()},
		catalog:       newMockCatalog(),
		notifications: &mockNotifications{},
	}
	cfg := DefaultConfig()
	cfg.SessionSecret = "test-session-secret"
	cfg.Location = time.UTC
	for _, fn := range mutate {
		fn(&cfg)
	}

	server, err := NewServer(cfg, Deps{
		Accounts:      env.accounts,
		Catalog:       env.catalog,
		Notifications: env.notifications,
		Logger:        &mockLogger{},
		Now:           func() time.Time { return testNow },
	})
	require.NoError(t, err)
	env.server = server
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.server.App().Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, target, body, token string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// login signs in through the form and returns the session cookie.
func (e *testEnv) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	resp, _ := e.do(t, formRequest(http.MethodPost, "/login", url.Values{
		"email":    {email},
		"password": {testPassword},
	}))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func withCookie(req *http.Request, c *http.Cookie) *http.Request {
	req.AddCookie(c)
	return req
}
