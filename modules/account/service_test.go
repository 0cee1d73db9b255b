package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
	"github.com/example/influencer-planner/modules/storage"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store, err := storage.NewGormStore(db, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	cfg := DefaultJWTConfig()
	cfg.SecretKey = "test-secret"
	return NewService(store.Users(), NewPasswordHasherWithCost(4), NewJWTManager(cfg))
}

func createTestUser(t *testing.T, s *Service, email string, role user.Role) *user.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), CreateUserInput{
		FullName:    "Test " + email,
		Email:       email,
		Password:    "password123",
		Role:        role,
		Permissions: user.DefaultCreatorPermissions(),
	})
	require.NoError(t, err)
	return u
}

func TestService_CreateUser(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		in      CreateUserInput
		wantErr error
	}{
		{"missing name", CreateUserInput{Email: "a@b.io", Password: "password123", Role: user.RoleStaff}, ErrNameRequired},
		{"bad email", CreateUserInput{FullName: "A", Email: "nope", Password: "password123", Role: user.RoleStaff}, ErrInvalidEmail},
		{"weak password", CreateUserInput{FullName: "A", Email: "a@b.io", Password: "short", Role: user.RoleStaff}, ErrWeakPassword},
		{"long password", CreateUserInput{FullName: "A", Email: "a@b.io", Password: string(make([]byte, 73)), Role: user.RoleStaff}, ErrPasswordTooLong},
		{"bad role", CreateUserInput{FullName: "A", Email: "a@b.io", Password: "password123", Role: "root"}, ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateUser(ctx, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	admin, err := s.CreateUser(ctx, CreateUserInput{
		FullName:    "Boss",
		Email:       "Boss@Planner.io",
		Password:    "password123",
		Role:        user.RoleAdmin,
		Permissions: []user.Permission{user.PermTasks},
	})
	require.NoError(t, err)
	assert.Equal(t, "boss@planner.io", admin.Email)
	assert.Equal(t, adminPermissions(), admin.Permissions)
	assert.NotEqual(t, "password123", admin.PasswordHash)

	_, err = s.CreateUser(ctx, CreateUserInput{
		FullName: "Again", Email: "boss@planner.io", Password: "password123", Role: user.RoleStaff,
	})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_AuthenticateAndTokens(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()
	created := createTestUser(t, s, "mia@example.com", user.RoleCreator)

	_, _, err := s.Authenticate(ctx, "mia@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Authenticate(ctx, "ghost@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u, tokens, err := s.Authenticate(ctx, " MIA@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.Equal(t, "Bearer", tokens.TokenType)

	claims, err := s.ValidateToken(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, user.RoleCreator, claims.Role)

	_, err = s.ValidateToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pair, err := s.RefreshTokens(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	require.NoError(t, s.DeleteUser(ctx, "", created.ID))
	_, err = s.ValidateToken(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = s.RefreshTokens(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_DeleteUser(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()
	admin := createTestUser(t, s, "admin@example.com", user.RoleAdmin)
	staff := createTestUser(t, s, "staff@example.com", user.RoleStaff)

	assert.ErrorIs(t, s.DeleteUser(ctx, admin.ID, admin.ID), ErrForbidden)
	require.NoError(t, s.DeleteUser(ctx, admin.ID, staff.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, admin.ID, staff.ID), ErrUserNotFound)
}

func TestService_AssignAndUpdateTask(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	staff := createTestUser(t, s, "staff@example.com", user.RoleStaff)
	mia := createTestUser(t, s, "mia@example.com", user.RoleCreator)
	leo := createTestUser(t, s, "leo@example.com", user.RoleCreator)

	_, _, err := s.AssignTask(ctx, AssignTaskInput{ActorID: staff.ID, UserID: mia.ID, Title: "  "})
	assert.ErrorIs(t, err, ErrTitleRequired)
	_, _, err = s.AssignTask(ctx, AssignTaskInput{ActorID: staff.ID, UserID: "ghost", Title: "Reel"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	due := now.AddDate(0, 0, 3)
	owner, tk, err := s.AssignTask(ctx, AssignTaskInput{
		ActorID: staff.ID, UserID: mia.ID, Title: " Unboxing reel ", TaskType: "Reel", DueDate: &due,
	})
	require.NoError(t, err)
	assert.Equal(t, mia.ID, owner.ID)
	assert.Equal(t, "Unboxing reel", tk.Title)
	assert.Equal(t, task.StatusWaiting, tk.Status)
	assert.True(t, task.IsValidID(tk.ID))

	_, err = s.UpdateTaskStatus(ctx, staff.ID, mia.ID, tk.ID, "finished")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.UpdateTaskStatus(ctx, leo.ID, mia.ID, tk.ID, "done")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.UpdateTaskStatus(ctx, mia.ID, mia.ID, "missing", "done")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	change, err := s.UpdateTaskStatus(ctx, mia.ID, mia.ID, tk.ID, "done")
	require.NoError(t, err)
	assert.Equal(t, task.StatusWaiting, change.From)
	assert.Equal(t, task.StatusDone, change.Task.Status)
	require.NotNil(t, change.Task.CompletedAt)
	assert.True(t, change.Task.CompletedAt.Equal(now))

	change, err = s.UpdateTaskStatus(ctx, staff.ID, mia.ID, tk.ID, "paused")
	require.NoError(t, err)
	assert.Nil(t, change.Task.CompletedAt)

	got, err := s.GetUser(ctx, mia.ID)
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, task.StatusPaused, got.Tasks[0].Status)
}

func TestService_Seed(t *testing.T) {
	s := setupTestService(t)
	ctx := context.Background()

	seeded, err := s.Seed(ctx, SeedConfig{})
	require.NoError(t, err)
	assert.True(t, seeded)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, user.RoleAdmin, users[0].Role)
	assert.Equal(t, user.RoleCreator, users[1].Role)
	assert.Len(t, users[1].Tasks, 2)
	assert.Equal(t, []string{"Instagram", "TikTok"}, users[1].Platforms)

	_, _, err = s.Authenticate(ctx, SeedAdminEmail, defaultSeedAdminPassword)
	assert.NoError(t, err)

	seeded, err = s.Seed(ctx, SeedConfig{})
	require.NoError(t, err)
	assert.False(t, seeded)

	creators, err := s.ListUsers(ctx, user.RoleCreator)
	require.NoError(t, err)
	assert.Len(t, creators, 1)
}
