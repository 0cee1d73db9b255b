package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/influencer-planner/domain/catalog"
	"github.com/example/influencer-planner/modules/cache"
	"github.com/example/influencer-planner/modules/storage"
)

func setupTestRepo(t *testing.T) storage.CatalogRepository {
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
	return store.Catalog()
}

func setupTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client, "catalog:", time.Minute), mr
}

func TestService_Categories(t *testing.T) {
	s := NewService(setupTestRepo(t), nil)
	ctx := context.Background()

	_, err := s.CreateCategory(ctx, "   ", "")
	assert.ErrorIs(t, err, ErrNameRequired)
	_, err = s.CreateCategory(ctx, "Food", "red")
	assert.ErrorIs(t, err, ErrInvalidColor)

	tech, err := s.CreateCategory(ctx, "Technology", "")
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultCategoryColor, tech.Color)
	assert.True(t, tech.IsActive)

	_, err = s.CreateCategory(ctx, "TECHNOLOGY", "#fff")
	assert.ErrorIs(t, err, ErrDuplicateName)

	beauty, err := s.CreateCategory(ctx, "Beauty", "#FF00AA")
	require.NoError(t, err)

	_, err = s.SetCategoriesActive(ctx, []string{" ", ""}, false)
	assert.ErrorIs(t, err, ErrNoIDs)

	n, err := s.SetCategoriesActive(ctx, []string{beauty.ID, beauty.ID}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	active, err := s.ListCategories(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Technology", active[0].Name)

	all, err := s.ListCategories(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestService_TaskTypesCached(t *testing.T) {
	c, mr := setupTestCache(t)
	s := NewService(setupTestRepo(t), c)
	ctx := context.Background()

	empty, err := s.ListTaskTypes(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.True(t, mr.Exists("catalog:task_types:active"))

	story, err := s.CreateTaskType(ctx, "Story")
	require.NoError(t, err)
	assert.False(t, mr.Exists("catalog:task_types:active"), "create invalidates")

	_, err = s.CreateTaskType(ctx, " story ")
	assert.ErrorIs(t, err, ErrDuplicateName)

	list, err := s.ListTaskTypes(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Story"}, catalog.ActiveNames(list))

	again, err := s.ListTaskTypes(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, list[0].ID, again[0].ID)
	assert.EqualValues(t, 1, c.Stats().Hits)

	_, err = s.SetTaskTypesActive(ctx, []string{story.ID}, false)
	require.NoError(t, err)
	list, err = s.ListTaskTypes(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_Settings(t *testing.T) {
	c, _ := setupTestCache(t)
	s := NewService(setupTestRepo(t), c)
	ctx := context.Background()

	got, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.True(t, got.NotificationsEnabled)
	assert.Equal(t, catalog.DefaultLogoURL, got.LogoURL)

	off := false
	text := "  Team sync on Friday "
	updated, err := s.UpdateSettings(ctx, SettingsUpdate{NotificationsEnabled: &off, AnnouncementText: &text})
	require.NoError(t, err)
	assert.False(t, updated.NotificationsEnabled)
	assert.Equal(t, "Team sync on Friday", updated.AnnouncementText)
	assert.Equal(t, catalog.DefaultLogoURL, updated.LogoURL)

	got, err = s.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, got.NotificationsEnabled)
	assert.Equal(t, "Team sync on Friday", got.AnnouncementText)

	blank := " "
	updated, err = s.UpdateSettings(ctx, SettingsUpdate{LogoURL: &blank})
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultLogoURL, updated.LogoURL)
	assert.Equal(t, "Team sync on Friday", updated.AnnouncementText)
}

func TestRemoteError(t *testing.T) {
	err := RemoteError(errors.New("create-category request failed: name already exists"))
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Nil(t, RemoteError(nil))
}
