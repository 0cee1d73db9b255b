// Package catalog manages categories, task types and the settings singleton.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/example/influencer-planner/domain/catalog"
	"github.com/example/influencer-planner/modules/cache"
	"github.com/example/influencer-planner/modules/storage"
)

var (
	// ErrNameRequired is returned when a catalog entry has an empty name.
	ErrNameRequired = errors.New("name is required")
	// ErrDuplicateName is returned when the name is taken, ignoring case.
	ErrDuplicateName = errors.New("name already exists")
	// ErrNoIDs is returned when a bulk update names no entries.
	ErrNoIDs = errors.New("no ids given")
	// ErrInvalidColor is returned for colors that are not hex color codes.
	ErrInvalidColor = errors.New("invalid color")
)

var validate = validator.New()

const (
	keyCategoriesActive = "categories:active"
	keyCategoriesAll    = "categories:all"
	keyTaskTypesActive  = "task_types:active"
	keyTaskTypesAll     = "task_types:all"
	keySettings         = "settings"
)

// SettingsUpdate changes part of the settings. Nil fields are left as they are.
type SettingsUpdate struct {
	LogoURL              *string
	NotificationsEnabled *bool
	AnnouncementText     *string
}

// Service implements the catalog operations with an optional cache in front
// of the repository.
type Service struct {
	repo  storage.CatalogRepository
	cache *cache.Cache
	now   func() time.Time
}

// NewService creates a Service. c may be nil.
func NewService(repo storage.CatalogRepository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c, now: time.Now}
}

// cached reads key through the cache when one is configured.
func cached[T any](ctx context.Context, s *Service, key string, load func(context.Context) (T, error)) (T, error) {
	if s.cache == nil {
		return load(ctx)
	}
	var out T
	_, err := s.cache.GetOrLoad(ctx, key, &out, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	return out, err
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	// stale entries expire with the TTL when the delete fails
	_ = s.cache.Delete(ctx, keys...)
}

// ListCategories returns categories ordered by name.
func (s *Service) ListCategories(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	key := keyCategoriesAll
	if activeOnly {
		key = keyCategoriesActive
	}
	out, err := cached(ctx, s, key, func(ctx context.Context) ([]catalog.Category, error) {
		list, err := s.repo.ListCategories(ctx, activeOnly)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []catalog.Category{}
		}
		return list, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return out, nil
}

// CreateCategory stores a new active category.
func (s *Service) CreateCategory(ctx context.Context, name, color string) (*catalog.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	color = strings.TrimSpace(color)
	if color != "" && !validColor(color) {
		return nil, ErrInvalidColor
	}

	c := catalog.NewCategory(uuid.New().String(), name, color, s.now())
	if err := s.repo.CreateCategory(ctx, &c); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.invalidate(ctx, keyCategoriesActive, keyCategoriesAll)
	return &c, nil
}

// SetCategoriesActive activates or deactivates categories in bulk.
func (s *Service) SetCategoriesActive(ctx context.Context, ids []string, active bool) (int64, error) {
	ids = compactIDs(ids)
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}
	n, err := s.repo.SetCategoriesActive(ctx, ids, active)
	if err != nil {
		return 0, fmt.Errorf("failed to update categories: %w", err)
	}
	s.invalidate(ctx, keyCategoriesActive, keyCategoriesAll)
	return n, nil
}

// ListTaskTypes returns task types ordered by name.
func (s *Service) ListTaskTypes(ctx context.Context, activeOnly bool) ([]catalog.TaskType, error) {
	key := keyTaskTypesAll
	if activeOnly {
		key = keyTaskTypesActive
	}
	out, err := cached(ctx, s, key, func(ctx context.Context) ([]catalog.TaskType, error) {
		list, err := s.repo.ListTaskTypes(ctx, activeOnly)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []catalog.TaskType{}
		}
		return list, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}
	return out, nil
}

// CreateTaskType stores a new active task type.
func (s *Service) CreateTaskType(ctx context.Context, name string) (*catalog.TaskType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	t := catalog.NewTaskType(uuid.New().String(), name, s.now())
	if err := s.repo.CreateTaskType(ctx, &t); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create task type: %w", err)
	}
	s.invalidate(ctx, keyTaskTypesActive, keyTaskTypesAll)
	return &t, nil
}

// SetTaskTypesActive activates or deactivates task types in bulk.
func (s *Service) SetTaskTypesActive(ctx context.Context, ids []string, active bool) (int64, error) {
	ids = compactIDs(ids)
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}
	n, err := s.repo.SetTaskTypesActive(ctx, ids, active)
	if err != nil {
		return 0, fmt.Errorf("failed to update task types: %w", err)
	}
	s.invalidate(ctx, keyTaskTypesActive, keyTaskTypesAll)
	return n, nil
}

// Settings returns the current settings.
func (s *Service) Settings(ctx context.Context) (catalog.Settings, error) {
	out, err := cached(ctx, s, keySettings, s.repo.GetSettings)
	if err != nil {
		return catalog.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return out, nil
}

// UpdateSettings applies u and returns the stored result.
func (s *Service) UpdateSettings(ctx context.Context, u SettingsUpdate) (catalog.Settings, error) {
	current, err := s.repo.GetSettings(ctx)
	if err != nil {
		return catalog.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	if u.LogoURL != nil {
		logo := strings.TrimSpace(*u.LogoURL)
		if logo == "" {
			logo = catalog.DefaultLogoURL
		}
		current.LogoURL = logo
	}
	if u.NotificationsEnabled != nil {
		current.NotificationsEnabled = *u.NotificationsEnabled
	}
	if u.AnnouncementText != nil {
		current.AnnouncementText = strings.TrimSpace(*u.AnnouncementText)
	}

	if err := s.repo.SaveSettings(ctx, current); err != nil {
		return catalog.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	s.invalidate(ctx, keySettings)
	return current, nil
}

// compactIDs trims, drops empty and removes repeated IDs.
func compactIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validColor(c string) bool {
	return validate.Var(c, "hexcolor") == nil
}
