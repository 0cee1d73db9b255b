package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/influencer-planner/domain/catalog"
	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
)

// GormStore keeps documents in SQLite. Embedded tasks are stored as a JSON
// column on the users table.
type GormStore struct {
	db   *gorm.DB
	path string
}

// OpenGorm opens (and migrates) the SQLite database at path.
func OpenGorm(path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGormStore(db, path)
}

// NewGormStore wraps an open gorm connection and runs migrations.
func NewGormStore(db *gorm.DB, path string) (*GormStore, error) {
	if err := db.AutoMigrate(&user.User{}, &catalog.Category{}, &catalog.TaskType{}, &catalog.Settings{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &GormStore{db: db, path: path}, nil
}

func (s *GormStore) Users() UserRepository      { return &gormUsers{db: s.db} }
func (s *GormStore) Catalog() CatalogRepository { return &gormCatalog{db: s.db} }
func (s *GormStore) Backend() string            { return "sqlite:" + s.path }

// Ping checks the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (s *GormStore) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

type gormUsers struct {
	db *gorm.DB
}

func (r *gormUsers) Create(ctx context.Context, u *user.User) error {
	u.Email = user.NormalizeEmail(u.Email)
	if u.Tasks == nil {
		u.Tasks = []task.Task{}
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

func (r *gormUsers) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (r *gormUsers) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", user.NormalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (r *gormUsers) List(ctx context.Context, roles ...user.Role) ([]user.User, error) {
	q := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	var users []user.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *gormUsers) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&user.User{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormUsers) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&user.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *gormUsers) PushTask(ctx context.Context, userID string, t task.Task) error {
	_, err := r.modify(ctx, userID, func(u *user.User) (*task.Task, error) {
		u.Tasks = append(u.Tasks, t)
		return &t, nil
	})
	return err
}

func (r *gormUsers) UpdateTask(ctx context.Context, userID, taskID string, mutate TaskMutator) (*task.Task, error) {
	return r.modify(ctx, userID, func(u *user.User) (*task.Task, error) {
		i := u.FindTask(taskID)
		if i < 0 {
			return nil, ErrNotFound
		}
		if err := mutate(&u.Tasks[i]); err != nil {
			return nil, err
		}
		updated := u.Tasks[i]
		return &updated, nil
	})
}

// modify runs a read-modify-write of the user's task list in a transaction.
func (r *gormUsers) modify(ctx context.Context, userID string, fn func(u *user.User) (*task.Task, error)) (*task.Task, error) {
	var out *task.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := tx.First(&u, "id = ?", userID).Error; err != nil {
			return translate(err)
		}

		t, err := fn(&u)
		if err != nil {
			return err
		}

		u.UpdatedAt = time.Now()
		if err := tx.Save(&u).Error; err != nil {
			return fmt.Errorf("failed to save tasks: %w", err)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type gormCatalog struct {
	db *gorm.DB
}

func (r *gormCatalog) CreateCategory(ctx context.Context, c *catalog.Category) error {
	c.NameKey = catalog.NameKey(c.Name)
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", translate(err))
	}
	return nil
}

func (r *gormCatalog) ListCategories(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []catalog.Category
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return out, nil
}

func (r *gormCatalog) SetCategoriesActive(ctx context.Context, ids []string, active bool) (int64, error) {
	return r.setActive(ctx, &catalog.Category{}, ids, active)
}

func (r *gormCatalog) CreateTaskType(ctx context.Context, t *catalog.TaskType) error {
	t.NameKey = catalog.NameKey(t.Name)
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task type: %w", translate(err))
	}
	return nil
}

func (r *gormCatalog) ListTaskTypes(ctx context.Context, activeOnly bool) ([]catalog.TaskType, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []catalog.TaskType
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}
	return out, nil
}

func (r *gormCatalog) SetTaskTypesActive(ctx context.Context, ids []string, active bool) (int64, error) {
	return r.setActive(ctx, &catalog.TaskType{}, ids, active)
}

func (r *gormCatalog) setActive(ctx context.Context, model any, ids []string, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Updates(map[string]any{
		"is_active":  active,
		"updated_at": time.Now(),
	})
	if err := result.Error; err != nil {
		return 0, fmt.Errorf("failed to update active flag: %w", err)
	}
	return result.RowsAffected, nil
}

func (r *gormCatalog) GetSettings(ctx context.Context) (catalog.Settings, error) {
	var s catalog.Settings
	err := r.db.WithContext(ctx).First(&s, "id = ?", catalog.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return catalog.DefaultSettings(), nil
	}
	if err != nil {
		return catalog.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

func (r *gormCatalog) SaveSettings(ctx context.Context, s catalog.Settings) error {
	s.ID = catalog.SettingsID
	s.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(&s).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
