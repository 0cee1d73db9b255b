// Package storage provides the document store as a mono plugin module.
// Users are stored as documents with their tasks embedded; the catalog holds
// categories, task types and the settings singleton.
package storage

import (
	"context"
	"errors"

	"github.com/example/influencer-planner/domain/catalog"
	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate key")
)

// TaskMutator changes an embedded task in place. Returning an error aborts
// the update.
type TaskMutator func(t *task.Task) error

// UserRepository persists users and their embedded tasks.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	// List returns users ordered by creation time. With no roles given every
	// user is returned.
	List(ctx context.Context, roles ...user.Role) ([]user.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// PushTask appends t to the user's task list.
	PushTask(ctx context.Context, userID string, t task.Task) error
	// UpdateTask applies mutate to one embedded task and stores the result.
	UpdateTask(ctx context.Context, userID, taskID string, mutate TaskMutator) (*task.Task, error)
}

// CatalogRepository persists categories, task types and settings.
type CatalogRepository interface {
	CreateCategory(ctx context.Context, c *catalog.Category) error
	ListCategories(ctx context.Context, activeOnly bool) ([]catalog.Category, error)
	SetCategoriesActive(ctx context.Context, ids []string, active bool) (int64, error)

	CreateTaskType(ctx context.Context, t *catalog.TaskType) error
	ListTaskTypes(ctx context.Context, activeOnly bool) ([]catalog.TaskType, error)
	SetTaskTypesActive(ctx context.Context, ids []string, active bool) (int64, error)

	// GetSettings returns the stored settings or the defaults when none exist.
	GetSettings(ctx context.Context) (catalog.Settings, error)
	SaveSettings(ctx context.Context, s catalog.Settings) error
}

// Store is a storage backend.
type Store interface {
	Users() UserRepository
	Catalog() CatalogRepository
	Backend() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
