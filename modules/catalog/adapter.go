package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/influencer-planner/domain/catalog"
)

// CatalogPort is the catalog API other modules use.
type CatalogPort interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]catalog.Category, error)
	CreateCategory(ctx context.Context, name, color string) (*catalog.Category, error)
	SetCategoriesActive(ctx context.Context, ids []string, active bool) (int64, error)
	ListTaskTypes(ctx context.Context, activeOnly bool) ([]catalog.TaskType, error)
	CreateTaskType(ctx context.Context, name string) (*catalog.TaskType, error)
	SetTaskTypesActive(ctx context.Context, ids []string, active bool) (int64, error)
	GetSettings(ctx context.Context) (catalog.Settings, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (catalog.Settings, error)
}

// Adapter implements CatalogPort over the service container.
type Adapter struct {
	container mono.ServiceContainer
}

var _ CatalogPort = (*Adapter)(nil)

// NewAdapter creates an Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

var knownErrors = []error{ErrNameRequired, ErrDuplicateName, ErrNoIDs, ErrInvalidColor}

// RemoteError restores the catalog sentinel behind an error that crossed the
// service bus as text.
func RemoteError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range knownErrors {
		if strings.Contains(err.Error(), known.Error()) {
			return fmt.Errorf("%w: %v", known, err)
		}
	}
	return err
}

func (a *Adapter) call(ctx context.Context, service string, req, resp any) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return RemoteError(fmt.Errorf("%s request failed: %w", service, err))
	}
	return nil
}

// ListCategories lists categories.
func (a *Adapter) ListCategories(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	req := ListRequest{ActiveOnly: activeOnly}
	var resp ListCategoriesResponse
	if err := a.call(ctx, ServiceListCategories, &req, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// CreateCategory creates a category.
func (a *Adapter) CreateCategory(ctx context.Context, name, color string) (*catalog.Category, error) {
	req := CreateCategoryRequest{Name: name, Color: color}
	var resp CategoryResponse
	if err := a.call(ctx, ServiceCreateCategory, &req, &resp); err != nil {
		return nil, err
	}
	return &resp.Category, nil
}

// SetCategoriesActive bulk-updates category flags.
func (a *Adapter) SetCategoriesActive(ctx context.Context, ids []string, active bool) (int64, error) {
	req := SetActiveRequest{IDs: ids, Active: active}
	var resp SetActiveResponse
	if err := a.call(ctx, ServiceSetCategoriesActive, &req, &resp); err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

// ListTaskTypes lists task types.
func (a *Adapter) ListTaskTypes(ctx context.Context, activeOnly bool) ([]catalog.TaskType, error) {
	req := ListRequest{ActiveOnly: activeOnly}
	var resp ListTaskTypesResponse
	if err := a.call(ctx, ServiceListTaskTypes, &req, &resp); err != nil {
		return nil, err
	}
	return resp.TaskTypes, nil
}

// CreateTaskType creates a task type.
func (a *Adapter) CreateTaskType(ctx context.Context, name string) (*catalog.TaskType, error) {
	req := CreateTaskTypeRequest{Name: name}
	var resp TaskTypeResponse
	if err := a.call(ctx, ServiceCreateTaskType, &req, &resp); err != nil {
		return nil, err
	}
	return &resp.TaskType, nil
}

// SetTaskTypesActive bulk-updates task type flags.
func (a *Adapter) SetTaskTypesActive(ctx context.Context, ids []string, active bool) (int64, error) {
	req := SetActiveRequest{IDs: ids, Active: active}
	var resp SetActiveResponse
	if err := a.call(ctx, ServiceSetTaskTypesActive, &req, &resp); err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

// GetSettings loads the settings.
func (a *Adapter) GetSettings(ctx context.Context) (catalog.Settings, error) {
	req := GetSettingsRequest{}
	var resp SettingsResponse
	if err := a.call(ctx, ServiceGetSettings, &req, &resp); err != nil {
		return catalog.Settings{}, err
	}
	return resp.Settings, nil
}

// UpdateSettings changes the settings.
func (a *Adapter) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (catalog.Settings, error) {
	var resp SettingsResponse
	if err := a.call(ctx, ServiceUpdateSettings, &req, &resp); err != nil {
		return catalog.Settings{}, err
	}
	return resp.Settings, nil
}
