package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/influencer-planner/modules/cache"
	"github.com/example/influencer-planner/modules/storage"
)

// Module provides catalog and settings services.
type Module struct {
	store   storage.Store
	cache   *cache.Cache
	service *Service
	logger  types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the catalog module.
func NewModule(logger types.Logger) *Module {
	return &Module{logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
}

// SetPlugin receives the storage plugin and, when Redis is configured, the
// cache plugin.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	switch alias {
	case "storage":
		if p, ok := plugin.(*storage.PluginModule); ok {
			m.store = p.Port()
			m.logger.Info("Received storage plugin", "alias", alias)
			return
		}
	case "cache":
		if p, ok := plugin.(*cache.PluginModule); ok {
			m.cache = p.Port()
			m.logger.Info("Received cache plugin", "alias", alias)
			return
		}
	default:
		return
	}
	m.logger.Error("Invalid plugin type", "alias", alias)
}

// Start builds the service.
func (m *Module) Start(_ context.Context) error {
	if m.store == nil {
		return fmt.Errorf("required plugin 'storage' not registered")
	}
	m.service = NewService(m.store.Catalog(), m.cache)
	m.logger.Info("Catalog module started", "cached", m.cache != nil)
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Catalog module stopped")
	return nil
}

// Health reports whether settings can be read.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "not started"}
	}
	if _, err := m.service.Settings(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("settings unavailable: %v", err),
		}
	}
	details := map[string]any{"cached": m.cache != nil}
	if m.cache != nil {
		details["cache_hit_rate"] = m.cache.Stats().HitRate
	}
	return mono.HealthStatus{Healthy: true, Message: "operational", Details: details}
}

// RegisterServices registers the request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListCategories, json.Unmarshal, json.Marshal, m.handleListCategories,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListCategories, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreateCategory, json.Unmarshal, json.Marshal, m.handleCreateCategory,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreateCategory, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceSetCategoriesActive, json.Unmarshal, json.Marshal, m.handleSetCategoriesActive,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceSetCategoriesActive, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListTaskTypes, json.Unmarshal, json.Marshal, m.handleListTaskTypes,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListTaskTypes, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreateTaskType, json.Unmarshal, json.Marshal, m.handleCreateTaskType,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreateTaskType, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceSetTaskTypesActive, json.Unmarshal, json.Marshal, m.handleSetTaskTypesActive,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceSetTaskTypesActive, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGetSettings, json.Unmarshal, json.Marshal, m.handleGetSettings,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetSettings, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdateSettings, json.Unmarshal, json.Marshal, m.handleUpdateSettings,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUpdateSettings, err)
	}

	m.logger.Info("Registered catalog services")
	return nil
}

func (m *Module) handleListCategories(ctx context.Context, req ListRequest, _ *mono.Msg) (ListCategoriesResponse, error) {
	list, err := m.service.ListCategories(ctx, req.ActiveOnly)
	if err != nil {
		return ListCategoriesResponse{}, err
	}
	return ListCategoriesResponse{Categories: list}, nil
}

func (m *Module) handleCreateCategory(ctx context.Context, req CreateCategoryRequest, _ *mono.Msg) (CategoryResponse, error) {
	c, err := m.service.CreateCategory(ctx, req.Name, req.Color)
	if err != nil {
		return CategoryResponse{}, err
	}
	m.logger.Info("Category created", "id", c.ID, "name", c.Name)
	return CategoryResponse{Category: *c}, nil
}

func (m *Module) handleSetCategoriesActive(ctx context.Context, req SetActiveRequest, _ *mono.Msg) (SetActiveResponse, error) {
	n, err := m.service.SetCategoriesActive(ctx, req.IDs, req.Active)
	if err != nil {
		return SetActiveResponse{}, err
	}
	return SetActiveResponse{Updated: n}, nil
}

func (m *Module) handleListTaskTypes(ctx context.Context, req ListRequest, _ *mono.Msg) (ListTaskTypesResponse, error) {
	list, err := m.service.ListTaskTypes(ctx, req.ActiveOnly)
	if err != nil {
		return ListTaskTypesResponse{}, err
	}
	return ListTaskTypesResponse{TaskTypes: list}, nil
}

func (m *Module) handleCreateTaskType(ctx context.Context, req CreateTaskTypeRequest, _ *mono.Msg) (TaskTypeResponse, error) {
	t, err := m.service.CreateTaskType(ctx, req.Name)
	if err != nil {
		return TaskTypeResponse{}, err
	}
	m.logger.Info("Task type created", "id", t.ID, "name", t.Name)
	return TaskTypeResponse{TaskType: *t}, nil
}

func (m *Module) handleSetTaskTypesActive(ctx context.Context, req SetActiveRequest, _ *mono.Msg) (SetActiveResponse, error) {
	n, err := m.service.SetTaskTypesActive(ctx, req.IDs, req.Active)
	if err != nil {
		return SetActiveResponse{}, err
	}
	return SetActiveResponse{Updated: n}, nil
}

func (m *Module) handleGetSettings(ctx context.Context, _ GetSettingsRequest, _ *mono.Msg) (SettingsResponse, error) {
	s, err := m.service.Settings(ctx)
	if err != nil {
		return SettingsResponse{}, err
	}
	return SettingsResponse{Settings: s}, nil
}

func (m *Module) handleUpdateSettings(ctx context.Context, req UpdateSettingsRequest, _ *mono.Msg) (SettingsResponse, error) {
	s, err := m.service.UpdateSettings(ctx, SettingsUpdate{
		LogoURL:              req.LogoURL,
		NotificationsEnabled: req.NotificationsEnabled,
		AnnouncementText:     req.AnnouncementText,
	})
	if err != nil {
		return SettingsResponse{}, err
	}
	m.logger.Info("Settings updated")
	return SettingsResponse{Settings: s}, nil
}
