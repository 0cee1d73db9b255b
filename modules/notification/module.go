package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"

	domaincatalog "github.com/example/influencer-planner/domain/catalog"
	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/events"
	"github.com/example/influencer-planner/modules/catalog"
)

// SettingsReader reads the tenant settings.
type SettingsReader interface {
	GetSettings(ctx context.Context) (domaincatalog.Settings, error)
}

const (
	typeTaskAssigned      = "task_assigned"
	typeTaskStatusChanged = "task_status_changed"
)

// Module consumes task events and records them while notifications are
// enabled in settings.
type Module struct {
	feed     *Feed
	settings SettingsReader
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the notification module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		feed:   NewFeed(DefaultCapacity),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "notification"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"catalog"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "catalog" {
		m.settings = catalog.NewAdapter(container)
	}
}

// RegisterEventConsumers subscribes to task events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskAssignedV1, m.handleTaskAssigned, m); err != nil {
		return fmt.Errorf("failed to register TaskAssigned consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskStatusChangedV1, m.handleTaskStatusChanged, m); err != nil {
		return fmt.Errorf("failed to register TaskStatusChanged consumer: %w", err)
	}
	m.logger.Info("Registered event consumers", "events", []string{"TaskAssigned", "TaskStatusChanged"})
	return nil
}

// RegisterServices registers the feed service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListNotifications, json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListNotifications, err)
	}
	return nil
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	if m.settings == nil {
		return fmt.Errorf("catalog dependency not set")
	}
	m.logger.Info("Notification module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Notification module stopped")
	return nil
}

// Health reports the feed size.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"notifications": m.feed.Len()},
	}
}

// Feed returns the underlying feed.
func (m *Module) Feed() *Feed {
	return m.feed
}

// enabled reports whether notifications are switched on. Settings errors
// keep notifications on.
func (m *Module) enabled(ctx context.Context) bool {
	s, err := m.settings.GetSettings(ctx)
	if err != nil {
		m.logger.Warn("Failed to read settings", "error", err)
		return true
	}
	return s.NotificationsEnabled
}

func (m *Module) record(ctx context.Context, n Notification) {
	if !m.enabled(ctx) {
		m.logger.Debug("Notifications disabled, dropping", "type", n.Type, "task_id", n.TaskID)
		return
	}
	n.ID = uuid.New().String()
	m.feed.Add(n)
}

func (m *Module) handleTaskAssigned(ctx context.Context, ev events.TaskAssignedEvent, _ *mono.Msg) error {
	m.logger.Info("Task assigned", "task_id", ev.TaskID, "user_id", ev.UserID)
	m.record(ctx, Notification{
		Type:      typeTaskAssigned,
		UserID:    ev.UserID,
		TaskID:    ev.TaskID,
		Message:   fmt.Sprintf("New task '%s' assigned to %s", ev.Title, ev.UserName),
		Timestamp: ev.AssignedAt,
	})
	return nil
}

func (m *Module) handleTaskStatusChanged(ctx context.Context, ev events.TaskStatusChangedEvent, _ *mono.Msg) error {
	m.logger.Info("Task status changed", "task_id", ev.TaskID, "from", ev.From, "to", ev.To)
	m.record(ctx, Notification{
		Type:   typeTaskStatusChanged,
		UserID: ev.UserID,
		TaskID: ev.TaskID,
		Message: fmt.Sprintf("Task '%s' of %s moved from %s to %s",
			ev.Title, ev.UserName, task.Status(ev.From).Label(), task.Status(ev.To).Label()),
		Timestamp: ev.ChangedAt,
	})
	return nil
}

func (m *Module) handleList(_ context.Context, req ListRequest, _ *mono.Msg) (ListResponse, error) {
	return ListResponse{Notifications: m.feed.List(req.UserID, req.Limit)}, nil
}
