package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/influencer-planner/events"
	"github.com/example/influencer-planner/modules/storage"
)

// Config holds the account module settings.
type Config struct {
	JWT  JWTConfig
	Seed SeedConfig
	// BcryptCost overrides DefaultBcryptCost when positive.
	BcryptCost int
}

// Module provides user, authentication and task assignment services.
type Module struct {
	store    storage.Store
	service  *Service
	eventBus mono.EventBus
	cfg      Config
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the account module.
func NewModule(cfg Config, logger types.Logger) *Module {
	return &Module{cfg: cfg, logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "account"
}

// SetPlugin receives the storage plugin.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "storage" {
		return
	}
	p, ok := plugin.(*storage.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for storage",
			"alias", alias,
			"expected", "*storage.PluginModule")
		return
	}
	m.store = p.Port()
	m.logger.Info("Received storage plugin", "alias", alias)
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskAssignedV1.ToBase(),
		events.TaskStatusChangedV1.ToBase(),
	}
}

// Start builds the service and seeds default users into an empty store.
func (m *Module) Start(ctx context.Context) error {
	if m.store == nil {
		return fmt.Errorf("required plugin 'storage' not registered")
	}

	hasher := NewPasswordHasher()
	if m.cfg.BcryptCost > 0 {
		hasher = NewPasswordHasherWithCost(m.cfg.BcryptCost)
	}
	m.service = NewService(m.store.Users(), hasher, NewJWTManager(m.cfg.JWT))

	seeded, err := m.service.Seed(ctx, m.cfg.Seed)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if seeded {
		m.logger.Info("Seeded default users",
			"admin", SeedAdminEmail,
			"creator", SeedCreatorEmail)
		if m.cfg.Seed.AdminPassword == "" || m.cfg.Seed.CreatorPassword == "" {
			m.logger.Warn("Default users were seeded with built-in demo passwords")
		}
	}

	m.logger.Info("Account module started", "backend", m.store.Backend())
	return nil
}

// Stop stops the module. The store is closed by its plugin.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Account module stopped")
	return nil
}

// Health reports whether the user store answers.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "not started"}
	}
	n, err := m.store.Users().Count(ctx)
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("user store error: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"users": n},
	}
}

// RegisterServices registers the request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceAuthenticate, json.Unmarshal, json.Marshal, m.handleAuthenticate,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceAuthenticate, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceRefreshToken, json.Unmarshal, json.Marshal, m.handleRefreshToken,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceRefreshToken, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceValidateToken, json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceValidateToken, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGetUser, json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetUser, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListUsers, json.Unmarshal, json.Marshal, m.handleListUsers,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListUsers, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreateUser, json.Unmarshal, json.Marshal, m.handleCreateUser,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreateUser, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceDeleteUser, json.Unmarshal, json.Marshal, m.handleDeleteUser,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceDeleteUser, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceAssignTask, json.Unmarshal, json.Marshal, m.handleAssignTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceAssignTask, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdateTaskStatus, json.Unmarshal, json.Marshal, m.handleUpdateTaskStatus,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUpdateTaskStatus, err)
	}

	m.logger.Info("Registered account services", "services", []string{
		ServiceAuthenticate, ServiceRefreshToken, ServiceValidateToken,
		ServiceGetUser, ServiceListUsers, ServiceCreateUser, ServiceDeleteUser,
		ServiceAssignTask, ServiceUpdateTaskStatus,
	})
	return nil
}

func (m *Module) handleAuthenticate(ctx context.Context, req AuthenticateRequest, _ *mono.Msg) (AuthenticateResponse, error) {
	u, tokens, err := m.service.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			m.logger.Warn("Failed login attempt", "email", req.Email)
		}
		return AuthenticateResponse{}, err
	}
	m.logger.Info("User logged in", "user_id", u.ID, "role", string(u.Role))
	return AuthenticateResponse{User: *u, Tokens: *tokens}, nil
}

func (m *Module) handleRefreshToken(ctx context.Context, req RefreshTokenRequest, _ *mono.Msg) (TokenPair, error) {
	tokens, err := m.service.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	return *tokens, nil
}

func (m *Module) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return ValidateTokenResponse{Valid: false, Error: ErrExpiredToken.Error()}, nil
		}
		if errors.Is(err, ErrInvalidToken) {
			return ValidateTokenResponse{Valid: false, Error: ErrInvalidToken.Error()}, nil
		}
		return ValidateTokenResponse{}, err
	}
	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

func (m *Module) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	u, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}
	return GetUserResponse{User: *u}, nil
}

func (m *Module) handleListUsers(ctx context.Context, req ListUsersRequest, _ *mono.Msg) (ListUsersResponse, error) {
	users, err := m.service.ListUsers(ctx, req.Roles...)
	if err != nil {
		return ListUsersResponse{}, err
	}
	return ListUsersResponse{Users: users}, nil
}

func (m *Module) handleCreateUser(ctx context.Context, req CreateUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	u, err := m.service.CreateUser(ctx, CreateUserInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Permissions: req.Permissions,
		Category:    req.Category,
		Platforms:   req.Platforms,
	})
	if err != nil {
		return GetUserResponse{}, err
	}
	m.logger.Info("User created", "user_id", u.ID, "role", string(u.Role))
	return GetUserResponse{User: *u}, nil
}

func (m *Module) handleDeleteUser(ctx context.Context, req DeleteUserRequest, _ *mono.Msg) (DeleteUserResponse, error) {
	if err := m.service.DeleteUser(ctx, req.ActorID, req.UserID); err != nil {
		return DeleteUserResponse{}, err
	}
	m.logger.Info("User deleted", "user_id", req.UserID, "by", req.ActorID)
	return DeleteUserResponse{Deleted: true}, nil
}

func (m *Module) handleAssignTask(ctx context.Context, req AssignTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	owner, t, err := m.service.AssignTask(ctx, AssignTaskInput{
		ActorID:  req.ActorID,
		UserID:   req.UserID,
		Title:    req.Title,
		TaskType: req.TaskType,
		DueDate:  req.DueDate,
	})
	if err != nil {
		return TaskResponse{}, err
	}

	m.publish(func() error {
		return events.TaskAssignedV1.Publish(m.eventBus, events.TaskAssignedEvent{
			TaskID:     t.ID,
			UserID:     owner.ID,
			UserName:   owner.FullName,
			Title:      t.Title,
			TaskType:   t.TypeLabel(),
			DueDate:    t.DueDate,
			AssignedBy: req.ActorID,
			AssignedAt: t.CreatedAt,
		}, nil)
	}, "TaskAssigned", t.ID)

	return TaskResponse{Task: *t}, nil
}

func (m *Module) handleUpdateTaskStatus(ctx context.Context, req UpdateTaskStatusRequest, _ *mono.Msg) (TaskResponse, error) {
	change, err := m.service.UpdateTaskStatus(ctx, req.ActorID, req.UserID, req.TaskID, req.Status)
	if err != nil {
		return TaskResponse{}, err
	}

	if change.From != change.Task.Status {
		m.publish(func() error {
			return events.TaskStatusChangedV1.Publish(m.eventBus, events.TaskStatusChangedEvent{
				TaskID:    change.Task.ID,
				UserID:    change.Owner.ID,
				UserName:  change.Owner.FullName,
				Title:     change.Task.Title,
				From:      string(change.From),
				To:        string(change.Task.Status),
				ChangedBy: req.ActorID,
				ChangedAt: m.service.now(),
			}, nil)
		}, "TaskStatusChanged", change.Task.ID)
	}

	return TaskResponse{Task: *change.Task}, nil
}

// publish emits an event best-effort. A failed publish never fails the
// request that caused it.
func (m *Module) publish(fn func() error, event, taskID string) {
	if m.eventBus == nil {
		return
	}
	if err := fn(); err != nil {
		m.logger.Warn("Failed to publish event", "event", event, "task_id", taskID, "error", err)
	}
}
