package account

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
)

// AccountPort is the account API other modules use.
type AccountPort interface {
	Authenticate(ctx context.Context, email, password string) (*AuthenticateResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ValidateToken(ctx context.Context, token string) (*ValidateTokenResponse, error)
	GetUser(ctx context.Context, userID string) (*user.User, error)
	ListUsers(ctx context.Context, roles ...user.Role) ([]user.User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*user.User, error)
	DeleteUser(ctx context.Context, actorID, userID string) error
	AssignTask(ctx context.Context, req AssignTaskRequest) (*task.Task, error)
	UpdateTaskStatus(ctx context.Context, req UpdateTaskStatusRequest) (*task.Task, error)
}

// Adapter implements AccountPort over the service container.
type Adapter struct {
	container mono.ServiceContainer
}

var _ AccountPort = (*Adapter)(nil)

// NewAdapter creates an Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
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

// RemoteError restores the account sentinel behind an error that crossed the
// service bus as text, so callers can use errors.Is.
func RemoteError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, known := range knownErrors {
		if strings.Contains(msg, known.Error()) {
			return fmt.Errorf("%w: %v", known, err)
		}
	}
	return err
}

// Authenticate checks credentials.
func (a *Adapter) Authenticate(ctx context.Context, email, password string) (*AuthenticateResponse, error) {
	req := AuthenticateRequest{Email: email, Password: password}
	var resp AuthenticateResponse
	if err := a.call(ctx, ServiceAuthenticate, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshToken exchanges a refresh token.
func (a *Adapter) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	req := RefreshTokenRequest{RefreshToken: refreshToken}
	var resp TokenPair
	if err := a.call(ctx, ServiceRefreshToken, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateToken validates an access token. An invalid token is reported as
// an error wrapping ErrInvalidToken or ErrExpiredToken.
func (a *Adapter) ValidateToken(ctx context.Context, token string) (*ValidateTokenResponse, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := a.call(ctx, ServiceValidateToken, &req, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid {
		return nil, RemoteError(fmt.Errorf("token validation failed: %s", resp.Error))
	}
	return &resp, nil
}

// GetUser loads a user.
func (a *Adapter) GetUser(ctx context.Context, userID string) (*user.User, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse
	if err := a.call(ctx, ServiceGetUser, &req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ListUsers lists users with the given roles, or every user.
func (a *Adapter) ListUsers(ctx context.Context, roles ...user.Role) ([]user.User, error) {
	req := ListUsersRequest{Roles: roles}
	var resp ListUsersResponse
	if err := a.call(ctx, ServiceListUsers, &req, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// CreateUser creates a user.
func (a *Adapter) CreateUser(ctx context.Context, req CreateUserRequest) (*user.User, error) {
	var resp GetUserResponse
	if err := a.call(ctx, ServiceCreateUser, &req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// DeleteUser deletes a user.
func (a *Adapter) DeleteUser(ctx context.Context, actorID, userID string) error {
	req := DeleteUserRequest{ActorID: actorID, UserID: userID}
	var resp DeleteUserResponse
	return a.call(ctx, ServiceDeleteUser, &req, &resp)
}

// AssignTask assigns a task.
func (a *Adapter) AssignTask(ctx context.Context, req AssignTaskRequest) (*task.Task, error) {
	var resp TaskResponse
	if err := a.call(ctx, ServiceAssignTask, &req, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

// UpdateTaskStatus changes a task's status.
func (a *Adapter) UpdateTaskStatus(ctx context.Context, req UpdateTaskStatusRequest) (*task.Task, error) {
	var resp TaskResponse
	if err := a.call(ctx, ServiceUpdateTaskStatus, &req, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}
