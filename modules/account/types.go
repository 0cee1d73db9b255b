package account

import (
	"time"

	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
)

// Service names registered by the account module.
const (
	ServiceAuthenticate     = "authenticate"
	ServiceRefreshToken     = "refresh-token"
	ServiceValidateToken    = "validate-token"
	ServiceGetUser          = "get-user"
	ServiceListUsers        = "list-users"
	ServiceCreateUser       = "create-user"
	ServiceDeleteUser       = "delete-user"
	ServiceAssignTask       = "assign-task"
	ServiceUpdateTaskStatus = "update-task-status"
)

// AuthenticateRequest carries login credentials.
type AuthenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticateResponse is the authenticated user with fresh tokens.
type AuthenticateResponse struct {
	User   user.User `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// RefreshTokenRequest carries a refresh token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ValidateTokenRequest carries an access token.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse reports the outcome of token validation.
type ValidateTokenResponse struct {
	Valid  bool      `json:"valid"`
	UserID string    `json:"user_id,omitempty"`
	Email  string    `json:"email,omitempty"`
	Role   user.Role `json:"role,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// GetUserRequest identifies a user.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// ListUsersRequest filters users by role. No roles means every user.
type ListUsersRequest struct {
	Roles []user.Role `json:"roles,omitempty"`
}

// ListUsersResponse holds users in creation order.
type ListUsersResponse struct {
	Users []user.User `json:"users"`
}

// CreateUserRequest describes a new user.
type CreateUserRequest struct {
	FullName    string            `json:"full_name"`
	Email       string            `json:"email"`
	Password    string            `json:"password"`
	Role        user.Role         `json:"role"`
	Permissions []user.Permission `json:"permissions,omitempty"`
	Category    string            `json:"category,omitempty"`
	Platforms   []string          `json:"platforms,omitempty"`
}

// DeleteUserRequest identifies the user to delete and who is deleting.
type DeleteUserRequest struct {
	ActorID string `json:"actor_id"`
	UserID  string `json:"user_id"`
}

// DeleteUserResponse confirms a deletion.
type DeleteUserResponse struct {
	Deleted bool `json:"deleted"`
}

// AssignTaskRequest hands a new task to a user.
type AssignTaskRequest struct {
	ActorID  string     `json:"actor_id"`
	UserID   string     `json:"user_id"`
	Title    string     `json:"title"`
	TaskType string     `json:"task_type,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`
}

// UpdateTaskStatusRequest moves a task to another status.
type UpdateTaskStatusRequest struct {
	ActorID string `json:"actor_id"`
	UserID  string `json:"user_id"`
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
}

// TaskResponse is a single task.
type TaskResponse struct {
	Task task.Task `json:"task"`
}

// GetUserResponse is a single user.
type GetUserResponse struct {
	User user.User `json:"user"`
}
