package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
	"github.com/example/influencer-planner/modules/storage"
)

// CreateUserInput describes a new user.
type CreateUserInput struct {
	FullName    string
	Email       string
	Password    string
	Role        user.Role
	Permissions []user.Permission
	Category    string
	Platforms   []string
}

// AssignTaskInput describes a task handed to a user.
type AssignTaskInput struct {
	ActorID  string
	UserID   string
	Title    string
	TaskType string
	DueDate  *time.Time
}

// StatusChange is the outcome of a task status update.
type StatusChange struct {
	Owner *user.User
	From  task.Status
	Task  *task.Task
}

// Service implements account and task-assignment logic on top of the user
// repository.
type Service struct {
	users  storage.UserRepository
	hasher *PasswordHasher
	jwt    *JWTManager
	now    func() time.Time
}

// NewService creates a Service.
func NewService(users storage.UserRepository, hasher *PasswordHasher, jwt *JWTManager) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		jwt:    jwt,
		now:    time.Now,
	}
}

// Authenticate checks the credentials and issues a token pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*user.User, *TokenPair, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.jwt.IssuePair(u)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return u, tokens, nil
}

// ValidateToken validates an access token and checks the user still exists.
func (s *Service) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetUser(ctx, claims.UserID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return claims, nil
}

// RefreshTokens exchanges a refresh token for a new pair.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	tokens, err := s.jwt.IssuePair(u)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return tokens, nil
}

// GetUser loads a user by ID.
func (s *Service) GetUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

// ListUsers returns users in creation order, optionally filtered by role.
func (s *Service) ListUsers(ctx context.Context, roles ...user.Role) ([]user.User, error) {
	users, err := s.users.List(ctx, roles...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []user.User{}
	}
	return users, nil
}

// CreateUser validates in and stores a new user. Administrators are stored
// with every permission regardless of the requested set.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*user.User, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := user.NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	perms := in.Permissions
	if in.Role == user.RoleAdmin {
		perms = adminPermissions()
	}
	if perms == nil {
		perms = []user.Permission{}
	}

	now := s.now()
	u := &user.User{
		ID:           uuid.New().String(),
		FullName:     name,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		Permissions:  perms,
		Category:     strings.TrimSpace(in.Category),
		Platforms:    in.Platforms,
		Tasks:        []task.Task{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// DeleteUser removes a user and their embedded tasks. Users cannot delete
// themselves.
func (s *Service) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID != "" && actorID == id {
		return ErrForbidden
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// AssignTask appends a waiting task to the target user.
func (s *Service) AssignTask(ctx context.Context, in AssignTaskInput) (*user.User, *task.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, nil, ErrTitleRequired
	}

	owner, err := s.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, nil, err
	}

	id, err := task.NewID()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate task id: %w", err)
	}
	t := task.New(id, title, strings.TrimSpace(in.TaskType), in.DueDate, s.now())

	if err := s.users.PushTask(ctx, owner.ID, t); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to assign task: %w", err)
	}
	return owner, &t, nil
}

// UpdateTaskStatus moves a task to rawStatus. Content creators may only
// update their own tasks.
func (s *Service) UpdateTaskStatus(ctx context.Context, actorID, ownerID, taskID, rawStatus string) (*StatusChange, error) {
	status, ok := task.ParseStatus(rawStatus)
	if !ok {
		return nil, ErrInvalidStatus
	}

	actor, err := s.GetUser(ctx, actorID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if actor.Role == user.RoleCreator && actor.ID != ownerID {
		return nil, ErrForbidden
	}

	owner, err := s.GetUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var from task.Status
	updated, err := s.users.UpdateTask(ctx, ownerID, taskID, func(t *task.Task) error {
		from = t.Status
		t.SetStatus(status, s.now())
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return &StatusChange{Owner: owner, From: from, Task: updated}, nil
}

// adminPermissions is the stored permission set of administrators.
func adminPermissions() []user.Permission {
	return append([]user.Permission{user.PermHome}, user.AllPermissions()...)
}
