package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
)

const (
	// SeedAdminEmail is the login of the seeded administrator.
	SeedAdminEmail = "admin@planner.local"
	// SeedCreatorEmail is the login of the seeded demo content creator.
	SeedCreatorEmail = "influencer@planner.local"

	defaultSeedAdminPassword   = "admin123"
	defaultSeedCreatorPassword = "infl123"
)

// SeedConfig holds the passwords of the default users. Empty values fall
// back to the built-in demo passwords.
type SeedConfig struct {
	AdminPassword   string
	CreatorPassword string
}

// Seed creates a default administrator and a demo content creator when the
// user collection is empty. It reports whether anything was created.
func (s *Service) Seed(ctx context.Context, cfg SeedConfig) (bool, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	if cfg.AdminPassword == "" {
		cfg.AdminPassword = defaultSeedAdminPassword
	}
	if cfg.CreatorPassword == "" {
		cfg.CreatorPassword = defaultSeedCreatorPassword
	}

	adminHash, err := s.hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	creatorHash, err := s.hasher.Hash(cfg.CreatorPassword)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	tasks, err := seedTasks(now)
	if err != nil {
		return false, err
	}

	seeds := []*user.User{
		{
			ID:           uuid.New().String(),
			FullName:     "Admin User",
			Email:        SeedAdminEmail,
			PasswordHash: adminHash,
			Role:         user.RoleAdmin,
			Permissions:  adminPermissions(),
			Tasks:        []task.Task{},
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           uuid.New().String(),
			FullName:     "Influencer Demo",
			Email:        SeedCreatorEmail,
			PasswordHash: creatorHash,
			Role:         user.RoleCreator,
			Permissions:  user.DefaultCreatorPermissions(),
			Category:     "Technology",
			Platforms:    []string{"Instagram", "TikTok"},
			Tasks:        tasks,
			CreatedAt:    now.Add(time.Millisecond),
			UpdatedAt:    now,
		},
	}
	for _, u := range seeds {
		if err := s.users.Create(ctx, u); err != nil {
			return false, fmt.Errorf("failed to seed %s: %w", u.Email, err)
		}
	}
	return true, nil
}

func seedTasks(now time.Time) ([]task.Task, error) {
	ids := make([]string, 2)
	for i := range ids {
		id, err := task.NewID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate task id: %w", err)
		}
		ids[i] = id
	}

	due := now
	review := task.New(ids[0], "Review the weekly content plan", "Hook Content", &due, now)
	review.SetStatus(task.StatusInProgress, now)
	ideas := task.New(ids[1], "Send new campaign ideas", "Story", nil, now)

	return []task.Task{review, ideas}, nil
}
