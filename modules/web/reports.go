package web

import (
	"context"
	"fmt"
	"time"

	"github.com/example/influencer-planner/domain/report"
	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
)

// CalendarTask is one entry of the dashboard calendar widget.
type CalendarTask struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	TaskType     string      `json:"taskType"`
	Status       task.Status `json:"status"`
	StatusLabel  string      `json:"statusLabel"`
	Color        string      `json:"color"`
	DueDate      *time.Time  `json:"dueDate,omitempty"`
	Influencer   string      `json:"influencer"`
	InfluencerID string      `json:"influencerId"`
}

func calendarTasks(records []report.Record) []CalendarTask {
	out := make([]CalendarTask, len(records))
	for i, r := range records {
		out[i] = CalendarTask{
			ID:           r.TaskID,
			Title:        r.Title,
			TaskType:     r.TaskType,
			Status:       r.Status,
			StatusLabel:  r.Status.Label(),
			Color:        r.Status.Color(),
			DueDate:      r.DueDate,
			Influencer:   r.Owner,
			InfluencerID: r.UserID,
		}
	}
	return out
}

// visibleOwners returns the users whose tasks u may see on the dashboard:
// every content creator for staff and administrators, only u otherwise.
func (s *Server) visibleOwners(ctx context.Context, u *user.User) ([]user.User, error) {
	if u.Role == user.RoleCreator {
		return []user.User{*u}, nil
	}
	return s.creators(ctx)
}

func (s *Server) creators(ctx context.Context) ([]user.User, error) {
	users, err := s.accounts.ListUsers(ctx, user.RoleCreator)
	if err != nil {
		return nil, fmt.Errorf("failed to list creators: %w", err)
	}
	return users, nil
}

// performance builds the performance report for the raw query values.
func (s *Server) performance(ctx context.Context, q report.Query) (report.Performance, []user.User, error) {
	roster, err := s.creators(ctx)
	if err != nil {
		return report.Performance{}, nil, err
	}
	now := s.now()
	f := report.ParseQuery(q, now, s.cfg.Location)
	perf := report.BuildPerformance(report.Flatten(roster), f, report.PerformanceOptions{
		Roster: roster,
		Now:    now,
		Loc:    s.cfg.Location,
	})
	return perf, roster, nil
}

// dashboard builds the chart bundle over the given owners.
func (s *Server) dashboardData(owners []user.User) report.Dashboard {
	return report.Build(report.Flatten(owners), owners, s.now(), s.cfg.Location)
}
