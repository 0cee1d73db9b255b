package report

import (
	"strings"
	"time"

	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
)

// Record is one task flattened together with its owner's details.
type Record struct {
	TaskID      string      `json:"id"`
	UserID      string      `json:"user_id"`
	Title       string      `json:"title"`
	TaskType    string      `json:"task_type"`
	Status      task.Status `json:"status"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Owner       string      `json:"influencer"`
	Platforms   []string    `json:"platforms"`
}

// Flatten maps users with embedded tasks to records, preserving user order
// and task order within each user.
func Flatten(users []user.User) []Record {
	var n int
	for i := range users {
		n += len(users[i].Tasks)
	}

	out := make([]Record, 0, n)
	for i := range users {
		u := &users[i]
		for _, t := range u.Tasks {
			out = append(out, FromTask(u, t))
		}
	}
	return out
}

// FromTask builds the record for a single task owned by u.
func FromTask(u *user.User, t task.Task) Record {
	r := Record{
		TaskID:      t.ID,
		UserID:      u.ID,
		Title:       t.Title,
		TaskType:    t.TypeLabel(),
		Status:      t.Status,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		Owner:       u.FullName,
		Platforms:   u.Platforms,
	}
	if !t.CreatedAt.IsZero() {
		created := t.CreatedAt
		r.CreatedAt = &created
	}
	return r
}

// Date returns the date used for window filtering: the due date, or the
// creation date when there is no due date.
func (r Record) Date() *time.Time {
	if r.DueDate != nil {
		return r.DueDate
	}
	return r.CreatedAt
}

// PlatformList joins the owner's platforms with ", " or returns "-" when
// there are none.
func (r Record) PlatformList() string {
	if len(r.Platforms) == 0 {
		return "-"
	}
	return strings.Join(r.Platforms, ", ")
}

// HasPlatform reports whether the owner is active on platform.
func (r Record) HasPlatform(platform string) bool {
	for _, p := range r.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Overdue reports whether the record is past due and not done.
func (r Record) Overdue(now time.Time) bool {
	return r.DueDate != nil && r.DueDate.Before(now) && r.Status != task.StatusDone
}
