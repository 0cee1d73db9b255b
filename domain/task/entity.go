package task

import "time"

// DefaultType is shown when a task has no task-type label.
const DefaultType = "Task"

// Task is a content task embedded in its owning user's document.
type Task struct {
	ID          string     `json:"id" bson:"id"`
	Title       string     `json:"title" bson:"title"`
	Type        string     `json:"task_type,omitempty" bson:"task_type,omitempty"`
	Status      Status     `json:"status" bson:"status"`
	DueDate     *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// New creates a waiting task.
func New(id, title, taskType string, due *time.Time, now time.Time) Task {
	return Task{
		ID:        id,
		Title:     title,
		Type:      taskType,
		Status:    StatusWaiting,
		DueDate:   due,
		CreatedAt: now,
	}
}

// TypeLabel returns the task type or DefaultType when unset.
func (t Task) TypeLabel() string {
	if t.Type == "" {
		return DefaultType
	}
	return t.Type
}

// SetStatus moves the task to s. The completion time is stamped when the task
// enters StatusDone and cleared when it leaves it.
func (t *Task) SetStatus(s Status, now time.Time) {
	if s == StatusDone {
		if t.Status != StatusDone || t.CompletedAt == nil {
			completed := now
			t.CompletedAt = &completed
		}
	} else {
		t.CompletedAt = nil
	}
	t.Status = s
}

// Overdue reports whether the task is past its due date and not done.
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusDone
}
