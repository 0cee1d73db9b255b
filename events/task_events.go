// Package events holds the typed event definitions shared between modules.
package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskAssignedEvent is emitted when a task is assigned to a user.
type TaskAssignedEvent struct {
	TaskID     string     `json:"task_id"`
	UserID     string     `json:"user_id"`
	UserName   string     `json:"user_name"`
	Title      string     `json:"title"`
	TaskType   string     `json:"task_type"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	AssignedBy string     `json:"assigned_by"`
	AssignedAt time.Time  `json:"assigned_at"`
}

// TaskAssignedV1 is the typed event definition for task assignment.
// Subject: events.account.v1.task-assigned
var TaskAssignedV1 = helper.EventDefinition[TaskAssignedEvent](
	"account", "TaskAssigned", "v1",
)

// TaskStatusChangedEvent is emitted when a task moves to another status.
type TaskStatusChangedEvent struct {
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Title     string    `json:"title"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// TaskStatusChangedV1 is the typed event definition for status changes.
// Subject: events.account.v1.task-status-changed
var TaskStatusChangedV1 = helper.EventDefinition[TaskStatusChangedEvent](
	"account", "TaskStatusChanged", "v1",
)
