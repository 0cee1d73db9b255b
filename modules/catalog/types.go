package catalog

import (
	"github.com/example/influencer-planner/domain/catalog"
)

// Service names registered by the catalog module.
const (
	ServiceListCategories      = "list-categories"
	ServiceCreateCategory      = "create-category"
	ServiceSetCategoriesActive = "set-categories-active"
	ServiceListTaskTypes       = "list-task-types"
	ServiceCreateTaskType      = "create-task-type"
	ServiceSetTaskTypesActive  = "set-task-types-active"
	ServiceGetSettings         = "get-settings"
	ServiceUpdateSettings      = "update-settings"
)

// ListRequest selects active entries only or every entry.
type ListRequest struct {
	ActiveOnly bool `json:"active_only"`
}

// ListCategoriesResponse holds categories ordered by name.
type ListCategoriesResponse struct {
	Categories []catalog.Category `json:"categories"`
}

// CreateCategoryRequest describes a new category.
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// CategoryResponse is a single category.
type CategoryResponse struct {
	Category catalog.Category `json:"category"`
}

// ListTaskTypesResponse holds task types ordered by name.
type ListTaskTypesResponse struct {
	TaskTypes []catalog.TaskType `json:"task_types"`
}

// CreateTaskTypeRequest describes a new task type.
type CreateTaskTypeRequest struct {
	Name string `json:"name"`
}

// TaskTypeResponse is a single task type.
type TaskTypeResponse struct {
	TaskType catalog.TaskType `json:"task_type"`
}

// SetActiveRequest activates or deactivates entries in bulk.
type SetActiveRequest struct {
	IDs    []string `json:"ids"`
	Active bool     `json:"active"`
}

// SetActiveResponse reports how many entries matched.
type SetActiveResponse struct {
	Updated int64 `json:"updated"`
}

// GetSettingsRequest is empty.
type GetSettingsRequest struct{}

// UpdateSettingsRequest changes part of the settings.
type UpdateSettingsRequest struct {
	LogoURL              *string `json:"logo_url,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
	AnnouncementText     *string `json:"announcement_text,omitempty"`
}

// SettingsResponse is the settings singleton.
type SettingsResponse struct {
	Settings catalog.Settings `json:"settings"`
}
