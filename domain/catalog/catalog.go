package catalog

import (
	"strings"
	"time"
)

const (
	// DefaultCategoryColor is used when a category is created without a color.
	DefaultCategoryColor = "#3B82F6"
	// DefaultLogoURL is the logo shown until settings override it.
	DefaultLogoURL = "/public-logo.svg"
	// SettingsID is the primary key of the settings singleton.
	SettingsID = "settings"
)

// Category groups influencers. Users reference categories by name.
type Category struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id" bson:"_id"`
	Name      string    `gorm:"not null;type:text" json:"name" bson:"name"`
	NameKey   string    `gorm:"uniqueIndex;not null;type:text" json:"-" bson:"name_key"`
	Color     string    `gorm:"type:text" json:"color" bson:"color"`
	IsActive  bool      `gorm:"not null" json:"isActive" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// TableName returns the table name for the Category entity.
func (Category) TableName() string {
	return "categories"
}

// NewCategory builds an active category. An empty color selects
// DefaultCategoryColor.
func NewCategory(id, name, color string, now time.Time) Category {
	name = strings.TrimSpace(name)
	if strings.TrimSpace(color) == "" {
		color = DefaultCategoryColor
	}
	return Category{
		ID:        id,
		Name:      name,
		NameKey:   NameKey(name),
		Color:     color,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TaskType labels tasks. Tasks reference types by name.
type TaskType struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id" bson:"_id"`
	Name      string    `gorm:"not null;type:text" json:"name" bson:"name"`
	NameKey   string    `gorm:"uniqueIndex;not null;type:text" json:"-" bson:"name_key"`
	IsActive  bool      `gorm:"not null" json:"isActive" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// TableName returns the table name for the TaskType entity.
func (TaskType) TableName() string {
	return "task_types"
}

// NewTaskType builds an active task type.
func NewTaskType(id, name string, now time.Time) TaskType {
	name = strings.TrimSpace(name)
	return TaskType{
		ID:        id,
		Name:      name,
		NameKey:   NameKey(name),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NameKey is the case-insensitive uniqueness key of a catalog name.
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Settings is the tenant-wide display configuration singleton.
type Settings struct {
	ID                   string    `gorm:"primaryKey;type:text" json:"-" bson:"_id"`
	LogoURL              string    `gorm:"type:text" json:"logoUrl" bson:"logo_url"`
	NotificationsEnabled bool      `gorm:"not null" json:"notificationsEnabled" bson:"notifications_enabled"`
	AnnouncementText     string    `gorm:"type:text" json:"announcementText" bson:"announcement_text"`
	UpdatedAt            time.Time `json:"updated_at" bson:"updated_at"`
}

// TableName returns the table name for the Settings entity.
func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{
		ID:                   SettingsID,
		LogoURL:              DefaultLogoURL,
		NotificationsEnabled: true,
	}
}

// ActiveNames returns the names of active task types, in input order.
func ActiveNames(types []TaskType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if t.IsActive {
			out = append(out, t.Name)
		}
	}
	return out
}
