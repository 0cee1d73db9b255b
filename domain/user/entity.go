package user

import (
	"slices"
	"strings"
	"time"

	"github.com/example/influencer-planner/domain/task"
)

// Role determines a user's default access scope.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleCreator Role = "content_creator"
)

var roleLabels = map[Role]string{
	RoleAdmin:   "Administrator",
	RoleStaff:   "Staff",
	RoleCreator: "Content Creator",
}

// Roles returns every role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleStaff, RoleCreator}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label returns the display name of the role.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

// ParseRole converts untrusted input into a Role.
func ParseRole(raw string) (Role, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, "-", "_")
	switch v {
	case "administrator":
		v = string(RoleAdmin)
	case "influencer", "creator":
		v = string(RoleCreator)
	}
	r := Role(v)
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// User is a document holding identity, access and the user's embedded tasks.
type User struct {
	ID           string       `gorm:"primaryKey;type:text" json:"id" bson:"_id"`
	FullName     string       `gorm:"not null;type:text" json:"full_name" bson:"full_name"`
	Email        string       `gorm:"uniqueIndex;not null;type:text" json:"email" bson:"email"`
	PasswordHash string       `gorm:"not null;type:text" json:"-" bson:"password_hash"`
	Role         Role         `gorm:"index;not null;type:text" json:"role" bson:"role"`
	Permissions  []Permission `gorm:"serializer:json" json:"permissions" bson:"permissions"`
	Category     string       `gorm:"type:text" json:"category,omitempty" bson:"category,omitempty"`
	Platforms    []string     `gorm:"serializer:json" json:"platforms,omitempty" bson:"platforms,omitempty"`
	Tasks        []task.Task  `gorm:"serializer:json" json:"tasks" bson:"tasks"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasPermission reports whether p is in the stored permission set.
// It does not apply the admin bypass; use CanAccess for access decisions.
func (u *User) HasPermission(p Permission) bool {
	return slices.Contains(u.Permissions, p)
}

// FindTask returns the index of the embedded task with the given ID, or -1.
func (u *User) FindTask(taskID string) int {
	for i := range u.Tasks {
		if u.Tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}
