package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNameKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Technology", "technology"},
		{"  Beauty   &  Care ", "beauty & care"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NameKey(tt.in), tt.in)
	}
}

func TestNewCategory(t *testing.T) {
	now := time.Now()
	c := NewCategory("id1", " Gaming ", "", now)
	assert.Equal(t, "Gaming", c.Name)
	assert.Equal(t, "gaming", c.NameKey)
	assert.Equal(t, DefaultCategoryColor, c.Color)
	assert.True(t, c.IsActive)

	c = NewCategory("id2", "Food", "#ff0000", now)
	assert.Equal(t, "#ff0000", c.Color)
}

func TestDefaultsAndActiveNames(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, DefaultLogoURL, s.LogoURL)
	assert.True(t, s.NotificationsEnabled)
	assert.Empty(t, s.AnnouncementText)

	now := time.Now()
	story := NewTaskType("1", "Story", now)
	reel := NewTaskType("2", "Reel", now)
	reel.IsActive = false
	assert.Equal(t, []string{"Story"}, ActiveNames([]TaskType{story, reel}))
	assert.Empty(t, ActiveNames(nil))
}
