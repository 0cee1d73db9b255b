package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNav(t *testing.T) {
	t.Run("nil user", func(t *testing.T) {
		got := BuildNav(nil)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("admin gets the full tree", func(t *testing.T) {
		got := BuildNav(&User{Role: RoleAdmin})
		assert.Equal(t, FullNav(), got)

		got[1].Children[0].Label = "changed"
		assert.NotEqual(t, "changed", FullNav()[1].Children[0].Label)
	})

	t.Run("tasks only", func(t *testing.T) {
		u := &User{Role: RoleCreator, Permissions: []Permission{PermTasks}}
		got := BuildNav(u)

		require.Len(t, got, 2)
		assert.Equal(t, "dashboard", got[0].Key)
		assert.False(t, got[0].IsGroup())

		assert.Equal(t, "content", got[1].Key)
		require.Len(t, got[1].Children, 1)
		assert.Equal(t, "tasks", got[1].Children[0].Key)
	})

	t.Run("order follows the full tree", func(t *testing.T) {
		u := &User{Role: RoleStaff, Permissions: []Permission{PermSettings, PermReporting, PermInfluencerManage}}
		got := BuildNav(u)

		keys := make([]string, 0, len(got))
		for _, item := range got {
			keys = append(keys, item.Key)
		}
		assert.Equal(t, []string{"dashboard", "influencers", "reports", "settings"}, keys)
		assert.Len(t, got[1].Children, 1)
		assert.Len(t, got[2].Children, 2)
		assert.Len(t, got[3].Children, 4)
	})

	t.Run("no permissions still sees the dashboard", func(t *testing.T) {
		got := BuildNav(&User{Role: RoleCreator})
		require.Len(t, got, 1)
		assert.Equal(t, "/", got[0].Href)
	})
}
