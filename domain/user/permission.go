package user

import "strings"

// Permission identifies one unit of gated functionality.
type Permission string

const (
	// PermHome is the dashboard; every authenticated user may open it.
	PermHome             Permission = "home"
	PermInfluencerList   Permission = "influencer-list"
	PermInfluencerManage Permission = "influencer-manage"
	PermContentPlan      Permission = "content-plan"
	PermTasks            Permission = "tasks"
	PermIdeas            Permission = "ideas"
	PermReporting        Permission = "reporting"
	PermSettings         Permission = "settings"
)

// permissionRoutes maps each permission key to its default route.
var permissionRoutes = map[Permission]string{
	PermHome:             "/",
	PermInfluencerList:   "/influencers",
	PermInfluencerManage: "/influencers/manage",
	PermContentPlan:      "/content-plan",
	PermTasks:            "/tasks",
	PermIdeas:            "/ideas",
	PermReporting:        "/performance",
	PermSettings:         "/settings/general",
}

var permissionLabels = map[Permission]string{
	PermHome:             "Dashboard",
	PermInfluencerList:   "Influencer list",
	PermInfluencerManage: "Manage influencers",
	PermContentPlan:      "Content plan",
	PermTasks:            "Tasks",
	PermIdeas:            "Post ideas",
	PermReporting:        "Reporting",
	PermSettings:         "Settings",
}

// AllPermissions returns every gated permission key in registry order.
// PermHome is not included since it is never gated.
func AllPermissions() []Permission {
	return []Permission{
		PermInfluencerList,
		PermInfluencerManage,
		PermContentPlan,
		PermTasks,
		PermIdeas,
		PermReporting,
		PermSettings,
	}
}

// DefaultCreatorPermissions is the permission set given to new content creators.
func DefaultCreatorPermissions() []Permission {
	return []Permission{PermHome, PermTasks}
}

// Route returns the default route for p.
func Route(p Permission) (string, bool) {
	r, ok := permissionRoutes[p]
	return r, ok
}

// Valid reports whether p is a registered key.
func (p Permission) Valid() bool {
	_, ok := permissionRoutes[p]
	return ok
}

// Label returns the display name of p.
func (p Permission) Label() string {
	if l, ok := permissionLabels[p]; ok {
		return l
	}
	return string(p)
}

// ParsePermission converts untrusted input into a registered key.
func ParsePermission(raw string) (Permission, bool) {
	p := Permission(strings.TrimSpace(raw))
	if !p.Valid() {
		return "", false
	}
	return p, true
}

// ParsePermissions keeps the registered keys of raw, in order and without
// duplicates. Unknown values are dropped.
func ParsePermissions(raw []string) []Permission {
	out := make([]Permission, 0, len(raw))
	seen := make(map[Permission]bool, len(raw))
	for _, r := range raw {
		p, ok := ParsePermission(r)
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
