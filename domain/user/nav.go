package user

// NavItem is a navigation entry. Leaves carry a Permission and an Href;
// groups carry Children.
type NavItem struct {
	Key        string     `json:"key"`
	Label      string     `json:"label"`
	Href       string     `json:"href,omitempty"`
	Icon       string     `json:"icon,omitempty"`
	Permission Permission `json:"permission,omitempty"`
	Children   []NavItem  `json:"children,omitempty"`
}

// IsGroup reports whether the item has children.
func (n NavItem) IsGroup() bool {
	return len(n.Children) > 0
}

var navTree = []NavItem{
	{Key: "dashboard", Label: "Dashboard", Href: "/", Icon: "dashboard", Permission: PermHome},
	{Key: "influencers", Label: "Influencers", Icon: "groups", Children: []NavItem{
		{Key: "influencer-list", Label: "Influencer List", Href: "/influencers", Icon: "list", Permission: PermInfluencerList},
		{Key: "influencer-manage", Label: "Manage Influencers", Href: "/influencers/manage", Icon: "manage_accounts", Permission: PermInfluencerManage},
	}},
	{Key: "content", Label: "Content & Tasks", Icon: "edit_calendar", Children: []NavItem{
		{Key: "content-plan", Label: "Content Plan", Href: "/content-plan", Icon: "calendar_month", Permission: PermContentPlan},
		{Key: "tasks", Label: "Tasks", Href: "/tasks", Icon: "task_alt", Permission: PermTasks},
		{Key: "ideas", Label: "Post Ideas", Href: "/ideas", Icon: "lightbulb", Permission: PermIdeas},
	}},
	{Key: "reports", Label: "Reports", Icon: "insights", Children: []NavItem{
		{Key: "performance", Label: "Performance", Href: "/performance", Icon: "trending_up", Permission: PermReporting},
		{Key: "reports-dashboard", Label: "Dashboard Charts", Href: "/reports/dashboard", Icon: "bar_chart", Permission: PermReporting},
	}},
	{Key: "settings", Label: "Settings", Icon: "settings", Children: []NavItem{
		{Key: "settings-general", Label: "General", Href: "/settings/general", Icon: "tune", Permission: PermSettings},
		{Key: "settings-users", Label: "Users", Href: "/settings/users", Icon: "person", Permission: PermSettings},
		{Key: "settings-notifications", Label: "Notifications", Href: "/settings/notifications", Icon: "notifications", Permission: PermSettings},
		{Key: "settings-announcement", Label: "Announcement", Href: "/settings/announcement", Icon: "campaign", Permission: PermSettings},
	}},
}

// FullNav returns a copy of the complete navigation tree.
func FullNav() []NavItem {
	return cloneNav(navTree)
}

// BuildNav returns the navigation tree visible to u. Leaves are kept when
// CanAccess allows their permission and groups are kept when at least one
// child survives. Ordering follows the full tree.
func BuildNav(u *User) []NavItem {
	if u == nil {
		return []NavItem{}
	}
	if IsAdmin(u) {
		return FullNav()
	}
	return filterNav(u, navTree)
}

func filterNav(u *User, items []NavItem) []NavItem {
	out := make([]NavItem, 0, len(items))
	for _, item := range items {
		if item.IsGroup() {
			children := filterNav(u, item.Children)
			if len(children) == 0 {
				continue
			}
			item.Children = children
			out = append(out, item)
			continue
		}
		if CanAccess(u, item.Permission) {
			out = append(out, item)
		}
	}
	return out
}

func cloneNav(items []NavItem) []NavItem {
	out := make([]NavItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.Children != nil {
			out[i].Children = cloneNav(item.Children)
		}
	}
	return out
}
