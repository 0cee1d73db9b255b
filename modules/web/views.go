package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"

	"github.com/example/influencer-planner/domain/report"
	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
)

//go:embed views
var viewsFS embed.FS

func newViewEngine(loc *time.Location) (*html.Engine, error) {
	root, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, fmt.Errorf("failed to open views: %w", err)
	}
	engine := html.NewFileSystem(http.FS(root), ".html")
	engine.AddFuncMap(map[string]any{
		"date":        func(v any) string { return formatDate(v, loc, report.DateLayout) },
		"dateInput":   func(v any) string { return formatDate(v, loc, "2006-01-02") },
		"statuses":    task.Statuses,
		"permissions": user.AllPermissions,
		"roles":       user.Roles,
		"join":        strings.Join,
		"can":         user.CanAccess,
		"platforms":   func() []string { return report.DefaultPlatforms },
	})
	return engine, nil
}

// formatDate renders time.Time and *time.Time values; missing dates become "-".
func formatDate(v any, loc *time.Location, layout string) string {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case *time.Time:
		if d == nil {
			return "-"
		}
		t = *d
	default:
		return "-"
	}
	if t.IsZero() {
		return "-"
	}
	return t.In(loc).Format(layout)
}

// page builds the template data shared by every page: current user, the
// navigation visible to them, settings and the request path.
func (s *Server) page(c *fiber.Ctx, title string, data fiber.Map) fiber.Map {
	u := currentUser(c)
	m := fiber.Map{
		"Title":       title,
		"CurrentUser": u,
		"Nav":         user.BuildNav(u),
		"Settings":    currentSettings(c),
		"CurrentPath": c.Path(),
		"IsAdmin":     user.IsAdmin(u),
	}
	for k, v := range data {
		m[k] = v
	}
	return m
}

// staticPage renders a page without data of its own.
func (s *Server) staticPage(view, title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render(view, s.page(c, title, nil))
	}
}
