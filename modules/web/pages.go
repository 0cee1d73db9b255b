package web

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/example/influencer-planner/domain/report"
	"github.com/example/influencer-planner/domain/task"
	"github.com/example/influencer-planner/domain/user"
	"github.com/example/influencer-planner/modules/account"
	"github.com/example/influencer-planner/modules/catalog"
)

const notificationPageLimit = 50

func (s *Server) renderLogin(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).Render("login", s.page(c, "Sign in", fiber.Map{
		"Error": message,
	}), "layouts/auth")
}

func (s *Server) loginPage(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/")
	}
	return s.renderLogin(c, fiber.StatusOK, "")
}

// login verifies the credentials and starts a fresh session.
func (s *Server) login(c *fiber.Ctx) error {
	var form loginForm
	if err := bind(c, &form); err != nil {
		status, message := classify(err)
		return s.renderLogin(c, status, message)
	}

	resp, err := s.accounts.Authenticate(c.UserContext(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return s.renderLogin(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return err
	}

	sess, err := s.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}
	sess.Set(sessionUserID, resp.User.ID)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("User logged in", "user_id", resp.User.ID, "role", resp.User.Role)
	return c.Redirect("/")
}

func (s *Server) logout(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return c.Redirect("/login")
}

func (s *Server) dashboard(c *fiber.Ctx) error {
	u := currentUser(c)
	owners, err := s.visibleOwners(c.UserContext(), u)
	if err != nil {
		return err
	}
	return c.Render("dashboard", s.page(c, "Dashboard", fiber.Map{
		"CalendarTasks": calendarTasks(report.Flatten(owners)),
		"Charts":        s.dashboardData(owners),
	}))
}

func (s *Server) influencers(c *fiber.Ctx) error {
	creators, err := s.creators(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("influencers", s.page(c, "Influencers", fiber.Map{
		"Influencers": creators,
	}))
}

func (s *Server) influencersManage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	creators, err := s.creators(ctx)
	if err != nil {
		return err
	}
	categories, err := s.catalog.ListCategories(ctx, true)
	if err != nil {
		return err
	}
	return c.Render("influencers-manage", s.page(c, "Manage Influencers", fiber.Map{
		"Influencers": creators,
		"Categories":  categories,
	}))
}

func (s *Server) createInfluencer(c *fiber.Ctx) error {
	var form influencerForm
	if err := bind(c, &form); err != nil {
		return err
	}
	created, err := s.accounts.CreateUser(c.UserContext(), account.CreateUserRequest{
		FullName:    form.FullName,
		Email:       form.Email,
		Password:    form.Password,
		Role:        user.RoleCreator,
		Permissions: user.DefaultCreatorPermissions(),
		Category:    form.Category,
		Platforms:   compact(form.Platforms),
	})
	if err != nil {
		return err
	}
	s.logger.Info("Influencer created", "user_id", created.ID, "by", currentUser(c).ID)
	return c.Redirect("/influencers/manage")
}

func (s *Server) deleteInfluencer(c *fiber.Ctx) error {
	if err := s.accounts.DeleteUser(c.UserContext(), currentUser(c).ID, c.Params("id")); err != nil {
		return err
	}
	return c.Redirect("/influencers/manage")
}

func (s *Server) createCategoryForm(c *fiber.Ctx) error {
	var form categoryForm
	if err := bind(c, &form); err != nil {
		return err
	}
	if _, err := s.catalog.CreateCategory(c.UserContext(), form.Name, form.Color); err != nil {
		return err
	}
	return c.Redirect("/influencers/manage")
}

func (s *Server) tasks(c *fiber.Ctx) error {
	ctx := c.UserContext()
	creators, err := s.creators(ctx)
	if err != nil {
		return err
	}
	taskTypes, err := s.catalog.ListTaskTypes(ctx, true)
	if err != nil {
		return err
	}
	return c.Render("tasks", s.page(c, "Tasks", fiber.Map{
		"Influencers": creators,
		"TaskTypes":   taskTypes,
		"AllTasks":    report.Flatten(creators),
	}))
}

func (s *Server) assignTask(c *fiber.Ctx) error {
	var form assignForm
	if err := bind(c, &form); err != nil {
		return err
	}
	due, err := parseDueDate(form.DueDate, s.cfg.Location)
	if err != nil {
		return err
	}
	if _, err := s.accounts.AssignTask(c.UserContext(), account.AssignTaskRequest{
		ActorID:  currentUser(c).ID,
		UserID:   form.InfluencerID,
		Title:    form.Title,
		TaskType: form.TaskType,
		DueDate:  due,
	}); err != nil {
		return err
	}
	return c.Redirect("/tasks")
}

func (s *Server) createTaskTypeForm(c *fiber.Ctx) error {
	var form taskTypeForm
	if err := bind(c, &form); err != nil {
		return err
	}
	if _, err := s.catalog.CreateTaskType(c.UserContext(), form.Name); err != nil {
		return err
	}
	return c.Redirect("/tasks")
}

func (s *Server) updateTaskStatus(c *fiber.Ctx) error {
	if !task.IsValidID(c.Params("taskId")) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid task id")
	}
	var form statusForm
	if err := bind(c, &form); err != nil {
		return err
	}
	if _, err := s.accounts.UpdateTaskStatus(c.UserContext(), account.UpdateTaskStatusRequest{
		ActorID: currentUser(c).ID,
		UserID:  c.Params("userId"),
		TaskID:  c.Params("taskId"),
		Status:  form.Status,
	}); err != nil {
		return err
	}
	return c.RedirectBack("/")
}

func (s *Server) performancePage(c *fiber.Ctx) error {
	var q report.Query
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	perf, roster, err := s.performance(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.Render("performance", s.page(c, "Performance", fiber.Map{
		"Performance": perf,
		"Query":       q,
		"Influencers": roster,
	}))
}

func (s *Server) performanceCSV(c *fiber.Ctx) error {
	var q report.Query
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	perf, _, err := s.performance(c.UserContext(), q)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="performance.csv"`)
	if err := report.WriteCSV(c.Response().BodyWriter(), perf.Rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func (s *Server) reportsDashboardPage(c *fiber.Ctx) error {
	creators, err := s.creators(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("reports-dashboard", s.page(c, "Dashboard Charts", fiber.Map{
		"Charts": s.dashboardData(creators),
	}))
}

func (s *Server) settingsGeneral(c *fiber.Ctx) error {
	return c.Render("settings-general", s.page(c, "General Settings", nil))
}

func (s *Server) saveSettingsGeneral(c *fiber.Ctx) error {
	var form generalSettingsForm
	if err := bind(c, &form); err != nil {
		return err
	}
	enabled := form.NotificationsEnabled == "on"
	if _, err := s.catalog.UpdateSettings(c.UserContext(), catalog.UpdateSettingsRequest{
		LogoURL:              &form.LogoURL,
		NotificationsEnabled: &enabled,
	}); err != nil {
		return err
	}
	return c.Redirect("/settings/general")
}

func (s *Server) settingsUsers(c *fiber.Ctx) error {
	users, err := s.accounts.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("settings-users", s.page(c, "Users", fiber.Map{
		"Users": users,
	}))
}

// settingsUserPermissions is the second step of user creation: the posted
// identity is carried over while permissions are picked.
func (s *Server) settingsUserPermissions(c *fiber.Ctx) error {
	var form userForm
	if err := bind(c, &form); err != nil {
		return err
	}
	role, ok := user.ParseRole(form.Role)
	if !ok {
		return account.ErrInvalidRole
	}
	return c.Render("settings-users-permissions", s.page(c, "User Permissions", fiber.Map{
		"Form": form,
		"Role": role,
	}))
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var form userForm
	if err := bind(c, &form); err != nil {
		return err
	}
	role, ok := user.ParseRole(form.Role)
	if !ok {
		return account.ErrInvalidRole
	}
	perms := user.ParsePermissions(append([]string{string(user.PermHome)}, form.Permissions...))
	created, err := s.accounts.CreateUser(c.UserContext(), account.CreateUserRequest{
		FullName:    form.FullName,
		Email:       form.Email,
		Password:    form.Password,
		Role:        role,
		Permissions: perms,
	})
	if err != nil {
		return err
	}
	s.logger.Info("User created", "user_id", created.ID, "role", created.Role, "by", currentUser(c).ID)
	return c.Redirect("/settings/users")
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	if err := s.accounts.DeleteUser(c.UserContext(), currentUser(c).ID, c.Params("id")); err != nil {
		return err
	}
	return c.Redirect("/settings/users")
}

func (s *Server) settingsNotifications(c *fiber.Ctx) error {
	items, err := s.notifications.List(c.UserContext(), "", notificationPageLimit)
	if err != nil {
		return err
	}
	return c.Render("settings-notifications", s.page(c, "Notifications", fiber.Map{
		"Notifications": items,
	}))
}

func (s *Server) settingsAnnouncement(c *fiber.Ctx) error {
	return c.Render("settings-announcement", s.page(c, "Announcement", nil))
}

func (s *Server) saveAnnouncement(c *fiber.Ctx) error {
	var form announcementForm
	if err := bind(c, &form); err != nil {
		return err
	}
	if _, err := s.catalog.UpdateSettings(c.UserContext(), catalog.UpdateSettingsRequest{
		AnnouncementText: &form.AnnouncementText,
	}); err != nil {
		return err
	}
	return c.Redirect("/settings/announcement")
}
