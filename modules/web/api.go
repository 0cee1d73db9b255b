package web

import (
	"context"

	"github.com/gofiber/fiber/v2"

	domaincatalog "github.com/example/influencer-planner/domain/catalog"
	"github.com/example/influencer-planner/domain/report"
	"github.com/example/influencer-planner/domain/user"
	"github.com/example/influencer-planner/modules/catalog"
)

const defaultNotificationLimit = 50

// TokenResponse represents an authentication token response.
type TokenResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int64      `json:"expires_in"`
	TokenType    string     `json:"token_type"`
	User         *user.User `json:"user,omitempty"`
}

// MeResponse is the signed-in user with their navigation.
type MeResponse struct {
	User *user.User     `json:"user"`
	Nav  []user.NavItem `json:"nav"`
}

// CategoryView is a category with the number of creators referencing it.
type CategoryView struct {
	domaincatalog.Category
	InfluencerCount int `json:"influencerCount"`
}

// BulkResponse reports how many entries each half of a bulk update matched.
type BulkResponse struct {
	Activated   int64 `json:"activated"`
	Deactivated int64 `json:"deactivated"`
}

func (s *Server) apiLogin(c *fiber.Ctx) error {
	var form loginForm
	if err := bind(c, &form); err != nil {
		return err
	}
	resp, err := s.accounts.Authenticate(c.UserContext(), form.Email, form.Password)
	if err != nil {
		return err
	}
	return c.JSON(TokenResponse{
		AccessToken:  resp.Tokens.AccessToken,
		RefreshToken: resp.Tokens.RefreshToken,
		ExpiresIn:    resp.Tokens.ExpiresIn,
		TokenType:    resp.Tokens.TokenType,
		User:         &resp.User,
	})
}

func (s *Server) apiRefresh(c *fiber.Ctx) error {
	var form refreshForm
	if err := bind(c, &form); err != nil {
		return err
	}
	pair, err := s.accounts.RefreshToken(c.UserContext(), form.RefreshToken)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid or expired refresh token")
	}
	return c.JSON(TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		TokenType:    pair.TokenType,
	})
}

func (s *Server) apiMe(c *fiber.Ctx) error {
	u := currentUser(c)
	return c.JSON(MeResponse{User: u, Nav: user.BuildNav(u)})
}

func (s *Server) apiCalendar(c *fiber.Ctx) error {
	owners, err := s.visibleOwners(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(calendarTasks(report.Flatten(owners)))
}

// apiNotifications lists the feed. Content creators only see their own
// entries.
func (s *Server) apiNotifications(c *fiber.Ctx) error {
	u := currentUser(c)
	userID := ""
	if u.Role == user.RoleCreator {
		userID = u.ID
	}
	items, err := s.notifications.List(c.UserContext(), userID, c.QueryInt("limit", defaultNotificationLimit))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (s *Server) apiListCategories(c *fiber.Ctx) error {
	ctx := c.UserContext()
	activeOnly := c.QueryBool("activeOnly")
	categories, err := s.catalog.ListCategories(ctx, activeOnly)
	if err != nil {
		return err
	}
	if activeOnly {
		return c.JSON(categories)
	}

	creators, err := s.creators(ctx)
	if err != nil {
		return err
	}
	counts := make(map[string]int, len(categories))
	for _, u := range creators {
		counts[domaincatalog.NameKey(u.Category)]++
	}
	out := make([]CategoryView, len(categories))
	for i, cat := range categories {
		out[i] = CategoryView{Category: cat, InfluencerCount: counts[cat.NameKey]}
	}
	return c.JSON(out)
}

func (s *Server) apiCreateCategory(c *fiber.Ctx) error {
	var form categoryForm
	if err := bind(c, &form); err != nil {
		return err
	}
	created, err := s.catalog.CreateCategory(c.UserContext(), form.Name, form.Color)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) apiBulkCategories(c *fiber.Ctx) error {
	return s.applyBulk(c, s.catalog.SetCategoriesActive)
}

func (s *Server) apiListTaskTypes(c *fiber.Ctx) error {
	types, err := s.catalog.ListTaskTypes(c.UserContext(), c.QueryBool("activeOnly"))
	if err != nil {
		return err
	}
	return c.JSON(types)
}

func (s *Server) apiCreateTaskType(c *fiber.Ctx) error {
	var form taskTypeForm
	if err := bind(c, &form); err != nil {
		return err
	}
	created, err := s.catalog.CreateTaskType(c.UserContext(), form.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) apiBulkTaskTypes(c *fiber.Ctx) error {
	return s.applyBulk(c, s.catalog.SetTaskTypesActive)
}

type setActiveFunc func(ctx context.Context, ids []string, active bool) (int64, error)

// applyBulk runs both halves of a bulk activation. An empty half is skipped;
// both empty is a bad request.
func (s *Server) applyBulk(c *fiber.Ctx, set setActiveFunc) error {
	var form bulkForm
	if err := bind(c, &form); err != nil {
		return err
	}
	activate, deactivate := compact(form.ActivateIDs), compact(form.DeactivateIDs)
	if len(activate) == 0 && len(deactivate) == 0 {
		return catalog.ErrNoIDs
	}

	ctx := c.UserContext()
	var resp BulkResponse
	var err error
	if len(activate) > 0 {
		if resp.Activated, err = set(ctx, activate, true); err != nil {
			return err
		}
	}
	if len(deactivate) > 0 {
		if resp.Deactivated, err = set(ctx, deactivate, false); err != nil {
			return err
		}
	}
	return c.JSON(resp)
}

func (s *Server) apiPerformance(c *fiber.Ctx) error {
	var q report.Query
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	perf, _, err := s.performance(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(perf)
}

func (s *Server) apiDashboard(c *fiber.Ctx) error {
	creators, err := s.creators(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(s.dashboardData(creators))
}
