package web

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/example/influencer-planner/domain/catalog"
	"github.com/example/influencer-planner/domain/user"
	"github.com/example/influencer-planner/modules/account"
)

const (
	// localUser is the key used to store the current user in the Fiber context.
	localUser     = "user"
	localSettings = "settings"
	sessionUserID = "user_id"
)

func currentUser(c *fiber.Ctx) *user.User {
	u, _ := c.Locals(localUser).(*user.User)
	return u
}

func currentSettings(c *fiber.Ctx) catalog.Settings {
	if s, ok := c.Locals(localSettings).(catalog.Settings); ok {
		return s
	}
	return catalog.DefaultSettings()
}

// loadSession stores the settings and the session user, if any, in the
// request context. A session whose user was deleted is destroyed.
func (s *Server) loadSession(c *fiber.Ctx) error {
	ctx := c.UserContext()

	settings, err := s.catalog.GetSettings(ctx)
	if err != nil {
		s.logger.Warn("Failed to load settings, using defaults", "error", err)
		settings = catalog.DefaultSettings()
	}
	c.Locals(localSettings, settings)

	sess, err := s.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	id, _ := sess.Get(sessionUserID).(string)
	if id == "" {
		return c.Next()
	}

	u, err := s.accounts.GetUser(ctx, id)
	switch {
	case err == nil:
		c.Locals(localUser, u)
	case errors.Is(err, account.ErrUserNotFound):
		if err := sess.Destroy(); err != nil {
			s.logger.Warn("Failed to destroy stale session", "error", err)
		}
	default:
		return err
	}
	return c.Next()
}

// unauthenticated redirects pages to the login form and rejects API calls.
func unauthenticated(c *fiber.Ctx) error {
	if isAPI(c) {
		return jsonError(c, fiber.StatusUnauthorized, "User not authenticated")
	}
	return c.Redirect("/login")
}

// requireAuth lets any signed-in user through.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	if currentUser(c) == nil {
		return unauthenticated(c)
	}
	return c.Next()
}

// requirePermission gates a route on one permission key through
// user.CanAccess, so administrators always pass.
func (s *Server) requirePermission(key user.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return unauthenticated(c)
		}
		if !user.CanAccess(u, key) {
			return fiber.NewError(fiber.StatusForbidden, "not authorized")
		}
		return c.Next()
	}
}

// requireAdmin gates admin-only surfaces.
func (s *Server) requireAdmin(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return unauthenticated(c)
	}
	if !user.IsAdmin(u) {
		return fiber.NewError(fiber.StatusForbidden, "not authorized")
	}
	return c.Next()
}

// apiAuth accepts the session user or a Bearer access token.
func (s *Server) apiAuth(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return jsonError(c, fiber.StatusUnauthorized, "Authorization header is required")
	}
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid authorization header format. Use: Bearer <token>")
	}

	claims, err := s.accounts.ValidateToken(c.UserContext(), token)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}
	u, err := s.accounts.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	c.Locals(localUser, u)
	return c.Next()
}

// loginLimiter limits login attempts per client IP. Successful logins are
// not counted.
func (s *Server) loginLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        s.cfg.LoginMax,
		Expiration: s.cfg.LoginWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "login:" + c.IP()
		},
		SkipSuccessfulRequests: true,
		Storage:                s.storage,
		LimitReached:           s.loginLimitReached,
	})
}

func (s *Server) loginLimitReached(c *fiber.Ctx) error {
	// the limiter sets Retry-After to the seconds left in the window
	retryAfter := c.GetRespHeader(fiber.HeaderRetryAfter)
	if retryAfter == "" {
		retryAfter = strconv.Itoa(max(int(s.cfg.LoginWindow.Seconds()), 1))
		c.Set(fiber.HeaderRetryAfter, retryAfter)
	}

	message := fmt.Sprintf("Too many login attempts. Please retry after %s seconds.", retryAfter)
	s.logger.Warn("Login rate limit exceeded", "ip", c.IP())
	if isAPI(c) {
		return jsonError(c, fiber.StatusTooManyRequests, message)
	}
	return c.Status(fiber.StatusTooManyRequests).Render("login", s.page(c, "Sign in", fiber.Map{
		"Error": message,
	}), "layouts/auth")
}
