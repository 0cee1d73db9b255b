package web

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/example/influencer-planner/domain/user"
	"github.com/example/influencer-planner/modules/account"
	"github.com/example/influencer-planner/modules/catalog"
	"github.com/example/influencer-planner/modules/notification"
)

const (
	sessionCookie     = "planner_session"
	defaultSessionTTL = 8 * time.Hour
)

// Config configures the HTTP server.
type Config struct {
	Port          int
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool
	// CORSOrigins is a comma-separated origin list; empty allows any origin.
	CORSOrigins string
	LoginMax    int
	LoginWindow time.Duration
	// Location is used for report windows and date display.
	Location *time.Location
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Port:        3000,
		SessionTTL:  defaultSessionTTL,
		LoginMax:    5,
		LoginWindow: time.Minute,
		Location:    time.Local,
	}
}

// Deps are the ports the server calls.
type Deps struct {
	Accounts      account.AccountPort
	Catalog       catalog.CatalogPort
	Notifications notification.NotificationPort
	// Storage backs sessions and the login limiter. Nil keeps them in memory.
	Storage fiber.Storage
	Logger  types.Logger
	Now     func() time.Time
}

// Server is the Fiber application with its handlers.
type Server struct {
	app           *fiber.App
	accounts      account.AccountPort
	catalog       catalog.CatalogPort
	notifications notification.NotificationPort
	sessions      *session.Store
	storage       fiber.Storage
	cfg           Config
	logger        types.Logger
	now           func() time.Time
}

// NewServer builds the application and registers every route.
func NewServer(cfg Config, deps Deps) (*Server, error) {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		accounts:      deps.Accounts,
		catalog:       deps.Catalog,
		notifications: deps.Notifications,
		storage:       deps.Storage,
		cfg:           cfg,
		logger:        deps.Logger,
		now:           now,
	}
	s.sessions = session.New(session.Config{
		Expiration:     cfg.SessionTTL,
		Storage:        deps.Storage,
		KeyLookup:      "cookie:" + sessionCookie,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: "Lax",
	})

	engine, err := newViewEngine(cfg.Location)
	if err != nil {
		return nil, err
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
		Views:                 engine,
		ViewsLayout:           "layouts/main",
	})

	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(cfg.CORSOrigins),
	}))
	if cfg.SessionSecret != "" {
		s.app.Use(encryptcookie.New(encryptcookie.Config{
			Key: cookieKey(cfg.SessionSecret),
		}))
	}

	s.setupRoutes()
	return s, nil
}

// App returns the Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func corsOrigins(origins string) string {
	if origins == "" {
		return "*"
	}
	return origins
}

// cookieKey derives the base64 AES-256 key encryptcookie expects.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "web",
		})
	})

	s.app.Use(s.loadSession)

	// Public pages
	s.app.Get("/login", s.loginPage)
	s.app.Post("/login", s.loginLimiter(), s.login)
	s.app.Post("/logout", s.logout)

	authed := s.requireAuth
	s.app.Get("/", authed, s.dashboard)

	list := s.requirePermission(user.PermInfluencerList)
	manage := s.requirePermission(user.PermInfluencerManage)
	s.app.Get("/influencers", list, s.influencers)
	s.app.Get("/influencers/manage", manage, s.influencersManage)
	s.app.Post("/influencers/manage", manage, s.createInfluencer)
	s.app.Post("/influencers/manage/:id/delete", manage, s.deleteInfluencer)
	s.app.Post("/influencers/categories", manage, s.createCategoryForm)

	s.app.Get("/content-plan", s.requirePermission(user.PermContentPlan), s.staticPage("content-plan", "Content Plan"))
	s.app.Get("/ideas", s.requirePermission(user.PermIdeas), s.staticPage("ideas", "Post Ideas"))

	tasks := s.requirePermission(user.PermTasks)
	s.app.Get("/tasks", tasks, s.tasks)
	s.app.Post("/tasks/assign", tasks, s.assignTask)
	s.app.Post("/tasks/types", tasks, s.createTaskTypeForm)
	// ownership is enforced by the account service
	s.app.Post("/tasks/:userId/:taskId/status", authed, s.updateTaskStatus)

	reporting := s.requirePermission(user.PermReporting)
	s.app.Get("/performance", reporting, s.performancePage)
	s.app.Get("/performance/export.csv", reporting, s.performanceCSV)
	s.app.Get("/reports/dashboard", reporting, s.reportsDashboardPage)

	settings := s.app.Group("/settings", s.requirePermission(user.PermSettings))
	settings.Get("/general", s.settingsGeneral)
	settings.Post("/general", s.saveSettingsGeneral)
	settings.Get("/users", s.settingsUsers)
	settings.Post("/users/permissions", s.settingsUserPermissions)
	settings.Post("/users/create", s.createUser)
	settings.Post("/users/:id/delete", s.deleteUser)
	settings.Get("/notifications", s.settingsNotifications)
	settings.Get("/announcement", s.requireAdmin, s.settingsAnnouncement)
	settings.Post("/announcement", s.requireAdmin, s.saveAnnouncement)

	// API v1 routes
	v1 := s.app.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/login", s.loginLimiter(), s.apiLogin)
	authRoutes.Post("/refresh", s.apiRefresh)

	api := v1.Group("", s.apiAuth)
	api.Get("/me", s.apiMe)
	api.Get("/calendar", s.apiCalendar)
	api.Get("/notifications", s.apiNotifications)

	api.Get("/categories", s.apiListCategories)
	api.Post("/categories", s.requirePermission(user.PermInfluencerManage), s.apiCreateCategory)
	api.Patch("/categories/bulk", s.requirePermission(user.PermInfluencerManage), s.apiBulkCategories)

	api.Get("/task-types", s.apiListTaskTypes)
	api.Post("/task-types", s.requirePermission(user.PermTasks), s.apiCreateTaskType)
	api.Patch("/task-types/bulk", s.requirePermission(user.PermTasks), s.apiBulkTaskTypes)

	api.Get("/reports/performance", reporting, s.apiPerformance)
	api.Get("/reports/dashboard", reporting, s.apiDashboard)
}
