package web

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"

	"github.com/example/influencer-planner/modules/account"
	"github.com/example/influencer-planner/modules/cache"
	"github.com/example/influencer-planner/modules/catalog"
	"github.com/example/influencer-planner/modules/notification"
)

// Module is the HTTP module serving pages and the JSON API.
type Module struct {
	server        *Server
	cfg           Config
	accounts      account.AccountPort
	catalog       catalog.CatalogPort
	notifications notification.NotificationPort
	storage       fiber.Storage
	logger        types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the web module.
func NewModule(cfg Config, logger types.Logger) *Module {
	return &Module{cfg: cfg, logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "web"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"account", "catalog", "notification"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "account":
		m.accounts = account.NewAdapter(container)
	case "catalog":
		m.catalog = catalog.NewAdapter(container)
	case "notification":
		m.notifications = notification.NewAdapter(container)
	}
}

// SetPlugin receives the optional cache plugin whose Redis storage backs
// sessions and the login limiter.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "cache" {
		return
	}
	if p, ok := plugin.(*cache.PluginModule); ok {
		m.storage = p.Storage()
		m.logger.Info("Received cache plugin", "alias", alias)
		return
	}
	m.logger.Error("Invalid plugin type", "alias", alias)
}

// Start builds the Fiber server and starts listening.
func (m *Module) Start(_ context.Context) error {
	if m.accounts == nil || m.catalog == nil || m.notifications == nil {
		return fmt.Errorf("account, catalog and notification dependencies must be set")
	}

	server, err := NewServer(m.cfg, Deps{
		Accounts:      m.accounts,
		Catalog:       m.catalog,
		Notifications: m.notifications,
		Storage:       m.storage,
		Logger:        m.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build http server: %w", err)
	}
	m.server = server

	addr := fmt.Sprintf(":%d", m.cfg.Port)
	go func() {
		if err := server.App().Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", addr, "redis_sessions", m.storage != nil)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *Module) Stop(_ context.Context) error {
	if m.server == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.server.App().Shutdown()
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.server != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.Port,
		},
	}
}
