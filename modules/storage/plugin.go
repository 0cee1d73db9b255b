package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Config selects the storage backend. A non-empty MongoURI selects MongoDB,
// otherwise the SQLite database at SQLitePath is used.
type Config struct {
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
}

// PluginModule owns the document store. Plugins start before regular modules
// so the store is open by the time consumers call Port().
type PluginModule struct {
	container types.ServiceContainer
	store     Store
	cfg       Config
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates the storage plugin.
func NewPluginModule(cfg Config, logger types.Logger) *PluginModule {
	return &PluginModule{cfg: cfg, logger: logger}
}

// NewPluginModuleWithStore wraps an already open store.
func NewPluginModuleWithStore(store Store, logger types.Logger) *PluginModule {
	return &PluginModule{store: store, logger: logger}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "storage"
}

// Start opens the configured backend.
func (m *PluginModule) Start(ctx context.Context) error {
	if m.store == nil {
		store, err := m.open(ctx)
		if err != nil {
			return err
		}
		m.store = store
	}
	m.logger.Info("Storage plugin started", "backend", m.store.Backend())
	return nil
}

func (m *PluginModule) open(ctx context.Context) (Store, error) {
	if m.cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		store, err := OpenMongo(ctx, m.cfg.MongoURI, m.cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := OpenGorm(m.cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Stop closes the store.
func (m *PluginModule) Stop(ctx context.Context) error {
	if m.store != nil {
		if err := m.store.Close(ctx); err != nil {
			m.logger.Error("Failed to close store", "error", err)
			return fmt.Errorf("failed to close store: %w", err)
		}
	}
	m.logger.Info("Storage plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Port returns the store for consumers.
func (m *PluginModule) Port() Store {
	return m.store
}

// Health pings the backend.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}
	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("storage ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"backend": m.store.Backend(),
		},
	}
}
