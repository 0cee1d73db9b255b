package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	redisstore "github.com/gofiber/storage/redis/v3"
)

// DefaultTTL is how long cached entries live.
const DefaultTTL = 5 * time.Minute

// PluginModule owns the Redis connection. The same connection backs the
// cache-aside Cache and the raw Storage used for web sessions and rate limits.
type PluginModule struct {
	container types.ServiceContainer
	store     *redisstore.Storage
	cache     *Cache
	redisAddr string
	prefix    string
	ttl       time.Duration
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates the cache plugin with the default TTL.
func NewPluginModule(redisAddr, prefix string, logger types.Logger) *PluginModule {
	return &PluginModule{
		redisAddr: redisAddr,
		prefix:    prefix,
		ttl:       DefaultTTL,
		logger:    logger,
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "cache"
}

// Start connects to Redis. Plugins start before regular modules.
func (m *PluginModule) Start(_ context.Context) error {
	host, port := parseRedisAddr(m.redisAddr)
	m.store = redisstore.New(redisstore.Config{
		Host:     host,
		Port:     port,
		PoolSize: 50,
	})
	m.cache = New(m.store.Conn(), m.prefix, m.ttl)
	m.logger.Info("Cache plugin started",
		"redis_addr", m.redisAddr,
		"prefix", m.prefix,
		"ttl", m.ttl.String())
	return nil
}

// Stop closes the Redis connection. Plugins stop after regular modules.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.logger.Error("Failed to close redis connection", "error", err)
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	m.logger.Info("Cache plugin stopped")
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

// Port returns the cache for consumers.
func (m *PluginModule) Port() *Cache {
	return m.cache
}

// Storage returns the key/value storage for Fiber middleware.
func (m *PluginModule) Storage() fiber.Storage {
	if m.store == nil {
		return nil
	}
	return m.store
}

// Health pings Redis and reports the cache counters.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.cache == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "cache not initialized",
		}
	}
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}
	stats := m.cache.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis_addr": m.redisAddr,
			"prefix":     m.prefix,
			"ttl":        m.ttl.String(),
			"hit_rate":   stats.HitRate,
		},
	}
}

// parseRedisAddr splits "host:port", falling back to 127.0.0.1:6379.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
