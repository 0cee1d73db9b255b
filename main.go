package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/influencer-planner/config"
	"github.com/example/influencer-planner/modules/account"
	"github.com/example/influencer-planner/modules/cache"
	"github.com/example/influencer-planner/modules/catalog"
	"github.com/example/influencer-planner/modules/notification"
	"github.com/example/influencer-planner/modules/storage"
	"github.com/example/influencer-planner/modules/web"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Influencer Planner ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	for _, w := range cfg.Warnings() {
		log.Printf("Warning: %s", w)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	// Plugins start before modules; modules receive them via SetPlugin.
	if err := app.RegisterPlugin(storage.NewPluginModule(cfg.Storage, logger), "storage"); err != nil {
		log.Fatalf("Failed to register storage plugin: %v", err)
	}
	if cfg.RedisAddr != "" {
		if err := app.RegisterPlugin(cache.NewPluginModule(cfg.RedisAddr, cfg.CachePrefix, logger), "cache"); err != nil {
			log.Fatalf("Failed to register cache plugin: %v", err)
		}
	}

	// Order: independent modules first, then dependent modules
	app.Register(account.NewModule(cfg.Account, logger))
	app.Register(catalog.NewModule(logger))
	app.Register(notification.NewModule(logger)) // depends on catalog
	app.Register(web.NewModule(cfg.Web, logger)) // depends on all of the above

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config.Config) {
	backend := "sqlite " + cfg.Storage.SQLitePath
	if cfg.Storage.MongoURI != "" {
		backend = "mongodb " + cfg.Storage.MongoDatabase
	}
	sessions := "memory"
	if cfg.RedisAddr != "" {
		sessions = "redis " + cfg.RedisAddr
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("  Storage:  %s", backend)
	log.Printf("  Sessions: %s", sessions)
	log.Println("")
	log.Printf("Web UI (http://localhost:%d):", cfg.Web.Port)
	log.Println("  GET    /login                    - Sign in")
	log.Println("  GET    /                         - Dashboard and calendar")
	log.Println("  GET    /influencers              - Influencer list")
	log.Println("  GET    /tasks                    - Task assignment")
	log.Println("  GET    /performance              - Performance report")
	log.Println("  GET    /settings/general         - Settings")
	log.Println("")
	log.Println("JSON API:")
	log.Println("  POST   /api/v1/auth/login        - Login and get tokens")
	log.Println("  POST   /api/v1/auth/refresh      - Refresh access token")
	log.Println("  GET    /api/v1/me                - Current user and navigation")
	log.Println("  GET    /api/v1/calendar          - Calendar tasks")
	log.Println("  GET    /api/v1/categories        - Categories")
	log.Println("  PATCH  /api/v1/categories/bulk   - Bulk (de)activate categories")
	log.Println("  GET    /api/v1/reports/performance - Performance report")
	log.Println("  GET    /health                   - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
