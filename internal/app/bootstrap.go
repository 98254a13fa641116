package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"aegis/internal/config"
	"aegis/internal/database/migration"
	"aegis/internal/database/seeder"
	"aegis/internal/delivery/http/middleware"
	"aegis/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the Fiber app around an already wired route registry.
func New(cfg config.Config, registry *routes.Registry, logger *log.Logger) *fiber.App {
	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: cfg.App.RequestBodyLimit(),
	})

	registerGlobalMiddleware(f, cfg, logger)
	registry.Register(f)

	return f
}

// Bootstrap connects to every backing service, applies migrations, runs
// seeders when enabled and starts the websocket hub. The returned cleanup
// stops the hub and releases connections.
func Bootstrap(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	if logger == nil {
		logger = log.Default()
	}

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("wire container: %w", err)
	}

	src, err := migration.Source(cfg.Database.MigrationsDir)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	runner := migration.Runner{Source: src, Logger: logger}
	if _, err := runner.Run(ctx, c.DB.SQLDB()); err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	if cfg.Database.RunSeeders {
		sr := seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}
		if err := sr.Run(ctx, c.DB); err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
		c.Catalog.InvalidateAll(ctx)
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	go c.Hub.Run(hubCtx)

	app := &App{Fiber: New(cfg, c.Routes(), logger), Container: c}
	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return app, cleanup, nil
}

// registerGlobalMiddleware installs the access log outermost so it sees the
// status written by the error middleware.
func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CORSOrigins,
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
