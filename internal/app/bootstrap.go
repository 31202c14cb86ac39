package app

import (
	"context"
	"fmt"
	"strings"

	"acms/internal/config"
	"acms/internal/delivery/http/middleware"
	"acms/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application over an existing container.
func New(cfg config.Config, c *Container) *App {
	bodyLimit := 4 << 20
	if limit := int(cfg.Storage.MaxPhotoSize) + 1<<20; limit > bodyLimit {
		bodyLimit = limit
	}

	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: bodyLimit,
	})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects every dependency, applies migrations and seeders when
// configured and returns the app with its cleanup function.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Database.RunMigrations {
		if err := Migrate(ctx, c.DB, cfg.Database, c.Logger); err != nil {
			_ = c.Close()
			return nil, nil, err
		}
	}
	if cfg.Database.RunSeeders {
		if err := Seed(ctx, c.DB, c.Logger); err != nil {
			_ = c.Close()
			return nil, nil, err
		}
	}

	return New(cfg, c), c.Close, nil
}

// Start runs the background workers until ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	if a == nil || a.Container == nil {
		return
	}
	a.Container.Pool.Start(ctx)
	go a.Container.Hub.Run(ctx)
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(log.Named("http"))
	app.Use(accessMw.Middleware())

	errMw := middleware.NewErrorMiddleware(log.Named("http"))
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	registry := routes.NewRegistry(
		c.HealthHandler(),
		c.AuthMiddleware(),
		c.Handlers(),
		c.WSHandler(),
		routes.Uploads{Dir: c.Storage.Dir(), Prefix: c.Storage.PublicPrefix()},
	)
	registry.Register(app)
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
