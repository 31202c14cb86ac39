package app

import (
	"context"
	"errors"
	"time"

	"acms/internal/config"
	"acms/internal/database"
	dbpostgres "acms/internal/database/postgres"
	"acms/internal/delivery/http/handler"
	"acms/internal/delivery/http/middleware"
	v1 "acms/internal/delivery/http/routes/v1"
	"acms/internal/infrastructure/cache"
	"acms/internal/infrastructure/mailer"
	"acms/internal/infrastructure/storage"
	"acms/internal/notification"
	"acms/internal/pkg/jwt"
	"acms/internal/repository"
	"acms/internal/usecase"
	"acms/internal/worker"
	"acms/internal/ws"

	"go.uber.org/zap"
)

type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB      database.DB
	Tx      *database.TxRunner
	Cache   *cache.Redis
	Mailer  mailer.Sender
	Storage *storage.Local
	JWT     jwt.Service
	Pool    *worker.Pool
	Hub     *ws.Hub

	Users    *repository.PostgresUserRepository
	Profiles *repository.PostgresDeveloperProfileRepository

	Auth *usecase.Auth
}

func NewContainer(cfg config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	c, err := Assemble(cfg, db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// Assemble wires every dependency around an open database.
func Assemble(cfg config.Config, db database.DB, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}

	store, err := storage.NewLocal(cfg.Storage, cfg.App.PublicBaseURL, log.Named("storage"))
	if err != nil {
		return nil, err
	}

	pool := worker.NewPool(cfg.Notifications.Workers, cfg.Notifications.Buffer, log.Named("worker"))
	pool.SetRateLimit(cfg.Notifications.RatePerSecond)

	jwtSvc := jwt.NewHMACService(cfg.JWT)
	users := repository.NewPostgresUserRepository(db)

	return &Container{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Tx:       database.NewTxRunner(db),
		Cache:    cache.NewRedis(cfg.Redis, log.Named("cache")),
		Mailer:   mailer.New(cfg.SMTP, log.Named("mailer")),
		Storage:  store,
		JWT:      jwtSvc,
		Pool:     pool,
		Hub:      ws.NewHub(log.Named("ws")),
		Users:    users,
		Profiles: repository.NewPostgresDeveloperProfileRepository(db),
		Auth:     usecase.NewAuthUsecase(users, jwtSvc),
	}, nil
}

// Handlers builds the /api/v1 handlers on top of the container's
// infrastructure.
func (c *Container) Handlers() v1.Handlers {
	categories := repository.NewPostgresCategoryRepository(c.DB)
	skills := repository.NewPostgresSkillRepository(c.DB)
	ratings := repository.NewPostgresSkillRatingRepository(c.DB)
	history := repository.NewPostgresProfileHistoryRepository(c.DB)
	projects := repository.NewPostgresProjectRepository(c.DB)

	invites := usecase.NewInvitationUsecase(
		c.Users,
		c.Profiles,
		c.Tx,
		c.JWT,
		c.Mailer,
		c.Cache,
		usecase.InvitationConfig{
			FrontendURL:    c.Config.App.FrontendURL,
			AllowedDomains: c.Config.Accounts.AllowedEmailDomains,
		},
		c.Logger.Named("invitations"),
	)
	notifier := notification.NewAssignmentNotifier(c.Pool, c.Mailer, c.Hub, c.Config.App.FrontendURL, c.Logger.Named("notification"))

	return v1.Handlers{
		Auth:              handler.NewAuthHandler(c.Auth, invites),
		Users:             handler.NewUserHandler(usecase.NewUserUsecase(c.Users, c.Storage), c.Config.Storage.MaxPhotoSize),
		DeveloperProfiles: handler.NewDeveloperProfileHandler(usecase.NewDeveloperProfileUsecase(c.Profiles, history, ratings, c.Tx)),
		Skills: handler.NewSkillHandler(
			usecase.NewCategoryUsecase(categories, c.Cache),
			usecase.NewSkillUsecase(skills, c.Tx, c.Cache),
			usecase.NewSkillRatingUsecase(c.Profiles, ratings),
		),
		Projects: handler.NewProjectHandler(
			usecase.NewProjectUsecase(projects, c.Profiles, skills, c.Tx, notifier),
			usecase.NewSuggestionUsecase(projects, c.Profiles, c.Tx),
		),
	}
}

func (c *Container) AuthMiddleware() *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(c.Auth)
}

func (c *Container) HealthHandler() *handler.HealthHandler {
	var stats func() map[string]any
	if s, ok := c.DB.(interface{ Stats() map[string]any }); ok {
		stats = s.Stats
	}
	return handler.NewHealthHandler(c.DB, stats)
}

func (c *Container) WSHandler() *ws.Handler {
	return ws.NewHandler(c.Hub, c.Auth, c.Logger.Named("ws"))
}

// Close drains the worker pool before releasing connections.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Pool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := c.Pool.Close(ctx); err != nil {
			errs = append(errs, err)
		}
		cancel()
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
