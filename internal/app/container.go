package app

import (
	"context"
	"errors"
	"log"
	"time"

	"aegis/internal/config"
	"aegis/internal/database"
	dbpostgres "aegis/internal/database/postgres"
	"aegis/internal/delivery/http/handler"
	"aegis/internal/delivery/http/middleware"
	"aegis/internal/delivery/http/routes"
	"aegis/internal/domain/matching"
	"aegis/internal/infrastructure/cache"
	"aegis/internal/infrastructure/messaging"
	"aegis/internal/infrastructure/persistence/postgres"
	"aegis/internal/pkg/jwt"
	"aegis/internal/repository"
	"aegis/internal/usecase"
	"aegis/internal/ws"
)

// Container owns every long-lived dependency of the server process.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB        database.DB
	Cache     *cache.Redis
	Hub       *ws.Hub
	Publisher *messaging.Publisher
	JWT       *jwt.HMACService
	Engine    *matching.Engine

	Users    *postgres.UserRepository
	Catalog  *usecase.Catalog
	Notifier *usecase.Notifier

	routes *routes.Registry
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, cfg.App.AppName)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, DB: db}
	if err := c.wire(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) wire(ctx context.Context) error {
	cfg := c.Config

	c.Cache = cache.NewRedis(ctx, cfg.Redis, c.Logger)
	c.Hub = ws.NewHub(c.Logger)

	pub, err := messaging.NewPublisher(cfg.AMQP, c.Logger)
	if err != nil {
		// The broker is optional; notifications still reach the database and websockets.
		c.Logger.Printf("[AMQP] disabled: %v", err)
	}
	c.Publisher = pub

	c.JWT = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	vocab := matching.DefaultVocabulary()
	if len(cfg.Matching.Vocabulary) > 0 {
		vocab = matching.NewVocabulary(cfg.Matching.Vocabulary...)
	}
	c.Engine = matching.NewEngine(vocab)

	users, err := postgres.NewUserRepository(ctx, c.DB)
	if err != nil {
		return err
	}
	c.Users = users

	companyRepo := repository.NewPostgresCompanyRepository(c.DB)
	jobRepo := repository.NewPostgresJobRepository(c.DB)
	mentorshipRepo := repository.NewPostgresMentorshipRepository(c.DB)
	notificationRepo := repository.NewPostgresNotificationRepository(c.DB)

	sinks := []usecase.NotificationSink{c.Hub}
	if c.Publisher != nil {
		sinks = append(sinks, c.Publisher)
	}
	c.Notifier = usecase.NewNotifier(c.Logger, sinks...)

	c.Catalog = usecase.NewCatalogUsecase(companyRepo, jobRepo, c.Cache, cfg.Redis.TTL, c.Logger)
	resumeUC := usecase.NewResumeUsecase(c.Engine, c.Catalog, cfg.App.UploadWorkers, c.Logger)
	mentorshipUC := usecase.NewMentorshipUsecase(c.Users, mentorshipRepo, c.Notifier)

	c.routes = &routes.Registry{
		Health:         handler.NewHealthHandler(c.DB, c.Cache),
		Auth:           handler.NewAuthHandler(usecase.NewAuthUsecase(c.Users, c.JWT)),
		User:           handler.NewUserHandler(usecase.NewUserUsecase(c.Users)),
		Catalog:        handler.NewCatalogHandler(c.Catalog),
		Resume:         handler.NewResumeHandler(resumeUC, cfg.App.UploadMaxBytes, cfg.App.UploadMaxFiles),
		Mentorship:     handler.NewMentorshipHandler(mentorshipUC),
		Notification:   handler.NewNotificationHandler(usecase.NewNotificationUsecase(notificationRepo)),
		WS:             ws.NewHandler(c.Hub, c.JWT, cfg.App.CORSOrigins, c.Logger),
		AuthMiddleware: middleware.NewAuthMiddleware(c.JWT),
		UploadLimiter:  middleware.NewRateLimiter(cfg.RateLimit.UploadRPS, cfg.RateLimit.UploadBurst),
	}
	return nil
}

func (c *Container) Routes() *routes.Registry {
	if c == nil {
		return nil
	}
	return c.routes
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Users != nil {
		errs = append(errs, c.Users.Close())
	}
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
