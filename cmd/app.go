package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskboard/internal/caching"
	"taskboard/internal/config"
	"taskboard/internal/handlers"
	"taskboard/internal/jobs"
	"taskboard/internal/jobs/background"
	"taskboard/internal/middleware"
	"taskboard/internal/repositories"
	"taskboard/internal/services"
	"taskboard/pkg/database"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type repositorySet struct {
	customers   repositories.CustomerRepository
	clients     repositories.SocialiteClientRepository
	users       repositories.UserRepository
	locations   repositories.LocationRepository
	topics      repositories.TopicRepository
	profiles    repositories.ProfileRepository
	creds       repositories.CredRepository
	securities  repositories.SecurityRepository
	tasks       repositories.TaskRepository
	documents   repositories.DocumentRepository
	notices     repositories.NotificationRepository
	catalogs    repositories.ReportCatalogRepository
	reports     repositories.ReportRepository
	legalRefs   repositories.LegalRefRepository
	licenses    repositories.LicenseRepository
	assessments repositories.AssessmentRepository
	custom      repositories.TasksReportCustomRepository
}

func newRepositories(db repositories.DBTX) *repositorySet {
	return &repositorySet{
		customers:   repositories.NewCustomerRepo(db),
		clients:     repositories.NewSocialiteClientRepo(db),
		users:       repositories.NewUserRepo(db),
		locations:   repositories.NewLocationRepo(db),
		topics:      repositories.NewTopicRepo(db),
		profiles:    repositories.NewProfileRepo(db),
		creds:       repositories.NewCredRepo(db),
		securities:  repositories.NewSecurityRepo(db),
		tasks:       repositories.NewTaskRepo(db),
		documents:   repositories.NewDocumentRepo(db),
		notices:     repositories.NewNotificationRepo(db),
		catalogs:    repositories.NewReportCatalogRepo(db),
		reports:     repositories.NewReportRepo(db),
		legalRefs:   repositories.NewLegalRefRepo(db),
		licenses:    repositories.NewLicenseRepo(db),
		assessments: repositories.NewAssessmentRepo(db),
		custom:      repositories.NewTasksReportCustomRepo(db),
	}
}

// app owns the process-wide connections and the services built on them.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	queue *asynq.Client
	cache caching.CacheService

	auth          services.AuthService
	sso           services.SSOService
	tenants       services.TenantService
	notifications services.NotificationService
	maintenance   services.MaintenanceService
	router        *handlers.Router
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.pool, err = database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, logger)
	if err != nil {
		return nil, err
	}

	a.redis, err = caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	a.cache = caching.NewRedisCacheService(a.redis, logger)
	a.queue = jobs.NewClient(a.redis)

	storage, err := services.NewMinioStorage(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	repos := newRepositories(a.pool)
	taskCfg := services.TaskConfig{DueSoonWindow: cfg.Scheduler.DueSoonWindow}
	notifier := jobs.NewNotifier(a.queue)

	access := services.NewAccessService(repos.securities)
	a.auth = services.NewAuthService(repos.users, a.cache, services.AuthConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.Issuer,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})
	a.sso = services.NewSSOService(repos.clients, repos.users, a.auth, a.cache, services.SSOConfig{CallbackBase: cfg.Auth.SSOCallbackBase})
	a.tenants = services.NewTenantService(repos.customers, repos.clients, a.cache)
	a.notifications = services.NewNotificationService(repos.notices, repos.users)
	a.maintenance = background.Exclusive(services.NewMaintenanceService(repos.customers, repos.tasks, notifier, a.cache, taskCfg))

	userSvc := services.NewUserService(repos.users, repos.locations, access)
	taskSvc := services.NewTaskService(repos.tasks, repos.locations, repos.topics, repos.users, repos.profiles, access, notifier, a.cache, taskCfg)
	completionSvc := services.NewCompletionService(repos.tasks, access, a.cache, taskCfg)

	a.router = &handlers.Router{
		Auth:         handlers.NewAuthHandlers(a.auth, a.sso, userSvc),
		Tenant:       handlers.NewTenantHandlers(a.tenants),
		Users:        handlers.NewUserHandlers(userSvc),
		Locations:    handlers.NewLocationHandlers(services.NewLocationService(repos.locations, repos.users, access)),
		Topics:       handlers.NewTopicHandlers(services.NewTopicService(repos.topics)),
		Access:       handlers.NewAccessHandlers(services.NewProfileService(repos.profiles, repos.creds, repos.securities, repos.users, repos.locations)),
		Tasks:        handlers.NewTaskHandlers(taskSvc, completionSvc),
		Notification: handlers.NewNotificationHandlers(a.notifications),
		Documents:    handlers.NewDocumentHandlers(services.NewDocumentService(repos.documents, repos.locations, repos.tasks, access, storage, cfg.Storage.PresignedTTL)),
		Reports:      handlers.NewReportHandlers(services.NewReportService(repos.catalogs, repos.reports, repos.locations, access, a.cache)),
		References:   handlers.NewReferenceHandlers(services.NewReferenceService(repos.legalRefs, repos.licenses, repos.users)),
		Assessments: handlers.NewAssessmentHandlers(
			services.NewAssessmentService(repos.assessments, repos.tasks, access),
			services.NewCustomReportService(repos.custom, repos.tasks, repos.locations, access),
		),
		Jobs: handlers.NewJobHandlers(a.maintenance),
		Health: handlers.NewHealthHandlers(version, map[string]handlers.Pinger{
			"database": handlers.PingFunc(a.pool.Ping),
			"redis":    a.cache,
		}),

		AuthService:   a.auth,
		TenantService: a.tenants,
		Guard:         middleware.NewAccessMiddleware(access),
		Version:       middleware.NewVersionMiddleware(),
	}

	return a, nil
}

func (a *app) echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Pre(a.router.Version.APIVersionResolver())

	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(a.logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: a.cfg.Server.CORSOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
		ExposeHeaders: []string{middleware.HeaderAPIVersion, echo.HeaderXRequestID},
	}))

	a.router.Register(e)
	return e
}

// Serve runs the HTTP server and, when enabled, the scheduler until ctx is cancelled.
func (a *app) Serve(ctx context.Context) error {
	e := a.echo()

	if a.cfg.Scheduler.Enabled {
		scheduler, err := background.NewJobScheduler(a.maintenance, a.cfg.Scheduler, a.logger)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				a.logger.Warn().Err(err).Msg("scheduler shutdown")
			}
		}()
	}

	addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().
			Str("addr", addr).
			Str("version", version).
			Str("environment", a.cfg.Server.Environment).
			Msg("taskboard server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func (a *app) Close() {
	if a.sso != nil {
		a.sso.Close()
	}
	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("queue client close")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("redis close")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
