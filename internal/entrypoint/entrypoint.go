package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	auditrepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/database/comments"
	"github.com/mrlokans/bookcatalog/internal/database/settings"
	"github.com/mrlokans/bookcatalog/internal/database/users"
	http_controllers "github.com/mrlokans/bookcatalog/internal/http"
	"github.com/mrlokans/bookcatalog/internal/scheduler"
	"github.com/mrlokans/bookcatalog/internal/settingsstore"
	"github.com/mrlokans/bookcatalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App is a fully wired catalog server.
type App struct {
	Router   *gin.Engine
	Shutdown ShutdownFunc
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// In-flight requests finish before the stores they use are closed.
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info().Msg("server exiting")
}

// Migrate applies pending schema migrations and exits.
func Migrate(ctx context.Context, cfg *config.Config) error {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Migrate(ctx)
}

// CleanupAudit deletes audit events older than the configured retention.
func CleanupAudit(ctx context.Context, cfg *config.Config) (int64, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	retentionDays := cfg.Audit.RetentionDays
	if retentionDays <= 0 {
		retentionDays = tasks.DefaultAuditRetentionDays
	}
	service := audit.NewService(auditrepo.NewRepository(db.DB))
	return service.DeleteOldEvents(ctx, time.Duration(retentionDays)*24*time.Hour)
}

// Build opens the database and wires every component of the server.
func Build(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := db.SQLDB()
	if err != nil {
		db.Close()
		return nil, err
	}

	secrets := settingsstore.New(settings.NewRepository(db.DB), cfg.Auth.SessionSecret, auth.GenerateSessionSecret)
	secret, err := secrets.SessionSecret(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load session secret: %w", err)
	}
	log.Info().Str("source", secret.Source).Msg("session secret loaded")

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	bookStore := books.NewRepository(db.DB)
	commentStore := comments.NewRepository(db.DB)
	authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
	sessionManager := auth.NewSessionManager(sqlDB, cfg.Auth)
	limiter := auth.NewRateLimiter(cfg.Auth)

	if !cfg.Auth.SecureCookies {
		log.Warn().Msg("secure cookies disabled; set AUTH_SECURE_COOKIES=true when serving over HTTPS")
	}

	// Audit cleanup goes through the task queue when it is enabled so a slow
	// delete never runs on the scheduler goroutine.
	var taskClient *tasks.Client
	taskCtx, taskCancel := context.WithCancel(context.Background())
	cleanup := func(ctx context.Context, task tasks.CleanupAuditEventsTask) error {
		return tasks.CleanupAuditEventsProcessor(auditService)(ctx, task)
	}
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromConfig(cfg.Tasks))
		if err != nil {
			taskCancel()
			sessionManager.Close()
			limiter.Stop()
			db.Close()
			return nil, fmt.Errorf("failed to start task queue: %w", err)
		}
		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService))
		go taskClient.Start(taskCtx)
		cleanup = func(_ context.Context, task tasks.CleanupAuditEventsTask) error {
			_, err := taskClient.Add(task).Save()
			return err
		}
	}

	auditCleanup := scheduler.NewAuditCleanupScheduler(cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays, cleanup)
	if err := auditCleanup.Start(taskCtx); err != nil {
		log.Error().Err(err).Msg("audit cleanup scheduler not started")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:          bookStore,
		Comments:       commentStore,
		Accounts:       authService,
		Sessions:       sessionManager,
		AuthMiddleware: auth.NewMiddleware(authService, sessionManager),
		Limiter:        limiter,
		Audit:          auditService,
		Health:         db,
		CSRFSecret:     secret.Secret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Version:        version,
	})

	shutdown := func(ctx context.Context) {
		auditCleanup.Stop()
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		taskCancel()
		if taskClient != nil {
			if err := taskClient.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close task queue")
			}
		}
		auditService.Wait()
		sessionManager.Close()
		limiter.Stop()
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}

	return &App{Router: router, Shutdown: shutdown}, nil
}

func Run(cfg *config.Config, version string) {
	log.Info().Str("version", version).Msg("starting book catalog")

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := Build(context.Background(), cfg, version)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}

	Serve(app.Router, cfg, app.Shutdown)
}
