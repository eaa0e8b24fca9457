package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shelter-registry/config"
	deliveryHttp "shelter-registry/internal/delivery/http"
	"shelter-registry/internal/delivery/http/handler"
	"shelter-registry/internal/delivery/http/middleware"
	domainRepo "shelter-registry/internal/domain/repository"
	"shelter-registry/internal/infrastructure/cache"
	"shelter-registry/internal/infrastructure/database"
	"shelter-registry/internal/infrastructure/document"
	"shelter-registry/internal/infrastructure/notifier"
	"shelter-registry/internal/repository"
	"shelter-registry/internal/service"
	"shelter-registry/internal/usecase"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	log.Info("Configuration loaded successfully")

	// Initialize snapshot storage
	repo, err := app.newSnapshotRepository(log)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Initialize the snapshot lock, shared through Redis when enabled
	locker, err := app.newSnapshotLocker(log)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Initialize all layers
	server, err := initializeServer(cfg, log, repo, locker)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

func (app *App) newSnapshotRepository(log *logrus.Logger) (domainRepo.SnapshotRepository, error) {
	cfg := app.Config

	switch cfg.Storage.Driver {
	case config.StorageExcel:
		repo, err := repository.NewExcelSnapshotRepository(cfg.Storage.ExcelPath, cfg.App.Location(), log)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		log.Infof("Using workbook storage at %s", cfg.Storage.ExcelPath)
		return repo, nil

	case config.StoragePostgres:
		db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = db

		repo, err := repository.NewPostgresSnapshotRepository(db)
		if err != nil {
			return nil, err
		}
		log.Info("Using PostgreSQL storage")
		return repo, nil

	case config.StorageMemory:
		log.Warn("Using in-memory storage, the register is lost on shutdown")
		return repository.NewMemorySnapshotRepository(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func (app *App) newSnapshotLocker(log *logrus.Logger) (service.SnapshotLocker, error) {
	cfg := app.Config
	if !cfg.Redis.Enabled {
		return service.NewLocalLocker(), nil
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	return service.NewRedisLocker(redisClient, cfg.Lock.Key, cfg.Lock.TTL, log), nil
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, repo domainRepo.SnapshotRepository, locker service.SnapshotLocker) (*http.Server, error) {
	loc := cfg.App.Location()
	now := func() time.Time { return time.Now().In(loc) }

	// Initialize validator
	customValidator, err := handler.NewRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	// Initialize services
	folioGenerator := service.NewFolioGenerator(log)
	auditService := service.NewAuditService(log)
	documents := document.NewGenerator(cfg.App.ShelterName, loc, now)
	mailer := notifier.NewSMTPNotifier(cfg.SMTP, log)

	// Initialize usecases
	personUsecase := usecase.NewPersonRegistryUsecase(log, repo, locker, folioGenerator, auditService, now)
	surveyUsecase := usecase.NewSurveyUsecase(log, repo, locker, auditService)
	reportUsecase := usecase.NewMovementReportUsecase(log, repo, documents, mailer, now)

	// Initialize handlers
	personHandler := handler.NewPersonHandler(personUsecase, reportUsecase, customValidator)
	surveyHandler := handler.NewSurveyHandler(surveyUsecase, customValidator)
	reportHandler := handler.NewReportHandler(reportUsecase, customValidator)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	requestLoggerMiddleware := middleware.NewRequestLoggerMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(personHandler, surveyHandler, reportHandler, corsMiddleware, requestLoggerMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// In-flight mutations finish their snapshot write before the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
