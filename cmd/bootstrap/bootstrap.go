package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinical-registry/config"
	deliveryHttp "clinical-registry/internal/delivery/http"
	"clinical-registry/internal/delivery/http/handler"
	"clinical-registry/internal/delivery/http/middleware"
	"clinical-registry/internal/infrastructure/cache"
	"clinical-registry/internal/infrastructure/database"
	"clinical-registry/internal/infrastructure/export"
	"clinical-registry/internal/infrastructure/messaging"
	"clinical-registry/internal/infrastructure/storage"
	"clinical-registry/internal/repository"
	"clinical-registry/internal/service"
	"clinical-registry/internal/usecase"
	"clinical-registry/pkg/jwt"
	"clinical-registry/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config          *config.Config
	Log             *logrus.Logger
	DB              *gorm.DB
	RedisClient     *redis.Client
	Publisher       messaging.EventPublisher
	ExportRefresher *service.ExportRefreshService
	Server          *http.Server
}

// Load reads the configuration and configures the logger.
func Load(envFile string) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, setupLogger(cfg.Log), nil
}

// OpenDatabase connects to the configured database and, when enabled,
// brings the schema up to date.
func OpenDatabase(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := database.NewConnection(cfg.DB, cfg.App.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, cfg.DB); err != nil {
			closeDB(db)
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	log.Infof("Database ready (driver=%s)", cfg.DB.Driver)
	return db, nil
}

// New creates a new App instance with all dependencies initialized
func New(envFile string) (*App, error) {
	cfg, log, err := Load(envFile)
	if err != nil {
		return nil, err
	}

	log.Info("Configuration loaded successfully")
	app := &App{Config: cfg, Log: log}

	app.DB, err = OpenDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	// A nil interface disables the stats cache; a typed nil client would not.
	var statsClient redis.Cmdable
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.RedisClient = redisClient
		statsClient = redisClient
	}

	app.Publisher = messaging.NewEventPublisher(cfg.Kafka, log)

	renderers, err := export.NewRenderers(cfg.Export.Formats)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("invalid export formats: %w", err)
	}

	sinks, err := newSinks(cfg.Export, log)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Repositories
	patientRecordRepo := repository.NewPatientRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Services
	auditService := service.NewAuditService(log, auditLogRepo)
	statsCache := service.NewStatsCache(statsClient, cfg.Redis.StatsTTL, log)

	// Usecases
	exportUsecase := usecase.NewExportUsecase(app.DB, log, patientRecordRepo)
	app.ExportRefresher = service.NewExportRefreshService(exportUsecase, renderers, sinks, cfg.Export.Debounce, log)
	patientRecordUsecase := usecase.NewPatientRecordUsecase(
		app.DB, log, patientRecordRepo, auditService, statsCache, app.Publisher, app.ExportRefresher,
	)
	auditLogUsecase := usecase.NewAuditLogUsecase(app.DB, log, auditLogRepo)

	app.Server = newServer(cfg, log, patientRecordUsecase, exportUsecase, auditLogUsecase)

	// Existing rows get fresh artifacts on startup.
	app.ExportRefresher.Trigger()

	return app, nil
}

func newSinks(cfg config.ExportConfig, log *logrus.Logger) ([]export.Sink, error) {
	sinks := []export.Sink{export.NewDirSink(cfg.Dir)}

	if cfg.S3Bucket != "" {
		client, err := storage.NewS3Client(context.Background(), cfg.S3Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to configure S3: %w", err)
		}
		sinks = append(sinks, storage.NewS3Sink(client, cfg.S3Bucket, cfg.S3Prefix))
		log.Infof("Export artifacts will also be uploaded to s3://%s/%s", cfg.S3Bucket, cfg.S3Prefix)
	}

	return sinks, nil
}

// newServer creates and configures the HTTP server
func newServer(
	cfg *config.Config,
	log *logrus.Logger,
	patientRecordUsecase usecase.PatientRecordUsecase,
	exportUsecase usecase.ExportUsecase,
	auditLogUsecase usecase.AuditLogUsecase,
) *http.Server {
	var jwtService *jwt.JWTService
	if cfg.JWT.Enabled() {
		jwtService = jwt.NewJWTService(cfg.JWT)
	} else {
		log.Warn("JWT_SECRET is not set; mutating routes are open")
	}

	customValidator := validator.NewValidator()

	// Handlers
	patientRecordHandler := handler.NewPatientRecordHandler(patientRecordUsecase, customValidator)
	exportHandler := handler.NewExportHandler(exportUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	recoveryMiddleware := middleware.NewRecoveryMiddleware(log)

	router := deliveryHttp.NewRouter(
		patientRecordHandler,
		exportHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
		recoveryMiddleware,
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and blocks until it stops or the process is
// interrupted.
func (app *App) Run() error {
	serverErr := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		app.Close()
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close stops background work and releases connections. The export
// refresher is stopped first so a pending refresh can still read the
// database.
func (app *App) Close() {
	if app.ExportRefresher != nil {
		app.ExportRefresher.Stop()
	}

	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Log.Warnf("Failed to close event publisher: %v", err)
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	if app.DB != nil {
		closeDB(app.DB)
	}
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}
}
