package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alartmed/config"
	deliveryHttp "alartmed/internal/delivery/http"
	"alartmed/internal/delivery/http/handler"
	"alartmed/internal/delivery/http/middleware"
	"alartmed/internal/gateway"
	"alartmed/internal/infrastructure/cache"
	"alartmed/internal/infrastructure/database"
	"alartmed/internal/repository"
	"alartmed/internal/service"
	"alartmed/internal/session"
	"alartmed/internal/usecase"
	"alartmed/pkg/jwt"
	"alartmed/pkg/validator"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const cookieMaxAge = 7 * 24 * 60 * 60

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Registry    *session.Registry
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

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	// Initialize all layers
	router, registry := NewRouter(cfg, db, redisClient, log)
	app.Registry = registry
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// NewRouter wires repositories, the auth gateway, client sessions, usecases and
// handlers into the HTTP router. The returned registry owns every client session.
func NewRouter(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) (http.Handler, *session.Registry) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	identityRepo := repository.NewIdentityRepository()
	profileRepo := repository.NewProfileRepository()
	specialtyRepo := repository.NewSpecialtyRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	medicationRepo := repository.NewMedicationRepository(log)
	examRepo := repository.NewExamRepository()
	notificationRepo := repository.NewNotificationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize auth gateway and client sessions
	backend := gateway.NewBackend(db, redisClient, identityRepo, jwtService, gateway.NewLogMailer(log), log)
	registry := session.NewRegistry(cfg.Session.IdleTTL, func(persisted *gateway.Session) *session.Holder {
		return session.NewHolder(backend.NewClient(persisted), db, profileRepo, cfg.App.PublicURL, log)
	}, log)

	cookieStore := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   cfg.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}

	// Initialize services
	auditService := service.NewAuditService(db, log, auditLogRepo)

	// Initialize usecases
	location := cfg.App.Location()
	authUsecase := usecase.NewAuthUsecase(log, backend, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, specialtyRepo, notificationRepo, auditService, location, time.Now)
	medicationUsecase := usecase.NewMedicationUsecase(db, log, medicationRepo, notificationRepo, auditService)
	examUsecase := usecase.NewExamUsecase(db, log, examRepo, notificationRepo)
	notificationUsecase := usecase.NewNotificationUsecase(db, log, notificationRepo)
	dashboardUsecase := usecase.NewDashboardUsecase(db, log, appointmentRepo, medicationRepo, examRepo, notificationRepo)
	specialtyUsecase := usecase.NewSpecialtyUsecase(db, log, specialtyRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cookieStore, registry, log)

	// Initialize handlers and router
	router := deliveryHttp.NewRouter(deliveryHttp.Handlers{
		Auth:         handler.NewAuthHandler(authUsecase, authMiddleware, customValidator),
		Appointment:  handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Medication:   handler.NewMedicationHandler(medicationUsecase, customValidator),
		Exam:         handler.NewExamHandler(examUsecase),
		Notification: handler.NewNotificationHandler(notificationUsecase),
		Dashboard:    handler.NewDashboardHandler(dashboardUsecase),
		Specialty:    handler.NewSpecialtyHandler(specialtyUsecase),
		AuditLog:     handler.NewAuditLogHandler(auditLogUsecase),
	}, deliveryHttp.Middlewares{
		Auth:    authMiddleware,
		CORS:    middleware.NewCORSMiddleware(cfg.App.PublicURL),
		Logger:  middleware.NewLoggerMiddleware(log),
		Recover: middleware.NewRecoverMiddleware(log),
	})

	return router.Setup(), registry
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

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close client sessions and connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close tears down client sessions, then closes database and Redis connections
func (app *App) Close() {
	if app.Registry != nil {
		app.Registry.Close()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
