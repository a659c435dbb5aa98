package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-management-api/config"
	deliveryHttp "hospital-management-api/internal/delivery/http"
	"hospital-management-api/internal/delivery/http/handler"
	"hospital-management-api/internal/delivery/http/middleware"
	"hospital-management-api/internal/infrastructure/cache"
	"hospital-management-api/internal/infrastructure/database"
	"hospital-management-api/internal/repository"
	"hospital-management-api/internal/service"
	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/jwt"
	"hospital-management-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Log: NewLogger(cfg)}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.Log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.Log.Info("Redis connected successfully")

	// Initialize all layers
	app.Server = initializeServer(cfg, app.Log, db, redisClient)

	return app, nil
}

// NewLogger configures the standard logrus logger from config
func NewLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	transactor := database.NewTransactor(db)

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	wardRepo := repository.NewWardRepository()
	bedRepo := repository.NewBedRepository()
	allocationRepo := repository.NewBedAllocationRepository()
	bedRequestRepo := repository.NewBedRequestRepository()
	billRepo := repository.NewBillRepository()
	notificationRepo := repository.NewNotificationRepository()

	// Initialize domain services
	notificationService := service.NewNotificationService(log, notificationRepo, userRepo)
	bedManager := service.NewBedAllocationManager(log, bedRepo, allocationRepo)
	feeCalculator := service.NewFeeCalculator(service.NewDiscountPolicy())
	invoiceGenerator := service.NewInvoiceNumberGenerator(redisClient, log, cfg.Billing.InvoicePrefix)

	// Initialize usecases
	billingUsecase := usecase.NewBillingUsecase(transactor, log, billRepo, appointmentRepo, doctorProfileRepo,
		allocationRepo, bedRepo, feeCalculator, invoiceGenerator, notificationService)
	bedUsecase := usecase.NewBedUsecase(transactor, log, wardRepo, bedRepo, allocationRepo, patientProfileRepo, bedManager, notificationService)
	bedRequestUsecase := usecase.NewBedRequestUsecase(transactor, log, bedRequestRepo, appointmentRepo, bedRepo, bedManager, notificationService)
	appointmentUsecase := usecase.NewAppointmentUsecase(transactor, log, appointmentRepo, doctorProfileRepo, notificationService)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(transactor, log, prescriptionRepo, appointmentRepo, bedRequestRepo, notificationService)
	notificationUsecase := usecase.NewNotificationUsecase(transactor, log, notificationRepo)

	// Initialize handlers
	billingHandler := handler.NewBillingHandler(billingUsecase, customValidator)
	bedHandler := handler.NewBedHandler(bedUsecase, customValidator)
	bedRequestHandler := handler.NewBedRequestHandler(bedRequestUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, prescriptionUsecase, customValidator)
	prescriptionHandler := handler.NewPrescriptionHandler(prescriptionUsecase, customValidator)
	notificationHandler := handler.NewNotificationHandler(notificationUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowedOrigins...)

	// Initialize router
	router := deliveryHttp.NewRouter(billingHandler, bedHandler, bedRequestHandler, appointmentHandler,
		prescriptionHandler, notificationHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	errCh := make(chan error, 1)

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	app.shutdown()
	return nil
}

func (app *App) shutdown() {
	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
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
