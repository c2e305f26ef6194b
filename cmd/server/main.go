package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	directoryapp "github.com/worklane/backend/internal/application/directory"
	financeapp "github.com/worklane/backend/internal/application/finance"
	identityapp "github.com/worklane/backend/internal/application/identity"
	payrollapp "github.com/worklane/backend/internal/application/payroll"
	projectapp "github.com/worklane/backend/internal/application/project"
	"github.com/worklane/backend/internal/infrastructure/auth"
	"github.com/worklane/backend/internal/infrastructure/cache"
	"github.com/worklane/backend/internal/infrastructure/config"
	"github.com/worklane/backend/internal/infrastructure/logger"
	"github.com/worklane/backend/internal/infrastructure/persistence"
	"github.com/worklane/backend/internal/infrastructure/storage"
	"github.com/worklane/backend/internal/interfaces/http/handler"
	"github.com/worklane/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Worklane API
//	@version		1.0
//	@description	Internal business backend: projects, employee directory, payroll and finance ledger.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Worklane backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis-backed stats cache for the finance dashboard
	redisClient := cache.NewRedisClient(cfg.Redis)
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()
	statsCache := cache.NewRedisStatsCache(redisClient, log)

	// Avatar object storage: S3-compatible when configured, stub otherwise
	var avatarStorage directoryapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		avatarStorage = s3Storage
		log.Info("Object storage configured",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("endpoint", cfg.Storage.Endpoint),
		)
	} else {
		avatarStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage not configured, avatar uploads disabled")
	}

	// Repositories
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	salaryRepo := persistence.NewGormSalaryRecordRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	orphanRepo := persistence.NewGormOrphanedLedgerEntryRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	employeeService := directoryapp.NewEmployeeService(employeeRepo, avatarStorage, log)
	projectService := projectapp.NewProjectService(projectRepo, log)
	salaryService := payrollapp.NewSalaryService(salaryRepo, ledgerRepo, employeeRepo, orphanRepo, log)
	ledgerService := financeapp.NewLedgerService(ledgerRepo, statsCache, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.New(router.Config{
		HTTP:       cfg.HTTP,
		JWTService: jwtService,
		Logger:     log,
		Handlers: router.Handlers{
			Auth:     handler.NewAuthHandler(authService),
			Employee: handler.NewEmployeeHandler(employeeService),
			Project:  handler.NewProjectHandler(projectService),
			Salary:   handler.NewSalaryHandler(salaryService),
			Ledger:   handler.NewLedgerHandler(ledgerService),
			System:   handler.NewSystemHandler(db),
		},
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
