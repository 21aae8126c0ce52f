package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/smartmeal/pantry-service/config"
	"github.com/smartmeal/pantry-service/internal/mailer"
	"github.com/smartmeal/pantry-service/internal/planner"
	"github.com/smartmeal/pantry-service/internal/platform/cache"
	"github.com/smartmeal/pantry-service/internal/platform/logger"
	"github.com/smartmeal/pantry-service/internal/platform/metrics"
	"github.com/smartmeal/pantry-service/internal/platform/postgres"
	"github.com/smartmeal/pantry-service/internal/scan"

	expH "github.com/smartmeal/pantry-service/internal/expiry/handler"
	expUCPkg "github.com/smartmeal/pantry-service/internal/expiry/usecase"
	expWorker "github.com/smartmeal/pantry-service/internal/expiry/worker"

	invH "github.com/smartmeal/pantry-service/internal/inventory/handler"
	invRepoPkg "github.com/smartmeal/pantry-service/internal/inventory/repository"
	invUCPkg "github.com/smartmeal/pantry-service/internal/inventory/usecase"

	mealH "github.com/smartmeal/pantry-service/internal/mealplan/handler"
	mealUCPkg "github.com/smartmeal/pantry-service/internal/mealplan/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logCfg := logger.Config{
		Level:             cfg.Logger.Level,
		Encoding:          cfg.Logger.Encoding,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv != "dev" {
		logCfg.Encoding = "json"
		logCfg.Level = "info"
	}

	appLogger := logger.New(logCfg)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.New(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize collaborators
	appMetrics := metrics.New()
	qrDecoder := scan.NewQRServerClient(cfg.Decoder.BaseURL)
	qrParser := scan.NewParser(nil)
	mailClient := mailer.New(mailer.Config{
		Endpoint: cfg.Mailer.Endpoint,
		APIKey:   cfg.Mailer.APIKey,
		Sender:   cfg.Mailer.Sender,
	})
	planClient := planner.NewOpenAIClient(planner.Config{
		APIKey:  cfg.Planner.APIKey,
		BaseURL: cfg.Planner.BaseURL,
		Model:   cfg.Planner.Model,
	})

	// 6. Initialize Repositories and UseCases
	invRepo := invRepoPkg.NewPGRepository(db)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, redisClient, appMetrics, appLogger)
	expUC := expUCPkg.NewExpiryUseCase(invRepo, mailClient, expUCPkg.Config{
		Recipient:   cfg.Notify.Recipient,
		HorizonDays: cfg.Notify.HorizonDays,
	}, appMetrics, appLogger)
	mealUC := mealUCPkg.NewMealplanUseCase(invRepo, planClient, appMetrics, appLogger)

	// 7. Start notify worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Notify.WorkerEnabled {
		notifyWorker := expWorker.NewWorker(expUC, time.Duration(cfg.Notify.IntervalMinutes)*time.Minute, appLogger)
		go notifyWorker.Start(ctx)
	}

	// 8. Initialize Handlers and Router
	invHandler := invH.NewInventoryHandler(invUC, qrDecoder, qrParser, appLogger)
	expHandler := expH.NewExpiryHandler(expUC, cfg.Notify.HorizonDays, appLogger)
	mealHandler := mealH.NewMealplanHandler(mealUC, appLogger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	invHandler.RegisterRoutes(router)
	expHandler.RegisterRoutes(router)
	mealHandler.RegisterRoutes(router)

	// 9. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	server := &http.Server{
		Addr:              port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
