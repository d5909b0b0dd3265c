package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/cars-practice-api/internal/config"
	"github.com/yourusername/cars-practice-api/internal/domain/repository"
	"github.com/yourusername/cars-practice-api/internal/handler"
	"github.com/yourusername/cars-practice-api/internal/middleware"
	"github.com/yourusername/cars-practice-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/cars-practice-api/internal/repository/redis"
	"github.com/yourusername/cars-practice-api/internal/service"
	"github.com/yourusername/cars-practice-api/pkg/auth"
	"github.com/yourusername/cars-practice-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	isProduction := os.Getenv("GIN_MODE") == "release"
	if isProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), isProduction)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := database.MigrateDB(db, cfg.Database.MigrationsPath); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis необязателен: без него кеш пассажей и rate limit отключены
	var cacheRepo repository.CacheRepository
	if cfg.Redis.Enabled() {
		redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		repo, err := redisRepo.NewCacheRepo(redisClient)
		if err != nil {
			log.Fatalf("Failed to create cache repository: %v", err)
		}
		cacheRepo = repo
		log.Println("[Main] Redis подключен, кеш пассажей и rate limit включены")
	} else {
		log.Println("[Main] Redis не настроен, кеш пассажей и rate limit отключены")
	}

	// Репозитории
	userRepo := postgres.NewUserRepo(db)
	passageRepo := postgres.NewPassageRepo(db)
	questionRepo := postgres.NewQuestionRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	progressRepo := postgres.NewProgressRepo(db)

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Fatalf("Failed to create JWT service: %v", err)
	}

	// Сервисы
	authService, err := service.NewAuthService(userRepo, progressRepo, jwtService)
	if err != nil {
		log.Fatalf("Failed to create auth service: %v", err)
	}
	passageService := service.NewPassageService(passageRepo, cacheRepo, time.Duration(cfg.Cache.PassageTTLMinutes)*time.Minute)
	progressService := service.NewProgressService(progressRepo, sessionRepo)
	sessionService := service.NewSessionService(db, sessionRepo, questionRepo, passageService, progressService)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled && cacheRepo != nil {
		rateLimiter = middleware.NewRateLimiter(cacheRepo)
	}

	// Development: доверяем localhost, production: не доверяем прокси-заголовкам
	var trustedProxies []string
	if !isProduction {
		trustedProxies = []string{"127.0.0.1", "::1"}
	}

	router := handler.SetupRouter(handler.RouterDeps{
		AuthHandler:     handler.NewAuthHandler(authService),
		PassageHandler:  handler.NewPassageHandler(passageService),
		SessionHandler:  handler.NewSessionHandler(sessionService),
		ProgressHandler: handler.NewProgressHandler(progressService),
		AuthMiddleware:  middleware.NewAuthMiddleware(authService),
		RateLimiter:     rateLimiter,
		AuthRateLimit: middleware.RateLimitConfig{
			MaxRequests: cfg.RateLimit.MaxRequests,
			Window:      time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			KeyPrefix:   "rl:auth",
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustedProxies: trustedProxies,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
