package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"aptitude-trainer/internal/adapter"
	"aptitude-trainer/internal/cache"
	"aptitude-trainer/internal/config"
	"aptitude-trainer/internal/content"
	"aptitude-trainer/internal/database"
	"aptitude-trainer/internal/domain"
	"aptitude-trainer/internal/handler"
	"aptitude-trainer/internal/logger"
	"aptitude-trainer/internal/middleware"
	"aptitude-trainer/internal/repository"
	"aptitude-trainer/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// User store: one backend, selected by configuration. There is no
	// fallback chain between backends.
	var userRepo repository.UserRepository
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := database.NewSQLXSQLiteDB(cfg.GetDSN())
		if err != nil {
			appLogger.Fatal("Failed to open user database", zap.Error(err))
		}
		if err := database.RunMigrations(db, "migrations"); err != nil {
			appLogger.Fatal("Failed to run migrations", zap.Error(err))
		}
		userRepo = repository.NewSQLXUserRepository(db)
		appLogger.Info("Using sqlite user store", zap.String("path", cfg.Storage.SQLitePath))
	case config.BackendFile:
		userRepo, err = repository.NewFileUserRepository(cfg.Storage.UsersFile)
		if err != nil {
			appLogger.Fatal("Failed to open user file store", zap.Error(err))
		}
		appLogger.Info("Using flat-file user store", zap.String("path", cfg.Storage.UsersFile))
	}

	progressStore := repository.NewProgressStore(cfg.Progress.File)
	library := content.NewLibrary(cfg.Content.Dir)

	// Redis is optional; without it logout has no server-side revocation.
	var denylist domain.TokenDenylist
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		denylist = adapter.NewRedisTokenDenylist(redisClient)
		appLogger.Info("Refresh-token denylist enabled", zap.String("redis", cfg.Redis.Address))
	} else {
		appLogger.Info("Redis not configured, logout is client-side only")
	}

	authService, err := service.NewAuthService(userRepo, denylist, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	quizService := service.NewQuizService(library, progressStore)
	userService := service.NewUserService(userRepo, progressStore, cfg)

	authHandler := handler.NewAuthHandler(authService)
	topicHandler := handler.NewTopicHandler(quizService)
	userHandler := handler.NewUserHandler(userService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", middleware.Protected(authService), authHandler.Logout)

	apiGroup.Get("/topics", topicHandler.ListTopics)
	apiGroup.Get("/topics/:slug", topicHandler.GetTopic)
	apiGroup.Post("/topics/:slug/submit", middleware.Protected(authService), topicHandler.SubmitAnswers)

	userGroup := apiGroup.Group("/users", middleware.Protected(authService))
	userGroup.Get("/me", userHandler.GetMyProfile)
	userGroup.Put("/me", userHandler.UpdateMyProfile)
	userGroup.Get("/me/dashboard", userHandler.GetMyDashboard)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
