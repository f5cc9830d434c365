package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"engilearn/backend/cache"
	"engilearn/backend/config"
	"engilearn/backend/database"
	"engilearn/backend/gamification"
	"engilearn/backend/metrics"
	"engilearn/backend/middleware"
	"engilearn/backend/routes"
	"engilearn/backend/scheduler"
	"engilearn/backend/services"
	"engilearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Format:       cfg.LogFormat,
		EnableColors: cfg.LogFormat != "json",
	})

	// Initialize database
	conn, err := database.Open(cfg, logger)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer conn.Close()

	if err := conn.Migrate(); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	if cfg.SeedData {
		if err := conn.Seed(logger); err != nil {
			log.Fatalf("Error seeding database: %v", err)
		}
	}

	m := metrics.New()

	// Stats cache: Redis when configured, in-process otherwise
	var stats cache.StatsCache = cache.NewMemoryStatsCache(cfg.StatsCacheTTL)
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.RedisURL)
	if err != nil {
		logger.Printf("Redis unavailable, using in-memory stats cache: %v", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		stats = cache.NewRedisStatsCache(redisClient, cfg.StatsCacheTTL)
		logger.Println("Using Redis stats cache")
	}

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithMetrics(m),
		services.WithStatsCache(stats),
		services.WithRewards(gamification.Rewards{
			LessonComplete: cfg.XPLessonComplete,
			DailyLogin:     cfg.XPDailyLogin,
			Streak7Days:    cfg.XPStreak7Days,
			Streak30Days:   cfg.XPStreak30Days,
		}),
	}
	svc := routes.Services{
		Accounts:     services.NewAccountService(conn.DB, opts...),
		Gamification: services.NewGamificationService(conn.DB, opts...),
		Progress:     services.NewProgressService(conn.DB, opts...),
		Catalog:      services.NewCatalogService(conn.DB, opts...),
	}

	jobs := scheduler.New(conn.DB, logger, m, stats)
	if err := jobs.Start(cfg.ReconcileAt); err != nil {
		log.Fatalf("Error starting scheduler: %v", err)
	}
	defer jobs.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{AppName: "EngiLearn API"})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger, true))

	// Setup routes
	routes.SetupRoutes(app, conn, cfg, svc, m, logger)

	// Start server
	go func() {
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			logger.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Printf("Error during shutdown: %v", err)
	}
}
