package routes

import (
	"context"
	"log"
	"time"

	"engilearn/backend/config"
	"engilearn/backend/controllers"
	"engilearn/backend/database"
	"engilearn/backend/metrics"
	"engilearn/backend/middleware"
	"engilearn/backend/services"
	"engilearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the domain services the HTTP layer talks to.
type Services struct {
	Accounts     *services.AccountService
	Gamification *services.GamificationService
	Progress     *services.ProgressService
	Catalog      *services.CatalogService
}

func SetupRoutes(app *fiber.App, conn *database.Connection, cfg *config.Config, svc Services, m *metrics.Metrics, logger *log.Logger) {
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := conn.Ping(ctx); err != nil {
			logger.Printf("Health check failed: %v", err)
			return utils.Error(c, fiber.StatusServiceUnavailable, err)
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	optionalAuth := middleware.OptionalAuthMiddleware(cfg)

	api := app.Group("/api")

	// Auth routes
	authController := controllers.NewAuthController(svc.Accounts, svc.Gamification, cfg, logger)
	userController := controllers.NewUserController(svc.Accounts, svc.Progress, logger)
	auth := api.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)
	auth.Get("/profile", authMiddleware, userController.GetProfile)
	auth.Put("/profile", authMiddleware, userController.UpdateProfile)

	// Courses routes
	coursesController := controllers.NewCoursesController(svc.Catalog, logger)
	analyticsController := controllers.NewAnalyticsController(svc.Progress, logger)
	courses := api.Group("/courses")
	courses.Get("/", optionalAuth, coursesController.ListCourses)
	courses.Get("/:id", optionalAuth, coursesController.GetCourse)
	courses.Post("/", authMiddleware, coursesController.CreateCourse)
	courses.Post("/:id/lessons", authMiddleware, coursesController.AddLesson)
	courses.Post("/:id/enroll", authMiddleware, coursesController.Enroll)
	courses.Get("/:id/analytics", authMiddleware, analyticsController.GetCourseAnalytics)

	// Progress routes
	progressController := controllers.NewProgressController(svc.Progress, logger)
	progress := api.Group("/progress", authMiddleware)
	progress.Get("/dashboard", progressController.GetDashboard)
	progress.Get("/stats", progressController.GetStats)
	progress.Get("/lesson/:lessonId", progressController.GetLessonProgress)
	progress.Post("/lesson/:lessonId", progressController.UpdateLessonProgress)
	progress.Get("/course/:courseId", progressController.GetCourseProgress)
}
