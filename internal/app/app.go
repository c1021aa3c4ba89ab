package app

import (
	"time"

	"katalog/internal/cache"
	"katalog/internal/handlers"
	"katalog/internal/middleware"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the HTTP app is built from. Cache and
// Publisher are optional.
type Dependencies struct {
	DB            *gorm.DB
	Cache         cache.ProductCache
	Publisher     services.StockEventPublisher
	JWTSecret     string
	JWTTTL        time.Duration
	Logger        *zap.Logger
	AccessLogging bool
}

// New wires repositories, services and handlers into a fiber app.
func New(deps Dependencies) *fiber.App {
	log := deps.Logger

	var productRepo repositories.ProductRepository = repositories.NewGORMProductRepository(deps.DB)
	if deps.Cache != nil {
		productRepo = repositories.NewCachedProductRepository(productRepo, deps.Cache, log.Named("cache"))
	}
	userRepo := repositories.NewGORMUserRepository(deps.DB)

	productService := services.NewProductService(productRepo, deps.Publisher, log.Named("products"))
	authService := services.NewAuthService(userRepo, deps.JWTSecret, deps.JWTTTL, log.Named("auth"))

	productHandler := handlers.NewProductHandler(productService, log.Named("http"))
	validationHandler := handlers.NewValidationHandler()
	authHandler := handlers.NewAuthHandler(authService, log.Named("http"))

	app := fiber.New(fiber.Config{AppName: "katalog"})
	if deps.AccessLogging {
		app.Use(logger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		if sqlDB, err := deps.DB.DB(); err != nil || sqlDB.Ping() != nil {
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
			"events": deps.Publisher != nil,
			"cache":  deps.Cache != nil,
		})
	})

	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	validationHandler.RegisterRoutes(apiV1)

	// Protected routes
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protected)

	return app
}
