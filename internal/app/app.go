// Package app assembles the HTTP application from explicitly constructed dependencies.
package app

import (
	"errors"
	"time"

	"eventim/internal/config"
	"eventim/internal/handlers"
	"eventim/internal/middleware"
	"eventim/internal/repositories"
	"eventim/internal/services"
	"eventim/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the long-lived resources owned by the process. Only DB is required.
type Deps struct {
	DB     *gorm.DB
	Logger *zap.Logger
	// SessionStorage backs the session store; nil keeps sessions in memory.
	SessionStorage fiber.Storage
	// Publisher receives domain events; nil drops them.
	Publisher services.Publisher
	// Blobs stores image bytes; nil keeps them inline in the database.
	Blobs storage.BlobStore
	// DisableAccessLog turns off the request logger, e.g. in tests.
	DisableAccessLog bool
}

// New builds the fiber app with all middleware and routes.
func New(cfg *config.Config, deps Deps) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	catalogRepo := repositories.NewGORMCatalogRepository(deps.DB)
	tourRepo := repositories.NewGORMTourRepository(deps.DB)
	venueRepo := repositories.NewGORMVenueRepository(deps.DB)
	eventRepo := repositories.NewGORMEventRepository(deps.DB)
	cartRepo := repositories.NewGORMCartRepository(deps.DB)
	imageRepo := repositories.NewGORMImageRepository(deps.DB)

	// --- Services ---
	imageService := services.NewImageService(imageRepo, deps.Blobs, int64(cfg.MaxUploadBytes()), log)
	authService := services.NewAuthService(userRepo, imageService, deps.Publisher, log, services.AuthConfig{
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	})
	catalogService := services.NewCatalogService(catalogRepo, imageService)
	tourService := services.NewTourService(tourRepo, imageService, deps.Publisher, log)
	venueService := services.NewVenueService(venueRepo, imageService, deps.Publisher, log)
	eventService := services.NewEventService(eventRepo, deps.Publisher, log)
	cartService := services.NewCartService(cartRepo, eventRepo, userRepo, deps.Publisher, log)

	// --- Sessions ---
	sessions := session.New(session.Config{
		Storage:        deps.SessionStorage,
		Expiration:     cfg.SessionExpiration,
		KeyLookup:      "cookie:" + cfg.SessionCookieName,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.IsProduction(),
		CookieSameSite: "Lax",
	})
	auth := middleware.NewAuth(sessions, authService, log)

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:      "eventim",
		BodyLimit:    cfg.MaxUploadBytes() + 1<<20,
		ErrorHandler: errorHandler(log),
	})

	// --- Middleware ---
	app.Use(recover.New())
	if !deps.DisableAccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: cfg.CORSOrigins != "*",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, auth, log).RegisterRoutes(apiV1)
	handlers.NewUserHandler(authService, auth, log).RegisterRoutes(apiV1)
	handlers.NewCatalogHandler(catalogService, log).RegisterRoutes(apiV1)
	handlers.NewTourHandler(tourService, log).RegisterRoutes(apiV1)
	handlers.NewVenueHandler(venueService, log).RegisterRoutes(apiV1)
	handlers.NewEventHandler(eventService, cartService, auth, log).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService, auth, log).RegisterRoutes(apiV1)
	handlers.NewImageHandler(imageService, log).RegisterRoutes(apiV1)

	return app
}

// errorHandler answers errors that escape the handlers, such as unknown routes or an
// oversized body, with the usual {message} shape.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Es ist ein interner Fehler aufgetreten."
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}
