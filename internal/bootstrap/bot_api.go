package bootstrap

import (
	"github.com/ArthurBash/telegramBot/adapter/in/http"
	"github.com/ArthurBash/telegramBot/config"
	"github.com/ArthurBash/telegramBot/infra/database"
	"github.com/ArthurBash/telegramBot/infra/middleware"
	"github.com/ArthurBash/telegramBot/pkg/logger"
	"github.com/ArthurBash/telegramBot/pkg/response"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// NewAPI builds the Fiber application with health probes and the
// token-protected admin API.
func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	logger.Init(logger.Config{
		Level:   logger.ParseLevel(cfg.LogLevel),
		Service: "categorizer-api",
	})
	// Init is a no-op when main already initialized the default logger,
	// so apply the configured level explicitly.
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		ReadBufferSize:        16384,
		WriteBufferSize:       16384,

		// go-json is a drop-in replacement, noticeably faster than
		// encoding/json
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		BodyLimit:    1 * 1024 * 1024,
		ServerHeader: "",
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
	}))

	// Health check (no auth required)
	healthHandler := http.NewHealthHandler(deps.DB, deps.Redis)
	healthHandler.Register(app)

	// Connection pool statistics for tuning; not exposed in production
	if !cfg.IsProduction() {
		app.Get("/debug/pool", func(c *fiber.Ctx) error {
			return response.OK(c, database.GetPoolStats(deps.DB))
		})
	}

	// Admin API
	api := app.Group("/api/v1")
	api.Use(middleware.AdminAuth(cfg.AdminJWTSecret))

	http.NewCategoryHandler(deps.CategoryService).Register(api)
	http.NewMessageHandler(deps.MessageService).Register(api)

	return app, cleanup, nil
}
